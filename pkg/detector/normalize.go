// Package detector normalizes raw per-modality detector output into the
// Signal values the risk aggregator consumes. Every Normalize* function is
// total: malformed or missing payloads become a zero-confidence,
// not-detected signal so a broken detector can never abort the tick for the
// other modalities. A zero signal is "no evidence", which is deliberately
// distinct from a well-formed result reporting a violation.
package detector

import (
	"encoding/json"
	"fmt"

	"proctoflex-be/internal/entity"
)

func zeroSignal(m entity.Modality) entity.Signal {
	return entity.Signal{Modality: m, Kind: entity.SignalNone, Confidence: 0, Detected: false}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NormalizeFace maps a face-analysis result. A well-formed result with zero
// faces is evidence of absence and tagged face_not_detected; an unparsable
// payload is no evidence at all.
func NormalizeFace(raw json.RawMessage) entity.Signal {
	if len(raw) == 0 {
		return zeroSignal(entity.ModalityFace)
	}
	var res FaceResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return zeroSignal(entity.ModalityFace)
	}

	sig := entity.Signal{
		Modality:   entity.ModalityFace,
		Confidence: clamp(res.Confidence),
		Detected:   res.FaceCount > 0,
	}

	switch {
	case res.FaceCount == 0:
		sig.Kind = entity.SignalFaceNotDetected
		sig.Note = "no face present in frame"
	case res.MultipleFaces || res.FaceCount > 1:
		sig.Kind = entity.SignalMultipleFaces
		sig.Note = fmt.Sprintf("%d faces present in frame", res.FaceCount)
	}
	return sig
}

// NormalizeGaze maps a gaze-tracking result.
func NormalizeGaze(raw json.RawMessage) entity.Signal {
	if len(raw) == 0 {
		return zeroSignal(entity.ModalityGaze)
	}
	var res GazeResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return zeroSignal(entity.ModalityGaze)
	}

	sig := entity.Signal{
		Modality:   entity.ModalityGaze,
		Confidence: clamp(res.Confidence),
		Detected:   true,
	}
	if !res.LookingAtScreen {
		sig.Kind = entity.SignalGazeAway
		sig.Note = "gaze directed away from screen"
	}
	return sig
}

// NormalizeObject maps an object-detection result. The classifier's strongest
// per-class severity rides along on the signal; the aggregator decides the
// alert severity from it.
func NormalizeObject(raw json.RawMessage) entity.Signal {
	if len(raw) == 0 {
		return zeroSignal(entity.ModalityObject)
	}
	var res ObjectResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return zeroSignal(entity.ModalityObject)
	}
	if len(res.Detections) == 0 {
		sig := zeroSignal(entity.ModalityObject)
		sig.Detected = false
		return sig
	}

	strongest := ""
	maxConf := 0.0
	rank := map[string]int{"low": 1, "medium": 2, "high": 3}
	for _, d := range res.Detections {
		if rank[d.Severity] > rank[strongest] {
			strongest = d.Severity
		}
		if d.Confidence > maxConf {
			maxConf = d.Confidence
		}
	}

	return entity.Signal{
		Modality:       entity.ModalityObject,
		Kind:           entity.SignalSuspiciousObject,
		Confidence:     clamp(maxConf),
		Detected:       true,
		Note:           fmt.Sprintf("%d suspicious object(s) in frame", len(res.Detections)),
		ObjectSeverity: strongest,
	}
}

// NormalizeAudio maps an audio-analysis result. The suspicious flag comes
// from the analyzer itself; nothing here is probabilistic.
func NormalizeAudio(raw json.RawMessage) entity.Signal {
	if len(raw) == 0 {
		return zeroSignal(entity.ModalityAudio)
	}
	var res AudioResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return zeroSignal(entity.ModalityAudio)
	}

	sig := entity.Signal{
		Modality:   entity.ModalityAudio,
		Confidence: clamp(res.Confidence),
		Detected:   true,
	}
	if res.SuspiciousSounds {
		sig.Kind = entity.SignalSuspiciousAudio
		sig.Note = "suspicious sounds in environment"
	}
	return sig
}

// NormalizeVerification maps an identity-verification outcome onto the face
// modality. A failed verification is a positive observation, not absence.
func NormalizeVerification(res VerificationResult) entity.Signal {
	sig := entity.Signal{
		Modality:   entity.ModalityFace,
		Confidence: clamp(res.Confidence),
		Detected:   true,
	}
	if !res.Verified {
		sig.Kind = entity.SignalFaceVerificationFailed
		sig.Note = fmt.Sprintf("verification confidence %.2f below threshold %.2f", res.Confidence, res.Threshold)
	}
	return sig
}
