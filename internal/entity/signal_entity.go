package entity

// Modality identifies which detector produced a signal.
type Modality string

const (
	ModalityFace   Modality = "face"
	ModalityObject Modality = "object"
	ModalityAudio  Modality = "audio"
	ModalityGaze   Modality = "gaze"
)

// SignalKind is the classifier tag attached by a detector adapter.
type SignalKind string

const (
	SignalFaceNotDetected        SignalKind = "face_not_detected"
	SignalMultipleFaces          SignalKind = "multiple_faces"
	SignalFaceVerificationFailed SignalKind = "face_verification_failed"
	SignalGazeAway               SignalKind = "gaze_away"
	SignalSuspiciousObject       SignalKind = "suspicious_object"
	SignalSuspiciousAudio        SignalKind = "suspicious_audio"
	SignalNone                   SignalKind = ""
)

// Signal is one normalized detector observation for a single surveillance
// tick. Signals are ephemeral: the aggregator consumes them immediately and
// nothing persists them.
type Signal struct {
	Modality   Modality
	Kind       SignalKind
	Confidence float64 // [0,1]
	Detected   bool
	Note       string

	// ObjectSeverity carries the classifier's own per-class severity for
	// object signals ("high"/"medium"). Empty for other modalities.
	ObjectSeverity string
}
