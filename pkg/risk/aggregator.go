// Package risk turns the normalized signals of one surveillance tick into
// severity-classified alert drafts and an overall risk level for the
// session. The mapping is a fixed trigger table: identical signal sets
// always yield identical drafts and the same risk bucket.
package risk

import (
	"proctoflex-be/internal/entity"
)

// Numeric risk weights per trigger, averaged into the tick's risk level.
const (
	weightFaceNotDetected    = 0.3
	weightGazeAway           = 0.4
	weightSuspiciousAudio    = 0.5
	weightVerificationFailed = 0.7
	weightObjectMedium       = 0.7
	weightMultipleFaces      = 0.8
	weightObjectHigh         = 0.9
)

// Aggregate applies the trigger table to the signals of one tick. Signals
// that carry no triggering kind contribute nothing: a zero signal from a
// failed detector is "no evidence", never a violation. With zero triggers
// the risk level is RiskNone.
func Aggregate(signals []entity.Signal) ([]entity.AlertDraft, entity.RiskLevel) {
	var drafts []entity.AlertDraft

	for _, sig := range signals {
		if draft, ok := evaluate(sig); ok {
			drafts = append(drafts, draft)
		}
	}

	return drafts, level(drafts)
}

func evaluate(sig entity.Signal) (entity.AlertDraft, bool) {
	switch sig.Kind {
	case entity.SignalFaceNotDetected:
		return entity.AlertDraft{
			Type:        sig.Kind,
			Severity:    entity.SeverityMedium,
			Description: "Face not detected - the student may not be present",
			Weight:      weightFaceNotDetected,
		}, true

	case entity.SignalMultipleFaces:
		return entity.AlertDraft{
			Type:        sig.Kind,
			Severity:    entity.SeverityHigh,
			Description: "Multiple faces detected - unauthorized person possible",
			Weight:      weightMultipleFaces,
		}, true

	case entity.SignalFaceVerificationFailed:
		return entity.AlertDraft{
			Type:        sig.Kind,
			Severity:    entity.SeverityHigh,
			Description: "Identity verification failed: " + sig.Note,
			Weight:      weightVerificationFailed,
		}, true

	case entity.SignalGazeAway:
		return entity.AlertDraft{
			Type:        sig.Kind,
			Severity:    entity.SeverityMedium,
			Description: "Gaze directed away from the screen",
			Weight:      weightGazeAway,
		}, true

	case entity.SignalSuspiciousObject:
		switch sig.ObjectSeverity {
		case "high":
			return entity.AlertDraft{
				Type:        sig.Kind,
				Severity:    entity.SeverityCritical,
				Description: "Suspicious objects detected: " + sig.Note,
				Weight:      weightObjectHigh,
			}, true
		case "medium":
			return entity.AlertDraft{
				Type:        sig.Kind,
				Severity:    entity.SeverityHigh,
				Description: "Suspicious objects detected: " + sig.Note,
				Weight:      weightObjectMedium,
			}, true
		}
		// low-severity classes are noted by the classifier but not alertable
		return entity.AlertDraft{}, false

	case entity.SignalSuspiciousAudio:
		return entity.AlertDraft{
			Type:        sig.Kind,
			Severity:    entity.SeverityMedium,
			Description: "Suspicious sounds detected in the environment",
			Weight:      weightSuspiciousAudio,
		}, true
	}

	return entity.AlertDraft{}, false
}

var riskRank = map[entity.RiskLevel]int{
	entity.RiskNone:     0,
	entity.RiskLow:      1,
	entity.RiskMedium:   2,
	entity.RiskHigh:     3,
	entity.RiskCritical: 4,
}

func severityCeiling(s entity.Severity) entity.RiskLevel {
	switch s {
	case entity.SeverityCritical:
		return entity.RiskCritical
	case entity.SeverityHigh:
		return entity.RiskHigh
	case entity.SeverityMedium:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}

// level buckets the arithmetic mean of the draft weights, capped at the
// strongest draft's severity so a tick can never be ranked above the worst
// thing actually observed in it.
func level(drafts []entity.AlertDraft) entity.RiskLevel {
	if len(drafts) == 0 {
		return entity.RiskNone
	}

	sum := 0.0
	ceiling := entity.RiskLow
	for _, d := range drafts {
		sum += d.Weight
		if c := severityCeiling(d.Severity); riskRank[c] > riskRank[ceiling] {
			ceiling = c
		}
	}
	mean := sum / float64(len(drafts))

	var bucket entity.RiskLevel
	switch {
	case mean >= 0.7:
		bucket = entity.RiskCritical
	case mean >= 0.5:
		bucket = entity.RiskHigh
	case mean >= 0.3:
		bucket = entity.RiskMedium
	default:
		bucket = entity.RiskLow
	}

	if riskRank[bucket] > riskRank[ceiling] {
		return ceiling
	}
	return bucket
}
