package entity

// Severity classifies a single alert.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskLevel summarizes all signals of one surveillance tick.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AlertDraft is an alert decided by the aggregator but not yet persisted.
// The store assigns the id and timestamp.
type AlertDraft struct {
	Type        SignalKind
	Severity    Severity
	Description string
	Weight      float64
}
