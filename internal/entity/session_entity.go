package entity

// SessionStatus is the lifecycle state of an exam session.
// Both completed and terminated are terminal.
type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionCompleted  SessionStatus = "completed"
	SessionTerminated SessionStatus = "terminated"
)

// Terminal reports whether no further transition may leave this status.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionTerminated
}
