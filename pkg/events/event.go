package events

import "time"

// Domain event codes published to the bus.
const (
	TypeAlertCreated     = "ALERT_CREATED"
	TypeAlertResolved    = "ALERT_RESOLVED"
	TypeSessionStarted   = "SESSION_STARTED"
	TypeSessionCompleted = "SESSION_COMPLETED"
	TypeSessionTerminate = "SESSION_TERMINATED"
	TypeUserRegistered   = "USER_REGISTERED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ALERT_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
