package dto

import "time"

// CreateAlertRequest is the desktop-client ingestion shape: the caller names
// the violation itself instead of sending raw detector output. The session is
// resolved by id when given, otherwise by the exam/student pair.
type CreateAlertRequest struct {
	SessionID   *uint             `json:"session_id"`
	ExamID      *uint             `json:"exam_id"`
	StudentID   string            `json:"student_id" validate:"omitempty,uuid4"`
	Type        string            `json:"type" validate:"required"`
	Severity    string            `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string            `json:"description" validate:"required"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type AlertResponse struct {
	Id          uint      `json:"id"`
	SessionID   *uint     `json:"session_id,omitempty"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

// AlertMessage is the websocket wire frame pushed to subscribers.
type AlertMessage struct {
	Type  string       `json:"type"`
	Alert AlertPayload `json:"alert"`
}

type AlertPayload struct {
	Id          uint   `json:"id"`
	SessionID   *uint  `json:"session_id,omitempty"`
	ExamID      *uint  `json:"exam_id,omitempty"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	Resolved    bool   `json:"resolved"`
}
