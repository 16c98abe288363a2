package dto

import (
	"encoding/json"

	"proctoflex-be/internal/entity"
)

// AnalyzeRequest carries one surveillance tick: the raw detector payloads for
// whichever modalities ran this cycle. Absent modalities are simply omitted.
type AnalyzeRequest struct {
	SessionID uint            `json:"session_id" validate:"required"`
	Face      json.RawMessage `json:"face,omitempty"`
	Gaze      json.RawMessage `json:"gaze,omitempty"`
	Object    json.RawMessage `json:"object,omitempty"`
	Audio     json.RawMessage `json:"audio,omitempty"`
}

type AnalyzeResponse struct {
	SessionID uint             `json:"session_id"`
	RiskLevel entity.RiskLevel `json:"risk_level"`
	AlertIds  []uint           `json:"alert_ids"`
	Alerts    []AlertResponse  `json:"alerts"`
}

// VerifyIdentityRequest carries the live face embedding captured at the
// start of an exam, to be compared against the student's enrolled profile.
type VerifyIdentityRequest struct {
	ExamID    uint      `json:"exam_id" validate:"required"`
	Embedding []float32 `json:"embedding" validate:"required,min=1"`
}

type VerifyIdentityResponse struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
}

// EnrollFaceRequest stores the reference embedding for the current user.
type EnrollFaceRequest struct {
	Embedding []float32 `json:"embedding" validate:"required,min=1"`
}

type StartSessionRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

type SessionResponse struct {
	Id             uint             `json:"id"`
	ExamID         uint             `json:"exam_id"`
	StudentID      string           `json:"student_id"`
	Status         string           `json:"status"`
	StartedAt      string           `json:"started_at"`
	EndedAt        *string          `json:"ended_at,omitempty"`
	RiskLevel      entity.RiskLevel `json:"risk_level,omitempty"`
	VideoPath      string           `json:"video_path,omitempty"`
	AudioPath      string           `json:"audio_path,omitempty"`
	ScreenCaptures []string         `json:"screen_captures,omitempty"`
}

// CaptureRequest references media recorded during a session. Archiving onto
// the session row happens asynchronously.
type CaptureRequest struct {
	SessionID uint   `json:"session_id" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=video audio screen"`
	Path      string `json:"path" validate:"required"`
}

type DashboardStatsResponse struct {
	ActiveSessions    int64 `json:"active_sessions"`
	MonitoredStudents int64 `json:"monitored_students"`
	UnresolvedAlerts  int64 `json:"unresolved_alerts"`
	PlannedExams      int64 `json:"planned_exams"`
}
