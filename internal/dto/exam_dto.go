package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateExamRequest struct {
	Title           string     `json:"title" validate:"required,min=3"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=1"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	StudentID       *uuid.UUID `json:"student_id"`
	AllowedApps     []string   `json:"allowed_apps"`
	AllowedDomains  []string   `json:"allowed_domains"`
}

type ExamResponse struct {
	Id              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	StudentID       *uuid.UUID `json:"student_id,omitempty"`
	InstructorID    *uuid.UUID `json:"instructor_id,omitempty"`
	AllowedApps     []string   `json:"allowed_apps"`
	AllowedDomains  []string   `json:"allowed_domains"`
	IsActive        bool       `json:"is_active"`
}
