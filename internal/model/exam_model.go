package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Exam struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string         `gorm:"type:varchar(200);not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	DurationMinutes int            `gorm:"not null" json:"duration_minutes"`
	StartTime       time.Time      `gorm:"not null" json:"start_time"`
	EndTime         time.Time      `gorm:"not null" json:"end_time"`
	StudentID       *uuid.UUID     `gorm:"type:uuid;index" json:"student_id,omitempty"`
	InstructorID    *uuid.UUID     `gorm:"type:uuid;index" json:"instructor_id,omitempty"`
	AllowedApps     datatypes.JSON `gorm:"type:jsonb" json:"allowed_apps,omitempty"`
	AllowedDomains  datatypes.JSON `gorm:"type:jsonb" json:"allowed_domains,omitempty"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Exam) TableName() string {
	return "exams"
}
