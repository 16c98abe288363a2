package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExamSession is one student's monitored attempt at one exam.
// Status transitions: active -> completed | terminated, both terminal.
type ExamSession struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ExamID         uint           `gorm:"not null;index" json:"exam_id"`
	StudentID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Status         string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StartedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	VideoPath      string         `gorm:"type:varchar(500)" json:"video_path,omitempty"`
	AudioPath      string         `gorm:"type:varchar(500)" json:"audio_path,omitempty"`
	ScreenCaptures datatypes.JSON `gorm:"type:jsonb" json:"screen_captures,omitempty"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}
