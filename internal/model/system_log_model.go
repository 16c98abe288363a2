package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemLog is the audit trail row the event consumer writes for every
// domain event that crosses the bus.
type SystemLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventType string    `gorm:"type:varchar(50);not null;index"`
	Module    *string   `gorm:"type:varchar(50)"`
	Message   string    `gorm:"type:text;not null"`
	Details   *string   `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"default:now();not null;index"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
