package model

import (
	"time"

	"gorm.io/datatypes"
)

// SecurityAlert is the persisted record of a policy violation candidate.
// Rows are append-only; Resolved is the only mutable field. The identity
// column is the single id authority, which keeps ids monotonic under
// concurrent appends.
type SecurityAlert struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   *uint          `gorm:"index:idx_alerts_session_created,priority:1" json:"session_id,omitempty"`
	Type        string         `gorm:"type:varchar(50);not null;index" json:"type"`
	Severity    string         `gorm:"type:varchar(10);not null;default:'medium';index" json:"severity"`
	Description string         `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	Resolved    bool           `gorm:"default:false" json:"resolved"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_alerts_session_created,priority:2" json:"created_at"`
}

func (SecurityAlert) TableName() string {
	return "security_alerts"
}
