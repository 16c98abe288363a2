package contract

import (
	"context"

	"proctoflex-be/internal/model"

	"github.com/google/uuid"
)

// AlertRepository is the append-only store of security alerts. Create is the
// only path that produces an id; callers never pick one.
type AlertRepository interface {
	Create(ctx context.Context, alert *model.SecurityAlert) error
	GetByID(ctx context.Context, id uint) (*model.SecurityAlert, error)
	// GetBySession returns the session's alerts in creation order.
	GetBySession(ctx context.Context, sessionID uint) ([]model.SecurityAlert, error)
	GetRecent(ctx context.Context, limit int) ([]model.SecurityAlert, error)
	GetRecentForStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]model.SecurityAlert, error)
	Resolve(ctx context.Context, id uint) error
	CountUnresolved(ctx context.Context, severities []string) (int64, error)
	CountUnresolvedForStudent(ctx context.Context, studentID uuid.UUID, severities []string) (int64, error)
}
