package contract

import (
	"context"

	"proctoflex-be/internal/model"
)

type SystemLogRepository interface {
	Create(ctx context.Context, entry *model.SystemLog) error
	GetRecent(ctx context.Context, limit, offset int) ([]model.SystemLog, error)
}
