package implementation

import (
	"context"

	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SystemLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) contract.SystemLogRepository {
	return &SystemLogRepositoryImpl{db: db}
}

func (r *SystemLogRepositoryImpl) Create(ctx context.Context, entry *model.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *SystemLogRepositoryImpl) GetRecent(ctx context.Context, limit, offset int) ([]model.SystemLog, error) {
	var entries []model.SystemLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}
