package implementation

import (
	"context"
	"errors"

	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) contract.AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, alert *model.SecurityAlert) error {
	// The identity column fills alert.ID; gorm reads it back on insert.
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *AlertRepositoryImpl) GetByID(ctx context.Context, id uint) (*model.SecurityAlert, error) {
	var alert model.SecurityAlert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepositoryImpl) GetBySession(ctx context.Context, sessionID uint) ([]model.SecurityAlert, error) {
	var alerts []model.SecurityAlert
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) GetRecent(ctx context.Context, limit int) ([]model.SecurityAlert, error) {
	var alerts []model.SecurityAlert
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) GetRecentForStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]model.SecurityAlert, error) {
	var alerts []model.SecurityAlert
	err := r.db.WithContext(ctx).
		Where("session_id IN (?)", r.db.Model(&model.ExamSession{}).
			Select("id").
			Where("student_id = ?", studentID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) Resolve(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&model.SecurityAlert{}).
		Where("id = ?", id).
		Update("resolved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("alert not found")
	}
	return nil
}

func (r *AlertRepositoryImpl) CountUnresolved(ctx context.Context, severities []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SecurityAlert{}).
		Where("resolved = ? AND severity IN ?", false, severities).
		Count(&count).Error
	return count, err
}

func (r *AlertRepositoryImpl) CountUnresolvedForStudent(ctx context.Context, studentID uuid.UUID, severities []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SecurityAlert{}).
		Where("resolved = ? AND severity IN ?", false, severities).
		Where("session_id IN (?)", r.db.Model(&model.ExamSession{}).
			Select("id").
			Where("student_id = ?", studentID)).
		Count(&count).Error
	return count, err
}
