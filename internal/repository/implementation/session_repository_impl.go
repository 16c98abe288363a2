package implementation

import (
	"context"
	"errors"
	"time"

	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *model.ExamSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id uint) (*model.ExamSession, error) {
	var session model.ExamSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) UpdateStatus(ctx context.Context, id uint, from, to string, endedAt time.Time) (bool, error) {
	// Guarded update: the status predicate makes the transition atomic, so
	// two racing terminations cannot both succeed.
	result := r.db.WithContext(ctx).
		Model(&model.ExamSession{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":   to,
			"ended_at": endedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SessionRepositoryImpl) UpdateMedia(ctx context.Context, id uint, videoPath, audioPath string, screenCaptures []byte) error {
	updates := map[string]interface{}{}
	if videoPath != "" {
		updates["video_path"] = videoPath
	}
	if audioPath != "" {
		updates["audio_path"] = audioPath
	}
	if len(screenCaptures) > 0 {
		updates["screen_captures"] = datatypes.JSON(screenCaptures)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.ExamSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *SessionRepositoryImpl) GetActive(ctx context.Context) ([]model.ExamSession, error) {
	var sessions []model.ExamSession
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepositoryImpl) GetByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]model.ExamSession, error) {
	var sessions []model.ExamSession
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if activeOnly {
		query = query.Where("status = ?", "active")
	}
	err := query.Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepositoryImpl) GetActiveByExamAndStudent(ctx context.Context, examID uint, studentID uuid.UUID) (*model.ExamSession, error) {
	var session model.ExamSession
	err := r.db.WithContext(ctx).
		Where("exam_id = ? AND student_id = ? AND status = ?", examID, studentID, "active").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ExamSession{}).
		Where("status = ?", "active").
		Count(&count).Error
	return count, err
}

func (r *SessionRepositoryImpl) CountDistinctStudentsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ExamSession{}).
		Where("started_at >= ?", since).
		Distinct("student_id").
		Count(&count).Error
	return count, err
}
