package implementation

import (
	"context"
	"errors"
	"time"

	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamRepositoryImpl struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) contract.ExamRepository {
	return &ExamRepositoryImpl{db: db}
}

func (r *ExamRepositoryImpl) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *ExamRepositoryImpl) GetByID(ctx context.Context, id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepositoryImpl) GetAll(ctx context.Context, limit, offset int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Exam{}).Where("is_active = ?", true)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&exams).Error

	return exams, total, err
}

func (r *ExamRepositoryImpl) GetByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND is_active = ?", studentID, true).
		Order("start_time ASC").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepositoryImpl) Update(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}

func (r *ExamRepositoryImpl) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Exam{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *ExamRepositoryImpl) CountPlannedForStudent(ctx context.Context, studentID uuid.UUID, after time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Exam{}).
		Where("student_id = ? AND start_time >= ? AND is_active = ?", studentID, after, true).
		Count(&count).Error
	return count, err
}

func (r *ExamRepositoryImpl) CountPlannedForInstructor(ctx context.Context, instructorID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Exam{}).
		Where("instructor_id = ? AND start_time BETWEEN ? AND ? AND is_active = ?", instructorID, from, to, true).
		Count(&count).Error
	return count, err
}
