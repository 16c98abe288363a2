package contract

import (
	"context"
	"time"

	"proctoflex-be/internal/model"

	"github.com/google/uuid"
)

type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id uint) (*model.Exam, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.Exam, int64, error)
	GetByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Exam, error)
	Update(ctx context.Context, exam *model.Exam) error
	Deactivate(ctx context.Context, id uint) error
	CountPlannedForStudent(ctx context.Context, studentID uuid.UUID, after time.Time) (int64, error)
	CountPlannedForInstructor(ctx context.Context, instructorID uuid.UUID, from, to time.Time) (int64, error)
}
