package contract

import (
	"context"
	"time"

	"proctoflex-be/internal/model"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.ExamSession) error
	GetByID(ctx context.Context, id uint) (*model.ExamSession, error)
	// UpdateStatus sets the terminal status and end time. It only touches
	// rows still in the expected current status, so racing transitions
	// cannot leave a terminal state.
	UpdateStatus(ctx context.Context, id uint, from, to string, endedAt time.Time) (bool, error)
	UpdateMedia(ctx context.Context, id uint, videoPath, audioPath string, screenCaptures []byte) error
	GetActive(ctx context.Context) ([]model.ExamSession, error)
	GetByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]model.ExamSession, error)
	GetActiveByExamAndStudent(ctx context.Context, examID uint, studentID uuid.UUID) (*model.ExamSession, error)
	CountActive(ctx context.Context) (int64, error)
	CountDistinctStudentsSince(ctx context.Context, since time.Time) (int64, error)
}
