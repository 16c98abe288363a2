package service

import (
	"context"
	"testing"
	"time"

	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T) (ISessionService, *fakeSessionRepo, *fakeExamRepo, *memory.VerificationRepository, *model.Exam, uuid.UUID) {
	t.Helper()
	sessionRepo := newFakeSessionRepo()
	examRepo := newFakeExamRepo()
	verificationRepo := memory.NewVerificationRepository(15 * time.Minute)

	exam := &model.Exam{Title: "Calculus", DurationMinutes: 120, IsActive: true}
	require.NoError(t, examRepo.Create(context.Background(), exam))

	svc := NewSessionService(sessionRepo, examRepo, verificationRepo, newTestHub(), nil, nopLogger{})
	return svc, sessionRepo, examRepo, verificationRepo, exam, uuid.New()
}

func verify(repo *memory.VerificationRepository, studentID uuid.UUID, examID uint) {
	repo.Save(memory.VerificationRecord{
		StudentID:  studentID,
		ExamID:     examID,
		Confidence: 0.92,
		VerifiedAt: time.Now(),
	})
}

func TestStartRequiresVerification(t *testing.T) {
	svc, _, _, verificationRepo, exam, studentID := newSessionFixture(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, studentID, exam.ID)
	assert.ErrorIs(t, err, ErrNotVerified)

	verify(verificationRepo, studentID, exam.ID)
	res, err := svc.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SessionActive), res.Status)
	assert.Equal(t, exam.ID, res.ExamID)
}

func TestStartConsumesVerification(t *testing.T) {
	svc, _, _, verificationRepo, exam, studentID := newSessionFixture(t)
	ctx := context.Background()

	verify(verificationRepo, studentID, exam.ID)
	first, err := svc.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)

	// Close the first session, then try to reuse the consumed verification.
	_, err = svc.Complete(ctx, first.Id, studentID)
	require.NoError(t, err)

	_, err = svc.Start(ctx, studentID, exam.ID)
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestStartRefusesSecondActiveSession(t *testing.T) {
	svc, _, _, verificationRepo, exam, studentID := newSessionFixture(t)
	ctx := context.Background()

	verify(verificationRepo, studentID, exam.ID)
	_, err := svc.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)

	verify(verificationRepo, studentID, exam.ID)
	_, err = svc.Start(ctx, studentID, exam.ID)
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

func TestStartUnknownExam(t *testing.T) {
	svc, _, _, verificationRepo, _, studentID := newSessionFixture(t)
	verify(verificationRepo, studentID, 999)

	_, err := svc.Start(context.Background(), studentID, 999)
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestTerminalStatesNeverTransition(t *testing.T) {
	svc, _, _, verificationRepo, exam, studentID := newSessionFixture(t)
	ctx := context.Background()

	verify(verificationRepo, studentID, exam.ID)
	res, err := svc.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, res.Id, studentID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SessionCompleted), completed.Status)
	require.NotNil(t, completed.EndedAt)

	// A completed session can be neither completed again nor terminated.
	_, err = svc.Complete(ctx, res.Id, studentID)
	assert.ErrorIs(t, err, ErrSessionTerminal)
	_, err = svc.Terminate(ctx, res.Id, "cheating")
	assert.ErrorIs(t, err, ErrSessionTerminal)
}

func TestTerminateOnlyFromActive(t *testing.T) {
	svc, _, _, verificationRepo, exam, studentID := newSessionFixture(t)
	ctx := context.Background()

	verify(verificationRepo, studentID, exam.ID)
	res, err := svc.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)

	terminated, err := svc.Terminate(ctx, res.Id, "unauthorized person in room")
	require.NoError(t, err)
	assert.Equal(t, string(entity.SessionTerminated), terminated.Status)

	_, err = svc.Terminate(ctx, res.Id, "again")
	assert.ErrorIs(t, err, ErrSessionTerminal)
}

func TestCompleteChecksOwnership(t *testing.T) {
	svc, _, _, verificationRepo, exam, studentID := newSessionFixture(t)
	ctx := context.Background()

	verify(verificationRepo, studentID, exam.ID)
	res, err := svc.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, res.Id, uuid.New())
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}
