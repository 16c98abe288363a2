package service

import (
	"context"
	"encoding/json"
	"testing"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/pkg/riskstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type surveillanceFixture struct {
	svc       ISurveillanceService
	alertRepo *fakeAlertRepo
	session   *model.ExamSession
	studentID uuid.UUID
}

func newSurveillanceFixture(t *testing.T) *surveillanceFixture {
	t.Helper()
	ctx := context.Background()

	alertRepo := newFakeAlertRepo()
	sessionRepo := newFakeSessionRepo()
	examRepo := newFakeExamRepo()
	userRepo := newFakeUserRepo()

	studentID := uuid.New()
	exam := &model.Exam{Title: "Biology", DurationMinutes: 45, IsActive: true}
	require.NoError(t, examRepo.Create(ctx, exam))
	session := &model.ExamSession{ExamID: exam.ID, StudentID: studentID, Status: "active"}
	require.NoError(t, sessionRepo.Create(ctx, session))

	alertService := NewAlertService(alertRepo, sessionRepo, examRepo, userRepo, newTestHub(), nil, nil, nopLogger{})
	// Nil redis client degrades the risk store to a no-op.
	svc := NewSurveillanceService(sessionRepo, alertRepo, examRepo, alertService, riskstore.New(nil, 0), nopLogger{})

	return &surveillanceFixture{svc: svc, alertRepo: alertRepo, session: session, studentID: studentID}
}

func TestAnalyzeCleanTick(t *testing.T) {
	f := newSurveillanceFixture(t)

	res, err := f.svc.Analyze(context.Background(), f.studentID, &dto.AnalyzeRequest{
		SessionID: f.session.ID,
		Face:      json.RawMessage(`{"face_count":1,"confidence":0.95}`),
		Gaze:      json.RawMessage(`{"looking_at_screen":true,"confidence":0.9}`),
		Audio:     json.RawMessage(`{"suspicious_sounds":false,"confidence":0.8}`),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RiskNone, res.RiskLevel)
	assert.Empty(t, res.AlertIds)
}

func TestAnalyzePersistsTriggeredAlerts(t *testing.T) {
	f := newSurveillanceFixture(t)

	res, err := f.svc.Analyze(context.Background(), f.studentID, &dto.AnalyzeRequest{
		SessionID: f.session.ID,
		Face:      json.RawMessage(`{"face_count":2,"multiple_faces":true,"confidence":0.9}`),
		Object:    json.RawMessage(`{"detections":[{"type":"phone","severity":"high","confidence":0.85}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RiskCritical, res.RiskLevel)
	require.Len(t, res.AlertIds, 2)
	assert.Greater(t, res.AlertIds[1], res.AlertIds[0])

	stored, err := f.alertRepo.GetBySession(context.Background(), f.session.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, string(entity.SignalMultipleFaces), stored[0].Type)
	assert.Equal(t, string(entity.SignalSuspiciousObject), stored[1].Type)
	assert.Equal(t, string(entity.SeverityCritical), stored[1].Severity)
}

// A detector that sends garbage must not raise alerts for that modality
// while the rest of the tick proceeds.
func TestAnalyzeMalformedModalityIsNoEvidence(t *testing.T) {
	f := newSurveillanceFixture(t)

	res, err := f.svc.Analyze(context.Background(), f.studentID, &dto.AnalyzeRequest{
		SessionID: f.session.ID,
		Face:      json.RawMessage(`{{{not json`),
		Gaze:      json.RawMessage(`{"looking_at_screen":false,"confidence":0.8}`),
	})
	require.NoError(t, err)
	require.Len(t, res.AlertIds, 1)
	assert.Equal(t, string(entity.SignalGazeAway), res.Alerts[0].Type)
	assert.Equal(t, entity.RiskMedium, res.RiskLevel)
}

func TestAnalyzeRejectsForeignSession(t *testing.T) {
	f := newSurveillanceFixture(t)

	_, err := f.svc.Analyze(context.Background(), uuid.New(), &dto.AnalyzeRequest{
		SessionID: f.session.ID,
	})
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}

func TestAnalyzeUnknownSession(t *testing.T) {
	f := newSurveillanceFixture(t)

	_, err := f.svc.Analyze(context.Background(), f.studentID, &dto.AnalyzeRequest{
		SessionID: 999,
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
