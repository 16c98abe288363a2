package service

import (
	"context"
	"encoding/json"
	"testing"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	internalWS "proctoflex-be/internal/websocket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *internalWS.Hub {
	return internalWS.NewHub(nopLogger{})
}

func registerClient(hub *internalWS.Hub, role entity.UserRole) *internalWS.Client {
	c := &internalWS.Client{
		Hub:    hub,
		UserID: uuid.New(),
		Role:   role,
		Send:   make(chan []byte, 8),
	}
	hub.Register(c)
	return c
}

func recvFrame(t *testing.T, c *internalWS.Client) dto.AlertMessage {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg dto.AlertMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatal("expected a frame on the send channel")
		return dto.AlertMessage{}
	}
}

func TestRecordAssignsMonotonicIdsAndDispatches(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub()

	alertRepo := newFakeAlertRepo()
	sessionRepo := newFakeSessionRepo()
	examRepo := newFakeExamRepo()
	userRepo := newFakeUserRepo()

	studentID := uuid.New()
	exam := &model.Exam{Title: "Algebra Final", DurationMinutes: 60, IsActive: true}
	require.NoError(t, examRepo.Create(ctx, exam))
	session := &model.ExamSession{ExamID: exam.ID, StudentID: studentID, Status: "active"}
	require.NoError(t, sessionRepo.Create(ctx, session))

	svc := NewAlertService(alertRepo, sessionRepo, examRepo, userRepo, hub, nil, nil, nopLogger{})

	admin := registerClient(hub, entity.UserRoleAdmin)

	var ids []uint
	for _, typ := range []string{"gaze_away", "suspicious_audio", "multiple_faces"} {
		alert := &model.SecurityAlert{
			SessionID:   &session.ID,
			Type:        typ,
			Severity:    string(entity.SeverityMedium),
			Description: "test",
		}
		require.NoError(t, svc.Record(ctx, alert))
		ids = append(ids, alert.ID)
	}

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}

	// The observer got every frame, each carrying the resolved exam scope.
	for i, typ := range []string{"gaze_away", "suspicious_audio", "multiple_faces"} {
		msg := recvFrame(t, admin)
		assert.Equal(t, "alert", msg.Type)
		assert.Equal(t, typ, msg.Alert.Type)
		assert.Equal(t, ids[i], msg.Alert.Id)
		require.NotNil(t, msg.Alert.ExamID)
		assert.Equal(t, exam.ID, *msg.Alert.ExamID)
	}

	// Backfill read returns creation order.
	stored, err := svc.GetBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "gaze_away", stored[0].Type)
	assert.Equal(t, "multiple_faces", stored[2].Type)
}

func TestIngestResolvesSessionByExamAndStudent(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub()

	alertRepo := newFakeAlertRepo()
	sessionRepo := newFakeSessionRepo()
	examRepo := newFakeExamRepo()
	userRepo := newFakeUserRepo()

	studentID := uuid.New()
	exam := &model.Exam{Title: "Physics", DurationMinutes: 90, IsActive: true}
	require.NoError(t, examRepo.Create(ctx, exam))
	session := &model.ExamSession{ExamID: exam.ID, StudentID: studentID, Status: "active"}
	require.NoError(t, sessionRepo.Create(ctx, session))

	svc := NewAlertService(alertRepo, sessionRepo, examRepo, userRepo, hub, nil, nil, nopLogger{})

	res, err := svc.Ingest(ctx, &dto.CreateAlertRequest{
		ExamID:      &exam.ID,
		StudentID:   studentID.String(),
		Type:        "forbidden_app",
		Severity:    "high",
		Description: "virtual machine detected",
	})
	require.NoError(t, err)
	require.NotNil(t, res.SessionID)
	assert.Equal(t, session.ID, *res.SessionID)
}

func TestIngestUnresolvableSessionStoresUnbound(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub()
	svc := NewAlertService(newFakeAlertRepo(), newFakeSessionRepo(), newFakeExamRepo(), newFakeUserRepo(), hub, nil, nil, nopLogger{})

	admin := registerClient(hub, entity.UserRoleAdmin)

	missingExam := uint(404)
	res, err := svc.Ingest(ctx, &dto.CreateAlertRequest{
		ExamID:      &missingExam,
		StudentID:   uuid.NewString(),
		Type:        "screen_recording",
		Severity:    "high",
		Description: "recording software running",
	})
	require.NoError(t, err)
	assert.Nil(t, res.SessionID)

	// Unbound alerts still reach the observers.
	msg := recvFrame(t, admin)
	assert.Equal(t, "screen_recording", msg.Alert.Type)
	assert.Nil(t, msg.Alert.SessionID)
}

func TestGetRecentScopesByRole(t *testing.T) {
	ctx := context.Background()
	alertRepo := newFakeAlertRepo()
	svc := NewAlertService(alertRepo, newFakeSessionRepo(), newFakeExamRepo(), newFakeUserRepo(), newTestHub(), nil, nil, nopLogger{})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, &model.SecurityAlert{Type: "gaze_away", Severity: "medium"}))
	}

	observerView, err := svc.GetRecent(ctx, uuid.New(), entity.UserRoleInstructor, 10)
	require.NoError(t, err)
	assert.Len(t, observerView, 3)
}
