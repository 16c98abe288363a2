package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/implementation"
	"proctoflex-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAlertRoundTrip(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&model.User{}, &model.Exam{}, &model.ExamSession{}, &model.SecurityAlert{},
	))

	ctx := context.Background()
	userRepo := implementation.NewUserRepository(gormDB)
	examRepo := implementation.NewExamRepository(gormDB)
	sessionRepo := implementation.NewSessionRepository(gormDB)
	alertRepo := implementation.NewAlertRepository(gormDB)

	student := &model.User{
		Id:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		Username:     uuid.NewString()[:8],
		FullName:     "Integration Student",
		PasswordHash: "x",
		Role:         string(entity.UserRoleStudent),
		IsActive:     true,
	}
	require.NoError(t, userRepo.Create(ctx, student))

	exam := &model.Exam{
		Title:           "Integration Exam",
		DurationMinutes: 60,
		StartTime:       time.Now(),
		EndTime:         time.Now().Add(time.Hour),
		IsActive:        true,
	}
	require.NoError(t, examRepo.Create(ctx, exam))

	session := &model.ExamSession{
		ExamID:    exam.ID,
		StudentID: student.Id,
		Status:    string(entity.SessionActive),
		StartedAt: time.Now(),
	}
	require.NoError(t, sessionRepo.Create(ctx, session))

	// Appended alerts come back in creation order with increasing ids.
	types := []string{"gaze_away", "multiple_faces", "suspicious_audio"}
	for _, typ := range types {
		alert := &model.SecurityAlert{
			SessionID:   &session.ID,
			Type:        typ,
			Severity:    string(entity.SeverityMedium),
			Description: "integration test alert",
		}
		require.NoError(t, alertRepo.Create(ctx, alert))
		assert.NotZero(t, alert.ID)
	}

	alerts, err := alertRepo.GetBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, alerts, len(types))
	for i := range alerts {
		assert.Equal(t, types[i], alerts[i].Type)
		if i > 0 {
			assert.Greater(t, alerts[i].ID, alerts[i-1].ID)
		}
	}

	require.NoError(t, alertRepo.Resolve(ctx, alerts[0].ID))
	resolved, err := alertRepo.GetByID(ctx, alerts[0].ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	moved, err := sessionRepo.UpdateStatus(ctx, session.ID,
		string(entity.SessionActive), string(entity.SessionCompleted), time.Now())
	require.NoError(t, err)
	assert.True(t, moved)

	// Terminal state refuses a second transition.
	moved, err = sessionRepo.UpdateStatus(ctx, session.ID,
		string(entity.SessionActive), string(entity.SessionTerminated), time.Now())
	require.NoError(t, err)
	assert.False(t, moved)
}
