package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/pkg/logger"
	"proctoflex-be/internal/repository/contract"
	"proctoflex-be/internal/repository/memory"
	internalWS "proctoflex-be/internal/websocket"
	"proctoflex-be/pkg/events"
	pktNats "proctoflex-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrNotVerified        = errors.New("identity not verified for this exam")
	ErrSessionAlreadyOpen = errors.New("an active session already exists for this exam")
	ErrSessionTerminal    = errors.New("session already ended")
)

type ISessionService interface {
	Start(ctx context.Context, studentID uuid.UUID, examID uint) (*dto.SessionResponse, error)
	Complete(ctx context.Context, sessionID uint, studentID uuid.UUID) (*dto.SessionResponse, error)
	Terminate(ctx context.Context, sessionID uint, reason string) (*dto.SessionResponse, error)
	GetStatus(ctx context.Context, sessionID uint) (*dto.SessionResponse, error)
	GetActive(ctx context.Context) ([]dto.SessionResponse, error)
	GetByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]dto.SessionResponse, error)
}

type sessionService struct {
	sessionRepo      contract.SessionRepository
	examRepo         contract.ExamRepository
	verificationRepo *memory.VerificationRepository
	hub              *internalWS.Hub
	publisher        *pktNats.Publisher
	logger           logger.ILogger
}

func NewSessionService(
	sessionRepo contract.SessionRepository,
	examRepo contract.ExamRepository,
	verificationRepo *memory.VerificationRepository,
	hub *internalWS.Hub,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionRepo:      sessionRepo,
		examRepo:         examRepo,
		verificationRepo: verificationRepo,
		hub:              hub,
		publisher:        publisher,
		logger:           log,
	}
}

// Start opens a monitored session. It refuses without a fresh identity
// verification for this exam, and consumes the verification so it cannot
// open a second session later.
func (s *sessionService) Start(ctx context.Context, studentID uuid.UUID, examID uint) (*dto.SessionResponse, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load exam: %w", err)
	}
	if exam == nil || !exam.IsActive {
		return nil, ErrExamNotFound
	}

	if _, ok := s.verificationRepo.Get(studentID, examID); !ok {
		return nil, ErrNotVerified
	}

	existing, err := s.sessionRepo.GetActiveByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSessionAlreadyOpen
	}

	session := &model.ExamSession{
		ExamID:    examID,
		StudentID: studentID,
		Status:    string(entity.SessionActive),
		StartedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.verificationRepo.Consume(studentID, examID)

	s.publishEvent(ctx, events.TypeSessionStarted, session)
	s.logger.Info("SessionService", "Session started", map[string]interface{}{"session_id": session.ID, "exam_id": examID, "student_id": studentID})

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) Complete(ctx context.Context, sessionID uint, studentID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.StudentID != studentID {
		return nil, ErrNotSessionOwner
	}

	return s.transition(ctx, session, entity.SessionCompleted, events.TypeSessionCompleted, "")
}

// Terminate force-ends a session. Authorization (admin/instructor only) is
// enforced at the route; the reason travels with the session frame so the
// student sees why their exam stopped.
func (s *sessionService) Terminate(ctx context.Context, sessionID uint, reason string) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return s.transition(ctx, session, entity.SessionTerminated, events.TypeSessionTerminate, reason)
}

// transition performs the guarded active -> terminal move. The repository
// only touches rows still in the expected status, so racing calls cannot
// re-end an ended session.
func (s *sessionService) transition(ctx context.Context, session *model.ExamSession, to entity.SessionStatus, eventType, reason string) (*dto.SessionResponse, error) {
	if entity.SessionStatus(session.Status).Terminal() {
		return nil, ErrSessionTerminal
	}

	endedAt := time.Now().UTC()
	moved, err := s.sessionRepo.UpdateStatus(ctx, session.ID, string(entity.SessionActive), string(to), endedAt)
	if err != nil {
		return nil, fmt.Errorf("update session status: %w", err)
	}
	if !moved {
		return nil, ErrSessionTerminal
	}
	session.Status = string(to)
	session.EndedAt = &endedAt

	s.publishEvent(ctx, eventType, session)
	s.notifySession(session, to, reason)
	s.logger.Info("SessionService", "Session ended", map[string]interface{}{"session_id": session.ID, "status": session.Status})

	resp := toSessionResponse(session)
	return &resp, nil
}

// notifySession pushes a lifecycle frame to everyone watching the session.
func (s *sessionService) notifySession(session *model.ExamSession, to entity.SessionStatus, reason string) {
	if s.hub == nil {
		return
	}
	frame := map[string]interface{}{
		"type":       "session_" + string(to),
		"session_id": session.ID,
		"exam_id":    session.ExamID,
	}
	if reason != "" {
		frame["reason"] = reason
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	sid := session.StudentID
	target := internalWS.AlertTarget{
		SessionID: &session.ID,
		ExamID:    &session.ExamID,
		StudentID: &sid,
	}
	s.hub.DeliverAlert(target, data)
}

func (s *sessionService) publishEvent(ctx context.Context, eventType string, session *model.ExamSession) {
	if s.publisher == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{
		"session_id": session.ID,
		"exam_id":    session.ExamID,
		"student_id": session.StudentID.String(),
		"status":     session.Status,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("SessionService", "Failed to publish session event", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
	}
}

func (s *sessionService) GetStatus(ctx context.Context, sessionID uint) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) GetActive(ctx context.Context) ([]dto.SessionResponse, error) {
	sessions, err := s.sessionRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

func (s *sessionService) GetByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]dto.SessionResponse, error) {
	sessions, err := s.sessionRepo.GetByStudent(ctx, studentID, activeOnly)
	if err != nil {
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

func toSessionResponse(session *model.ExamSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		Id:        session.ID,
		ExamID:    session.ExamID,
		StudentID: session.StudentID.String(),
		Status:    session.Status,
		StartedAt: session.StartedAt.UTC().Format(time.RFC3339),
		VideoPath: session.VideoPath,
		AudioPath: session.AudioPath,
	}
	if session.EndedAt != nil {
		ended := session.EndedAt.UTC().Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	if len(session.ScreenCaptures) > 0 {
		var captures []string
		if err := json.Unmarshal(session.ScreenCaptures, &captures); err == nil {
			resp.ScreenCaptures = captures
		}
	}
	return resp
}

func toSessionResponses(sessions []model.ExamSession) []dto.SessionResponse {
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i]))
	}
	return out
}
