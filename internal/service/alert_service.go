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
	"proctoflex-be/internal/pkg/mailer"
	"proctoflex-be/internal/repository/contract"
	internalWS "proctoflex-be/internal/websocket"
	"proctoflex-be/pkg/events"
	pktNats "proctoflex-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrAlertNotFound = errors.New("alert not found")

type IAlertService interface {
	// Record appends the alert, then fans it out. The append is the only
	// step that can fail the call; delivery is best effort.
	Record(ctx context.Context, alert *model.SecurityAlert) error
	Ingest(ctx context.Context, req *dto.CreateAlertRequest) (*dto.AlertResponse, error)
	Resolve(ctx context.Context, id uint) error
	GetBySession(ctx context.Context, sessionID uint) ([]dto.AlertResponse, error)
	GetRecent(ctx context.Context, requester uuid.UUID, role entity.UserRole, limit int) ([]dto.AlertResponse, error)
}

type alertService struct {
	alertRepo    contract.AlertRepository
	sessionRepo  contract.SessionRepository
	examRepo     contract.ExamRepository
	userRepo     contract.UserRepository
	hub          *internalWS.Hub
	publisher    *pktNats.Publisher
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewAlertService(
	alertRepo contract.AlertRepository,
	sessionRepo contract.SessionRepository,
	examRepo contract.ExamRepository,
	userRepo contract.UserRepository,
	hub *internalWS.Hub,
	publisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		alertRepo:    alertRepo,
		sessionRepo:  sessionRepo,
		examRepo:     examRepo,
		userRepo:     userRepo,
		hub:          hub,
		publisher:    publisher,
		emailService: emailService,
		logger:       log,
	}
}

func (s *alertService) Record(ctx context.Context, alert *model.SecurityAlert) error {
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	s.dispatch(ctx, alert)
	return nil
}

// dispatch resolves the alert's audience and pushes it everywhere it should
// go. Nothing here can fail the caller: the alert is already durable.
func (s *alertService) dispatch(ctx context.Context, alert *model.SecurityAlert) {
	target := internalWS.AlertTarget{SessionID: alert.SessionID}

	var exam *model.Exam
	if alert.SessionID != nil {
		session, err := s.sessionRepo.GetByID(ctx, *alert.SessionID)
		if err == nil && session != nil {
			target.ExamID = &session.ExamID
			sid := session.StudentID
			target.StudentID = &sid

			exam, _ = s.examRepo.GetByID(ctx, session.ExamID)
		} else if err != nil {
			s.logger.Warn("AlertService", "Session lookup failed during dispatch", map[string]interface{}{"session_id": *alert.SessionID, "error": err.Error()})
		}
	}

	payload := dto.AlertMessage{
		Type: "alert",
		Alert: dto.AlertPayload{
			Id:          alert.ID,
			SessionID:   alert.SessionID,
			ExamID:      target.ExamID,
			Type:        alert.Type,
			Severity:    alert.Severity,
			Description: alert.Description,
			CreatedAt:   alert.CreatedAt.UTC().Format(time.RFC3339),
			Resolved:    alert.Resolved,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("AlertService", "Failed to marshal alert frame", map[string]interface{}{"alert_id": alert.ID, "error": err.Error()})
		return
	}

	delivered := s.hub.DeliverAlert(target, data)
	s.logger.Info("AlertService", "Alert dispatched", map[string]interface{}{
		"alert_id":  alert.ID,
		"severity":  alert.Severity,
		"delivered": delivered,
	})

	if s.publisher != nil {
		evt := events.New(events.TypeAlertCreated, map[string]interface{}{
			"alert_id":    alert.ID,
			"session_id":  alert.SessionID,
			"type":        alert.Type,
			"severity":    alert.Severity,
			"description": alert.Description,
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("AlertService", "Failed to publish alert event", map[string]interface{}{"alert_id": alert.ID, "error": err.Error()})
		}
	}

	if alert.Severity == string(entity.SeverityCritical) && exam != nil {
		s.notifyInstructor(ctx, exam, alert)
	}
}

func (s *alertService) notifyInstructor(ctx context.Context, exam *model.Exam, alert *model.SecurityAlert) {
	if s.emailService == nil || exam.InstructorID == nil {
		return
	}
	instructor, err := s.userRepo.GetByID(ctx, *exam.InstructorID)
	if err != nil || instructor == nil {
		return
	}
	go func(email, title, description string) {
		if err := s.emailService.SendCriticalAlert(email, title, description); err != nil {
			s.logger.Warn("AlertService", "Critical alert mail failed", map[string]interface{}{"error": err.Error()})
		}
	}(instructor.Email, exam.Title, alert.Description)
}

// Ingest handles violations reported by the desktop client, which names the
// violation itself. The session is resolved by id when given, otherwise by
// the exam/student pair; an unresolvable session stores the alert unbound so
// the report is never dropped.
func (s *alertService) Ingest(ctx context.Context, req *dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	sessionID := req.SessionID
	if sessionID == nil && req.ExamID != nil && req.StudentID != "" {
		studentID, err := uuid.Parse(req.StudentID)
		if err == nil {
			session, err := s.sessionRepo.GetActiveByExamAndStudent(ctx, *req.ExamID, studentID)
			if err == nil && session != nil {
				sessionID = &session.ID
			}
		}
	}

	var metadata datatypes.JSON
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	alert := &model.SecurityAlert{
		SessionID:   sessionID,
		Type:        req.Type,
		Severity:    req.Severity,
		Description: req.Description,
		Metadata:    metadata,
	}
	if err := s.Record(ctx, alert); err != nil {
		return nil, err
	}

	resp := toAlertResponse(alert)
	return &resp, nil
}

func (s *alertService) Resolve(ctx context.Context, id uint) error {
	if err := s.alertRepo.Resolve(ctx, id); err != nil {
		return err
	}
	if s.publisher != nil {
		evt := events.New(events.TypeAlertResolved, map[string]interface{}{"alert_id": id})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("AlertService", "Failed to publish resolve event", map[string]interface{}{"alert_id": id, "error": err.Error()})
		}
	}
	return nil
}

func (s *alertService) GetBySession(ctx context.Context, sessionID uint) ([]dto.AlertResponse, error) {
	alerts, err := s.alertRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toAlertResponses(alerts), nil
}

// GetRecent scopes the feed by role: students only ever see their own.
func (s *alertService) GetRecent(ctx context.Context, requester uuid.UUID, role entity.UserRole, limit int) ([]dto.AlertResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var (
		alerts []model.SecurityAlert
		err    error
	)
	if role.Observer() {
		alerts, err = s.alertRepo.GetRecent(ctx, limit)
	} else {
		alerts, err = s.alertRepo.GetRecentForStudent(ctx, requester, limit)
	}
	if err != nil {
		return nil, err
	}
	return toAlertResponses(alerts), nil
}

func toAlertResponse(a *model.SecurityAlert) dto.AlertResponse {
	return dto.AlertResponse{
		Id:          a.ID,
		SessionID:   a.SessionID,
		Type:        a.Type,
		Severity:    a.Severity,
		Description: a.Description,
		Resolved:    a.Resolved,
		CreatedAt:   a.CreatedAt,
	}
}

func toAlertResponses(alerts []model.SecurityAlert) []dto.AlertResponse {
	out := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, toAlertResponse(&alerts[i]))
	}
	return out
}
