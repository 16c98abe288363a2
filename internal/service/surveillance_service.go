package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/pkg/logger"
	"proctoflex-be/internal/repository/contract"
	"proctoflex-be/pkg/detector"
	"proctoflex-be/pkg/risk"
	"proctoflex-be/pkg/riskstore"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNotActive = errors.New("session is not active")
	ErrNotSessionOwner  = errors.New("session belongs to another student")
)

type ISurveillanceService interface {
	// Analyze runs one surveillance tick: normalize detector payloads,
	// aggregate risk, persist the triggered alerts, fan them out, and
	// record the session's live risk level.
	Analyze(ctx context.Context, studentID uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	GetRisk(ctx context.Context, sessionID uint) (entity.RiskLevel, error)
	DashboardStats(ctx context.Context, requester uuid.UUID, role entity.UserRole) (*dto.DashboardStatsResponse, error)
}

type surveillanceService struct {
	sessionRepo  contract.SessionRepository
	alertRepo    contract.AlertRepository
	examRepo     contract.ExamRepository
	alertService IAlertService
	riskStore    *riskstore.Store
	logger       logger.ILogger
}

func NewSurveillanceService(
	sessionRepo contract.SessionRepository,
	alertRepo contract.AlertRepository,
	examRepo contract.ExamRepository,
	alertService IAlertService,
	riskStore *riskstore.Store,
	log logger.ILogger,
) ISurveillanceService {
	return &surveillanceService{
		sessionRepo:  sessionRepo,
		alertRepo:    alertRepo,
		examRepo:     examRepo,
		alertService: alertService,
		riskStore:    riskStore,
		logger:       log,
	}
}

func (s *surveillanceService) Analyze(ctx context.Context, studentID uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.StudentID != studentID {
		return nil, ErrNotSessionOwner
	}

	var signals []entity.Signal
	if req.Face != nil {
		signals = append(signals, detector.NormalizeFace(req.Face))
	}
	if req.Gaze != nil {
		signals = append(signals, detector.NormalizeGaze(req.Gaze))
	}
	if req.Object != nil {
		signals = append(signals, detector.NormalizeObject(req.Object))
	}
	if req.Audio != nil {
		signals = append(signals, detector.NormalizeAudio(req.Audio))
	}

	drafts, riskLevel := risk.Aggregate(signals)

	resp := &dto.AnalyzeResponse{
		SessionID: session.ID,
		RiskLevel: riskLevel,
		AlertIds:  make([]uint, 0, len(drafts)),
		Alerts:    make([]dto.AlertResponse, 0, len(drafts)),
	}

	// Ended sessions still record evidence; only live fan-out differs, and
	// that is the dispatcher's problem, not ours.
	sessionID := session.ID
	for _, draft := range drafts {
		alert := &model.SecurityAlert{
			SessionID:   &sessionID,
			Type:        string(draft.Type),
			Severity:    string(draft.Severity),
			Description: draft.Description,
		}
		if err := s.alertService.Record(ctx, alert); err != nil {
			// A failed append fails the tick; the caller retries the
			// whole cycle rather than guessing which alerts landed.
			return nil, err
		}
		resp.AlertIds = append(resp.AlertIds, alert.ID)
		resp.Alerts = append(resp.Alerts, toAlertResponse(alert))
	}

	if err := s.riskStore.Set(ctx, session.ID, riskLevel); err != nil {
		s.logger.Warn("SurveillanceService", "Failed to record live risk level", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
	}

	return resp, nil
}

func (s *surveillanceService) GetRisk(ctx context.Context, sessionID uint) (entity.RiskLevel, error) {
	return s.riskStore.Get(ctx, sessionID)
}

// DashboardStats aggregates the monitor-facing counters. Students get their
// own slice of the world, observers get everything.
func (s *surveillanceService) DashboardStats(ctx context.Context, requester uuid.UUID, role entity.UserRole) (*dto.DashboardStatsResponse, error) {
	stats := &dto.DashboardStatsResponse{}
	severities := []string{string(entity.SeverityHigh), string(entity.SeverityCritical)}

	if role.Observer() {
		active, err := s.sessionRepo.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		stats.ActiveSessions = active

		students, err := s.sessionRepo.CountDistinctStudentsSince(ctx, dayStart())
		if err != nil {
			return nil, err
		}
		stats.MonitoredStudents = students

		unresolved, err := s.alertRepo.CountUnresolved(ctx, severities)
		if err != nil {
			return nil, err
		}
		stats.UnresolvedAlerts = unresolved
		return stats, nil
	}

	sessions, err := s.sessionRepo.GetByStudent(ctx, requester, true)
	if err != nil {
		return nil, err
	}
	stats.ActiveSessions = int64(len(sessions))

	unresolved, err := s.alertRepo.CountUnresolvedForStudent(ctx, requester, severities)
	if err != nil {
		return nil, err
	}
	stats.UnresolvedAlerts = unresolved

	planned, err := s.examRepo.CountPlannedForStudent(ctx, requester, dayStart())
	if err != nil {
		return nil, err
	}
	stats.PlannedExams = planned
	return stats, nil
}

func dayStart() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
