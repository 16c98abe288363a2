package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"proctoflex-be/internal/model"
	"proctoflex-be/internal/pkg/logger"
	"proctoflex-be/internal/repository/contract"
	"proctoflex-be/pkg/events"
	pktNats "proctoflex-be/pkg/nats"

	"github.com/google/uuid"
)

// AuditService writes every domain event crossing the bus into the
// system_logs table, so "what happened to session X" survives restarts and
// reconnects.
type AuditService struct {
	repo       contract.SystemLogRepository
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(repo contract.SystemLogRepository, sub *pktNats.Subscriber, log logger.ILogger) *AuditService {
	return &AuditService{repo: repo, subscriber: sub, logger: log}
}

// Start begins listening to the event bus with a durable consumer.
func (s *AuditService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("AuditService", "No event subscriber configured, audit trail disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe("events.>", "audit-worker", s.handleEvent); err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AuditService", "Audit service started, listening to events.>", nil)
}

func (s *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	module := "events"
	var details *string
	if raw, err := json.Marshal(event.Payload()); err == nil {
		d := string(raw)
		details = &d
	}

	entry := &model.SystemLog{
		Id:        uuid.New(),
		EventType: typeCode,
		Module:    &module,
		Message:   fmt.Sprintf("Event %s observed", typeCode),
		Details:   details,
		CreatedAt: event.Timestamp(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("AuditService", "Failed to persist audit entry", map[string]interface{}{"event": typeCode, "error": err.Error()})
		return err
	}
	return nil
}
