package service

import (
	"context"
	"encoding/json"

	"proctoflex-be/internal/pkg/logger"
	"proctoflex-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ICaptureConsumerService interface {
	Consume(ctx context.Context) error
}

// captureConsumerService drains the capture queue and folds media references
// onto the owning session row.
type captureConsumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	sessionRepo contract.SessionRepository
	logger      logger.ILogger
}

func NewCaptureConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionRepo contract.SessionRepository,
	log logger.ILogger,
) ICaptureConsumerService {
	return &captureConsumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func (cs *captureConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *captureConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload CaptureMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CaptureConsumer", "Failed to unmarshal capture message", map[string]interface{}{"error": err.Error()})
		// Ack malformed messages to prevent infinite retry.
		msg.Ack()
		return
	}

	session, err := cs.sessionRepo.GetByID(ctx, payload.SessionID)
	if err != nil {
		cs.logger.Error("CaptureConsumer", "Failed to load session", map[string]interface{}{"session_id": payload.SessionID, "error": err.Error()})
		msg.Nack()
		return
	}
	if session == nil {
		// Session deleted or never existed; nothing to archive onto.
		cs.logger.Warn("CaptureConsumer", "Capture for unknown session dropped", map[string]interface{}{"session_id": payload.SessionID})
		msg.Ack()
		return
	}

	videoPath := session.VideoPath
	audioPath := session.AudioPath
	var captures []string
	if len(session.ScreenCaptures) > 0 {
		_ = json.Unmarshal(session.ScreenCaptures, &captures)
	}

	switch payload.Kind {
	case "video":
		videoPath = payload.Path
	case "audio":
		audioPath = payload.Path
	case "screen":
		captures = append(captures, payload.Path)
	default:
		cs.logger.Warn("CaptureConsumer", "Unknown capture kind dropped", map[string]interface{}{"kind": payload.Kind})
		msg.Ack()
		return
	}

	capturesJSON, err := json.Marshal(captures)
	if err != nil {
		msg.Ack()
		return
	}

	if err := cs.sessionRepo.UpdateMedia(ctx, session.ID, videoPath, audioPath, capturesJSON); err != nil {
		cs.logger.Error("CaptureConsumer", "Failed to archive capture", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("CaptureConsumer", "Capture archived", map[string]interface{}{"session_id": session.ID, "kind": payload.Kind})
	msg.Ack()
}
