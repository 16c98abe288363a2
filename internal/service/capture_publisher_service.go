package service

import (
	"context"
	"encoding/json"

	"proctoflex-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// CaptureMessage travels the in-process queue between the upload request and
// the archiving worker.
type CaptureMessage struct {
	SessionID uint   `json:"session_id"`
	Kind      string `json:"kind"`
	Path      string `json:"path"`
}

type ICapturePublisherService interface {
	// Archive queues the media reference; the session row is updated
	// asynchronously so the upload request returns immediately.
	Archive(ctx context.Context, req *dto.CaptureRequest) error
}

type capturePublisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewCapturePublisherService(topicName string, pubSub *gochannel.GoChannel) ICapturePublisherService {
	return &capturePublisherService{topicName: topicName, pubSub: pubSub}
}

func (s *capturePublisherService) Archive(ctx context.Context, req *dto.CaptureRequest) error {
	payload, err := json.Marshal(CaptureMessage{
		SessionID: req.SessionID,
		Kind:      req.Kind,
		Path:      req.Path,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, msg)
}
