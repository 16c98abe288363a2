package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/pkg/logger"
	"proctoflex-be/internal/repository/contract"
	"proctoflex-be/internal/repository/memory"
	"proctoflex-be/pkg/detector"
	"proctoflex-be/pkg/risk"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

var ErrNoFaceProfile = errors.New("no face profile enrolled")

type IIdentityService interface {
	EnrollFace(ctx context.Context, userID uuid.UUID, embedding []float32) error
	// Verify compares a live embedding against the enrolled profile. A
	// passing check is remembered (with a TTL) so the student can open a
	// session; a failing check raises a high alert through the normal
	// alert pipeline.
	Verify(ctx context.Context, studentID uuid.UUID, req *dto.VerifyIdentityRequest) (*dto.VerifyIdentityResponse, error)
}

type identityService struct {
	userRepo         contract.UserRepository
	verificationRepo *memory.VerificationRepository
	alertService     IAlertService
	threshold        float64
	logger           logger.ILogger
}

func NewIdentityService(
	userRepo contract.UserRepository,
	verificationRepo *memory.VerificationRepository,
	alertService IAlertService,
	threshold float64,
	log logger.ILogger,
) IIdentityService {
	return &identityService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		alertService:     alertService,
		threshold:        threshold,
		logger:           log,
	}
}

func (s *identityService) EnrollFace(ctx context.Context, userID uuid.UUID, embedding []float32) error {
	return s.userRepo.SaveFaceProfile(ctx, userID, pgvector.NewVector(embedding))
}

func (s *identityService) Verify(ctx context.Context, studentID uuid.UUID, req *dto.VerifyIdentityRequest) (*dto.VerifyIdentityResponse, error) {
	profile, err := s.userRepo.GetFaceProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load face profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNoFaceProfile
	}

	confidence := cosineSimilarity(profile.Embedding.Slice(), req.Embedding)
	verified := confidence >= s.threshold

	if verified {
		s.verificationRepo.Save(memory.VerificationRecord{
			StudentID:  studentID,
			ExamID:     req.ExamID,
			Confidence: confidence,
			VerifiedAt: time.Now().UTC(),
		})
	} else {
		s.raiseVerificationAlert(ctx, confidence)
	}

	s.logger.Info("IdentityService", "Identity verification", map[string]interface{}{
		"student_id": studentID,
		"exam_id":    req.ExamID,
		"verified":   verified,
		"confidence": confidence,
	})

	return &dto.VerifyIdentityResponse{
		Verified:   verified,
		Confidence: confidence,
		Threshold:  s.threshold,
	}, nil
}

// raiseVerificationAlert runs the failed check through the normal
// normalize -> aggregate -> record pipeline. There is no session yet, so the
// alert lands unbound and reaches the observers only.
func (s *identityService) raiseVerificationAlert(ctx context.Context, confidence float64) {
	signal := detector.NormalizeVerification(detector.VerificationResult{
		Verified:   false,
		Confidence: confidence,
		Threshold:  s.threshold,
	})
	drafts, _ := risk.Aggregate([]entity.Signal{signal})
	for _, draft := range drafts {
		alert := &model.SecurityAlert{
			Type:        string(draft.Type),
			Severity:    string(draft.Severity),
			Description: draft.Description,
		}
		if err := s.alertService.Record(ctx, alert); err != nil {
			s.logger.Warn("IdentityService", "Failed to record verification alert", map[string]interface{}{"error": err.Error()})
		}
	}
}

// cosineSimilarity is clamped to [0,1]; opposite vectors count as no match,
// not negative confidence.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
