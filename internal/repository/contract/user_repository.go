package contract

import (
	"context"

	"proctoflex-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByRole(ctx context.Context, role string) ([]model.User, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.User, int64, error)

	// Face enrollment for identity verification.
	SaveFaceProfile(ctx context.Context, userID uuid.UUID, embedding pgvector.Vector) error
	GetFaceProfile(ctx context.Context, userID uuid.UUID) (*model.FaceProfile, error)
}
