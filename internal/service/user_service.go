package service

import (
	"context"
	"errors"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/contract"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type IUserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetAll(ctx context.Context, limit, offset int) ([]dto.UserResponse, int64, error)
	GetByRole(ctx context.Context, role string) ([]dto.UserResponse, error)
}

type userService struct {
	userRepo contract.UserRepository
}

func NewUserService(userRepo contract.UserRepository) IUserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetAll(ctx context.Context, limit, offset int) ([]dto.UserResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, total, err := s.userRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) GetByRole(ctx context.Context, role string) ([]dto.UserResponse, error) {
	users, err := s.userRepo.GetByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		Id:       user.Id,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}
