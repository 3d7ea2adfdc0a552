package service

import (
	"context"
	"taskManager/internal/models/user"

	"github.com/google/uuid"
)

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fromRepository(err, NewNotFound("User"))
	}
	return u, nil
}
