package service

import (
	"context"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*task.Task, error)
	Update(context.Context, *task.Task) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, filter task.Filter) ([]*task.Task, error)
	CountByStatus(ctx context.Context, ownerID uuid.UUID, status task.Status) (int, error)
}

type UserRepository interface {
	CreateUser(context.Context, *user.User) error
	GetUserByID(context.Context, uuid.UUID) (*user.User, error)
	GetUserByUsername(context.Context, string) (*user.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
