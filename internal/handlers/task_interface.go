package handlers

import (
	"context"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
	"time"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	ListTasks(ctx context.Context, ownerID uuid.UUID, status, search string) (*service.TaskList, error)
	CreateTask(ctx context.Context, ownerID uuid.UUID, title string, deadline *time.Time) (*task.Task, error)
	UpdateTask(ctx context.Context, ownerID, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*service.AuthResult, error)
	Login(ctx context.Context, username, password string) (*service.AuthResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error)
}
