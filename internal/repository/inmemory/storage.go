package inmemory

import (
	"context"
	"sync"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"time"

	"github.com/google/uuid"
)

// Storage keeps users and tasks in process memory. It backs the
// "inmemory" repository type and the service tests.
type Storage struct {
	mtx sync.RWMutex

	users      map[uuid.UUID]*user.User
	byUsername map[string]uuid.UUID

	tasks map[uuid.UUID]*task.Task
	ids   []uuid.UUID // insertion order

	now func() time.Time
}

func New() *Storage {
	return &Storage{
		users:      make(map[uuid.UUID]*user.User),
		byUsername: make(map[string]uuid.UUID),
		tasks:      make(map[uuid.UUID]*task.Task),
		ids:        []uuid.UUID{},
		now:        time.Now,
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Close() {
	logger.Info("Repository: in-memory storage closed")
}
