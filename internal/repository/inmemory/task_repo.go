package inmemory

import (
	"context"
	"fmt"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[taskToCreate.UserID]; !ok {
		return fmt.Errorf("create task for user %s: %w", taskToCreate.UserID, repo.ErrNotFound)
	}

	now := s.now()
	taskToCreate.ID = uuid.New()
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	s.tasks[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, repo.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[taskToUpdate.ID]
	if !ok || existing.UserID != taskToUpdate.UserID {
		return repo.ErrNotFound
	}

	taskToUpdate.CreatedAt = existing.CreatedAt
	taskToUpdate.UpdatedAt = s.now()
	s.tasks[taskToUpdate.ID] = taskToUpdate.Clone()
	return nil
}

func (s *Storage) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return repo.ErrNotFound
	}
	delete(s.tasks, id)
	for i, taskID := range s.ids {
		if taskID == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

// List walks insertion order backwards, which is newest-created first.
func (s *Storage) List(ctx context.Context, ownerID uuid.UUID, filter task.Filter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	fold := cases.Fold().String

	result := make([]*task.Task, 0)
	for i := len(s.ids) - 1; i >= 0; i-- {
		t := s.tasks[s.ids[i]]
		if t.UserID != ownerID || !filter.Matches(t, fold) {
			continue
		}
		result = append(result, t.Clone())
	}
	return result, nil
}

func (s *Storage) CountByStatus(ctx context.Context, ownerID uuid.UUID, status task.Status) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.tasks {
		if t.UserID == ownerID && t.Status == status {
			count++
		}
	}
	return count, nil
}
