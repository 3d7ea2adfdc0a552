package inmemory

import (
	"context"
	"fmt"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.byUsername[userToCreate.Username]; exists {
		return fmt.Errorf("create user %q: %w", userToCreate.Username, repo.ErrAlreadyExists)
	}

	now := s.now()
	userToCreate.ID = uuid.New()
	userToCreate.CreatedAt = now
	userToCreate.UpdatedAt = now

	stored := *userToCreate
	s.users[stored.ID] = &stored
	s.byUsername[stored.Username] = stored.ID
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *s.users[id]
	return &c, nil
}

func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = s.now()
	return nil
}

// DeleteUser removes the user together with every task they own.
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(s.users, id)
	delete(s.byUsername, u.Username)

	kept := s.ids[:0]
	for _, taskID := range s.ids {
		if s.tasks[taskID].UserID == id {
			delete(s.tasks, taskID)
			continue
		}
		kept = append(kept, taskID)
	}
	s.ids = kept
	return nil
}
