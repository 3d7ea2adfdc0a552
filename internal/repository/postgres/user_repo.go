package postgres

import (
	"context"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"time"

	"github.com/google/uuid"
)

const userColumns = `id, username, password_hash, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()
	defer observe("create_user", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `INSERT INTO users (username, password_hash)
				VALUES ($1, $2)
				RETURNING id, created_at, updated_at`

	err = conn.QueryRow(ctx, query, userToCreate.Username, userToCreate.PasswordHash).
		Scan(&userToCreate.ID, &userToCreate.CreatedAt, &userToCreate.UpdatedAt)
	if err != nil {
		return wrapErr("create user", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getUser(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.getUser(ctx, "get user by username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *Storage) getUser(ctx context.Context, op, query string, arg any) (*user.User, error) {
	start := time.Now()
	defer observe(op, start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var u user.User
	err = conn.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return &u, nil
}

func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	start := time.Now()
	defer observe("update_password", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return wrapErr("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DeleteUser relies on ON DELETE CASCADE to remove the user's tasks.
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete_user", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
