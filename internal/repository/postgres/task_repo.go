package postgres

import (
	"context"
	"fmt"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, user_id, title, status, deadline, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t      task.Task
		status string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &status, &t.Deadline, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	return &t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer observe("create_task", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `INSERT INTO tasks (user_id, title, status, deadline)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at, updated_at`

	err = conn.QueryRow(ctx, query,
		taskToCreate.UserID,
		taskToCreate.Title,
		string(taskToCreate.Status),
		taskToCreate.Deadline,
	).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt, &taskToCreate.UpdatedAt)
	if err != nil {
		return wrapErr("create task", err)
	}
	return nil
}

// GetByID filters on id and owner together so foreign tasks read as missing.
func (s *Storage) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer observe("get_task", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	t, err := scanTask(conn.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, wrapErr("get task", err)
	}
	return t, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()
	defer observe("update_task", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `UPDATE tasks
			SET title = $1,
				status = $2,
				deadline = $3,
				updated_at = NOW()
			WHERE id = $4 AND user_id = $5
			RETURNING created_at, updated_at`

	err = conn.QueryRow(ctx, query,
		taskToUpdate.Title,
		string(taskToUpdate.Status),
		taskToUpdate.Deadline,
		taskToUpdate.ID,
		taskToUpdate.UserID,
	).Scan(&taskToUpdate.CreatedAt, &taskToUpdate.UpdatedAt)
	if err != nil {
		return wrapErr("update task", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete_task", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return wrapErr("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) List(ctx context.Context, ownerID uuid.UUID, filter task.Filter) ([]*task.Task, error) {
	start := time.Now()
	defer observe("list_tasks", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{ownerID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrapErr("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list tasks", err)
	}
	return tasks, nil
}

func (s *Storage) CountByStatus(ctx context.Context, ownerID uuid.UUID, status task.Status) (int, error) {
	start := time.Now()
	defer observe("count_tasks", start)

	conn, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int
	err = conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2`,
		ownerID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, wrapErr("count tasks", err)
	}
	return count, nil
}
