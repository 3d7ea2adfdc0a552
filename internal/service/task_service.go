package service

import (
	"context"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// TaskList is a filtered listing. RemainingCount ignores the filter.
type TaskList struct {
	Tasks          []*task.Task
	RemainingCount int
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID uuid.UUID, status, search string) (*TaskList, error) {
	filter, err := task.NewFilter(status, search)
	if err != nil {
		return nil, NewValidationError("status", err)
	}

	var list TaskList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, err := s.repo.List(gctx, ownerID, filter)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		list.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.CountByStatus(gctx, ownerID, task.StatusActive)
		if err != nil {
			return fmt.Errorf("count active tasks: %w", err)
		}
		list.RemainingCount = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fromRepository(err, nil)
	}
	return &list, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, title string, deadline *time.Time) (*task.Task, error) {
	newTask := task.New(ownerID, title, deadline)
	if err := newTask.Validate(); err != nil {
		return nil, NewValidationError("title", err)
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fromRepository(fmt.Errorf("create task: %w", err), NewNotFound("User"))
	}

	logger.Info("Service: task created",
		zap.String("task_id", newTask.ID.String()),
		zap.String("user_id", ownerID.String()))
	return newTask, nil
}

// UpdateTask applies options to the caller's task. A task owned by
// someone else is reported as not found.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	existing, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(err, NewNotFound("Task"))
	}

	existing.Apply(options...)
	if err := existing.Validate(); err != nil {
		field := "title"
		if err == task.ErrInvalidStatus {
			field = "status"
		}
		return nil, NewValidationError(field, err)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fromRepository(fmt.Errorf("update task: %w", err), NewNotFound("Task"))
	}
	return existing, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(fmt.Errorf("delete task: %w", err), NewNotFound("Task"))
	}
	logger.Info("Service: task deleted",
		zap.String("task_id", id.String()),
		zap.String("user_id", ownerID.String()))
	return nil
}
