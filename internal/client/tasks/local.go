package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"taskManager/internal/client/api"
	"taskManager/internal/client/storage"
	"time"

	"github.com/google/uuid"
)

// LocalKeyPrefix prefixes the storage key of an offline user's tasks.
const LocalKeyPrefix = "task-manager-tasks-"

// LocalRemote keeps an offline user's tasks in client storage. It lets
// the Store run unchanged for local sessions.
type LocalRemote struct {
	mu    sync.Mutex
	store storage.Storage
	key   string
	now   func() time.Time
}

func NewLocalRemote(store storage.Storage, username string) *LocalRemote {
	return &LocalRemote{
		store: store,
		key:   LocalKeyPrefix + username,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (l *LocalRemote) ListTasks(ctx context.Context, status, search string) (*api.TaskList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return nil, err
	}
	return &api.TaskList{Tasks: Visible(all, status, search), RemainingCount: Remaining(all)}, nil
}

func (l *LocalRemote) CreateTask(ctx context.Context, title string, deadline *time.Time) (*api.Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return nil, err
	}

	now := l.now()
	created := api.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    api.StatusActive,
		Deadline:  copyTime(deadline),
		CreatedAt: now,
		UpdatedAt: now,
	}
	all = Reduce(all, Inserted{Task: created})
	if err := l.save(all); err != nil {
		return nil, err
	}
	return &created, nil
}

func (l *LocalRemote) UpdateTask(ctx context.Context, id string, patch api.TaskPatch) (*api.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(all, id)
	if idx < 0 {
		return nil, ErrUnknownTask
	}

	t := all[idx]
	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		t.Title = title
	}
	if patch.Status != nil {
		if *patch.Status != api.StatusActive && *patch.Status != api.StatusDone {
			return nil, fmt.Errorf("invalid status %q", *patch.Status)
		}
		t.Status = *patch.Status
		t.Completed = t.Status == api.StatusDone
	}
	switch {
	case patch.ClearDeadline:
		t.Deadline = nil
	case patch.Deadline != nil:
		t.Deadline = copyTime(patch.Deadline)
	}
	t.UpdatedAt = l.now()

	all = Reduce(all, Replaced{Task: t})
	if err := l.save(all); err != nil {
		return nil, err
	}
	return &t, nil
}

func (l *LocalRemote) DeleteTask(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return err
	}
	if indexOf(all, id) < 0 {
		return ErrUnknownTask
	}
	return l.save(Reduce(all, Removed{ID: id}))
}

func (l *LocalRemote) load() ([]api.Task, error) {
	raw, ok := l.store.Get(l.key)
	if !ok || raw == "" {
		return []api.Task{}, nil
	}
	var all []api.Task
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("decode local tasks: %w", err)
	}
	return all, nil
}

func (l *LocalRemote) save(all []api.Task) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode local tasks: %w", err)
	}
	if err := l.store.Set(l.key, string(raw)); err != nil {
		return fmt.Errorf("save local tasks: %w", err)
	}
	return nil
}

func indexOf(all []api.Task, id string) int {
	for i, t := range all {
		if t.ID == id {
			return i
		}
	}
	return -1
}
