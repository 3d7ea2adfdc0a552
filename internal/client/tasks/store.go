// Package tasks holds the client-side task list. Mutations are applied
// optimistically and rolled back to a snapshot when the remote call fails.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"taskManager/internal/client/api"
	"taskManager/internal/models/task"
	"time"
	"unicode/utf8"
)

var ErrUnknownTask = errors.New("task not found")

// Remote is where the store sends its mutations.
type Remote interface {
	ListTasks(ctx context.Context, status, search string) (*api.TaskList, error)
	CreateTask(ctx context.Context, title string, deadline *time.Time) (*api.Task, error)
	UpdateTask(ctx context.Context, id string, patch api.TaskPatch) (*api.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Store is safe for concurrent use. Two in-flight mutations of the same
// task are not ordered: a late rollback restores its own snapshot and
// drops anything applied after it was taken.
type Store struct {
	remote Remote

	mu          sync.Mutex
	tasks       []api.Task
	subscribers []func([]api.Task)
}

func NewStore(remote Remote) *Store {
	return &Store{remote: remote}
}

func (s *Store) Tasks() []api.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.tasks)
}

// Subscribe registers fn to receive the list after every change.
func (s *Store) Subscribe(fn func([]api.Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Load replaces the list with the full remote list.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.remote.ListTasks(ctx, "", "")
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	s.dispatch(Loaded{Tasks: list.Tasks})
	return nil
}

// Add waits for the remote record and inserts it at the head.
func (s *Store) Add(ctx context.Context, title string, deadline *time.Time) (api.Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return api.Task{}, err
	}

	created, err := s.remote.CreateTask(ctx, title, deadline)
	if err != nil {
		return api.Task{}, err
	}
	s.dispatch(Inserted{Task: *created})
	return copyTask(*created), nil
}

func (s *Store) Toggle(ctx context.Context, id string) error {
	current, ok := s.find(id)
	if !ok {
		return ErrUnknownTask
	}

	next := api.StatusDone
	if current.Status == api.StatusDone {
		next = api.StatusActive
	}
	return s.run(ctx, Toggled{ID: id}, func(ctx context.Context) error {
		_, err := s.remote.UpdateTask(ctx, id, api.TaskPatch{Status: &next})
		return err
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, ok := s.find(id); !ok {
		return ErrUnknownTask
	}
	return s.run(ctx, Removed{ID: id}, func(ctx context.Context) error {
		return s.remote.DeleteTask(ctx, id)
	})
}

func (s *Store) Edit(ctx context.Context, id, title string) error {
	title, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	if _, ok := s.find(id); !ok {
		return ErrUnknownTask
	}
	return s.run(ctx, Renamed{ID: id, Title: title}, func(ctx context.Context) error {
		_, err := s.remote.UpdateTask(ctx, id, api.TaskPatch{Title: &title})
		return err
	})
}

// SetDeadline sets the deadline, or clears it when deadline is nil.
func (s *Store) SetDeadline(ctx context.Context, id string, deadline *time.Time) error {
	if _, ok := s.find(id); !ok {
		return ErrUnknownTask
	}
	patch := api.TaskPatch{Deadline: deadline, ClearDeadline: deadline == nil}
	return s.run(ctx, DeadlineSet{ID: id, Deadline: deadline}, func(ctx context.Context) error {
		_, err := s.remote.UpdateTask(ctx, id, patch)
		return err
	})
}

// run applies a locally, then calls the remote. On failure the list is
// restored to the snapshot taken before a.
func (s *Store) run(ctx context.Context, a Action, call func(context.Context) error) error {
	s.mu.Lock()
	snapshot := clone(s.tasks)
	s.tasks = Reduce(s.tasks, a)
	state, subs := clone(s.tasks), s.subscribers
	s.mu.Unlock()
	notify(subs, state)

	if err := call(ctx); err != nil {
		s.dispatch(Restored{Tasks: snapshot})
		return err
	}
	return nil
}

func (s *Store) dispatch(a Action) {
	s.mu.Lock()
	s.tasks = Reduce(s.tasks, a)
	state, subs := clone(s.tasks), s.subscribers
	s.mu.Unlock()
	notify(subs, state)
}

func (s *Store) find(id string) (api.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return copyTask(t), true
		}
	}
	return api.Task{}, false
}

func notify(subs []func([]api.Task), state []api.Task) {
	for _, fn := range subs {
		fn(clone(state))
	}
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", task.ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > task.MaxTitleLength {
		return "", task.ErrTitleTooLong
	}
	return title, nil
}
