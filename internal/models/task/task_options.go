package task

import (
	"time"
)

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithStatus(status Status) TaskOption {
	return func(task *Task) {
		task.Status = status
	}
}

// WithCompleted maps the boolean form onto Status.
func WithCompleted(completed bool) TaskOption {
	if completed {
		return WithStatus(StatusDone)
	}
	return WithStatus(StatusActive)
}

// WithDeadline sets the deadline; nil clears it.
func WithDeadline(deadline *time.Time) TaskOption {
	return func(task *Task) {
		if deadline == nil {
			task.Deadline = nil
			return
		}
		d := *deadline
		task.Deadline = &d
	}
}

func (t *Task) Apply(options ...TaskOption) {
	for _, option := range options {
		if option != nil {
			option(t)
		}
	}
}
