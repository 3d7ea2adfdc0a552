package task

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxTitleLength = 200

type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Status    Status     `json:"status" db:"status"`
	Deadline  *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type Status string

const StatusActive Status = "active"
const StatusDone Status = "done"

var (
	ErrEmptyTitle    = errors.New("Task title cannot be empty")
	ErrTitleTooLong  = errors.New("Title cannot exceed 200 characters")
	ErrInvalidStatus = errors.New("Status must be either active or done")
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDone
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusActive
	}
	return StatusDone
}

func (t *Task) Completed() bool {
	return t.Status == StatusDone
}

// Validate normalizes the title and checks the task invariants.
func (t *Task) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func New(userID uuid.UUID, title string, deadline *time.Time) *Task {
	return &Task{
		UserID:   userID,
		Title:    title,
		Status:   StatusActive,
		Deadline: deadline,
	}
}

// Clone returns a copy that shares nothing with t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return &c
}
