package dto

import (
	"bytes"
	"encoding/json"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
	"time"

	"github.com/google/uuid"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// OptionalTime tells an absent field apart from an explicit null.
// An empty string decodes like null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

type CreateTaskRequest struct {
	Title    string       `json:"title"`
	Deadline OptionalTime `json:"deadline"`
}

type UpdateTaskRequest struct {
	Title     *string      `json:"title,omitempty"`
	Status    *string      `json:"status,omitempty"`
	Completed *bool        `json:"completed,omitempty"`
	Deadline  OptionalTime `json:"deadline"`
}

// Options converts the patch into task options. Status wins over completed.
func (r UpdateTaskRequest) Options() []task.TaskOption {
	var options []task.TaskOption
	if r.Title != nil {
		options = append(options, task.WithTitle(*r.Title))
	}
	if r.Status != nil {
		options = append(options, task.WithStatus(task.Status(*r.Status)))
	} else if r.Completed != nil {
		options = append(options, task.WithCompleted(*r.Completed))
	}
	if r.Deadline.Set {
		options = append(options, task.WithDeadline(r.Deadline.Value))
	}
	return options
}

type TaskResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Completed bool       `json:"completed"`
	Deadline  *time.Time `json:"deadline"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type TaskEnvelope struct {
	Task TaskResponse `json:"task"`
}

type TaskListResponse struct {
	Tasks          []TaskResponse `json:"tasks"`
	RemainingCount int            `json:"remainingCount"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		Completed: t.Completed(),
		Deadline:  t.Deadline,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromTaskList(list *service.TaskList) TaskListResponse {
	result := make([]TaskResponse, len(list.Tasks))
	for i, t := range list.Tasks {
		result[i] = FromTask(t)
	}
	return TaskListResponse{Tasks: result, RemainingCount: list.RemainingCount}
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromAuthResult(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      FromUser(res.User),
	}
}
