package api

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Completed bool       `json:"completed"`
	Deadline  *time.Time `json:"deadline"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

const (
	StatusActive = "active"
	StatusDone   = "done"
)

type TaskList struct {
	Tasks          []Task `json:"tasks"`
	RemainingCount int    `json:"remainingCount"`
}

// TaskPatch is a partial update. ClearDeadline sends an explicit null.
type TaskPatch struct {
	Title         *string
	Status        *string
	Deadline      *time.Time
	ClearDeadline bool
}

func (p TaskPatch) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 3)
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Status != nil {
		body["status"] = *p.Status
	}
	switch {
	case p.ClearDeadline:
		body["deadline"] = nil
	case p.Deadline != nil:
		body["deadline"] = p.Deadline
	}
	return json.Marshal(body)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type taskEnvelope struct {
	Task Task `json:"task"`
}

type userEnvelope struct {
	User User `json:"user"`
}
