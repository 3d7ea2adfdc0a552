// Package session keeps the signed-in identity in durable client storage.
//
// Server accounts and local accounts are separate identity spaces. A local
// account is created only when the server cannot be reached and is never
// synchronised with the server; Session.Local marks it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"taskManager/internal/client/api"
	"taskManager/internal/client/storage"
	"taskManager/internal/models/user"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	KeyUsername   = "task-manager-session"
	KeyUserID     = "task-manager-user-id"
	KeyToken      = "task-manager-token"
	KeyLocal      = "task-manager-session-local"
	KeyLocalUsers = "task-manager-users"
)

var sessionKeys = []string{KeyUsername, KeyUserID, KeyToken, KeyLocal}

var (
	ErrNoSession         = errors.New("not signed in")
	ErrAccountNotFound   = errors.New("Account not found (and backend unreachable).")
	ErrIncorrectPassword = errors.New("Incorrect password.")
	ErrUsernameTaken     = errors.New("Username already registered (local).")
	ErrLoginFailed       = errors.New("Login failed. Please try again.")
	ErrSignupFailed      = errors.New("Signup failed. Please try again.")
)

type Session struct {
	UserID   string
	Username string
	Token    string
	Local    bool
}

// AuthAPI is the part of the API client the session needs.
type AuthAPI interface {
	Register(ctx context.Context, username, password string) (*api.AuthResult, error)
	Login(ctx context.Context, username, password string) (*api.AuthResult, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

type localUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Manager struct {
	mu         sync.Mutex
	store      storage.Storage
	api        AuthAPI
	bcryptCost int
	current    *Session
}

type Option func(*Manager)

// WithBcryptCost sets the cost used to hash local passwords.
func WithBcryptCost(cost int) Option {
	return func(m *Manager) {
		m.bcryptCost = cost
	}
}

// NewManager restores a previously saved session from store, if any.
func NewManager(store storage.Storage, authAPI AuthAPI, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		api:        authAPI,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(m)
	}

	if username, ok := store.Get(KeyUsername); ok && username != "" {
		s := &Session{Username: username}
		s.UserID, _ = store.Get(KeyUserID)
		s.Token, _ = store.Get(KeyToken)
		if raw, ok := store.Get(KeyLocal); ok {
			s.Local, _ = strconv.ParseBool(raw)
		}
		m.current = s
		if s.Token != "" {
			authAPI.SetToken(s.Token)
		}
	}
	return m
}

func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Login signs in against the server. If the server is unreachable it
// checks the local credential list instead.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	username = user.NormalizeUsername(username)

	res, err := m.api.Login(ctx, username, password)
	switch {
	case err == nil:
		return m.save(Session{UserID: res.User.ID, Username: res.User.Username, Token: res.Token})
	case errors.Is(err, api.ErrUnreachable):
		return m.localLogin(username, password)
	default:
		return Session{}, surface(err, ErrLoginFailed)
	}
}

// Signup registers against the server, or locally when it is unreachable.
func (m *Manager) Signup(ctx context.Context, username, password string) (Session, error) {
	username = user.NormalizeUsername(username)

	res, err := m.api.Register(ctx, username, password)
	switch {
	case err == nil:
		return m.save(Session{UserID: res.User.ID, Username: res.User.Username, Token: res.Token})
	case errors.Is(err, api.ErrUnreachable):
		return m.localSignup(username, password)
	default:
		return Session{}, surface(err, ErrSignupFailed)
	}
}

// Logout clears every session key. The server call is best effort.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()

	if current != nil && !current.Local && current.Token != "" {
		_ = m.api.Logout(ctx)
	}
	m.api.SetToken("")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil

	var errs []error
	for _, key := range sessionKeys {
		if err := m.store.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) save(s Session) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := map[string]string{
		KeyUsername: s.Username,
		KeyUserID:   s.UserID,
		KeyToken:    s.Token,
		KeyLocal:    strconv.FormatBool(s.Local),
	}
	for key, value := range values {
		if err := m.store.Set(key, value); err != nil {
			return Session{}, fmt.Errorf("save session: %w", err)
		}
	}

	m.current = &s
	m.api.SetToken(s.Token)
	return s, nil
}

func (m *Manager) localLogin(username, password string) (Session, error) {
	users, err := m.localUsers()
	if err != nil {
		return Session{}, err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return Session{}, ErrIncorrectPassword
		}
		return m.save(Session{UserID: u.ID, Username: u.Username, Local: true})
	}
	return Session{}, ErrAccountNotFound
}

func (m *Manager) localSignup(username, password string) (Session, error) {
	if err := user.ValidateUsername(username); err != nil {
		return Session{}, err
	}
	if err := user.ValidatePassword(password); err != nil {
		return Session{}, err
	}

	users, err := m.localUsers()
	if err != nil {
		return Session{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return Session{}, ErrUsernameTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	created := localUser{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, created)

	raw, err := json.Marshal(users)
	if err != nil {
		return Session{}, fmt.Errorf("encode local users: %w", err)
	}
	if err := m.store.Set(KeyLocalUsers, string(raw)); err != nil {
		return Session{}, fmt.Errorf("save local users: %w", err)
	}

	return m.save(Session{UserID: created.ID, Username: created.Username, Local: true})
}

func (m *Manager) localUsers() ([]localUser, error) {
	raw, ok := m.store.Get(KeyLocalUsers)
	if !ok || raw == "" {
		return nil, nil
	}
	var users []localUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode local users: %w", err)
	}
	return users, nil
}

// surface keeps the server's message when there is one.
func surface(err, fallback error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr
	}
	return fallback
}
