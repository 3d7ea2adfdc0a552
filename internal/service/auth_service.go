package service

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	users     UserRepository
	tokens    *TokenManager
	passwords *PasswordHasher
}

func NewAuthService(users UserRepository, tokens *TokenManager, passwords *PasswordHasher) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

func validateCredentials(username, password string) error {
	if err := user.ValidateUsername(username); err != nil {
		return NewValidationError("username", err)
	}
	if err := user.ValidatePassword(password); err != nil {
		return NewValidationError("password", err)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = user.NormalizeUsername(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, NewConflict(MsgUsernameTaken)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fromRepository(fmt.Errorf("lookup username: %w", err), nil)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, NewConflict(MsgUsernameTaken)
		}
		return nil, fromRepository(fmt.Errorf("create user: %w", err), nil)
	}

	logger.Info("Service: user registered", zap.String("user_id", newUser.ID.String()))
	return s.issue(newUser)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = user.NormalizeUsername(username)

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewUnauthorized(MsgInvalidCredentials, nil)
		}
		return nil, fromRepository(fmt.Errorf("lookup username: %w", err), nil)
	}

	if err := s.passwords.Compare(existing.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, NewUnauthorized(MsgInvalidCredentials, nil)
		}
		return nil, err
	}

	return s.issue(existing)
}

// Logout has nothing to revoke: tokens are stateless and the client drops its copy.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	logger.Info("Service: user logged out", zap.String("user_id", userID.String()))
	return nil
}

// Authenticate resolves a bearer token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*user.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, NewUnauthorized(MsgInvalidToken, err)
	}

	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewUnauthorized(MsgInvalidToken, err)
		}
		return nil, fromRepository(fmt.Errorf("lookup user: %w", err), nil)
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fromRepository(err, NewNotFound("User"))
	}

	if err := s.passwords.Compare(u.PasswordHash, current); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return NewValidationError("currentPassword", errors.New("Current password is incorrect"))
		}
		return err
	}
	if err := user.ValidatePassword(next); err != nil {
		return NewValidationError("newPassword", err)
	}

	hash, err := s.passwords.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fromRepository(fmt.Errorf("update password: %w", err), NewNotFound("User"))
	}
	return nil
}

func (s *AuthService) issue(u *user.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
