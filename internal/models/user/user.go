package user

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 255
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var (
	ErrUsernameTooShort = errors.New("Username must be at least 3 characters")
	ErrUsernameTooLong  = errors.New("Username cannot exceed 255 characters")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("Password cannot exceed 72 bytes")
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if n > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	// bcrypt only looks at the first 72 bytes.
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
