package service

import (
	"errors"
	"fmt"
	repo "taskManager/internal/repository"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnavailable  = "UNAVAILABLE"
)

const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgInvalidToken       = "Invalid or expired token"
	MsgUsernameTaken      = "An account with this username already exists"
	MsgUnavailable        = "Database connection failed. Please try again."
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string) *BusinessError {
	return NewBusinessError(CodeNotFound, resource+" not found", ToDetail("resource", resource))
}

// NewValidationError uses reason as the user-facing message.
func NewValidationError(field string, reason error) *BusinessError {
	return NewBusinessError(CodeValidation, reason.Error(), ToDetail("field", field))
}

func NewUnauthorized(message string, cause error) *BusinessError {
	e := NewBusinessError(CodeUnauthorized, message)
	e.Err = cause
	return e
}

func NewConflict(message string) *BusinessError {
	return NewBusinessError(CodeConflict, message)
}

func NewUnavailable(cause error) *BusinessError {
	e := NewBusinessError(CodeUnavailable, MsgUnavailable)
	e.Err = cause
	return e
}

// AsBusinessError unwraps err into a *BusinessError when it carries one.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// fromRepository maps store sentinels onto business errors.
func fromRepository(err error, notFound *BusinessError) error {
	switch {
	case errors.Is(err, repo.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repo.ErrUnavailable):
		return NewUnavailable(err)
	default:
		return err
	}
}
