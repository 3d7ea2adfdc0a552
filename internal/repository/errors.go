package repository

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	// ErrUnavailable reports that the store could not be reached in time.
	ErrUnavailable = errors.New("store unavailable")
)
