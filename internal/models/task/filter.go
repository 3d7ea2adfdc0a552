package task

import (
	"errors"
	"strings"
)

var ErrInvalidStatusFilter = errors.New("Status filter must be one of all, active, done")

// Filter narrows a listing. A nil Status means every status.
type Filter struct {
	Status *Status
	Search string
}

func ParseStatusFilter(raw string) (*Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return nil, nil
	case "active":
		s := StatusActive
		return &s, nil
	case "done", "completed":
		s := StatusDone
		return &s, nil
	default:
		return nil, ErrInvalidStatusFilter
	}
}

func NewFilter(status, search string) (Filter, error) {
	s, err := ParseStatusFilter(status)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Status: s, Search: strings.TrimSpace(search)}, nil
}

func (f Filter) Matches(t *Task, fold func(string) string) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(fold(t.Title), fold(f.Search)) {
		return false
	}
	return true
}
