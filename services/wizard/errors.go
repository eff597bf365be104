package wizard

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidTransition is returned for an event the current step does not accept.
	ErrInvalidTransition = errors.New("action not allowed at the current step")
	// ErrSessionBusy is returned while another action on the same session is in flight.
	ErrSessionBusy = errors.New("another action is in progress for this session")
)

// ValidationError lists missing or malformed fields; the session is left untouched.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
