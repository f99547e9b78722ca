package service

import (
	"errors"
	"fmt"
	"strings"
)

// --- Error Definitions ---
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrConflict           = errors.New("already exists")
	ErrUsernameTaken      = fmt.Errorf("username %w", ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email %w", ErrConflict)
	ErrWorkoutNotFound    = errors.New("workout not found")
	ErrUpstream           = errors.New("workout generation failed")
	ErrStorage            = errors.New("storage failure")
	ErrExportUnavailable  = errors.New("workout export is not configured")
)

// FieldError describes one rejected input field by its JSON name.
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

// ValidationError lists every rejected input field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether path is among the rejected fields.
func (e *ValidationError) Has(path string) bool {
	for _, f := range e.Fields {
		if f.Path == path {
			return true
		}
	}
	return false
}

func newValidationError(path, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Path: path, Msg: msg}}}
}
