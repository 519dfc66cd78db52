package models

import (
	"errors"
	"sort"
	"strings"
)

// Domain errors shared by repositories, services and handlers
var (
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = wrapNotFound("user not found")
	ErrEventNotFound        = wrapNotFound("event not found")
	ErrArticleNotFound      = wrapNotFound("article not found")
	ErrRegistrationNotFound = wrapNotFound("registration not found")

	ErrCapacityExceeded   = errors.New("event is full")
	ErrCapacityBelowCount = errors.New("max attendees cannot be lower than current attendees")
	ErrRegistrationClosed = errors.New("registration is closed for this event")
	ErrMembershipRequired = errors.New("an active membership is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("user account is not active")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrSlugTaken          = errors.New("an article with this slug already exists")
	ErrForbidden          = errors.New("insufficient permissions")
)

type notFoundError struct {
	msg string
}

func wrapNotFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string { return e.msg }

// Is lets errors.Is(err, ErrNotFound) match every specific not-found error
func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries one message per failing field
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first message per field
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// HasErrors reports whether at least one field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can return it directly as an error
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
