// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing entity. Wrap it with NotFound.
	ErrNotFound = errors.New("not found")

	// ErrForbidden reports that the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrTransient reports a temporary infrastructure failure such as an
	// open circuit breaker. The operation may be retried.
	ErrTransient = errors.New("temporarily unavailable")
)

// NotFound returns an error wrapping ErrNotFound for entity/id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a *ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AuthorizationError reports that UserID may not perform Operation.
// It matches ErrForbidden under errors.Is.
type AuthorizationError struct {
	UserID    string
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %q is not allowed to %s", e.UserID, e.Operation)
}

// Unwrap lets errors.Is(err, ErrForbidden) succeed.
func (e *AuthorizationError) Unwrap() error {
	return ErrForbidden
}

// Transient wraps cause so that it matches ErrTransient.
func Transient(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, cause)
}
