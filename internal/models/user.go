// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package models

import "time"

// Role names. They match the subjects in internal/authz/policy.csv.
const (
	RoleRegular = "REGULAR"
	RoleAdmin   = "ADMIN"
)

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleRegular || role == RoleAdmin
}

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Avatar           string    `json:"avatar"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	Events           []string  `json:"events"`
	InterestedEvents []string  `json:"interestedEvents"`
}

// IsAdmin reports whether u holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPatch is the body of a profile update. Password is re-hashed by the handler.
type UserPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Avatar      *string `json:"avatar" validate:"omitempty,url"`
	Password    *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// InterestRequest is the body of POST /users/{id}/interested.
type InterestRequest struct {
	EventID string `json:"event_id" validate:"required"`
}
