// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package detection

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

// Registry manages monitored-user alerts.
type Registry struct {
	store RegistryStore
}

// NewRegistry creates a registry over store.
func NewRegistry(store RegistryStore) *Registry {
	return &Registry{store: store}
}

// IsActivelyFlagged reports whether userID holds an active alert for category.
func (r *Registry) IsActivelyFlagged(ctx context.Context, userID string, category Category) (bool, error) {
	return r.store.HasActiveMonitoredUser(ctx, userID, string(category))
}

// Flag stores a new active alert, assigning its ID.
func (r *Registry) Flag(ctx context.Context, m *models.MonitoredUser) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.IsActive = true
	if err := r.store.InsertMonitoredUser(ctx, m); err != nil {
		return fmt.Errorf("failed to flag user %s: %w", m.UserID, err)
	}
	return nil
}

// Dismiss deactivates the alert with id. Dismissing an inactive alert
// succeeds; an unknown id returns an error wrapping models.ErrNotFound.
func (r *Registry) Dismiss(ctx context.Context, id string) (*models.MonitoredUser, error) {
	if err := r.store.DeactivateMonitoredUser(ctx, id); err != nil {
		return nil, err
	}
	m, err := r.store.GetMonitoredUser(ctx, id)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("monitored_user_id", id).Str("user_id", m.UserID).
		Str("category", m.Category).Msg("monitored user dismissed")
	return m, nil
}

// ListActive returns active alerts, newest detection first.
func (r *Registry) ListActive(ctx context.Context) ([]models.MonitoredUser, error) {
	return r.store.ListMonitoredUsers(ctx, false)
}

// List returns alerts, including dismissed ones when includeInactive.
func (r *Registry) List(ctx context.Context, includeInactive bool) ([]models.MonitoredUser, error) {
	return r.store.ListMonitoredUsers(ctx, includeInactive)
}

// Get returns one alert.
func (r *Registry) Get(ctx context.Context, id string) (*models.MonitoredUser, error) {
	return r.store.GetMonitoredUser(ctx, id)
}
