// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package detection

import (
	"context"
	"time"

	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/models"
)

// Category is a threshold category.
type Category string

const (
	CategoryCreate Category = "CREATE"
	CategoryUpdate Category = "UPDATE"
	CategoryDelete Category = "DELETE"
	CategoryAny    Category = "ANY"
)

// Categories is the order in which a sweep evaluates categories.
var Categories = []Category{CategoryCreate, CategoryUpdate, CategoryDelete, CategoryAny}

// ActionType returns the activity action counted by c, or "" for ANY.
func (c Category) ActionType() models.ActionType {
	switch c {
	case CategoryCreate:
		return models.ActionCreate
	case CategoryUpdate:
		return models.ActionUpdate
	case CategoryDelete:
		return models.ActionDelete
	default:
		return ""
	}
}

// Threshold flags a user with at least Count matching records within Window.
type Threshold struct {
	Count  int
	Window time.Duration
}

// WindowMinutes is Window rounded down to whole minutes.
func (t Threshold) WindowMinutes() int {
	return int(t.Window / time.Minute)
}

// Thresholds maps each category to its threshold.
type Thresholds map[Category]Threshold

// DefaultThresholds returns the built-in thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CategoryCreate: {Count: 30, Window: 5 * time.Minute},
		CategoryUpdate: {Count: 50, Window: 5 * time.Minute},
		CategoryDelete: {Count: 20, Window: 5 * time.Minute},
		CategoryAny:    {Count: 70, Window: 5 * time.Minute},
	}
}

// ThresholdsFromConfig converts the configuration section.
func ThresholdsFromConfig(cfg config.ThresholdsConfig) Thresholds {
	return Thresholds{
		CategoryCreate: {Count: cfg.Create.Count, Window: cfg.Create.Window},
		CategoryUpdate: {Count: cfg.Update.Count, Window: cfg.Update.Window},
		CategoryDelete: {Count: cfg.Delete.Count, Window: cfg.Delete.Window},
		CategoryAny:    {Count: cfg.Any.Count, Window: cfg.Any.Window},
	}
}

// ActivitySource reads the activity log.
type ActivitySource interface {
	QueryActivity(ctx context.Context, q models.ActivityQuery) ([]models.ActivityRecord, error)
}

// RegistryStore persists monitored users.
type RegistryStore interface {
	InsertMonitoredUser(ctx context.Context, m *models.MonitoredUser) error
	HasActiveMonitoredUser(ctx context.Context, userID, category string) (bool, error)
	GetMonitoredUser(ctx context.Context, id string) (*models.MonitoredUser, error)
	DeactivateMonitoredUser(ctx context.Context, id string) error
	ListMonitoredUsers(ctx context.Context, includeInactive bool) ([]models.MonitoredUser, error)
}
