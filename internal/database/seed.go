// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

// PasswordHasher turns a plaintext password into a stored hash.
type PasswordHasher func(password string) (string, error)

type seedUser struct {
	id, name, email, password, role string
}

var sampleUsers = []seedUser{
	{"admin1", "Admin User", "admin@example.com", "admin123", models.RoleAdmin},
	{"user1", "John Doe", "john@example.com", "password123", models.RoleRegular},
}

type seedEvent struct {
	title, description, category, location string
	daysAhead                              int
	start, end                             string
	online                                 bool
	owner                                  string
}

var sampleEvents = []seedEvent{
	{"Go Meetup", "Monthly gathering for Go developers.", "Technology", "San Francisco", 7, "18:00", "20:30", false, "user1"},
	{"Jazz Night", "Live jazz in the park.", "Music", "Chicago", 14, "19:00", "22:00", false, "user1"},
	{"Design Systems Workshop", "Hands-on session on component libraries.", "Design", "Remote", 21, "10:00", "12:00", true, "admin1"},
}

// SeedSampleData creates the sample users and events when the users table
// is empty. It reports whether anything was written.
func (db *DB) SeedSampleData(ctx context.Context, hash PasswordHasher) (bool, error) {
	n, err := db.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	for _, su := range sampleUsers {
		hashed, err := hash(su.password)
		if err != nil {
			return false, fmt.Errorf("failed to hash password for %s: %w", su.id, err)
		}
		if _, err := db.CreateUser(ctx, &models.User{
			ID:           su.id,
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hashed,
			Role:         su.role,
		}); err != nil {
			return false, err
		}
	}

	today := time.Now().UTC()
	for _, se := range sampleEvents {
		start, end, owner := se.start, se.end, se.owner
		if _, err := db.CreateEvent(ctx, &models.Event{
			Title:       se.title,
			Description: se.description,
			Date:        today.AddDate(0, 0, se.daysAhead).Format(models.DateLayout),
			StartTime:   &start,
			EndTime:     &end,
			Location:    se.location,
			Category:    se.category,
			CreatedBy:   &owner,
			IsOnline:    se.online,
		}); err != nil {
			return false, err
		}
	}

	logging.Info().Int("users", len(sampleUsers)).Int("events", len(sampleEvents)).Msg("seeded sample data")
	return true, nil
}
