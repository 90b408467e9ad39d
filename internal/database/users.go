// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/eventpulse/internal/models"
)

const userColumns = `id, name, description, avatar, email, password_hash, role, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Description, &u.Avatar, &u.Email,
		&u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// CreateUser inserts u. Email is stored lowercased and Role defaults to REGULAR.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.Role == "" {
		created.Role = models.RoleRegular
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	created.Email = strings.ToLower(strings.TrimSpace(created.Email))

	_, err := db.conn.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Name, created.Description, created.Avatar, created.Email,
		created.PasswordHash, created.Role, created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	created.Events = []string{}
	created.InterestedEvents = []string{}
	return &created, nil
}

// GetUserByID returns the user with its event and interest id lists.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := db.loadUserLinks(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail looks a user up by case-insensitive email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if err := db.loadUserLinks(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (db *DB) loadUserLinks(ctx context.Context, u *models.User) error {
	events, err := db.queryIDs(ctx, `SELECT id FROM events WHERE created_by = ? ORDER BY date, id`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load user events: %w", err)
	}
	interested, err := db.queryIDs(ctx, `SELECT event_id FROM interested_events WHERE user_id = ? ORDER BY created_at, event_id`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load interested events: %w", err)
	}
	u.Events = events
	u.InterestedEvents = interested
	return nil
}

func (db *DB) queryIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateUser writes the profile fields and password hash of u.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE users SET name = ?, description = ?, avatar = ?,
		password_hash = ?, role = ? WHERE id = ?`,
		u.Name, u.Description, u.Avatar, u.PasswordHash, u.Role, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFound("user", u.ID)
	}
	return nil
}

// CountUsers returns the number of users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// ListInterestedEvents returns the events userID is interested in.
func (db *DB) ListInterestedEvents(ctx context.Context, userID string) ([]models.Event, error) {
	if err := db.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, `SELECT e.id, e.title, e.description, e.date, e.start_time,
		e.end_time, e.location, e.category, e.image, e.created_by, e.is_online, e.created_at
		FROM interested_events i JOIN events e ON e.id = i.event_id
		WHERE i.user_id = ? ORDER BY e.date, e.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interested events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// AddInterestedEvent links userID to eventID. Both must exist. Adding an
// existing link is a no-op.
func (db *DB) AddInterestedEvent(ctx context.Context, userID, eventID string) error {
	if err := db.requireUser(ctx, userID); err != nil {
		return err
	}
	if _, err := db.GetEvent(ctx, eventID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx, `INSERT INTO interested_events (user_id, event_id, created_at)
		VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, userID, eventID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add interested event: %w", err)
	}
	return nil
}

// RemoveInterestedEvent deletes the link. Removing a missing link succeeds.
func (db *DB) RemoveInterestedEvent(ctx context.Context, userID, eventID string) error {
	if err := db.requireUser(ctx, userID); err != nil {
		return err
	}
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM interested_events WHERE user_id = ? AND event_id = ?`,
		userID, eventID); err != nil {
		return fmt.Errorf("failed to remove interested event: %w", err)
	}
	return nil
}

func (db *DB) requireUser(ctx context.Context, userID string) error {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&n); err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if n == 0 {
		return models.NotFound("user", userID)
	}
	return nil
}
