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

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventpulse/internal/models"
)

const monitoredColumns = `id, user_id, category, reason, detection_time, is_active, details`

func scanMonitoredUser(row rowScanner) (*models.MonitoredUser, error) {
	var (
		m       models.MonitoredUser
		details sql.NullString
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Category, &m.Reason, &m.DetectionTime,
		&m.IsActive, &details); err != nil {
		return nil, err
	}
	m.DetectionTime = m.DetectionTime.UTC()
	if details.Valid && details.String != "" {
		if err := json.Unmarshal([]byte(details.String), &m.Details); err != nil {
			return nil, fmt.Errorf("failed to decode monitored user details: %w", err)
		}
	}
	return &m, nil
}

// InsertMonitoredUser stores a new alert. ID must be set by the caller.
func (db *DB) InsertMonitoredUser(ctx context.Context, m *models.MonitoredUser) error {
	raw, err := json.Marshal(m.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal monitored user details: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `INSERT INTO monitored_users (`+monitoredColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Category, m.Reason, m.DetectionTime.UTC(), m.IsActive, string(raw))
	if err != nil {
		return fmt.Errorf("failed to insert monitored user: %w", err)
	}
	return nil
}

// HasActiveMonitoredUser reports whether an active alert exists for (userID, category).
func (db *DB) HasActiveMonitoredUser(ctx context.Context, userID, category string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM monitored_users
		WHERE user_id = ? AND category = ? AND is_active`, userID, category).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check monitored user: %w", err)
	}
	return n > 0, nil
}

// GetMonitoredUser returns one alert by id.
func (db *DB) GetMonitoredUser(ctx context.Context, id string) (*models.MonitoredUser, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+monitoredColumns+` FROM monitored_users WHERE id = ?`, id)
	m, err := scanMonitoredUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("monitored user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monitored user: %w", err)
	}
	return m, nil
}

// DeactivateMonitoredUser sets is_active to false. A missing id returns
// models.ErrNotFound; an already inactive record is left as is.
func (db *DB) DeactivateMonitoredUser(ctx context.Context, id string) error {
	if _, err := db.GetMonitoredUser(ctx, id); err != nil {
		return err
	}
	if _, err := db.conn.ExecContext(ctx, `UPDATE monitored_users SET is_active = FALSE WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to dismiss monitored user: %w", err)
	}
	return nil
}

// ListMonitoredUsers returns alerts newest first, active ones only unless includeInactive.
func (db *DB) ListMonitoredUsers(ctx context.Context, includeInactive bool) ([]models.MonitoredUser, error) {
	query := `SELECT ` + monitoredColumns + ` FROM monitored_users`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY detection_time DESC, id`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitored users: %w", err)
	}
	defer rows.Close()

	out := make([]models.MonitoredUser, 0)
	for rows.Next() {
		m, err := scanMonitoredUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monitored user: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
