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

const eventColumns = `id, title, description, date, start_time, end_time, location,
	category, image, created_by, is_online, created_at`

// eventSortColumns whitelists sort_by values.
var eventSortColumns = map[string]string{
	"date":       "date",
	"title":      "title",
	"category":   "category",
	"location":   "location",
	"start_time": "start_time",
	"created_at": "created_at",
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e                                    models.Event
		startTime, endTime, image, createdBy sql.NullString
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &startTime, &endTime,
		&e.Location, &e.Category, &image, &createdBy, &e.IsOnline, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.StartTime = stringPtr(startTime)
	e.EndTime = stringPtr(endTime)
	e.Image = stringPtr(image)
	e.CreatedBy = stringPtr(createdBy)
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// CreateEvent inserts e, assigning ID and CreatedAt when empty.
func (db *DB) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	created := *e
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx, `INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Title, created.Description, created.Date,
		nullString(created.StartTime), nullString(created.EndTime), created.Location,
		created.Category, nullString(created.Image), nullString(created.CreatedBy),
		created.IsOnline, created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return &created, nil
}

// GetEvent returns the event with id, or an error wrapping models.ErrNotFound.
func (db *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("event", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListEvents returns events matching filter.
func (db *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query, args := buildEventListQuery(filter)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
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

func buildEventListQuery(filter models.EventFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if filter.StartDate != "" {
		where = append(where, "date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		where = append(where, "date <= ?")
		args = append(args, filter.EndDate)
	}
	if filter.Category != "" && filter.Category != models.AllCategories {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.IsOnline != nil {
		where = append(where, "is_online = ?")
		args = append(args, *filter.IsOnline)
	}
	if filter.CreatedBy != "" {
		where = append(where, "created_by = ?")
		args = append(args, filter.CreatedBy)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		where = append(where, `(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\'
			OR location ILIKE ? ESCAPE '\' OR category ILIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	column, ok := eventSortColumns[filter.SortBy]
	if !ok {
		column = "date"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s NULLS LAST, id ASC", column, direction)

	return sb.String(), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// UpdateEvent overwrites the mutable fields of e.ID.
func (db *DB) UpdateEvent(ctx context.Context, e *models.Event) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE events SET title = ?, description = ?, date = ?,
		start_time = ?, end_time = ?, location = ?, category = ?, image = ?, is_online = ?
		WHERE id = ?`,
		e.Title, e.Description, e.Date, nullString(e.StartTime), nullString(e.EndTime),
		e.Location, e.Category, nullString(e.Image), e.IsOnline, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFound("event", e.ID)
	}
	return nil
}

// DeleteEvent removes the event and its interested links.
// It reports whether the event existed.
func (db *DB) DeleteEvent(ctx context.Context, id string) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logRollback(err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interested_events WHERE event_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete interest links: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit event deletion: %w", err)
	}
	return n > 0, nil
}

// CountEvents returns the number of stored events.
func (db *DB) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
