// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/eventpulse/internal/models"
)

// AppendActivity inserts one activity record. ID and Timestamp are filled when empty.
func (db *DB) AppendActivity(ctx context.Context, rec *models.ActivityRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	var details sql.NullString
	if len(rec.Details) > 0 {
		raw, err := json.Marshal(rec.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal activity details: %w", err)
		}
		details = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := db.conn.ExecContext(ctx, `INSERT INTO activity_logs
		(id, user_id, action_type, entity_type, entity_id, details, source_ip, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, string(rec.ActionType), rec.EntityType, rec.EntityID,
		details, rec.SourceIP, rec.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert activity record: %w", err)
	}
	return nil
}

// QueryActivity returns records matching q, newest first.
func (db *DB) QueryActivity(ctx context.Context, q models.ActivityQuery) ([]models.ActivityRecord, error) {
	var (
		where []string
		args  []interface{}
	)
	if !q.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, q.Since.UTC())
	}
	if q.ActionType != "" {
		where = append(where, "action_type = ?")
		args = append(args, string(q.ActionType))
	}
	if q.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, q.EntityType)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, user_id, action_type, entity_type, entity_id, details, source_ip, timestamp
		FROM activity_logs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY timestamp DESC, id DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	records := make([]models.ActivityRecord, 0)
	for rows.Next() {
		var (
			rec       models.ActivityRecord
			action    string
			details   sql.NullString
			sourceIP  sql.NullString
			timestamp time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &action, &rec.EntityType, &rec.EntityID,
			&details, &sourceIP, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity record: %w", err)
		}
		rec.ActionType = models.ActionType(action)
		rec.SourceIP = sourceIP.String
		rec.Timestamp = timestamp.UTC()
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &rec.Details); err != nil {
				return nil, fmt.Errorf("failed to decode activity details %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
