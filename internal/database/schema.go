// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package database

import (
	"context"
	"fmt"
	"time"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

var tableQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'REGULAR',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		location TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		image TEXT,
		created_by TEXT,
		is_online BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interested_events (
		user_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		action_type TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		details TEXT,
		source_ip TEXT,
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS monitored_users (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		reason TEXT NOT NULL,
		detection_time TIMESTAMP NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		details TEXT
	)`,
}

// activity_logs is append-only, so its indexes never hit DuckDB's
// update-as-delete-plus-insert path.
var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_timestamp ON activity_logs(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_user ON activity_logs(user_id, action_type)`,
	`CREATE INDEX IF NOT EXISTS idx_monitored_users_key ON monitored_users(user_id, category)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, q := range tableQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, q := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
