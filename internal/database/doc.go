// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package database is the DuckDB persistence layer for EventPulse.

One *DB is opened in main() and injected into every component that needs
storage. It implements:

  - the event store (events table, with interested_events links)
  - the user directory (users table)
  - the activity log store (append-only activity_logs table)
  - the monitored user store (monitored_users table)

Schema creation is idempotent (CREATE TABLE IF NOT EXISTS) and runs from New.
There are no migrations.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	event, err := db.CreateEvent(ctx, input.ToEvent(userID))

# Concurrency

database/sql pools DuckDB connections, and every connection of one *DB shares
the same DuckDB instance, so ":memory:" databases work across the pool.
Multi-statement changes (event deletion) run in a transaction.
*/
package database
