// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package main is the entry point for the EventPulse server.
//
// EventPulse stores events and users in DuckDB, serves a JSON REST API and
// a WebSocket change feed, and watches the activity log for users whose
// write rate crosses a configured threshold.
//
// # Startup
//
// The server initializes components in this order:
//
//  1. Configuration: defaults, config.yaml, then environment (koanf)
//  2. Logging: zerolog with the configured level and format
//  3. Database: DuckDB schema, plus sample data when enabled
//  4. Event bus: in-process Watermill GoChannel or NATS JetStream
//  5. Monitor, generator, simulation driver and upload store
//  6. Authentication (JWT) and authorization (Casbin)
//  7. Supervisor tree: monitor, hub, forwarder, generator, HTTP server
//
// # Configuration
//
// Every setting has an environment variable, for example:
//
//	JWT_SECRET=...                   # required, 32+ characters
//	SERVER_PORT=8000
//	DATABASE_PATH=./data/eventpulse.duckdb
//	EVENT_BUS_BACKEND=nats           # default: memory
//	MONITOR_INTERVAL=2m
//	LOGGING_FORMAT=console
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops every
// service, the HTTP server drains in-flight requests, and the bus, upload
// index and database are closed in that order.
package main
