// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package models defines the data types shared by the EventPulse packages.

# Domain Types

  - Event: a calendar event created by a user or by the synthetic generator
  - User: an account with a REGULAR or ADMIN role
  - ActivityRecord: one append-only entry in the activity log
  - MonitoredUser: an anomaly alert raised by the threshold monitor
  - EventChange: an event plus the action (created, updated, deleted) that
    produced it, as it travels over the event bus to WebSocket subscribers

# API Types

APIResponse is the envelope every REST endpoint returns. APIError carries a
stable machine-readable code ("VALIDATION_ERROR", "NOT_FOUND", ...).

# Errors

errors.go holds the error taxonomy used between layers: ErrNotFound,
ErrForbidden (with AuthorizationError), ErrTransient and ValidationError.
Callers test for them with errors.Is and errors.As; the api package maps
them onto HTTP status codes.

# Serialization

Structs use snake_case JSON tags. WebSocket subscribers receive events in
a camelCase client format produced by ToClientFormat.
*/
package models
