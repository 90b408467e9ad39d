// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package api implements the REST and WebSocket surface of EventPulse on the
chi router.

Files:

  - chi_router.go: route table and middleware composition
  - chi_middleware.go: CORS, rate limiting and security headers
  - handlers.go: Handler dependencies
  - handlers_helpers.go: JSON envelope, error mapping, request parsing
  - handlers_auth.go: login and token refresh
  - handlers_events.go: event CRUD with broadcast and activity logging
  - handlers_users.go: profiles and interested events
  - handlers_files.go: upload and download
  - handlers_admin.go: monitored users, activity log, simulation, sweeps
  - handlers_health.go: liveness and component status
  - handlers_websocket.go: /ws/events upgrade

Every JSON response uses the models.APIResponse envelope. Domain errors map to
HTTP statuses in respondServiceError:

	models.ValidationError      -> 400 VALIDATION_ERROR
	models.ErrNotFound          -> 404 NOT_FOUND
	models.ErrForbidden         -> 403 FORBIDDEN
	models.ErrTransient         -> 503 SERVICE_UNAVAILABLE
	anything else               -> 500 INTERNAL_ERROR
*/
package api
