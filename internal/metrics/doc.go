// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with the default registry through promauto at
// package init. Callers use the Record* helpers rather than touching the
// collectors directly, which keeps label sets consistent.
//
// Metric families:
//
//	eventpulse_api_*         HTTP request counts, latency, in-flight requests
//	eventpulse_ws_*          WebSocket subscribers and messages
//	eventpulse_monitor_*     threshold monitor sweeps and flagged users
//	eventpulse_generator_*   synthetic events produced
//	eventpulse_simulation_*  simulated activity records
//	eventpulse_activity_*    activity log writes
//	eventpulse_eventbus_*    event bus publishes, deliveries, breaker state
//	eventpulse_authz_*       authorization decisions
//	eventpulse_files_*       uploads
package metrics
