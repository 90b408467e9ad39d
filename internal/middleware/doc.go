// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package middleware provides the infrastructure HTTP middleware shared by every
route: request ID propagation, Prometheus request instrumentation, and
structured access logging.

All middleware use the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

RequestID must run first so the other two can read the ID from the request
context through logging.Ctx.

Prometheus labels use the matched chi route pattern ("/api/v1/events/{id}")
rather than the raw path, which keeps label cardinality bounded.
*/
package middleware
