// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventpulse"

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Number of in-flight HTTP requests",
		},
	)

	// WebSocket
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections_active",
			Help:      "Number of subscribers in the events_updates group",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_sent_total",
			Help:      "Messages queued to WebSocket subscribers",
		},
		[]string{"type"},
	)

	WSClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_clients_dropped_total",
			Help:      "Subscribers disconnected because their send buffer was full",
		},
	)

	// Monitor
	MonitorSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monitor_sweeps_total",
			Help:      "Threshold monitor sweeps by outcome",
		},
		[]string{"outcome"},
	)

	MonitorSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "monitor_sweep_duration_seconds",
			Help:      "Duration of a threshold monitor sweep",
			Buckets:   prometheus.DefBuckets,
		},
	)

	MonitorUsersFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monitor_users_flagged_total",
			Help:      "Monitored-user alerts created, by category",
		},
		[]string{"category"},
	)

	// Generator
	GeneratorEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_events_total",
			Help:      "Synthetic events by outcome",
		},
		[]string{"outcome"},
	)

	GeneratorRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generator_running",
			Help:      "1 while the synthetic event generator is running",
		},
	)

	// Simulation
	SimulationOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_operations_total",
			Help:      "Simulated activity records written, by action type",
		},
		[]string{"action_type"},
	)

	// Activity log
	ActivityRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_records_total",
			Help:      "Activity log writes by action type and outcome",
		},
		[]string{"action_type", "outcome"},
	)

	// Event bus
	EventBusPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventbus_published_total",
			Help:      "Event changes published, by outcome",
		},
		[]string{"outcome"},
	)

	EventBusDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventbus_delivered_total",
			Help:      "Event changes forwarded to the WebSocket hub",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Authorization
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Authorization decisions by role and result",
		},
		[]string{"role", "allowed"},
	)

	// Files
	FileUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_uploads_total",
			Help:      "File uploads by outcome",
		},
		[]string{"outcome"},
	)

	FileUploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_upload_bytes_total",
			Help:      "Bytes stored by successful uploads",
		},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetWSConnections sets the subscriber gauge.
func SetWSConnections(n int) {
	WSConnectionsActive.Set(float64(n))
}

// RecordWSMessage counts one queued WebSocket message.
func RecordWSMessage(messageType string) {
	WSMessagesSent.WithLabelValues(messageType).Inc()
}

// RecordWSClientDropped counts a subscriber dropped for back-pressure.
func RecordWSClientDropped() {
	WSClientsDropped.Inc()
}

// RecordMonitorSweep records one sweep.
func RecordMonitorSweep(outcome string, duration time.Duration) {
	MonitorSweepsTotal.WithLabelValues(outcome).Inc()
	MonitorSweepDuration.Observe(duration.Seconds())
}

// RecordUserFlagged counts a new monitored-user alert.
func RecordUserFlagged(category string) {
	MonitorUsersFlagged.WithLabelValues(category).Inc()
}

// RecordGeneratedEvent counts one generator cycle.
func RecordGeneratedEvent(err error) {
	if err != nil {
		GeneratorEventsTotal.WithLabelValues("error").Inc()
		return
	}
	GeneratorEventsTotal.WithLabelValues("success").Inc()
}

// SetGeneratorRunning sets the generator gauge.
func SetGeneratorRunning(running bool) {
	if running {
		GeneratorRunning.Set(1)
	} else {
		GeneratorRunning.Set(0)
	}
}

// RecordSimulatedOperation counts one simulated activity record.
func RecordSimulatedOperation(actionType string) {
	SimulationOperationsTotal.WithLabelValues(actionType).Inc()
}

// RecordActivityWrite counts one activity log write.
func RecordActivityWrite(actionType string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ActivityRecordsTotal.WithLabelValues(actionType, outcome).Inc()
}

// RecordEventBusPublish counts one publish attempt.
func RecordEventBusPublish(err error) {
	if err != nil {
		EventBusPublishedTotal.WithLabelValues("error").Inc()
		return
	}
	EventBusPublishedTotal.WithLabelValues("success").Inc()
}

// RecordEventBusDelivery counts one change handed to the hub.
func RecordEventBusDelivery() {
	EventBusDeliveredTotal.Inc()
}

// SetCircuitBreakerState records a breaker state (0 closed, 1 half-open, 2 open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAuthzDecision counts one authorization decision.
func RecordAuthzDecision(role string, allowed bool) {
	AuthzDecisionsTotal.WithLabelValues(role, strconv.FormatBool(allowed)).Inc()
}

// RecordFileUpload counts one upload and its size.
func RecordFileUpload(size int64, err error) {
	if err != nil {
		FileUploadsTotal.WithLabelValues("error").Inc()
		return
	}
	FileUploadsTotal.WithLabelValues("success").Inc()
	FileUploadBytes.Add(float64(size))
}
