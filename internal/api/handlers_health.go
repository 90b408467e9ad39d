// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/eventpulse/internal/generator"
	"github.com/tomtom215/eventpulse/internal/models"
)

const healthPingTimeout = 2 * time.Second

// generatorStateReporter is implemented by *generator.Generator.
type generatorStateReporter interface {
	State() generator.State
}

// Health reports liveness and the state of each component. It answers 503
// when the database is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := models.HealthStatus{
		Status:     "ok",
		Message:    "API is running",
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Seconds(),
		Components: map[string]string{},
	}
	code := http.StatusOK

	if h.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		err := h.database.Ping(ctx)
		cancel()
		if err != nil {
			status.Status = "degraded"
			status.Message = "database unavailable"
			status.Components["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			status.Components["database"] = "ok"
		}
	}
	if h.hub != nil {
		status.Components["websocket_clients"] = strconv.Itoa(h.hub.GetClientCount())
	}
	if reporter, ok := h.generation.(generatorStateReporter); ok {
		status.Components["generator"] = reporter.State().String()
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	respondData(w, code, status, nil, start)
}
