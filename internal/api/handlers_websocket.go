// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/eventpulse/internal/logging"
	ws "github.com/tomtom215/eventpulse/internal/websocket"
)

// EventsWebSocket upgrades the connection and subscribes it to event
// updates. The client may also start and stop the synthetic generator.
func (h *Handler) EventsWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	opts := ws.ClientOptions{Controller: h.generation}
	if h.config != nil {
		opts.ControlRate = h.config.WebSocket.ControlRatePerSec
		opts.ControlBurst = h.config.WebSocket.ControlBurst
	}

	client := ws.NewClient(h.hub, conn, opts)
	h.hub.Register <- client
	client.Start()

	logging.Ctx(r.Context()).Debug().Uint64("client_id", client.ID()).Msg("WebSocket client connected")
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// allowedWebSocketOrigins returns websocket.allowed_origins, falling back to
// the CORS origins.
func (h *Handler) allowedWebSocketOrigins() []string {
	if h.config == nil {
		return nil
	}
	if len(h.config.WebSocket.AllowedOrigins) > 0 {
		return h.config.WebSocket.AllowedOrigins
	}
	return h.config.Security.CORSOrigins
}

// checkWebSocketOrigin accepts every origin when no allow list is
// configured. With an allow list, browsers must send a listed Origin.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	allowed := h.allowedWebSocketOrigins()
	if len(allowed) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	for _, allowedOrigin := range allowed {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
