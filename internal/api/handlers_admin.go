// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 500
)

// MonitoredUsers lists alerts, newest first. Inactive alerts are included
// with ?include_inactive=true.
func (h *Handler) MonitoredUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	includeInactive, err := getBoolParam(r, "include_inactive")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	users, err := h.registry.List(r.Context(), includeInactive != nil && *includeInactive)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, users, intPtr(len(users)), start)
}

// DismissMonitoredUser deactivates an alert. Dismissing an inactive alert
// succeeds and returns it unchanged.
func (h *Handler) DismissMonitoredUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dismissed, err := h.registry.Dismiss(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, dismissed, nil, start)
}

// ActivityLogs queries the activity log, newest first.
//
// Query parameters: action, entity_type, user_id, since (RFC 3339) and
// limit (default 100, at most 500).
func (h *Handler) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	query := models.ActivityQuery{
		EntityType: q.Get("entity_type"),
		UserID:     q.Get("user_id"),
		Limit:      getIntParam(r, "limit", defaultActivityLimit),
	}
	if query.Limit < 1 {
		query.Limit = defaultActivityLimit
	}
	if query.Limit > maxActivityLimit {
		query.Limit = maxActivityLimit
	}

	if action := q.Get("action"); action != "" {
		query.ActionType = models.ActionType(strings.ToUpper(action))
		if !query.ActionType.Valid() {
			respondServiceError(w, r, models.NewValidationError("action", "must be one of CREATE, UPDATE, DELETE, READ"))
			return
		}
	}
	if since := q.Get("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondServiceError(w, r, models.NewValidationError("since", "must be an RFC 3339 timestamp"))
			return
		}
		query.Since = ts
	}

	records, err := h.activity.QueryActivity(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, records, intPtr(len(records)), start)
}

// Simulate appends synthetic activity for a target user.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.SimulationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.simulator.Run(r.Context(), claims.UserID, req)
	if err != nil {
		if result != nil {
			logging.Ctx(r.Context()).Warn().Int("performed", result.Performed).Int("requested", result.Requested).
				Msg("simulation stopped early")
		}
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, result, nil, start)
}

// Sweep runs the threshold monitor once. Failed categories are reported in
// the summary rather than as an HTTP error.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	summary, err := h.sweeper.Sweep(r.Context(), h.now())
	if summary == nil {
		respondServiceError(w, r, err)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("manual sweep completed with failures")
	}
	respondData(w, http.StatusOK, summary, intPtr(len(summary.Flagged)), start)
}
