// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventpulse/internal/activity"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
	"github.com/tomtom215/eventpulse/internal/validation"
)

// entityEvent is the activity log entity type for events.
const entityEvent = "Event"

// ListEvents returns events matching the query filters.
//
// Query parameters: start_date, end_date (YYYY-MM-DD), category ("All
// categories" means any), is_online, search, sort_by, sort_order.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	filter := models.EventFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	for key, value := range map[string]string{"start_date": filter.StartDate, "end_date": filter.EndDate} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, value); err != nil {
			respondServiceError(w, r, models.NewValidationError(key, "must be a date in YYYY-MM-DD format"))
			return
		}
	}
	isOnline, err := getBoolParam(r, "is_online")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	filter.IsOnline = isOnline

	events, err := h.events.ListEvents(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, events, intPtr(len(events)), start)
}

// CreateEvent validates and stores a new event owned by the caller, then
// broadcasts it. camelCase aliases such as startTime are accepted.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var in models.EventInput
	if _, ok := decodeAliased(w, r, &in); !ok {
		return
	}
	if !validateRequest(w, &in) {
		return
	}
	if verr := validation.ValidateTimeRange(in.StartTime, in.EndTime); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	created, err := h.events.CreateEvent(r.Context(), in.ToEvent(claims.UserID))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("event_id", created.ID).Str("category", created.Category).Msg("event created")
	h.record(r, activity.Entry{
		UserID:     claims.UserID,
		Action:     models.ActionCreate,
		EntityType: entityEvent,
		EntityID:   created.ID,
		Details:    map[string]interface{}{"title": created.Title},
	})
	h.publish(r, created, models.ChangeCreated)

	respondData(w, http.StatusCreated, created, nil, start)
}

// GetEvent returns one event and records a READ.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	event, err := h.events.GetEvent(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.record(r, activity.Entry{
		UserID:     claims.UserID,
		Action:     models.ActionRead,
		EntityType: entityEvent,
		EntityID:   event.ID,
	})
	respondData(w, http.StatusOK, event, nil, start)
}

// UpdateEvent applies a partial update and broadcasts the result.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var patch models.EventPatch
	fields, ok := decodeAliased(w, r, &patch)
	if !ok {
		return
	}
	if !validateRequest(w, &patch) {
		return
	}

	event, err := h.events.GetEvent(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	patch.Apply(event)
	if verr := validation.ValidateTimeRange(event.StartTime, event.EndTime); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	if err := h.events.UpdateEvent(r.Context(), event); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("event_id", event.ID).Strs("fields", fields).Msg("event updated")
	h.record(r, activity.Entry{
		UserID:     claims.UserID,
		Action:     models.ActionUpdate,
		EntityType: entityEvent,
		EntityID:   event.ID,
		Details:    map[string]interface{}{"fields": fields},
	})
	h.publish(r, event, models.ChangeUpdated)

	respondData(w, http.StatusOK, event, nil, start)
}

// DeleteEvent removes an event and broadcasts its last state.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	id := pathParam(r, "id")
	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	deleted, err := h.events.DeleteEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !deleted {
		// Removed concurrently between the read and the delete.
		respondServiceError(w, r, models.NotFound("event", id))
		return
	}

	logging.Ctx(r.Context()).Info().Str("event_id", id).Msg("event deleted")
	h.record(r, activity.Entry{
		UserID:     claims.UserID,
		Action:     models.ActionDelete,
		EntityType: entityEvent,
		EntityID:   id,
		Details:    map[string]interface{}{"title": event.Title},
	})
	h.publish(r, event, models.ChangeDeleted)

	w.WriteHeader(http.StatusNoContent)
}

// decodeAliased decodes a JSON object, renames camelCase aliases to storage
// names, and unmarshals the result into v. It returns the sorted field names
// present in the body.
func decodeAliased(w http.ResponseWriter, r *http.Request, v interface{}) ([]string, bool) {
	var raw map[string]interface{}
	if !decodeJSON(w, r, &raw) {
		return nil, false
	}
	normalized := models.FromClientFormat(raw)

	data, err := json.Marshal(normalized)
	if err == nil {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid field types in request body", nil)
		return nil, false
	}

	fields := make([]string, 0, len(normalized))
	for key := range normalized {
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields, true
}
