// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/eventpulse/internal/activity"
	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/authz"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

const entityUser = "User"

// requireSelfOrAdmin writes a 403 unless the caller may act on userID.
func requireSelfOrAdmin(w http.ResponseWriter, r *http.Request, claims *auth.Claims, userID, operation string) bool {
	if authz.CanActOnUser(claims, userID) {
		return true
	}
	logging.Ctx(r.Context()).Warn().Str("target_user_id", userID).Str("operation", operation).Msg("access denied")
	respondServiceError(w, r, &models.AuthorizationError{UserID: claims.UserID, Operation: operation})
	return false
}

// GetUser returns a profile with its created and interested event ids.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, err := h.users.GetUserByID(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user, nil, start)
}

// UpdateUser patches name, description, avatar or password. Users may
// update only themselves unless they are administrators.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}
	userID := pathParam(r, "id")
	if !requireSelfOrAdmin(w, r, claims, userID, "update user") {
		return
	}

	var patch models.UserPatch
	if !decodeJSON(w, r, &patch) || !validateRequest(w, &patch) {
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var changed []string
	if patch.Name != nil {
		user.Name = *patch.Name
		changed = append(changed, "name")
	}
	if patch.Description != nil {
		user.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
		changed = append(changed, "avatar")
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if errors.Is(err, auth.ErrPasswordTooLong) {
			respondServiceError(w, r, models.NewValidationError("password", "password is too long"))
			return
		}
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		user.PasswordHash = hash
		changed = append(changed, "password")
	}

	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("target_user_id", userID).Strs("fields", changed).Msg("user updated")
	h.record(r, activity.Entry{
		UserID:     claims.UserID,
		Action:     models.ActionUpdate,
		EntityType: entityUser,
		EntityID:   userID,
		Details:    map[string]interface{}{"fields": changed},
	})
	respondData(w, http.StatusOK, user, nil, start)
}

// UserEvents lists the events a user created.
func (h *Handler) UserEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := pathParam(r, "id")

	if _, err := h.users.GetUserByID(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	events, err := h.events.ListEvents(r.Context(), models.EventFilter{CreatedBy: userID})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, events, intPtr(len(events)), start)
}

// ListInterested lists the events a user is interested in.
func (h *Handler) ListInterested(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	events, err := h.users.ListInterestedEvents(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, events, intPtr(len(events)), start)
}

// AddInterested links an event to a user's interested list. Both must exist.
func (h *Handler) AddInterested(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}
	userID := pathParam(r, "id")
	if !requireSelfOrAdmin(w, r, claims, userID, "change interested events") {
		return
	}

	var req models.InterestRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}
	if err := h.users.AddInterestedEvent(r.Context(), userID, req.EventID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]string{"user_id": userID, "event_id": req.EventID}, nil, start)
}

// RemoveInterested unlinks an event. Removing a missing link succeeds.
func (h *Handler) RemoveInterested(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}
	userID := pathParam(r, "id")
	if !requireSelfOrAdmin(w, r, claims, userID, "change interested events") {
		return
	}

	if err := h.users.RemoveInterestedEvent(r.Context(), userID, pathParam(r, "eventID")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
