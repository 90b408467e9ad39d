// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

// Login exchanges email and password for an access/refresh token pair.
//
// Unknown emails and wrong passwords get the same 401 so the endpoint does
// not reveal which accounts exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, models.ErrNotFound) {
		logging.Ctx(r.Context()).Warn().Str("email", sanitizeLogValue(req.Email)).Msg("login failed: unknown email")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logging.Ctx(r.Context()).Warn().Str("user_id", user.ID).Msg("login failed: wrong password")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}

	h.respondTokens(w, r, user, start)
}

// Refresh exchanges a refresh token for a new token pair. The user is
// reloaded so role changes take effect.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	claims, err := h.jwt.ValidateToken(req.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired refresh token", nil)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired refresh token", nil)
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.respondTokens(w, r, user, start)
}

func (h *Handler) respondTokens(w http.ResponseWriter, r *http.Request, user *models.User, start time.Time) {
	pair, err := h.jwt.GenerateTokenPair(user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Str("role", user.Role).Msg("tokens issued")
	respondData(w, http.StatusOK, &models.LoginResponse{
		Access:    pair.Access,
		Refresh:   pair.Refresh,
		ExpiresAt: pair.ExpiresAt,
		User:      user,
	}, nil, start)
}
