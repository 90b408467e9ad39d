// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package authz

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

// Middleware enforces the policy on authenticated requests. It must run
// after auth.Middleware.Authenticate.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize responds 403 when the caller's role may not access the route.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			writeForbidden(w, "missing credentials")
			return
		}

		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, r.Method)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("authorization check failed")
			writeForbidden(w, "authorization check failed")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("access denied")
			writeForbidden(w, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CanActOnUser reports whether claims may modify data belonging to userID.
// Users may act on themselves; administrators on anyone.
func CanActOnUser(claims *auth.Claims, userID string) bool {
	return claims != nil && (claims.UserID == userID || claims.IsAdmin())
}

func writeForbidden(w http.ResponseWriter, message string) {
	body, err := json.Marshal(&models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: "FORBIDDEN", Message: message},
	})
	if err != nil {
		http.Error(w, message, http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write(body)
}
