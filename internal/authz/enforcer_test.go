// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/models"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func TestEnforcer_Policy(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		role   string
		path   string
		method string
		want   bool
	}{
		{models.RoleRegular, "/api/v1/events", http.MethodGet, true},
		{models.RoleRegular, "/api/v1/events", http.MethodPost, true},
		{models.RoleRegular, "/api/v1/events/abc", http.MethodDelete, true},
		{models.RoleRegular, "/api/v1/users/u1/interested", http.MethodPost, true},
		{models.RoleRegular, "/api/v1/files", http.MethodPost, true},
		{models.RoleRegular, "/api/v1/files/a.png", http.MethodGet, true},
		{models.RoleRegular, "/api/v1/admin/monitored-users", http.MethodGet, false},
		{models.RoleRegular, "/api/v1/admin/simulate", http.MethodPost, false},
		{models.RoleAdmin, "/api/v1/admin/monitored-users", http.MethodGet, true},
		{models.RoleAdmin, "/api/v1/admin/monitored-users/x/dismiss", http.MethodPost, true},
		{models.RoleAdmin, "/api/v1/events/abc", http.MethodPatch, true},
		{"", "/api/v1/events", http.MethodGet, false},
		{"GUEST", "/api/v1/events", http.MethodGet, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.path, tt.method)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEnforcerFromStrings_Malformed(t *testing.T) {
	if _, err := NewEnforcerFromStrings(embeddedModel, "p, only-two"); err == nil {
		t.Error("expected error for malformed policy line")
	}
	if _, err := NewEnforcerFromStrings("not a model", embeddedPolicy); err == nil {
		t.Error("expected error for malformed model")
	}
}

func TestMiddleware_Authorize(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t))
	handler := mw.Authorize(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		claims *auth.Claims
		path   string
		want   int
	}{
		{"admin on admin route", &auth.Claims{UserID: "a", Role: models.RoleAdmin}, "/api/v1/admin/simulate", http.StatusOK},
		{"regular on admin route", &auth.Claims{UserID: "u", Role: models.RoleRegular}, "/api/v1/admin/simulate", http.StatusForbidden},
		{"regular on events", &auth.Claims{UserID: "u", Role: models.RoleRegular}, "/api/v1/events", http.StatusOK},
		{"no claims", nil, "/api/v1/events", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.claims != nil {
				req = req.WithContext(auth.ContextWithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCanActOnUser(t *testing.T) {
	regular := &auth.Claims{UserID: "u1", Role: models.RoleRegular}
	admin := &auth.Claims{UserID: "a1", Role: models.RoleAdmin}

	if !CanActOnUser(regular, "u1") {
		t.Error("user should act on self")
	}
	if CanActOnUser(regular, "u2") {
		t.Error("user should not act on others")
	}
	if !CanActOnUser(admin, "u2") {
		t.Error("admin should act on anyone")
	}
	if CanActOnUser(nil, "u1") {
		t.Error("nil claims must be denied")
	}
}
