// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/eventpulse/internal/logging"
)

func TestMiddleware_Authenticate(t *testing.T) {
	m := newTestManager(t)
	pair, _ := m.GenerateTokenPair(testUser())
	mw := NewMiddleware(m)

	var gotUser, gotLogUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if ok {
			gotUser = claims.UserID
		}
		gotLogUser = logging.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := mw.Authenticate(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid access token", "Bearer " + pair.Access, http.StatusNoContent},
		{"lowercase scheme", "bearer " + pair.Access, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotLogUser = "", ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent {
				if gotUser != "user1" || gotLogUser != "user1" {
					t.Errorf("context user = %q / %q", gotUser, gotLogUser)
				}
				return
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
			}
			if gotUser != "" {
				t.Error("next handler must not run")
			}
		})
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ClaimsFromContext(req.Context()); ok {
		t.Error("expected no claims")
	}
}
