// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/models"
)

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/users/"+env.other.ID, env.token(t, env.regular), nil)
	expectStatus(t, rec, http.StatusOK)
	var got models.User
	decodeData(t, rec, &got)
	if got.ID != env.other.ID || got.Email != env.other.Email {
		t.Errorf("user = %+v", got)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/users/missing", env.token(t, env.regular), nil)
	expectErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestUpdateUser_Permissions(t *testing.T) {
	tests := []struct {
		name   string
		caller func(env *testEnv) models.User
		target string
		status int
	}{
		{"self", func(env *testEnv) models.User { return env.regular }, "u-reg", http.StatusOK},
		{"other user", func(env *testEnv) models.User { return env.regular }, "u-other", http.StatusForbidden},
		{"admin on other", func(env *testEnv) models.User { return env.admin }, "u-other", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPatch, "/api/v1/users/"+tt.target, env.token(t, tt.caller(env)),
				map[string]string{"name": "Renamed"})
			expectStatus(t, rec, tt.status)

			renamed := env.users.users[tt.target].Name == "Renamed"
			if renamed != (tt.status == http.StatusOK) {
				t.Errorf("renamed = %v with status %d", renamed, tt.status)
			}
		})
	}
}

func TestUpdateUser_Password(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/v1/users/"+env.regular.ID, env.token(t, env.regular),
		map[string]string{"password": "a-brand-new-password"})
	expectStatus(t, rec, http.StatusOK)

	stored := env.users.users[env.regular.ID]
	if !auth.CheckPassword(stored.PasswordHash, "a-brand-new-password") {
		t.Error("new password not stored")
	}
	updates := env.activity.byAction(models.ActionUpdate)
	if len(updates) != 1 || updates[0].EntityType != entityUser {
		t.Errorf("UPDATE activity = %+v", updates)
	}
}

func TestUpdateUser_Invalid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/v1/users/"+env.regular.ID, env.token(t, env.regular),
		map[string]string{"password": "short"})
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestUserEvents(t *testing.T) {
	env := newTestEnv(t)
	mine := env.seedEvent(t, "Mine", env.regular.ID)
	env.seedEvent(t, "Theirs", env.other.ID)

	rec := env.do(t, http.MethodGet, "/api/v1/users/"+env.regular.ID+"/events", env.token(t, env.other), nil)
	expectStatus(t, rec, http.StatusOK)
	var got []models.Event
	decodeData(t, rec, &got)
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("events = %+v", got)
	}
	if env.events.filter.CreatedBy != env.regular.ID {
		t.Errorf("filter = %+v", env.events.filter)
	}
}

func TestInterestedEvents(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, "Interesting", env.other.ID)
	token := env.token(t, env.regular)
	base := "/api/v1/users/" + env.regular.ID + "/interested"

	rec := env.do(t, http.MethodPost, base, token, models.InterestRequest{EventID: event.ID})
	expectStatus(t, rec, http.StatusCreated)

	rec = env.do(t, http.MethodGet, base, token, nil)
	expectStatus(t, rec, http.StatusOK)
	var got []models.Event
	decodeData(t, rec, &got)
	if len(got) != 1 || got[0].ID != event.ID {
		t.Fatalf("interested = %+v", got)
	}

	rec = env.do(t, http.MethodDelete, base+"/"+event.ID, token, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodGet, base, token, nil)
	got = nil
	decodeData(t, rec, &got)
	if len(got) != 0 {
		t.Errorf("interested after removal = %+v", got)
	}
}

func TestInterestedEvents_Errors(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, "Interesting", env.other.ID)

	// Someone else's list.
	rec := env.do(t, http.MethodPost, "/api/v1/users/"+env.other.ID+"/interested", env.token(t, env.regular),
		models.InterestRequest{EventID: event.ID})
	expectErrorCode(t, rec, http.StatusForbidden, "FORBIDDEN")

	rec = env.do(t, http.MethodPost, "/api/v1/users/"+env.regular.ID+"/interested", env.token(t, env.regular),
		models.InterestRequest{EventID: "missing"})
	expectErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")

	rec = env.do(t, http.MethodPost, "/api/v1/users/"+env.regular.ID+"/interested", env.token(t, env.regular),
		map[string]string{})
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}
