// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/eventpulse/internal/activity"
	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/authz"
	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/files"
	"github.com/tomtom215/eventpulse/internal/models"
	"github.com/tomtom215/eventpulse/internal/simulation"
	ws "github.com/tomtom215/eventpulse/internal/websocket"
)

const (
	testSecret   = "test-secret-that-is-at-least-32-bytes-long"
	testPassword = "correct-horse"
)

var (
	hashOnce sync.Once
	testHash string
)

// passwordHash hashes testPassword once at bcrypt's minimum cost.
func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		testHash = string(h)
	})
	return testHash
}

type testEnv struct {
	cfg       *config.Config
	events    *fakeEventStore
	users     *fakeUserStore
	activity  *fakeActivity
	publisher *fakePublisher
	registry  *fakeRegistry
	sweeper   *fakeSweeper
	pinger    *fakePinger
	files     *files.Store
	jwt       *auth.JWTManager
	hub       *ws.Hub
	handler   *Handler
	server    http.Handler

	admin   models.User
	regular models.User
	other   models.User
}

type envOption func(*Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	hash := passwordHash(t)
	env := &testEnv{
		admin:   models.User{ID: "u-admin", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, PasswordHash: hash},
		regular: models.User{ID: "u-reg", Name: "Regular", Email: "user@example.com", Role: models.RoleRegular, PasswordHash: hash},
		other:   models.User{ID: "u-other", Name: "Other", Email: "other@example.com", Role: models.RoleRegular, PasswordHash: hash},
	}

	env.cfg = &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:         testSecret,
			AccessTokenTTL:    time.Hour,
			RefreshTokenTTL:   24 * time.Hour,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"http://localhost:5173"},
		},
		Uploads: config.UploadsConfig{
			Dir:     t.TempDir(),
			MaxSize: 1024,
			BaseURL: "/api/v1/files",
		},
		WebSocket: config.WebSocketConfig{ControlRatePerSec: 2, ControlBurst: 5},
	}

	env.events = newFakeEventStore()
	env.users = newFakeUserStore(env.events, env.admin, env.regular, env.other)
	env.activity = &fakeActivity{}
	env.publisher = &fakePublisher{}
	env.registry = &fakeRegistry{alerts: map[string]models.MonitoredUser{
		"m-1": {ID: "m-1", UserID: "u-reg", Category: "CREATE", IsActive: true},
		"m-2": {ID: "m-2", UserID: "u-other", Category: "ANY", IsActive: false},
	}}
	env.sweeper = &fakeSweeper{summary: &models.SweepSummary{}}
	env.pinger = &fakePinger{}
	env.hub = ws.NewHub()

	store, err := files.NewStore(&env.cfg.Uploads)
	if err != nil {
		t.Fatalf("files.NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	env.files = store

	env.jwt, err = auth.NewJWTManager(&env.cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	deps := Deps{
		Config:    env.cfg,
		Events:    env.events,
		Users:     env.users,
		Activity:  env.activity,
		Recorder:  activity.NewRecorder(env.activity),
		Publisher: env.publisher,
		Registry:  env.registry,
		Sweeper:   env.sweeper,
		Simulator: simulation.NewDriver(env.users, env.activity, 10),
		Files:     env.files,
		JWT:       env.jwt,
		Hub:       env.hub,
		Database:  env.pinger,
		Version:   "test",
	}
	for _, opt := range opts {
		opt(&deps)
	}

	env.handler = NewHandler(deps)
	router := NewRouter(env.handler,
		NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&env.cfg.Security)),
		auth.NewMiddleware(env.jwt),
		authz.NewMiddleware(enforcer))
	env.server = router.SetupChi()
	return env
}

// token returns an access token for u.
func (env *testEnv) token(t *testing.T, u models.User) string {
	t.Helper()
	pair, err := env.jwt.GenerateTokenPair(&u)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	return pair.Access
}

// do sends a request through the full router. body is JSON-encoded unless
// it is already an io.Reader.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

// decodeData decodes the envelope's data into v and returns the envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(models.DateLayout)
}

func strPtr(s string) *string {
	return &s
}

// seedEvent stores an event owned by owner directly in the fake store.
func (env *testEnv) seedEvent(t *testing.T, title, owner string) models.Event {
	t.Helper()
	created, err := env.events.CreateEvent(t.Context(), &models.Event{
		Title:     title,
		Date:      futureDate(3),
		Category:  "Music",
		Location:  "Hall",
		CreatedBy: strPtr(owner),
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return *created
}

func stringsReader(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}
