// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/eventpulse/internal/activity"
	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
	ws "github.com/tomtom215/eventpulse/internal/websocket"
)

// EventStore persists events.
type EventStore interface {
	CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id string) (bool, error)
}

// UserStore persists users and their interested events.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListInterestedEvents(ctx context.Context, userID string) ([]models.Event, error)
	AddInterestedEvent(ctx context.Context, userID, eventID string) error
	RemoveInterestedEvent(ctx context.Context, userID, eventID string) error
}

// ActivityLog reads the activity log.
type ActivityLog interface {
	QueryActivity(ctx context.Context, q models.ActivityQuery) ([]models.ActivityRecord, error)
}

// ChangePublisher hands event changes to the broadcaster.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change models.EventChange) error
}

// MonitoredUserRegistry lists and dismisses alerts.
type MonitoredUserRegistry interface {
	List(ctx context.Context, includeInactive bool) ([]models.MonitoredUser, error)
	Dismiss(ctx context.Context, id string) (*models.MonitoredUser, error)
}

// Sweeper runs one threshold sweep on demand.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (*models.SweepSummary, error)
}

// Simulator generates synthetic activity.
type Simulator interface {
	Run(ctx context.Context, callerID string, req models.SimulationRequest) (*models.SimulationResult, error)
}

// FileStore stores uploads.
type FileStore interface {
	Save(ctx context.Context, originalName, contentType, uploadedBy string, r io.Reader) (*models.FileInfo, error)
	Open(ctx context.Context, name string) (*os.File, *models.FileInfo, error)
	MaxSize() int64
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps collects the Handler's collaborators. Nil optional collaborators
// disable the routes that need them with 503.
type Deps struct {
	Config     *config.Config
	Events     EventStore
	Users      UserStore
	Activity   ActivityLog
	Recorder   *activity.Recorder
	Publisher  ChangePublisher
	Registry   MonitoredUserRegistry
	Sweeper    Sweeper
	Simulator  Simulator
	Files      FileStore
	JWT        *auth.JWTManager
	Hub        *ws.Hub
	Generation ws.GenerationController
	Database   Pinger
	Version    string
}

// Handler serves every API endpoint.
//
// Handler methods are split across files by area; see the package doc.
type Handler struct {
	config     *config.Config
	events     EventStore
	users      UserStore
	activity   ActivityLog
	recorder   *activity.Recorder
	publisher  ChangePublisher
	registry   MonitoredUserRegistry
	sweeper    Sweeper
	simulator  Simulator
	files      FileStore
	jwt        *auth.JWTManager
	hub        *ws.Hub
	generation ws.GenerationController
	database   Pinger
	version    string
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates a Handler from deps.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		config:     deps.Config,
		events:     deps.Events,
		users:      deps.Users,
		activity:   deps.Activity,
		recorder:   deps.Recorder,
		publisher:  deps.Publisher,
		registry:   deps.Registry,
		sweeper:    deps.Sweeper,
		simulator:  deps.Simulator,
		files:      deps.Files,
		jwt:        deps.JWT,
		hub:        deps.Hub,
		generation: deps.Generation,
		database:   deps.Database,
		version:    deps.Version,
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// record logs an activity entry when a recorder is configured.
func (h *Handler) record(r *http.Request, e activity.Entry) {
	if h.recorder != nil {
		h.recorder.RecordRequest(r, e)
	}
}

// publish broadcasts change. The write it describes has already
// succeeded, so a failure here is logged and not returned to the client.
func (h *Handler) publish(r *http.Request, e *models.Event, action models.ChangeAction) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishChange(r.Context(), models.EventChange{Event: *e, Action: action}); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("event_id", e.ID).
			Str("action", string(action)).
			Msg("failed to broadcast event change")
	}
}
