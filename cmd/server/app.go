// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/eventpulse/internal/activity"
	"github.com/tomtom215/eventpulse/internal/api"
	"github.com/tomtom215/eventpulse/internal/auth"
	"github.com/tomtom215/eventpulse/internal/authz"
	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/database"
	"github.com/tomtom215/eventpulse/internal/detection"
	"github.com/tomtom215/eventpulse/internal/eventbus"
	"github.com/tomtom215/eventpulse/internal/files"
	"github.com/tomtom215/eventpulse/internal/generator"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/resilience"
	"github.com/tomtom215/eventpulse/internal/simulation"
	"github.com/tomtom215/eventpulse/internal/supervisor"
	"github.com/tomtom215/eventpulse/internal/supervisor/services"
	ws "github.com/tomtom215/eventpulse/internal/websocket"
)

// app holds every long-lived component.
type app struct {
	cfg       *config.Config
	db        *database.DB
	bus       *eventbus.Bus
	files     *files.Store
	hub       *ws.Hub
	monitor   *detection.Monitor
	generator *generator.Generator
	forwarder *eventbus.Forwarder
	server    *http.Server
}

// buildApp opens storage and wires the components. On error everything
// opened so far is closed.
func buildApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{cfg: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.db, err = database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Database.SeedSampleData {
		seeded, err := a.db.SeedSampleData(ctx, auth.HashPassword)
		if err != nil {
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
		if seeded {
			logging.Info().Msg("Sample users and events created")
		}
	}

	a.bus, err = eventbus.New(&cfg.EventBus)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	a.files, err = files.NewStore(&cfg.Uploads)
	if err != nil {
		return nil, fmt.Errorf("open upload store: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("create JWT manager: %w", err)
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("load authorization policy: %w", err)
	}

	registry := detection.NewRegistry(a.db)
	a.monitor = detection.NewMonitor(a.db, registry, detection.MonitorConfig{
		Interval:     cfg.Monitor.Interval,
		ErrorBackoff: cfg.Monitor.ErrorBackoff,
		EvidenceSize: cfg.Monitor.EvidenceSize,
		Thresholds:   detection.ThresholdsFromConfig(cfg.Monitor.Thresholds),
	})

	storeBreaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:             "generator-event-store",
		FailureThreshold: cfg.EventBus.BreakerFailures,
		Timeout:          cfg.EventBus.BreakerTimeout,
	})
	a.generator = generator.New(a.db, a.bus, storeBreaker, generator.ConfigFromSettings(cfg.Generator))

	a.hub = ws.NewHub()
	a.forwarder = eventbus.NewForwarder(a.bus, a.hub)

	handler := api.NewHandler(api.Deps{
		Config:     cfg,
		Events:     a.db,
		Users:      a.db,
		Activity:   a.db,
		Recorder:   activity.NewRecorder(a.db),
		Publisher:  a.bus,
		Registry:   registry,
		Sweeper:    a.monitor,
		Simulator:  simulation.NewDriver(a.db, a.db, cfg.Simulation.MaxOperations),
		Files:      a.files,
		JWT:        jwtManager,
		Hub:        a.hub,
		Generation: a.generator,
		Database:   a.db,
		Version:    version,
	})
	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth.NewMiddleware(jwtManager),
		authz.NewMiddleware(enforcer))

	a.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// register adds the services to tree. The monitor is left out when disabled.
func (a *app) register(tree *supervisor.SupervisorTree) error {
	type entry struct {
		layer supervisor.Layer
		svc   suture.Service
	}
	var entries []entry
	if a.cfg.Monitor.Enabled {
		entries = append(entries, entry{supervisor.LayerData, services.NewRunnerService("threshold-monitor", a.monitor)})
	} else {
		logging.Info().Msg("Threshold monitor disabled; sweeps run only on demand")
	}
	entries = append(entries,
		entry{supervisor.LayerMessaging, services.NewRunnerService("websocket-hub", a.hub)},
		entry{supervisor.LayerMessaging, services.NewRunnerService("change-forwarder", a.forwarder)},
		entry{supervisor.LayerMessaging, services.NewRunnerService("event-generator", a.generator)},
		entry{supervisor.LayerAPI, services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout)},
	)

	for _, e := range entries {
		if _, err := tree.Add(e.layer, e.svc); err != nil {
			return fmt.Errorf("register %s: %w", e.svc, err)
		}
	}
	return nil
}

// Close releases storage in reverse order of opening.
func (a *app) Close() {
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}
	if a.files != nil {
		if err := a.files.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing upload index")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}
}
