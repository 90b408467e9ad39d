// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
	"github.com/tomtom215/eventpulse/internal/resilience"
)

// Status is the reply to a Start or Stop request.
type Status string

const (
	StatusStarted        Status = "started"
	StatusAlreadyRunning Status = "already_running"
	StatusStopped        Status = "stopped"
	StatusNotRunning     Status = "not_running"
)

// State is the lifecycle state of the generator.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopRequested
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopRequested:
		return "stop_requested"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// EventStore persists synthetic events.
type EventStore interface {
	CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error)
}

// ChangePublisher announces created events.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change models.EventChange) error
}

// Config controls pacing and ownership of synthetic events.
type Config struct {
	MinInterval  time.Duration
	MaxInterval  time.Duration
	ErrorBackoff time.Duration
	AutoStart    bool
	OwnerID      string
}

// DefaultConfig returns a 3 to 10 second cadence with a 5 second error backoff.
func DefaultConfig() Config {
	return Config{
		MinInterval:  3 * time.Second,
		MaxInterval:  10 * time.Second,
		ErrorBackoff: 5 * time.Second,
	}
}

// ConfigFromSettings converts the loaded configuration section.
func ConfigFromSettings(c config.GeneratorConfig) Config {
	return Config{
		MinInterval:  c.MinInterval,
		MaxInterval:  c.MaxInterval,
		ErrorBackoff: c.ErrorBackoff,
		AutoStart:    c.AutoStart,
		OwnerID:      c.OwnerID,
	}
}

// Generator creates synthetic events while it is running.
type Generator struct {
	store     EventStore
	publisher ChangePublisher
	breaker   *resilience.Breaker
	cfg       Config

	state atomic.Int32
	wake  chan struct{}

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an idle generator. Store writes go through breaker, which may be
// nil to use a default one.
func New(store EventStore, publisher ChangePublisher, breaker *resilience.Breaker, cfg Config) *Generator {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultConfig().MinInterval
	}
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = DefaultConfig().ErrorBackoff
	}
	if breaker == nil {
		breaker = resilience.NewBreaker(resilience.BreakerConfig{Name: "generator-event-store"})
	}

	g := &Generator{
		store:     store,
		publisher: publisher,
		breaker:   breaker,
		cfg:       cfg,
		wake:      make(chan struct{}, 1),
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)), //nolint:gosec // not security sensitive
		now:       time.Now,
		sleep:     sleepContext,
	}
	if cfg.AutoStart {
		g.Start()
	}
	return g
}

// State returns the current lifecycle state.
func (g *Generator) State() State {
	return State(g.state.Load())
}

// Start requests generation. It never blocks.
func (g *Generator) Start() Status {
	for {
		switch g.State() {
		case StateIdle:
			if !g.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
				continue
			}
			select {
			case g.wake <- struct{}{}:
			default:
			}
		case StateStopRequested:
			// The loop has not exited yet; it simply keeps going.
			if !g.state.CompareAndSwap(int32(StateStopRequested), int32(StateRunning)) {
				continue
			}
		default:
			return StatusAlreadyRunning
		}
		metrics.SetGeneratorRunning(true)
		logging.Info().Str("component", "generator").Msg("event generation started")
		return StatusStarted
	}
}

// Stop requests the loop to stop at its next iteration boundary.
func (g *Generator) Stop() Status {
	if !g.state.CompareAndSwap(int32(StateRunning), int32(StateStopRequested)) {
		return StatusNotRunning
	}
	logging.Info().Str("component", "generator").Msg("event generation stop requested")
	return StatusStopped
}

// RunWithContext runs the generation loop until ctx is canceled. Cancellation
// does not change the state, so a restarted loop resumes where it left off.
func (g *Generator) RunWithContext(ctx context.Context) error {
	logging.Info().
		Dur("min_interval", g.cfg.MinInterval).
		Dur("max_interval", g.cfg.MaxInterval).
		Msg("event generator ready")

	for {
		if g.State() == StateIdle {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-g.wake:
			}
		}
		if err := g.loop(ctx); err != nil {
			return err
		}
	}
}

// loop returns nil once it has moved the state back to Idle.
func (g *Generator) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.state.CompareAndSwap(int32(StateStopRequested), int32(StateIdle)) {
			metrics.SetGeneratorRunning(false)
			logging.Info().Str("component", "generator").Msg("event generation stopped")
			return nil
		}
		if g.State() != StateRunning {
			return nil
		}

		wait := g.nextInterval()
		if err := g.safeGenerate(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait = g.cfg.ErrorBackoff
			logging.Warn().Err(err).Dur("retry_in", wait).Msg("synthetic event cycle failed")
		}

		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (g *Generator) safeGenerate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()
	_, err = g.GenerateOnce(ctx)
	return err
}

// GenerateOnce creates, stores and publishes one synthetic event regardless
// of state.
func (g *Generator) GenerateOnce(ctx context.Context) (*models.Event, error) {
	g.rngMu.Lock()
	event := Synthesize(g.rng, g.now(), g.cfg.OwnerID)
	g.rngMu.Unlock()

	var created *models.Event
	err := resilience.Execute(g.breaker, "create synthetic event", func() error {
		var err error
		created, err = g.store.CreateEvent(ctx, event)
		return err
	})
	metrics.RecordGeneratedEvent(err)
	if err != nil {
		return nil, fmt.Errorf("store synthetic event: %w", err)
	}

	if err := g.publisher.PublishChange(ctx, models.EventChange{Event: *created, Action: models.ChangeCreated}); err != nil {
		return created, fmt.Errorf("publish synthetic event %s: %w", created.ID, err)
	}

	logging.Debug().
		Str("event_id", created.ID).
		Str("category", created.Category).
		Str("date", created.Date).
		Msg("synthetic event created")
	return created, nil
}

func (g *Generator) nextInterval() time.Duration {
	span := g.cfg.MaxInterval - g.cfg.MinInterval
	if span <= 0 {
		return g.cfg.MinInterval
	}
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return g.cfg.MinInterval + time.Duration(g.rng.Int64N(int64(span)+1))
}

// String implements fmt.Stringer for supervisor logging.
func (g *Generator) String() string {
	return "event-generator"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
