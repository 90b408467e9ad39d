// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package resilience provides the circuit breakers that guard the event bus
// publisher and the generator's event store writes.
package resilience

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
)

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	Name string

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
}

// Breaker is the breaker type used throughout the module.
type Breaker = gobreaker.CircuitBreaker[interface{}]

// NewBreaker creates a breaker that opens after FailureThreshold consecutive
// failures. State changes are logged and exported as metrics.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}

	metrics.SetCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}

// Execute runs fn through cb. A rejection by an open or saturated breaker is
// returned as a models.ErrTransient error for op.
func Execute(cb *Breaker, op string, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return models.Transient(op, err)
	}
	return err
}
