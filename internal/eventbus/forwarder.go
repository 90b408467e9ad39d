// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
)

// ErrSubscriptionClosed is returned when the message channel closes while the
// forwarder is still running. The supervisor restarts the forwarder.
var ErrSubscriptionClosed = errors.New("event bus subscription closed")

// ChangeSubscriber is the subscribing half of a Bus.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// ChangeHandler receives every change read from the bus.
type ChangeHandler interface {
	BroadcastEventUpdate(change models.EventChange)
}

// Forwarder moves changes from the bus to a ChangeHandler.
type Forwarder struct {
	source  ChangeSubscriber
	handler ChangeHandler
}

// NewForwarder creates a forwarder from source to handler.
func NewForwarder(source ChangeSubscriber, handler ChangeHandler) *Forwarder {
	return &Forwarder{source: source, handler: handler}
}

// RunWithContext forwards changes until ctx is canceled.
//
// Undecodable messages are acked and dropped so they are not redelivered.
func (f *Forwarder) RunWithContext(ctx context.Context) error {
	messages, err := f.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to event bus: %w", err)
	}

	logging.Info().Str("component", "event-forwarder").Msg("event forwarder started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("component", "event-forwarder").Msg("event forwarder stopped")
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			f.forward(msg)
		}
	}
}

func (f *Forwarder) forward(msg *message.Message) {
	defer msg.Ack()

	change, err := DecodeChange(msg)
	if err != nil {
		logging.Error().Err(err).Msg("dropping malformed event change")
		return
	}

	f.handler.BroadcastEventUpdate(change)
	metrics.RecordEventBusDelivery()
}

// String implements fmt.Stringer for supervisor logging.
func (f *Forwarder) String() string {
	return "event-forwarder"
}
