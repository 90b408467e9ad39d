// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
	"github.com/tomtom215/eventpulse/internal/resilience"
)

// Metadata keys set on every published message.
const (
	MetadataAction  = "action"
	MetadataEventID = "event_id"
)

// ErrClosed is returned by PublishChange after Close.
var ErrClosed = errors.New("event bus is closed")

// Bus publishes and subscribes to event changes on a single topic.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	breaker    *resilience.Breaker
	topic      string
	server     *EmbeddedServer

	mu     sync.RWMutex
	closed bool
}

// New builds a bus for the configured backend.
func New(cfg *config.EventBusConfig) (*Bus, error) {
	logger := logging.NewWatermillAdapter()
	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:             "event-bus-publish",
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
	})

	switch cfg.Backend {
	case config.BusBackendNATS:
		return newNATSBus(cfg, breaker, logger)
	case config.BusBackendMemory, "":
		pubsub := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			BlockPublishUntilSubscriberAck: true,
		}, logger)
		return NewWithPubSub(pubsub, pubsub, cfg.Topic, breaker), nil
	default:
		return nil, fmt.Errorf("unknown event bus backend %q", cfg.Backend)
	}
}

// NewWithPubSub builds a bus over an existing publisher and subscriber.
// breaker may be nil.
func NewWithPubSub(pub message.Publisher, sub message.Subscriber, topic string, breaker *resilience.Breaker) *Bus {
	if breaker == nil {
		breaker = resilience.NewBreaker(resilience.BreakerConfig{Name: "event-bus-publish"})
	}
	return &Bus{
		publisher:  pub,
		subscriber: sub,
		breaker:    breaker,
		topic:      topic,
	}
}

// Topic returns the topic changes are published on.
func (b *Bus) Topic() string {
	return b.topic
}

// PublishChange publishes change to the bus topic.
func (b *Bus) PublishChange(ctx context.Context, change models.EventChange) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode event change: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataAction, string(change.Action))
	msg.Metadata.Set(MetadataEventID, change.Event.ID)
	msg.SetContext(ctx)

	err = resilience.Execute(b.breaker, "publish event change", func() error {
		return b.publisher.Publish(b.topic, msg)
	})
	metrics.RecordEventBusPublish(err)
	if err != nil {
		return fmt.Errorf("publish %s change for event %s: %w", change.Action, change.Event.ID, err)
	}

	logging.Ctx(ctx).Debug().
		Str("event_id", change.Event.ID).
		Str("action", string(change.Action)).
		Msg("event change published")
	return nil
}

// Subscribe returns the stream of messages on the bus topic. The channel is
// closed when ctx is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, b.topic)
}

// Close shuts down the publisher, the subscriber and any embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// GoChannel is both publisher and subscriber.
	if interface{}(b.subscriber) != interface{}(b.publisher) {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.server != nil {
		b.server.Shutdown()
	}
	return errors.Join(errs...)
}

// DecodeChange parses a message produced by PublishChange.
func DecodeChange(msg *message.Message) (models.EventChange, error) {
	var change models.EventChange
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		return change, fmt.Errorf("decode event change %s: %w", msg.UUID, err)
	}
	if !change.Action.Valid() {
		return change, fmt.Errorf("decode event change %s: unknown action %q", msg.UUID, change.Action)
	}
	return change, nil
}
