// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// chanSubscriber hands out a channel controlled by the test.
type chanSubscriber struct {
	ch  chan *message.Message
	err error
}

func (s *chanSubscriber) Subscribe(context.Context) (<-chan *message.Message, error) {
	return s.ch, s.err
}

func TestForwarder_AcksMalformedMessages(t *testing.T) {
	sub := &chanSubscriber{ch: make(chan *message.Message, 2)}
	handler := newRecordingHandler()
	fwd := NewForwarder(sub, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- fwd.RunWithContext(ctx) }()

	bad := message.NewMessage("bad", []byte("nope"))
	good := message.NewMessage("good", []byte(`{"event":{"id":"e9"},"action":"created"}`))
	sub.ch <- bad
	sub.ch <- good

	select {
	case <-bad.Acked():
	case <-time.After(2 * time.Second):
		t.Fatal("malformed message was not acked")
	}
	select {
	case <-good.Acked():
	case <-time.After(2 * time.Second):
		t.Fatal("valid message was not acked")
	}

	got := handler.waitFor(t, 1)
	if len(got) != 1 || got[0].Event.ID != "e9" {
		t.Errorf("expected only e9 to be forwarded, got %+v", got)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestForwarder_SubscriptionClosed(t *testing.T) {
	sub := &chanSubscriber{ch: make(chan *message.Message)}
	close(sub.ch)

	err := NewForwarder(sub, newRecordingHandler()).RunWithContext(context.Background())
	if !errors.Is(err, ErrSubscriptionClosed) {
		t.Errorf("expected ErrSubscriptionClosed, got %v", err)
	}
}

func TestForwarder_SubscribeError(t *testing.T) {
	sub := &chanSubscriber{err: errors.New("no broker")}

	err := NewForwarder(sub, newRecordingHandler()).RunWithContext(context.Background())
	if err == nil {
		t.Fatal("expected subscribe error")
	}
}

func TestForwarder_String(t *testing.T) {
	if got := NewForwarder(nil, nil).String(); got != "event-forwarder" {
		t.Errorf("String() = %q", got)
	}
}

var _ ChangeHandler = (*recordingHandler)(nil)
var _ ChangeSubscriber = (*Bus)(nil)
