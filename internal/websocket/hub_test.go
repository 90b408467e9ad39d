// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/models"
)

//nolint:gochecknoinits // keeps test output quiet
func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

// newTestClient creates a client with no connection and no greeting queued.
func newTestClient(hub *Hub, buffer int) *Client {
	c := &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, buffer),
	}
	return c
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), n)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func sampleChange(id string, action models.ChangeAction) models.EventChange {
	start := "10:00"
	owner := "user1"
	return models.EventChange{
		Event: models.Event{
			ID:        id,
			Title:     "Go Meetup",
			Date:      "2030-05-01",
			StartTime: &start,
			Location:  "Austin",
			Category:  "Technology",
			CreatedBy: &owner,
			IsOnline:  false,
		},
		Action: action,
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	checks := []struct {
		name  string
		check bool
	}{
		{"clients map", hub.clients != nil},
		{"broadcast channel", hub.broadcast != nil},
		{"Register channel", hub.Register != nil},
		{"Unregister channel", hub.Unregister != nil},
		{"empty clients", hub.GetClientCount() == 0},
	}
	for _, c := range checks {
		if !c.check {
			t.Errorf("%s not initialized correctly", c.name)
		}
	}
}

func TestHub_BroadcastEventUpdate(t *testing.T) {
	hub, _, _ := startHub(t)
	a := newTestClient(hub, 8)
	b := newTestClient(hub, 8)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.BroadcastEventUpdate(sampleChange("e1", models.ChangeCreated))

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != MessageTypeEventUpdate {
			t.Fatalf("type = %q", msg.Type)
		}
		if msg.Action != models.ChangeCreated {
			t.Errorf("action = %q", msg.Action)
		}
		if msg.Event["id"] != "e1" {
			t.Errorf("event id = %v", msg.Event["id"])
		}
		if msg.Event["isOnline"] != false || msg.Event["startTime"] != "10:00" || msg.Event["createdBy"] != "user1" {
			t.Errorf("event not in client format: %v", msg.Event)
		}
		for _, key := range []string{"is_online", "start_time", "end_time", "created_by", "endTime"} {
			if _, ok := msg.Event[key]; ok {
				t.Errorf("unexpected key %q in %v", key, msg.Event)
			}
		}
	}
}

func TestHub_PreservesOrder(t *testing.T) {
	hub, _, _ := startHub(t)
	c := newTestClient(hub, 64)
	hub.Register <- c
	waitForClients(t, hub, 1)

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		hub.BroadcastEventUpdate(sampleChange(id, models.ChangeUpdated))
	}
	for _, want := range ids {
		if got := receive(t, c).Event["id"]; got != want {
			t.Fatalf("got %v, want %s", got, want)
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _, _ := startHub(t)
	slow := newTestClient(hub, 1)
	fast := newTestClient(hub, 16)
	hub.Register <- slow
	hub.Register <- fast
	waitForClients(t, hub, 2)

	for i := 0; i < 3; i++ {
		hub.BroadcastEventUpdate(sampleChange("e", models.ChangeCreated))
	}
	waitForClients(t, hub, 1)

	for i := 0; i < 3; i++ {
		receive(t, fast)
	}

	// The slow client got one message and then its channel was closed.
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("expected slow client's channel to be closed")
	}
}

func TestHub_UnregisterUnknownClientIsNoop(t *testing.T) {
	hub, _, _ := startHub(t)
	known := newTestClient(hub, 4)
	hub.Register <- known
	waitForClients(t, hub, 1)

	stranger := newTestClient(hub, 4)
	hub.Unregister <- stranger
	hub.Unregister <- known
	waitForClients(t, hub, 0)

	// Unregistering twice must not close the channel twice.
	hub.Unregister <- known
	waitForClients(t, hub, 0)

	select {
	case stranger.send <- Message{Type: MessageTypePong}:
	default:
		t.Error("stranger's channel should still be open")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel, done := startHub(t)
	c := newTestClient(hub, 4)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("expected no clients after shutdown, got %d", hub.GetClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("expected client channel closed on shutdown")
	}
}

func TestHub_BroadcastQueueFullDrops(t *testing.T) {
	hub := NewHub()
	for i := 0; i < broadcastBufferSize; i++ {
		hub.Broadcast(Message{Type: MessageTypePong})
	}
	if hub.enqueue(Message{Type: MessageTypePong}) {
		t.Error("expected enqueue to fail when the queue is full")
	}
}

func TestGetShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("got %s", got)
	}

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("got %s", got)
	}
}
