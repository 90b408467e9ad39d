// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/eventpulse/internal/generator"
	"github.com/tomtom215/eventpulse/internal/models"
)

// fakeController mimics the generator's state machine.
type fakeController struct {
	mu      sync.Mutex
	running bool
	starts  int
	stops   int
}

func (f *fakeController) Start() generator.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.running {
		return generator.StatusAlreadyRunning
	}
	f.running = true
	return generator.StatusStarted
}

func (f *fakeController) Stop() generator.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if !f.running {
		return generator.StatusNotRunning
	}
	f.running = false
	return generator.StatusStopped
}

func TestNewClient_QueuesGreeting(t *testing.T) {
	c := NewClient(NewHub(), nil, ClientOptions{})
	msg := <-c.send
	if msg.Type != MessageTypeConnectionEstablished || msg.Message != ConnectionGreeting {
		t.Errorf("unexpected greeting %+v", msg)
	}
}

func TestClient_HandleInbound(t *testing.T) {
	ctrl := &fakeController{}
	c := NewClient(NewHub(), nil, ClientOptions{Controller: ctrl})

	tests := []struct {
		name       string
		in         string
		wantType   string
		wantStatus generator.Status
		wantErr    string
	}{
		{"start", `{"action":"start_generation"}`, MessageTypeGenerationStatus, generator.StatusStarted, ""},
		{"start again", `{"action":"start_generation"}`, MessageTypeGenerationStatus, generator.StatusAlreadyRunning, ""},
		{"stop", `{"action":"stop_generation"}`, MessageTypeGenerationStatus, generator.StatusStopped, ""},
		{"stop again", `{"action":"stop_generation"}`, MessageTypeGenerationStatus, generator.StatusNotRunning, ""},
		{"ping", `{"type":"ping"}`, MessageTypePong, "", ""},
		{"unknown action", `{"action":"self_destruct"}`, MessageTypeError, "", "unknown action"},
		{"missing action", `{"foo":"bar"}`, MessageTypeError, "", "missing action"},
		{"invalid json", `not json`, MessageTypeError, "", "invalid message format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := c.handleInbound([]byte(tt.in))
			if !ok {
				t.Fatal("expected a reply")
			}
			if msg.Type != tt.wantType {
				t.Errorf("type = %q, want %q", msg.Type, tt.wantType)
			}
			if msg.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", msg.Status, tt.wantStatus)
			}
			if tt.wantErr != "" && !strings.Contains(msg.Message, tt.wantErr) {
				t.Errorf("message = %q, want it to contain %q", msg.Message, tt.wantErr)
			}
		})
	}
}

func TestClient_ControlRateLimited(t *testing.T) {
	ctrl := &fakeController{}
	c := NewClient(NewHub(), nil, ClientOptions{Controller: ctrl, ControlRate: 0.001, ControlBurst: 2})

	for i := 0; i < 2; i++ {
		if msg, _ := c.handleInbound([]byte(`{"action":"start_generation"}`)); msg.Type != MessageTypeGenerationStatus {
			t.Fatalf("request %d should be allowed, got %+v", i, msg)
		}
	}
	msg, _ := c.handleInbound([]byte(`{"action":"stop_generation"}`))
	if msg.Type != MessageTypeError || !strings.Contains(msg.Message, "rate limit") {
		t.Errorf("expected rate limit error, got %+v", msg)
	}
	if ctrl.stops != 0 {
		t.Error("rate limited request must not reach the controller")
	}

	// Pings are not control frames.
	if msg, _ := c.handleInbound([]byte(`{"type":"ping"}`)); msg.Type != MessageTypePong {
		t.Errorf("ping should not be rate limited, got %+v", msg)
	}
}

func TestClient_NoController(t *testing.T) {
	c := NewClient(NewHub(), nil, ClientOptions{})
	msg, _ := c.handleInbound([]byte(`{"action":"start_generation"}`))
	if msg.Type != MessageTypeError {
		t.Errorf("expected error without controller, got %+v", msg)
	}
}

func TestClient_ReplyAfterUnregisterIsDropped(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1)
	close(c.send)

	// Not registered: reply must not touch the closed channel.
	c.reply(Message{Type: MessageTypePong})
}

// serveWS mirrors the API handler: upgrade, register, start.
func serveWS(hub *Hub, opts ClientOptions) http.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, opts)
		hub.Register <- client
		client.Start()
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var frame map[string]interface{}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return frame
}

func TestClient_EndToEnd(t *testing.T) {
	hub, _, _ := startHub(t)
	ctrl := &fakeController{}
	srv := httptest.NewServer(serveWS(hub, ClientOptions{Controller: ctrl, ControlRate: 100, ControlBurst: 10}))
	defer srv.Close()

	conn := dial(t, srv)

	greeting := readFrame(t, conn)
	if greeting["type"] != MessageTypeConnectionEstablished || greeting["message"] != ConnectionGreeting {
		t.Fatalf("unexpected greeting %v", greeting)
	}
	waitForClients(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"start_generation"}`)); err != nil {
		t.Fatal(err)
	}
	status := readFrame(t, conn)
	if status["type"] != MessageTypeGenerationStatus || status["status"] != string(generator.StatusStarted) {
		t.Fatalf("unexpected status %v", status)
	}

	hub.BroadcastEventUpdate(sampleChange("e42", models.ChangeDeleted))
	update := readFrame(t, conn)
	if update["type"] != MessageTypeEventUpdate || update["action"] != "deleted" {
		t.Fatalf("unexpected update %v", update)
	}
	event, ok := update["event"].(map[string]interface{})
	if !ok || event["id"] != "e42" || event["isOnline"] != false {
		t.Fatalf("unexpected event payload %v", update["event"])
	}
	for _, key := range []string{"status", "message"} {
		if _, present := update[key]; present {
			t.Errorf("event_update should not carry %q", key)
		}
	}

	_ = conn.Close()
	waitForClients(t, hub, 0)
}
