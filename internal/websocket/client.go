// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 256
)

// clientIDCounter gives clients monotonically increasing IDs so broadcasts
// iterate in a stable order.
var clientIDCounter atomic.Uint64

// ClientOptions configures per-client behavior.
type ClientOptions struct {
	// Controller handles start_generation and stop_generation. Nil disables them.
	Controller GenerationController

	// ControlRate is the sustained number of control frames per second.
	// Zero or negative means unlimited.
	ControlRate float64

	// ControlBurst is the number of control frames allowed at once.
	ControlBurst int
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	id         uint64
	hub        *Hub
	conn       *websocket.Conn
	send       chan Message
	controller GenerationController
	limiter    *rate.Limiter
}

// NewClient creates a client with the connection greeting already queued.
func NewClient(hub *Hub, conn *websocket.Conn, opts ClientOptions) *Client {
	limit := rate.Inf
	if opts.ControlRate > 0 {
		limit = rate.Limit(opts.ControlRate)
	}
	burst := opts.ControlBurst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		id:         clientIDCounter.Add(1),
		hub:        hub,
		conn:       conn,
		send:       make(chan Message, sendBufferSize),
		controller: opts.Controller,
		limiter:    rate.NewLimiter(limit, burst),
	}
	c.send <- Message{Type: MessageTypeConnectionEstablished, Message: ConnectionGreeting}
	return c
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// reply queues a message for this client only. It is dropped if the client
// is no longer registered or its buffer is full. Holding the hub's read lock
// keeps the hub from closing send concurrently.
func (c *Client) reply(msg Message) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		logging.Warn().Uint64("client_id", c.id).Str("message_type", msg.Type).Msg("client send buffer full, dropping reply")
	}
}

// handleInbound processes one frame from the client and returns the reply,
// if any.
func (c *Client) handleInbound(data []byte) (Message, bool) {
	var in inboundMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return errorMessage("invalid message format"), true
	}

	if in.Action == "" {
		if in.Type == MessageTypePing {
			return Message{Type: MessageTypePong}, true
		}
		return errorMessage("missing action"), true
	}

	switch in.Action {
	case ActionStartGeneration, ActionStopGeneration:
	default:
		return errorMessage("unknown action: " + in.Action), true
	}

	if !c.limiter.Allow() {
		return errorMessage("rate limit exceeded"), true
	}
	if c.controller == nil {
		return errorMessage("event generation is not available"), true
	}

	if in.Action == ActionStartGeneration {
		return Message{Type: MessageTypeGenerationStatus, Status: c.controller.Start()}, true
	}
	return Message{Type: MessageTypeGenerationStatus, Status: c.controller.Stop()}, true
}

// readPump reads frames until the connection fails, then unregisters.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}

		if msg, ok := c.handleInbound(data); ok {
			c.reply(msg)
		}
	}
}

// writePump drains send to the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel.
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logging.Debug().Err(err).Msg("failed to write close message")
				}
				return
			}

			payload, err := json.Marshal(message)
			if err != nil {
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("failed to write websocket message")
				return
			}
			metrics.RecordWSMessage(message.Type)

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client. Register the client with
// the hub before calling Start.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
