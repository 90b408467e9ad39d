// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package websocket

import (
	"github.com/tomtom215/eventpulse/internal/generator"
	"github.com/tomtom215/eventpulse/internal/models"
)

// Outbound message types.
const (
	MessageTypeConnectionEstablished = "connection_established"
	MessageTypeEventUpdate           = "event_update"
	MessageTypeGenerationStatus      = "generation_status"
	MessageTypeError                 = "error"
	MessageTypePing                  = "ping"
	MessageTypePong                  = "pong"
)

// Inbound control actions.
const (
	ActionStartGeneration = "start_generation"
	ActionStopGeneration  = "stop_generation"
)

// ConnectionGreeting is sent to every client right after it connects.
const ConnectionGreeting = "Connected to events updates"

// Message is a single outbound frame. Only the fields relevant to Type are set.
type Message struct {
	Type    string                 `json:"type"`
	Event   map[string]interface{} `json:"event,omitempty"`
	Action  models.ChangeAction    `json:"action,omitempty"`
	Status  generator.Status       `json:"status,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// inboundMessage is what clients send. Either Action or Type is set.
type inboundMessage struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

// GenerationController starts and stops the synthetic event generator.
type GenerationController interface {
	Start() generator.Status
	Stop() generator.Status
}

func errorMessage(msg string) Message {
	return Message{Type: MessageTypeError, Message: msg}
}
