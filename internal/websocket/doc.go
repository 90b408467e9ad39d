// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package websocket implements the events_updates broadcast group.

A single Hub goroutine owns the set of connected clients. Every event change
delivered to the hub is fanned out to all clients in registration order, so
clients observe changes in the order the hub received them. Clients whose send
buffer is full are dropped instead of blocking the hub.

Each Client runs a read pump and a write pump. The read pump accepts a small
control vocabulary:

	{"action": "start_generation"}
	{"action": "stop_generation"}
	{"type": "ping"}

Generation control is delegated to a GenerationController and replies with a
generation_status frame. Control frames are rate limited per client.

Outbound frames:

	{"type": "connection_established", "message": "Connected to events updates"}
	{"type": "event_update", "event": {...}, "action": "created"}
	{"type": "generation_status", "status": "started"}
	{"type": "error", "message": "..."}
	{"type": "pong"}

The hub is designed to run under a suture supervisor via RunWithContext.
*/
package websocket
