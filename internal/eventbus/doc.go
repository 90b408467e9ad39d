// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package eventbus carries event changes from producers to the WebSocket hub.

Producers (REST handlers and the synthetic generator) call Bus.PublishChange.
A Forwarder subscribes to the same topic and hands every change to the hub.

Two Watermill backends are available:

  - memory: in-process GoChannel pub/sub. Publishing blocks until the
    forwarder has acknowledged the change, so one producer's changes reach
    the hub in the order they were published.
  - nats: core NATS (JetStream disabled), either against an external server
    or an embedded nats-server started by New.

Publishing is guarded by a circuit breaker. While it is open PublishChange
fails fast with an error matching models.ErrTransient.
*/
package eventbus
