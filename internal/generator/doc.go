// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package generator produces synthetic events for real-time testing.

The Generator is a single owned task with three states:

	Idle ──Start──▶ Running ──Stop──▶ StopRequested ──(loop exits)──▶ Idle
	                   ▲                    │
	                   └───────Start────────┘

Start and Stop are compare-and-swap transitions and never block, so any number
of WebSocket clients may call them concurrently while at most one generation
loop runs. Stop is cooperative: the loop observes it at its next iteration
boundary, so one event may still be produced after Stop returns.

RunWithContext is the supervised loop. While idle it waits for Start; while
running it creates an event, publishes a created change, and sleeps a random
interval before the next one.
*/
package generator
