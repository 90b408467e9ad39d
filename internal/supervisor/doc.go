// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package supervisor runs the long-lived EventPulse services under a suture
supervisor tree.

The tree has three layers, each its own supervisor:

	eventpulse (root)
	├── data-layer        threshold monitor
	├── messaging-layer   websocket hub, change forwarder, event generator
	└── api-layer         HTTP server

A service that returns an error or panics is restarted by its layer with
suture's backoff. Repeated failures in one layer do not restart the others,
so the API keeps answering while, for example, the forwarder reconnects to
NATS.

Supervisor events (restarts, backoff, panics) are logged through
sutureslog, backed by the zerolog slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(supervisor.LayerData, services.NewRunnerService("threshold-monitor", monitor))
	tree.Add(supervisor.LayerMessaging, services.NewRunnerService("websocket-hub", hub))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
