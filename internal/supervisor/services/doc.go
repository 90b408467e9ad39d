// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package services adapts EventPulse components to suture.Service.
//
// Components that already block in RunWithContext (the websocket hub, the
// threshold monitor, the change forwarder and the event generator) are
// wrapped by RunnerService, which only adds a name for supervisor logs.
// HTTPServerService bridges http.Server's ListenAndServe and Shutdown to a
// context-driven Serve.
package services
