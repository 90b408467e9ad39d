// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package services

import "context"

// ContextRunner is anything that runs until its context is canceled.
//
// Satisfied by *websocket.Hub, *detection.Monitor, *eventbus.Forwarder and
// *generator.Generator.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService wraps a ContextRunner as a supervised service.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewRunnerService wraps runner. name identifies it in supervisor logs.
func NewRunnerService(name string, runner ContextRunner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service. It returns ctx.Err() on normal shutdown.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's logs.
func (s *RunnerService) String() string {
	return s.name
}
