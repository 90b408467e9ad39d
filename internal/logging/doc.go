// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package logging provides the zerolog-based structured logger used across EventPulse.
//
// A single global logger is configured once from main() and shared by every
// package. Request handlers attach request IDs to the context so that
// background work started from a request can be correlated with it.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("event_id", id).Msg("event created")
//	logging.Ctx(ctx).Warn().Err(err).Msg("activity record dropped")
//
// # Adapters
//
// Two libraries in the service want their own logger interfaces:
//
//   - suture (through sutureslog) takes a *slog.Logger: use NewSlogLogger.
//   - Watermill takes a watermill.LoggerAdapter: use NewWatermillAdapter.
//
// Both forward to the global zerolog logger so all output shares one format.
//
// # Environment
//
// The level and format come from the config package (LOG_LEVEL, LOG_FORMAT,
// LOG_CALLER). Always terminate an event chain with Msg or Send, otherwise
// nothing is written.
package logging
