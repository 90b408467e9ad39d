// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package detection flags users whose recent activity exceeds configured
// thresholds.
//
// Detection Architecture:
//
//	activity_logs -> Monitor.Sweep -> Registry.Flag -> monitored_users
//	                     ^
//	          supervisor (every 2m, 5m after a failure)
//
// A sweep evaluates four categories in order: CREATE, UPDATE, DELETE and
// ANY. For each category it counts every user's records inside the
// category's sliding window and flags users whose count reaches the
// threshold. A user already holding an active alert for the same category
// is skipped, so repeated sweeps over a sustained burst produce one alert
// per (user, category) until an administrator dismisses it. ANY alerts are
// independent of the per-action categories.
//
// A failure in one category is recorded in the sweep summary and does not
// stop the remaining categories.
package detection
