// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package activity writes the append-only activity log that the threshold
// monitor reads.
package activity

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
)

// Store appends activity records.
type Store interface {
	AppendActivity(ctx context.Context, rec *models.ActivityRecord) error
}

// Recorder records user actions. Failures are logged and swallowed so that
// activity logging never fails the request that triggered it.
type Recorder struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
}

// NewRecorder creates a recorder over store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:   store,
		timeout: 2 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Entry describes one action to record.
type Entry struct {
	UserID     string
	Action     models.ActionType
	EntityType string
	EntityID   string
	Details    map[string]interface{}
}

// RecordRequest records e with the client IP taken from r.
func (rec *Recorder) RecordRequest(r *http.Request, e Entry) {
	rec.record(r.Context(), e, ClientIP(r))
}

// Record records e outside of an HTTP request.
func (rec *Recorder) Record(ctx context.Context, e Entry) {
	rec.record(ctx, e, "")
}

func (rec *Recorder) record(ctx context.Context, e Entry, sourceIP string) {
	if e.UserID == "" {
		return
	}

	// The write must survive the client hanging up right after the response.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rec.timeout)
	defer cancel()

	err := rec.store.AppendActivity(writeCtx, &models.ActivityRecord{
		UserID:     e.UserID,
		ActionType: e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		SourceIP:   sourceIP,
		Timestamp:  rec.now(),
	})
	metrics.RecordActivityWrite(string(e.Action), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("action", string(e.Action)).
			Str("entity_type", e.EntityType).
			Str("entity_id", e.EntityID).
			Msg("failed to record activity")
	}
}

// ClientIP returns the first X-Forwarded-For hop, or the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
