// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	Interval     time.Duration
	ErrorBackoff time.Duration
	EvidenceSize int
	Thresholds   Thresholds
}

// DefaultMonitorConfig returns a 2 minute cadence with a 5 minute error backoff.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:     2 * time.Minute,
		ErrorBackoff: 5 * time.Minute,
		EvidenceSize: 10,
		Thresholds:   DefaultThresholds(),
	}
}

// Monitor sweeps the activity log and flags users over threshold.
type Monitor struct {
	activity ActivitySource
	registry *Registry
	cfg      MonitorConfig
	now      func() time.Time

	// sweepMu serializes scheduled and on-demand sweeps.
	sweepMu sync.Mutex

	mu        sync.RWMutex
	lastSweep *models.SweepSummary
}

// NewMonitor creates a monitor. Zero config fields take their defaults.
func NewMonitor(activity ActivitySource, registry *Registry, cfg MonitorConfig) *Monitor {
	def := DefaultMonitorConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = def.ErrorBackoff
	}
	if cfg.EvidenceSize <= 0 {
		cfg.EvidenceSize = def.EvidenceSize
	}
	if cfg.Thresholds == nil {
		cfg.Thresholds = def.Thresholds
	}
	return &Monitor{
		activity: activity,
		registry: registry,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Sweep evaluates every configured category at time now. The returned
// summary lists newly flagged users; the error joins per-category failures.
func (m *Monitor) Sweep(ctx context.Context, now time.Time) (*models.SweepSummary, error) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	start := time.Now()
	summary := &models.SweepSummary{
		StartedAt: now,
		Flagged:   make([]models.MonitoredUser, 0),
	}

	var errs []error
	for _, category := range Categories {
		threshold, ok := m.cfg.Thresholds[category]
		if !ok {
			continue
		}
		if err := m.sweepCategory(ctx, now, category, threshold, summary); err != nil {
			if summary.Failed == nil {
				summary.Failed = make(map[string]string)
			}
			summary.Failed[string(category)] = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", category, err))
			logging.Error().Err(err).Str("category", string(category)).Msg("monitor category sweep failed")
		}
	}

	elapsed := time.Since(start)
	summary.DurationMS = elapsed.Milliseconds()

	m.mu.Lock()
	m.lastSweep = summary
	m.mu.Unlock()

	err := errors.Join(errs...)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordMonitorSweep(outcome, elapsed)
	return summary, err
}

func (m *Monitor) sweepCategory(ctx context.Context, now time.Time, category Category, threshold Threshold, summary *models.SweepSummary) error {
	windowStart := now.Add(-threshold.Window)

	records, err := m.activity.QueryActivity(ctx, models.ActivityQuery{
		Since:      windowStart,
		ActionType: category.ActionType(),
	})
	if err != nil {
		return fmt.Errorf("failed to query activity: %w", err)
	}

	byUser := groupByUser(records, windowStart, category.ActionType())

	userIDs := make([]string, 0, len(byUser))
	for userID, recs := range byUser {
		if len(recs) >= threshold.Count {
			userIDs = append(userIDs, userID)
		}
	}
	sort.Strings(userIDs)

	var errs []error
	for _, userID := range userIDs {
		flagged, err := m.registry.IsActivelyFlagged(ctx, userID, category)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to check user %s: %w", userID, err))
			continue
		}
		if flagged {
			summary.Skipped++
			continue
		}

		alert := m.buildAlert(now, userID, category, threshold, byUser[userID])
		if err := m.registry.Flag(ctx, alert); err != nil {
			errs = append(errs, err)
			continue
		}

		summary.Flagged = append(summary.Flagged, *alert)
		metrics.RecordUserFlagged(string(category))
		logging.Warn().
			Str("user_id", userID).
			Str("category", string(category)).
			Int("count", alert.Details.Count).
			Int("window_minutes", alert.Details.WindowMinutes).
			Msg("user flagged for excessive activity")
	}
	return errors.Join(errs...)
}

// groupByUser buckets records inside the window by user, newest first.
func groupByUser(records []models.ActivityRecord, windowStart time.Time, action models.ActionType) map[string][]models.ActivityRecord {
	byUser := make(map[string][]models.ActivityRecord)
	for _, rec := range records {
		if rec.Timestamp.Before(windowStart) {
			continue
		}
		if action != "" && rec.ActionType != action {
			continue
		}
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}
	for _, recs := range byUser {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		})
	}
	return byUser
}

func (m *Monitor) buildAlert(now time.Time, userID string, category Category, threshold Threshold, recs []models.ActivityRecord) *models.MonitoredUser {
	n := len(recs)
	if n > m.cfg.EvidenceSize {
		n = m.cfg.EvidenceSize
	}
	evidence := make([]models.ActivityEvidence, 0, n)
	for _, rec := range recs[:n] {
		evidence = append(evidence, models.ActivityEvidence{
			EntityType: rec.EntityType,
			EntityID:   rec.EntityID,
			Timestamp:  rec.Timestamp,
		})
	}

	return &models.MonitoredUser{
		UserID:        userID,
		Category:      string(category),
		Reason:        fmt.Sprintf("Excessive %s operations (%d in %d minutes)", category, len(recs), threshold.WindowMinutes()),
		DetectionTime: now,
		IsActive:      true,
		Details: models.MonitoredDetails{
			ActionType:     string(category),
			Count:          len(recs),
			WindowMinutes:  threshold.WindowMinutes(),
			DetectionTime:  now,
			RecentActivity: evidence,
		},
	}
}

// LastSweep returns the most recent sweep summary, or nil before the first sweep.
func (m *Monitor) LastSweep() *models.SweepSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSweep
}

// RunWithContext sweeps immediately and then on the configured cadence until
// ctx is canceled. After a failed sweep the next one waits ErrorBackoff.
func (m *Monitor) RunWithContext(ctx context.Context) error {
	logging.Info().
		Dur("interval", m.cfg.Interval).
		Dur("error_backoff", m.cfg.ErrorBackoff).
		Msg("activity monitor started")

	for {
		wait := m.cfg.Interval
		if err := m.safeSweep(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait = m.cfg.ErrorBackoff
			logging.Warn().Err(err).Dur("retry_in", wait).Msg("activity monitor sweep failed")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logging.Info().Msg("activity monitor stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (m *Monitor) safeSweep(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panicked: %v", r)
		}
	}()
	_, err = m.Sweep(ctx, m.now())
	return err
}
