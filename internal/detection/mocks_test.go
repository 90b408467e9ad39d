// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package detection

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/eventpulse/internal/models"
)

type mockActivitySource struct {
	mu      sync.Mutex
	records []models.ActivityRecord
	errFor  map[models.ActionType]error
	queries atomic.Int32
}

func (m *mockActivitySource) add(recs ...models.ActivityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recs...)
}

func (m *mockActivitySource) QueryActivity(_ context.Context, q models.ActivityQuery) ([]models.ActivityRecord, error) {
	m.queries.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errFor[q.ActionType]; ok {
		return nil, err
	}
	out := make([]models.ActivityRecord, 0)
	for _, r := range m.records {
		if !q.Since.IsZero() && r.Timestamp.Before(q.Since) {
			continue
		}
		if q.ActionType != "" && r.ActionType != q.ActionType {
			continue
		}
		if q.UserID != "" && r.UserID != q.UserID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type mockRegistryStore struct {
	mu        sync.Mutex
	alerts    map[string]*models.MonitoredUser
	order     []string
	insertErr error
}

func newMockRegistryStore() *mockRegistryStore {
	return &mockRegistryStore{alerts: make(map[string]*models.MonitoredUser)}
}

func (m *mockRegistryStore) InsertMonitoredUser(_ context.Context, mu *models.MonitoredUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	cp := *mu
	m.alerts[mu.ID] = &cp
	m.order = append(m.order, mu.ID)
	return nil
}

func (m *mockRegistryStore) HasActiveMonitoredUser(_ context.Context, userID, category string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.UserID == userID && a.Category == category && a.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegistryStore) GetMonitoredUser(_ context.Context, id string) (*models.MonitoredUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return nil, models.NotFound("monitored user", id)
	}
	cp := *a
	return &cp, nil
}

func (m *mockRegistryStore) DeactivateMonitoredUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return models.NotFound("monitored user", id)
	}
	a.IsActive = false
	return nil
}

func (m *mockRegistryStore) ListMonitoredUsers(_ context.Context, includeInactive bool) ([]models.MonitoredUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MonitoredUser, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.alerts[m.order[i]]
		if a.IsActive || includeInactive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRegistryStore) activeCount(userID, category string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.alerts {
		if a.UserID == userID && a.Category == category && a.IsActive {
			n++
		}
	}
	return n
}
