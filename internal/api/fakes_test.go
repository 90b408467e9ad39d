// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/eventpulse/internal/models"
)

type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]models.Event
	nextID int
	filter models.EventFilter
	err    error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]models.Event)}
}

func (f *fakeEventStore) CreateEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	created := *e
	created.ID = fmt.Sprintf("evt-%d", f.nextID)
	created.CreatedAt = time.Now().UTC()
	f.events[created.ID] = created
	return &created, nil
}

func (f *fakeEventStore) GetEvent(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, models.NotFound("event", id)
	}
	return &e, nil
}

func (f *fakeEventStore) ListEvents(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Event, 0, len(f.events))
	for _, e := range f.events {
		if filter.CreatedBy != "" && (e.CreatedBy == nil || *e.CreatedBy != filter.CreatedBy) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventStore) UpdateEvent(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return models.NotFound("event", e.ID)
	}
	f.events[e.ID] = *e
	return nil
}

func (f *fakeEventStore) DeleteEvent(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.events[id]
	delete(f.events, id)
	return ok, nil
}

type fakeUserStore struct {
	mu         sync.Mutex
	users      map[string]models.User
	interested map[string]map[string]bool
	events     *fakeEventStore
}

func newFakeUserStore(events *fakeEventStore, users ...models.User) *fakeUserStore {
	f := &fakeUserStore{
		users:      make(map[string]models.User),
		interested: make(map[string]map[string]bool),
		events:     events,
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.NotFound("user", id)
	}
	return &u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, models.NotFound("user", email)
}

func (f *fakeUserStore) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return models.NotFound("user", u.ID)
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) ListInterestedEvents(ctx context.Context, userID string) ([]models.Event, error) {
	if _, err := f.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	ids := make([]string, 0, len(f.interested[userID]))
	for id := range f.interested[userID] {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	sort.Strings(ids)
	out := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		if e, err := f.events.GetEvent(ctx, id); err == nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeUserStore) AddInterestedEvent(ctx context.Context, userID, eventID string) error {
	if _, err := f.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := f.events.GetEvent(ctx, eventID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.interested[userID] == nil {
		f.interested[userID] = make(map[string]bool)
	}
	f.interested[userID][eventID] = true
	return nil
}

func (f *fakeUserStore) RemoveInterestedEvent(ctx context.Context, userID, eventID string) error {
	if _, err := f.GetUserByID(ctx, userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.interested[userID], eventID)
	return nil
}

// fakeActivity is both the recorder's store and the admin query source.
type fakeActivity struct {
	mu      sync.Mutex
	records []models.ActivityRecord
	query   models.ActivityQuery
}

func (f *fakeActivity) AppendActivity(_ context.Context, rec *models.ActivityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeActivity) QueryActivity(_ context.Context, q models.ActivityQuery) ([]models.ActivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = q
	out := make([]models.ActivityRecord, 0, len(f.records))
	for _, rec := range f.records {
		if q.ActionType != "" && rec.ActionType != q.ActionType {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeActivity) byAction(action models.ActionType) []models.ActivityRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ActivityRecord
	for _, rec := range f.records {
		if rec.ActionType == action {
			out = append(out, rec)
		}
	}
	return out
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []models.EventChange
	err     error
}

func (f *fakePublisher) PublishChange(_ context.Context, change models.EventChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.changes = append(f.changes, change)
	return nil
}

func (f *fakePublisher) published() []models.EventChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EventChange(nil), f.changes...)
}

type fakeRegistry struct {
	mu      sync.Mutex
	alerts  map[string]models.MonitoredUser
	include bool
}

func (f *fakeRegistry) List(_ context.Context, includeInactive bool) ([]models.MonitoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.include = includeInactive
	out := make([]models.MonitoredUser, 0, len(f.alerts))
	for _, m := range f.alerts {
		if m.IsActive || includeInactive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRegistry) Dismiss(_ context.Context, id string) (*models.MonitoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.alerts[id]
	if !ok {
		return nil, models.NotFound("monitored user", id)
	}
	m.IsActive = false
	f.alerts[id] = m
	return &m, nil
}

type fakeSweeper struct {
	summary *models.SweepSummary
	err     error
	calls   int
}

func (f *fakeSweeper) Sweep(_ context.Context, now time.Time) (*models.SweepSummary, error) {
	f.calls++
	if f.summary != nil {
		f.summary.StartedAt = now
	}
	return f.summary, f.err
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

var errBoom = errors.New("boom")
