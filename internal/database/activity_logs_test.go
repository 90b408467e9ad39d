// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/eventpulse/internal/models"
)

func TestActivityLogAppendAndQuery(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	records := []models.ActivityRecord{
		{UserID: "u1", ActionType: models.ActionCreate, EntityType: "Event", EntityID: "e1", Timestamp: now.Add(-10 * time.Minute)},
		{UserID: "u1", ActionType: models.ActionCreate, EntityType: "Event", EntityID: "e2", Timestamp: now.Add(-2 * time.Minute)},
		{UserID: "u1", ActionType: models.ActionUpdate, EntityType: "Event", EntityID: "e2", Timestamp: now.Add(-time.Minute)},
		{UserID: "u2", ActionType: models.ActionCreate, EntityType: "User", EntityID: "u2", Timestamp: now,
			Details: map[string]interface{}{"simulated": true}, SourceIP: "10.0.0.1"},
	}
	for i := range records {
		if err := db.AppendActivity(ctx, &records[i]); err != nil {
			t.Fatalf("AppendActivity() error = %v", err)
		}
		if records[i].ID == "" {
			t.Fatal("AppendActivity() should assign an id")
		}
	}

	tests := []struct {
		name  string
		query models.ActivityQuery
		want  []string
	}{
		{"everything newest first", models.ActivityQuery{}, []string{"u2", "e2", "e2", "e1"}},
		{"since", models.ActivityQuery{Since: now.Add(-5 * time.Minute)}, []string{"u2", "e2", "e2"}},
		{"action type", models.ActivityQuery{ActionType: models.ActionCreate, Since: now.Add(-5 * time.Minute)}, []string{"u2", "e2"}},
		{"user", models.ActivityQuery{UserID: "u1", ActionType: models.ActionUpdate}, []string{"e2"}},
		{"entity type", models.ActivityQuery{EntityType: "User"}, []string{"u2"}},
		{"limit", models.ActivityQuery{Limit: 2}, []string{"u2", "e2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.QueryActivity(ctx, tt.query)
			if err != nil {
				t.Fatalf("QueryActivity() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("QueryActivity() returned %d records, want %d", len(got), len(tt.want))
			}
			for i, rec := range got {
				if rec.EntityID != tt.want[i] {
					t.Errorf("record[%d].EntityID = %q, want %q", i, rec.EntityID, tt.want[i])
				}
			}
		})
	}

	got, _ := db.QueryActivity(ctx, models.ActivityQuery{UserID: "u2"})
	if len(got) != 1 || got[0].Details["simulated"] != true || got[0].SourceIP != "10.0.0.1" {
		t.Errorf("details round trip = %+v", got)
	}
}

func TestMonitoredUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	older := &models.MonitoredUser{
		ID: "m1", UserID: "u1", Category: "CREATE", IsActive: true,
		Reason:        "Excessive CREATE operations (35 in 5 minutes)",
		DetectionTime: now.Add(-time.Hour),
		Details: models.MonitoredDetails{
			ActionType: "CREATE", Count: 35, WindowMinutes: 5, DetectionTime: now.Add(-time.Hour),
			RecentActivity: []models.ActivityEvidence{{EntityType: "Event", EntityID: "e1", Timestamp: now}},
		},
	}
	newer := &models.MonitoredUser{ID: "m2", UserID: "u2", Category: "ANY", IsActive: true, Reason: "r", DetectionTime: now}
	for _, m := range []*models.MonitoredUser{older, newer} {
		if err := db.InsertMonitoredUser(ctx, m); err != nil {
			t.Fatalf("InsertMonitoredUser() error = %v", err)
		}
	}

	active, err := db.HasActiveMonitoredUser(ctx, "u1", "CREATE")
	if err != nil || !active {
		t.Fatalf("HasActiveMonitoredUser(u1, CREATE) = %v, %v", active, err)
	}
	if active, _ := db.HasActiveMonitoredUser(ctx, "u1", "ANY"); active {
		t.Error("category must be part of the key")
	}

	list, err := db.ListMonitoredUsers(ctx, false)
	if err != nil {
		t.Fatalf("ListMonitoredUsers() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "m2" {
		t.Fatalf("ListMonitoredUsers() order = %+v", list)
	}
	if list[1].Details.Count != 35 || len(list[1].Details.RecentActivity) != 1 {
		t.Errorf("details round trip = %+v", list[1].Details)
	}

	if err := db.DeactivateMonitoredUser(ctx, "m1"); err != nil {
		t.Fatalf("DeactivateMonitoredUser() error = %v", err)
	}
	if err := db.DeactivateMonitoredUser(ctx, "m1"); err != nil {
		t.Errorf("second DeactivateMonitoredUser() error = %v", err)
	}
	if err := db.DeactivateMonitoredUser(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeactivateMonitoredUser(missing) error = %v, want ErrNotFound", err)
	}
	if active, _ := db.HasActiveMonitoredUser(ctx, "u1", "CREATE"); active {
		t.Error("dismissed record still active")
	}

	activeOnly, _ := db.ListMonitoredUsers(ctx, false)
	all, _ := db.ListMonitoredUsers(ctx, true)
	if len(activeOnly) != 1 || len(all) != 2 {
		t.Errorf("active=%d all=%d, want 1 and 2", len(activeOnly), len(all))
	}
}
