// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package generator

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/eventpulse/internal/models"
)

func TestSynthesize(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	last := tomorrow.AddDate(0, 0, 179)

	seenOnline, seenOffline := false, false
	for i := 0; i < 500; i++ {
		e := Synthesize(rng, now, "admin1")

		img, ok := CategoryImage(e.Category)
		if !ok {
			t.Fatalf("unknown category %q", e.Category)
		}
		if e.Image == nil || *e.Image != img {
			t.Errorf("%s: image = %v, want %s", e.Category, e.Image, img)
		}

		d, err := time.Parse(models.DateLayout, e.Date)
		if err != nil {
			t.Fatalf("bad date %q: %v", e.Date, err)
		}
		if d.Before(tomorrow) || d.After(last) {
			t.Errorf("date %s outside %s..%s", e.Date, tomorrow.Format(models.DateLayout), last.Format(models.DateLayout))
		}

		if e.IsOnline {
			seenOnline = true
			if e.Location != OnlineLocation {
				t.Errorf("online event location = %q", e.Location)
			}
		} else {
			seenOffline = true
			found := false
			for _, loc := range Locations {
				if loc == e.Location {
					found = true
				}
			}
			if !found {
				t.Errorf("offline event location %q not in list", e.Location)
			}
		}

		wantTitle := e.Category + " Event " + e.ID[len(e.ID)-4:]
		if e.Title != wantTitle {
			t.Errorf("title = %q, want %q", e.Title, wantTitle)
		}
		if e.Description != "Automatically generated "+e.Category+" event for real-time testing." {
			t.Errorf("description = %q", e.Description)
		}
		if e.CreatedBy == nil || *e.CreatedBy != "admin1" {
			t.Errorf("created_by = %v", e.CreatedBy)
		}
		if e.StartTime != nil || e.EndTime != nil {
			t.Error("synthetic events have no times")
		}
	}

	if !seenOnline || !seenOffline {
		t.Errorf("expected both online and offline events (online=%v offline=%v)", seenOnline, seenOffline)
	}
}

func TestSynthesize_NoOwner(t *testing.T) {
	e := Synthesize(rand.New(rand.NewPCG(3, 4)), time.Now(), "")
	if e.CreatedBy != nil {
		t.Errorf("expected nil created_by, got %q", *e.CreatedBy)
	}
	if strings.TrimSpace(e.ID) == "" {
		t.Error("expected an id")
	}
}

func TestCategoryImages_CoverAllCategories(t *testing.T) {
	if len(categoryImages) != len(Categories) {
		t.Fatalf("%d images for %d categories", len(categoryImages), len(Categories))
	}
	for _, c := range Categories {
		if _, ok := CategoryImage(c); !ok {
			t.Errorf("missing image for %s", c)
		}
	}
	if _, ok := CategoryImage("Sports"); ok {
		t.Error("unexpected image for unknown category")
	}
}
