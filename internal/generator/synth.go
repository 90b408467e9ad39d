// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/eventpulse/internal/models"
)

// Categories are the categories synthetic events are drawn from, in order.
var Categories = []string{
	"Technology", "Music", "Design", "Business", "Food", "Art", "Personal", "Work",
}

// categoryImages maps each category to its fixed cover image.
var categoryImages = map[string]string{
	"Technology": "https://images.unsplash.com/photo-1518770660439-4636190af475",
	"Music":      "https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4",
	"Design":     "https://images.unsplash.com/photo-1561070791-2526d30994b5",
	"Business":   "https://images.unsplash.com/photo-1507679799987-c73779587ccf",
	"Food":       "https://images.unsplash.com/photo-1504674900247-0877df9cc836",
	"Art":        "https://images.unsplash.com/photo-1513364776144-60967b0f800f",
	"Personal":   "https://images.unsplash.com/photo-1506863530036-1efeddceb993",
	"Work":       "https://images.unsplash.com/photo-1497032628192-86f99bcd76bc",
}

// Locations are used for in-person synthetic events.
var Locations = []string{"New York", "San Francisco", "Chicago", "Boston", "Austin"}

// OnlineLocation is the location of every online synthetic event.
const OnlineLocation = "Remote"

// dateSpreadDays is the number of distinct dates after tomorrow.
const dateSpreadDays = 180

// CategoryImage returns the image URL for category and whether it is known.
func CategoryImage(category string) (string, bool) {
	img, ok := categoryImages[category]
	return img, ok
}

// Synthesize builds a random event dated between tomorrow and 179 days later.
// The event has its ID set and is owned by ownerID when non-empty.
func Synthesize(rng *rand.Rand, now time.Time, ownerID string) *models.Event {
	category := Categories[rng.IntN(len(Categories))]
	image := categoryImages[category]
	isOnline := rng.IntN(2) == 1

	location := OnlineLocation
	if !isOnline {
		location = Locations[rng.IntN(len(Locations))]
	}

	id := uuid.New().String()
	date := now.AddDate(0, 0, 1+rng.IntN(dateSpreadDays)).Format(models.DateLayout)

	e := &models.Event{
		ID:          id,
		Title:       fmt.Sprintf("%s Event %s", category, id[len(id)-4:]),
		Description: fmt.Sprintf("Automatically generated %s event for real-time testing.", category),
		Date:        date,
		Location:    location,
		Category:    category,
		Image:       &image,
		IsOnline:    isOnline,
		CreatedAt:   now.UTC(),
	}
	if ownerID != "" {
		owner := ownerID
		e.CreatedBy = &owner
	}
	return e
}
