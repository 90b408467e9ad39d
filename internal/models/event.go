// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// DateLayout is the storage and wire format of Event.Date.
const DateLayout = "2006-01-02"

// AllCategories is the category filter value meaning "no filter".
const AllCategories = "All categories"

// Event is a calendar event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Image       *string   `json:"image"`
	CreatedBy   *string   `json:"created_by"`
	IsOnline    bool      `json:"is_online"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventInput is the body of a create request.
type EventInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"required,dateonly,notpast"`
	StartTime   *string `json:"start_time" validate:"omitempty,clocktime"`
	EndTime     *string `json:"end_time" validate:"omitempty,clocktime"`
	Location    string  `json:"location" validate:"max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Image       *string `json:"image" validate:"omitempty,url"`
	IsOnline    bool    `json:"is_online"`
}

// ToEvent builds an Event owned by createdBy. ID and CreatedAt are left to the store.
func (in *EventInput) ToEvent(createdBy string) *Event {
	e := &Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Location:    in.Location,
		Category:    in.Category,
		Image:       in.Image,
		IsOnline:    in.IsOnline,
	}
	if createdBy != "" {
		e.CreatedBy = &createdBy
	}
	return e
}

// EventPatch is the body of a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Date        *string `json:"date" validate:"omitempty,dateonly,notpast"`
	StartTime   *string `json:"start_time" validate:"omitempty,clocktime"`
	EndTime     *string `json:"end_time" validate:"omitempty,clocktime"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
	Image       *string `json:"image" validate:"omitempty,url"`
	IsOnline    *bool   `json:"is_online"`
}

// Apply copies the set fields of p onto e.
func (p *EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = p.EndTime
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Image != nil {
		e.Image = p.Image
	}
	if p.IsOnline != nil {
		e.IsOnline = *p.IsOnline
	}
}

// EventFilter narrows an event listing. Zero values mean "no filter".
type EventFilter struct {
	StartDate string
	EndDate   string
	Category  string
	IsOnline  *bool
	Search    string
	CreatedBy string
	SortBy    string
	SortOrder string
}

// ChangeAction is the kind of change carried by an EventChange.
type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// Valid reports whether a is one of the known actions.
func (a ChangeAction) Valid() bool {
	switch a {
	case ChangeCreated, ChangeUpdated, ChangeDeleted:
		return true
	}
	return false
}

// EventChange is published on the event bus whenever an event changes.
type EventChange struct {
	Event  Event        `json:"event"`
	Action ChangeAction `json:"action"`
}

// clientFieldNames maps storage field names to the names WebSocket clients expect.
var clientFieldNames = map[string]string{
	"is_online":  "isOnline",
	"start_time": "startTime",
	"end_time":   "endTime",
	"created_by": "createdBy",
}

// ToClientFormat converts an event map to the client format. Keys listed in
// clientFieldNames are renamed to camelCase and dropped when their value is
// nil. Other keys pass through unchanged.
func ToClientFormat(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		clientKey, renamed := clientFieldNames[key]
		if !renamed {
			out[key] = value
			continue
		}
		if value == nil {
			continue
		}
		out[clientKey] = value
	}
	return out
}

// FromClientFormat renames camelCase aliases in a request body to storage
// names. A storage name already present wins over its alias.
func FromClientFormat(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	for storageKey, clientKey := range clientFieldNames {
		value, ok := out[clientKey]
		if !ok {
			continue
		}
		delete(out, clientKey)
		if _, exists := out[storageKey]; !exists {
			out[storageKey] = value
		}
	}
	return out
}

// EventClientFormat serializes e and converts it to the client format.
func EventClientFormat(e *Event) (map[string]interface{}, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return ToClientFormat(fields), nil
}
