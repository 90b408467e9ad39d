// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package models

import "time"

// ActionType classifies an ActivityRecord.
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
	ActionRead   ActionType = "READ"
)

// ActionTypes lists every action type in a stable order.
var ActionTypes = []ActionType{ActionCreate, ActionUpdate, ActionDelete, ActionRead}

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionRead:
		return true
	}
	return false
}

// ActivityRecord is one immutable entry in the activity log.
type ActivityRecord struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	ActionType ActionType             `json:"action_type"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	SourceIP   string                 `json:"source_ip,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// ActivityQuery selects activity records. Zero values mean "no filter";
// Limit <= 0 means unlimited. Results are ordered newest first.
type ActivityQuery struct {
	Since      time.Time
	ActionType ActionType
	UserID     string
	EntityType string
	Limit      int
}

// ActivityEvidence is one record cited in a MonitoredUser alert.
type ActivityEvidence struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// MonitoredDetails is the structured payload of a MonitoredUser.
type MonitoredDetails struct {
	ActionType     string             `json:"action_type"`
	Count          int                `json:"count"`
	WindowMinutes  int                `json:"window_minutes"`
	DetectionTime  time.Time          `json:"detection_time"`
	RecentActivity []ActivityEvidence `json:"recent_activity"`
}

// MonitoredUser is an alert raised when a user exceeds an activity threshold.
// At most one active record exists per (UserID, Category).
type MonitoredUser struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Category      string           `json:"category"`
	Reason        string           `json:"reason"`
	DetectionTime time.Time        `json:"detection_time"`
	IsActive      bool             `json:"is_active"`
	Details       MonitoredDetails `json:"details"`
}
