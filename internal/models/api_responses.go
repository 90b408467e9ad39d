// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package models

import "time"

// APIResponse is the envelope returned by every REST endpoint.
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
//
// On failure Status is "error" and Error is set.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Version    string            `json:"version,omitempty"`
	Uptime     float64           `json:"uptime_seconds"`
	Components map[string]string `json:"components,omitempty"`
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SimulationRequest is the body of POST /admin/simulate.
type SimulationRequest struct {
	TargetUserID   string `json:"target_user_id" validate:"required"`
	OperationType  string `json:"operation_type" validate:"required"`
	OperationCount int    `json:"operation_count"`
}

// SimulationResult summarizes a simulation run.
type SimulationResult struct {
	TargetUserID string             `json:"target_user_id"`
	Requested    int                `json:"requested"`
	Performed    int                `json:"performed"`
	Capped       bool               `json:"capped"`
	ByType       map[ActionType]int `json:"by_type"`
}

// SweepSummary reports the outcome of one monitor sweep.
type SweepSummary struct {
	StartedAt  time.Time         `json:"started_at"`
	Flagged    []MonitoredUser   `json:"flagged"`
	Skipped    int               `json:"skipped_already_flagged"`
	Failed     map[string]string `json:"failed_categories,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}
