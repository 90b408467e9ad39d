// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by every handler. It reports fields by
// their JSON names and registers three custom tags:
//
//   - dateonly: a YYYY-MM-DD calendar date
//   - notpast: a YYYY-MM-DD date that is today or later
//   - clocktime: a HH:MM or HH:MM:SS time of day
//
// Example usage:
//
//	var in models.EventInput
//	if verr := validation.ValidateStruct(&in); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Cross-field rules that tags cannot express, such as an end time after the
// start time, are checked by ValidateTimeRange.
package validation
