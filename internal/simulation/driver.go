// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package simulation writes bursts of synthetic activity for a user so that
// administrators can exercise the threshold monitor.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
)

// OperationMixed spreads records uniformly over all action types.
const OperationMixed = "MIXED"

// EntityType is recorded on every simulated activity record.
const EntityType = "Event"

// DefaultMaxOperations caps a single run.
const DefaultMaxOperations = 100

// UserDirectory resolves users by ID.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ActivityStore appends activity records.
type ActivityStore interface {
	AppendActivity(ctx context.Context, rec *models.ActivityRecord) error
}

// Driver runs simulations.
type Driver struct {
	users         UserDirectory
	activity      ActivityStore
	maxOperations int

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

// NewDriver creates a driver. maxOperations below 1 uses DefaultMaxOperations.
func NewDriver(users UserDirectory, activity ActivityStore, maxOperations int) *Driver {
	if maxOperations < 1 {
		maxOperations = DefaultMaxOperations
	}
	return &Driver{
		users:         users,
		activity:      activity,
		maxOperations: maxOperations,
		rng:           rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x2545f4914f6cdd1d)), //nolint:gosec // not security sensitive
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// MaxOperations returns the per-run cap.
func (d *Driver) MaxOperations() int {
	return d.maxOperations
}

// Run appends req.OperationCount activity records for req.TargetUserID on
// behalf of callerID, who must be an administrator.
//
// If an append fails part way, the records already written stay and the
// returned result reports how many were performed alongside the error.
func (d *Driver) Run(ctx context.Context, callerID string, req models.SimulationRequest) (*models.SimulationResult, error) {
	caller, err := d.users.GetUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.AuthorizationError{UserID: callerID, Operation: "run activity simulations"}
		}
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if !caller.IsAdmin() {
		return nil, &models.AuthorizationError{UserID: callerID, Operation: "run activity simulations"}
	}

	opType := strings.ToUpper(strings.TrimSpace(req.OperationType))
	if opType != OperationMixed && !models.ActionType(opType).Valid() {
		return nil, models.NewValidationError("operation_type",
			fmt.Sprintf("must be one of CREATE, UPDATE, DELETE, READ, MIXED; got %q", req.OperationType))
	}
	if req.OperationCount < 1 {
		return nil, models.NewValidationError("operation_count", "must be at least 1")
	}

	if _, err := d.users.GetUserByID(ctx, req.TargetUserID); err != nil {
		return nil, err
	}

	count := req.OperationCount
	capped := false
	if count > d.maxOperations {
		count = d.maxOperations
		capped = true
	}

	result := &models.SimulationResult{
		TargetUserID: req.TargetUserID,
		Requested:    req.OperationCount,
		Capped:       capped,
		ByType:       make(map[models.ActionType]int),
	}

	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		action := models.ActionType(opType)
		if opType == OperationMixed {
			action = d.randomAction()
		}

		err := d.activity.AppendActivity(ctx, &models.ActivityRecord{
			UserID:     req.TargetUserID,
			ActionType: action,
			EntityType: EntityType,
			EntityID:   "sim-" + uuid.New().String(),
			Details: map[string]interface{}{
				"simulated":    true,
				"sequence":     i,
				"simulated_by": callerID,
			},
			Timestamp: d.now(),
		})
		metrics.RecordActivityWrite(string(action), err)
		if err != nil {
			return result, fmt.Errorf("append simulated activity %d of %d: %w", i, count, err)
		}
		metrics.RecordSimulatedOperation(string(action))

		result.Performed++
		result.ByType[action]++
	}

	logging.Ctx(ctx).Info().
		Str("target_user_id", req.TargetUserID).
		Str("operation_type", opType).
		Int("performed", result.Performed).
		Bool("capped", capped).
		Msg("activity simulation completed")
	return result, nil
}

func (d *Driver) randomAction() models.ActionType {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return models.ActionTypes[d.rng.IntN(len(models.ActionTypes))]
}
