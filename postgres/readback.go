package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/foundryflow/scheduler"
)

// OperationsByJob backs the schedule read-back endpoint (SPEC_FULL.md):
// every operation of a job scoped to companyID, in the shape the
// Engine last persisted.
func (s *Store) OperationsByJob(ctx context.Context, jobID, companyID string) ([]scheduler.Operation, error) {
	rows, err := s.db.Query(ctx, operationSelect+` WHERE job_id = $1 AND company_id = $2 ORDER BY "order"`,
		jobID, companyID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query operations by job: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// WorkCenterLoad is one row of the load snapshot endpoint
// (SPEC_FULL.md): a work center's durable load with nothing in-memory
// added, since no run is active.
type WorkCenterLoad struct {
	WorkCenterID string  `json:"workCenterId"`
	Hours        float64 `json:"hours"`
}

// WorkCenterLoadSnapshot reports the current durable load of every
// active work center at a location, for operational visibility.
func (s *Store) WorkCenterLoadSnapshot(ctx context.Context, companyID, locationID string) ([]WorkCenterLoad, error) {
	workCenters, err := s.ActiveWorkCenters(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]WorkCenterLoad, 0, len(workCenters))
	for _, wc := range workCenters {
		hours, err := s.WorkCenterLoadHours(ctx, wc.ID, now)
		if err != nil {
			return nil, err
		}
		out = append(out, WorkCenterLoad{WorkCenterID: wc.ID, Hours: hours})
	}
	return out, nil
}

// SetFractionalPriority writes a fractional priority directly, for
// the reprioritize endpoint's mid-insertion use case (§4.8's
// CalculateFractionalPriority, wired outside the batch flow).
func (s *Store) SetFractionalPriority(ctx context.Context, operationID string, priority float64) error {
	ct, err := s.db.Exec(ctx, `UPDATE operations SET fractional_priority = $1 WHERE id = $2`, priority, operationID)
	if err != nil {
		return fmt.Errorf("postgres: set fractional priority: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("postgres: operation %s not found", operationID)
	}
	return nil
}
