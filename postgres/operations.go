package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/foundryflow/scheduler"
	"github.com/jackc/pgx/v5"
)

const operationSelect = `SELECT id, job_id, make_method_id, "order", operation_order, process_id,
	work_center_id, setup_time, setup_unit, labor_time, labor_unit,
	machine_time, machine_unit, quantity, lead_time_days,
	consumes_item_ids, start_date, due_date, status, type, priority
	FROM operations`

// scanOperations scans every row of a query built on operationSelect
// into scheduler.Operation values.
func scanOperations(rows pgx.Rows) ([]scheduler.Operation, error) {
	var ops []scheduler.Operation
	for rows.Next() {
		var (
			op                                        scheduler.Operation
			operationOrder, processID, status, opType string
			setupUnit, laborUnit, machineUnit          *string
			startDate, dueDate                         *time.Time
			priority, leadTimeDays                     *int
		)
		if err := rows.Scan(
			&op.ID, &op.JobID, &op.MakeMethodID, &op.Order, &operationOrder, &processID,
			&op.WorkCenterID, &op.SetupTime, &setupUnit, &op.LaborTime, &laborUnit,
			&op.MachineTime, &machineUnit, &op.Quantity, &leadTimeDays,
			&op.ConsumesItemIDs, &startDate, &dueDate, &status, &opType, &priority,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan operation: %w", err)
		}
		op.OperationOrder = scheduler.OperationOrder(operationOrder)
		op.ProcessID = processID
		op.Status = scheduler.OperationStatus(status)
		op.Type = scheduler.OperationType(opType)
		if setupUnit != nil {
			op.SetupUnit = scheduler.RateUnit(*setupUnit)
		}
		if laborUnit != nil {
			op.LaborUnit = scheduler.RateUnit(*laborUnit)
		}
		if machineUnit != nil {
			op.MachineUnit = scheduler.RateUnit(*machineUnit)
		}
		op.ExistingStartDate = startDate
		op.ExistingDueDate = dueDate
		op.Priority = priority
		op.LeadTimeDays = leadTimeDays
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows operations: %w", err)
	}
	return ops, nil
}

// UpdateOperations atomically writes StartDate, DueDate, WorkCenterID
// and Priority for every row in updates, scoped to companyID (§6).
func (s *Store) UpdateOperations(ctx context.Context, companyID string, updates []scheduler.OperationUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, u := range updates {
		ct, err := tx.Exec(ctx,
			`UPDATE operations SET start_date = $1, due_date = $2, work_center_id = $3, priority = $4
			 WHERE id = $5 AND company_id = $6`,
			u.StartDate, u.DueDate, u.WorkCenterID, u.Priority, u.OperationID, companyID,
		)
		if err != nil {
			return fmt.Errorf("postgres: update operation %s: %w", u.OperationID, err)
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("postgres: operation %s not found for company %s", u.OperationID, companyID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
