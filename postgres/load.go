package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/foundryflow/scheduler"
)

// WorkCenterLoadHours sums durationHours of every non-Done/non-Canceled
// operation on workCenterID whose start date is null or <= beforeDate
// (§4.7). Duration is recomputed from the stored rate fields rather
// than persisted, since the operation row never carries a precomputed
// hours column.
func (s *Store) WorkCenterLoadHours(ctx context.Context, workCenterID string, beforeDate time.Time) (float64, error) {
	rows, err := s.db.Query(ctx, operationSelect+` WHERE work_center_id = $1
		AND status NOT IN ('Done', 'Canceled')
		AND (start_date IS NULL OR start_date <= $2)`, workCenterID, beforeDate)
	if err != nil {
		return 0, fmt.Errorf("postgres: query work center load: %w", err)
	}
	defer rows.Close()

	ops, err := scanOperations(rows)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, op := range ops {
		total += scheduler.DurationHours(op)
	}
	return total, nil
}
