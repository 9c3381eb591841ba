package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/foundryflow/scheduler"
)

// JobHeader loads a job's anchor dates, location, priority and
// deadline type (§6). Returns nil, nil if the job does not exist —
// the engine treats that the same as ErrNotFound via the absence of
// operations, so this is not itself an error.
func (s *Store) JobHeader(ctx context.Context, jobID, companyID string) (*scheduler.JobHeader, error) {
	var (
		h            scheduler.JobHeader
		dueDate      *time.Time
		startDate    *time.Time
		priority     *int
		deadlineType string
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, company_id, location_id, due_date, start_date, priority, deadline_type
		 FROM jobs WHERE id = $1 AND company_id = $2`, jobID, companyID,
	).Scan(&h.ID, &h.CompanyID, &h.LocationID, &dueDate, &startDate, &priority, &deadlineType)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: job header: %w", err)
	}
	h.DueDate = dueDate
	h.StartDate = startDate
	h.Priority = priority
	h.DeadlineType = scheduler.DeadlineType(deadlineType)
	return &h, nil
}

// isNoRows checks for pgx's "no rows in result set" sentinel, the way
// the teacher's postgres/node.go does.
func isNoRows(err error) bool {
	return err != nil && err.Error() == "no rows in result set"
}
