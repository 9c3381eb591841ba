package postgres

import (
	"context"
	"fmt"

	"github.com/foundryflow/scheduler"
)

// Processes loads every process and its allowed work-center ids for a
// company (§6).
func (s *Store) Processes(ctx context.Context, companyID string) ([]scheduler.Process, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, work_center_ids FROM processes WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query processes: %w", err)
	}
	defer rows.Close()

	var out []scheduler.Process
	for rows.Next() {
		var p scheduler.Process
		if err := rows.Scan(&p.ID, &p.Name, &p.WorkCenterIDs); err != nil {
			return nil, fmt.Errorf("postgres: scan process: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows processes: %w", err)
	}
	return out, nil
}

// ActiveWorkCenters loads every active work center at locationID for
// a company (§6).
func (s *Store) ActiveWorkCenters(ctx context.Context, companyID, locationID string) ([]scheduler.WorkCenter, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, location_id, active FROM work_centers
		 WHERE company_id = $1 AND location_id = $2 AND active = TRUE`, companyID, locationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query work_centers: %w", err)
	}
	defer rows.Close()

	var out []scheduler.WorkCenter
	for rows.Next() {
		var wc scheduler.WorkCenter
		if err := rows.Scan(&wc.ID, &wc.Name, &wc.LocationID, &wc.Active); err != nil {
			return nil, fmt.Errorf("postgres: scan work_center: %w", err)
		}
		out = append(out, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows work_centers: %w", err)
	}
	return out, nil
}
