package postgres

import (
	"context"
	"fmt"

	"github.com/foundryflow/scheduler"
)

// MethodTree loads the make-method tree rooted at jobID's root method
// (the row with a NULL parent_method_id; exactly one per job) and links
// every child under its parent_method_id. Returns nil, nil if the job
// has no make methods at all, and an error if its rows name no root or
// more than one.
func (s *Store) MethodTree(ctx context.Context, jobID string) (*scheduler.MakeMethod, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, parent_material_id, item_id, parent_method_id
		 FROM make_methods WHERE job_id = $1`, jobID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query make_methods: %w", err)
	}
	defer rows.Close()

	type row struct {
		id, itemID           string
		parentMaterialID     *string
		parentMethodID       *string
	}
	var all []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.parentMaterialID, &r.itemID, &r.parentMethodID); err != nil {
			return nil, fmt.Errorf("postgres: scan make_method: %w", err)
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows make_methods: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	nodes := make(map[string]*scheduler.MakeMethod, len(all))
	var root *scheduler.MakeMethod
	for _, r := range all {
		nodes[r.id] = &scheduler.MakeMethod{
			ID:               r.id,
			ParentMaterialID: r.parentMaterialID,
			ItemID:           r.itemID,
		}
	}
	for _, r := range all {
		n := nodes[r.id]
		if r.parentMethodID == nil {
			if root != nil {
				return nil, fmt.Errorf("postgres: job %s has more than one root make method", jobID)
			}
			root = n
			continue
		}
		parent, ok := nodes[*r.parentMethodID]
		if !ok {
			return nil, fmt.Errorf("postgres: make_method %s references unknown parent %s", r.id, *r.parentMethodID)
		}
		parent.Children = append(parent.Children, n)
	}
	if root == nil {
		return nil, fmt.Errorf("postgres: job %s has no root make method", jobID)
	}

	return root, nil
}

// OperationsByMethod loads the schedulable operations (Done/Canceled
// excluded, §3) for one make method.
func (s *Store) OperationsByMethod(ctx context.Context, methodID string) ([]scheduler.Operation, error) {
	rows, err := s.db.Query(ctx, operationSelect+` WHERE make_method_id = $1
		AND status NOT IN ('Done', 'Canceled')`, methodID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}
