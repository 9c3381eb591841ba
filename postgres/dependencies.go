package postgres

import (
	"context"
	"fmt"

	"github.com/foundryflow/scheduler"
)

// ReplaceDependencies atomically replaces a job's whole dependency
// edge set — the teacher's CreateDAG uses the same delete-then-insert
// replace pattern for a DAG's edges (postgres/dag.go).
func (s *Store) ReplaceDependencies(ctx context.Context, jobID string, edges []scheduler.DependencyEdge) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_dependencies WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("postgres: delete dependencies: %w", err)
	}

	for _, e := range edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_dependencies (job_id, operation_id, depends_on) VALUES ($1, $2, $3)
			 ON CONFLICT DO NOTHING`,
			jobID, e.Of, e.On,
		); err != nil {
			return fmt.Errorf("postgres: insert dependency %s->%s: %w", e.Of, e.On, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
