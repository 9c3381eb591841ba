// Command example demonstrates a full scheduling run against a
// Postgres-backed store, mirroring the teacher's example/main.go:
// create the schema, seed a small assembly, run the engine, print the
// result and the read-back operations. Nothing is dropped afterwards.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/foundryflow/scheduler"
	"github.com/foundryflow/scheduler/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	store := postgres.New(pool)

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	seed(ctx, pool)
	fmt.Println("seeded a two-level assembly (bracket <- weldment)")

	engine := scheduler.NewEngine(store, nil, nil)
	result, err := engine.Run(ctx, scheduler.Request{
		JobID:     "job-1",
		CompanyID: "acme",
		UserID:    "planner-1",
		Mode:      scheduler.ModeInitial,
		Direction: scheduler.Backward,
	})
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	fmt.Println("\nscheduling result:")
	printJSON(result)

	ops, err := store.OperationsByJob(ctx, "job-1", "acme")
	if err != nil {
		log.Fatalf("read back: %v", err)
	}
	fmt.Println("\nscheduled operations:")
	printJSON(ops)
}

// seed inserts a tiny two-level assembly: a "bracket" root method with
// one milling operation that consumes a "weldment" sub-assembly built
// by a child method with one welding operation.
func seed(ctx context.Context, pool *pgxpool.Pool) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("seed begin: %v", err)
	}
	defer tx.Rollback(ctx)

	exec := func(sql string, args ...any) {
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			log.Fatalf("seed exec: %v", err)
		}
	}

	exec(`INSERT INTO jobs (id, company_id, location_id, due_date) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET due_date = EXCLUDED.due_date`,
		"job-1", "acme", "loc-1", "2025-01-17")

	exec(`INSERT INTO processes (id, company_id, name, work_center_ids) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		"proc-mill", "acme", "Milling", []string{"wc-mill-1", "wc-mill-2"})
	exec(`INSERT INTO processes (id, company_id, name, work_center_ids) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		"proc-weld", "acme", "Welding", []string{"wc-weld-1"})

	exec(`INSERT INTO work_centers (id, company_id, name, location_id, active) VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (id) DO NOTHING`, "wc-mill-1", "acme", "Mill 1", "loc-1")
	exec(`INSERT INTO work_centers (id, company_id, name, location_id, active) VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (id) DO NOTHING`, "wc-mill-2", "acme", "Mill 2", "loc-1")
	exec(`INSERT INTO work_centers (id, company_id, name, location_id, active) VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (id) DO NOTHING`, "wc-weld-1", "acme", "Weld 1", "loc-1")

	// Method and operation ids are generated rather than hardcoded,
	// the way the teacher's postgres layer assigns a fresh uuid to any
	// node/edge created without one.
	methodBracketID := uuid.NewString()
	methodWeldmentID := uuid.NewString()
	opMillID := uuid.NewString()
	opWeldID := uuid.NewString()

	exec(`INSERT INTO make_methods (id, job_id, parent_material_id, item_id, parent_method_id)
		VALUES ($1, $2, NULL, $3, NULL) ON CONFLICT (id) DO NOTHING`,
		methodBracketID, "job-1", "item-bracket")
	exec(`INSERT INTO make_methods (id, job_id, parent_material_id, item_id, parent_method_id)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
		methodWeldmentID, "job-1", "item-weldment", "item-weldment", methodBracketID)

	exec(`INSERT INTO operations (id, job_id, company_id, make_method_id, "order", operation_order,
		process_id, setup_time, setup_unit, labor_time, labor_unit, quantity, consumes_item_ids, status, type)
		VALUES ($1, $2, $3, $4, 1, 'After Previous', $5, 0, 'Total Hours', 8, 'Total Hours', 1, $6, 'Ready', 'Inside')
		ON CONFLICT (id) DO NOTHING`,
		opMillID, "job-1", "acme", methodBracketID, "proc-mill", []string{"item-weldment"})

	exec(`INSERT INTO operations (id, job_id, company_id, make_method_id, "order", operation_order,
		process_id, setup_time, setup_unit, labor_time, labor_unit, quantity, status, type)
		VALUES ($1, $2, $3, $4, 1, 'After Previous', $5, 0, 'Total Hours', 16, 'Total Hours', 1, 'Ready', 'Inside')
		ON CONFLICT (id) DO NOTHING`,
		opWeldID, "job-1", "acme", methodWeldmentID, "proc-weld")

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("seed commit: %v", err)
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
