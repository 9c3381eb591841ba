// Command server exposes the scheduling engine's request port over
// HTTP, the way the teacher's meikuraledutech-dag/server does for its
// DAG store: one fiber.App, one handler per route, sentinel errors
// mapped to status codes with errors.Is.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/foundryflow/scheduler"
	"github.com/foundryflow/scheduler/postgres"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	addr := os.Getenv("SCHEDULE_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	store := postgres.New(pool)
	engine := scheduler.NewEngine(store, nil, nil)

	app := fiber.New()
	app.Use(cors.New())

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Scheduling (the request port, spec §6) ──────────────────────────
	app.Post("/jobs/:jobId/schedule", func(c fiber.Ctx) error {
		var body struct {
			CompanyID string `json:"companyId"`
			UserID    string `json:"userId"`
			Mode      string `json:"mode"`
			Direction string `json:"direction"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid body"})
		}

		req := scheduler.Request{
			JobID:     c.Params("jobId"),
			CompanyID: body.CompanyID,
			UserID:    body.UserID,
			Mode:      scheduler.Mode(body.Mode),
			Direction: scheduler.Direction(body.Direction),
		}

		result, err := engine.Run(c.Context(), req)
		if err != nil {
			return statusForError(c, err)
		}
		return c.Status(200).JSON(result)
	})

	app.Get("/jobs/:jobId/schedule", func(c fiber.Ctx) error {
		companyID := c.Query("companyId")
		ops, err := store.OperationsByJob(c.Context(), c.Params("jobId"), companyID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(ops)
	})

	app.Get("/companies/:companyId/workcenters/load", func(c fiber.Ctx) error {
		locationID := c.Query("locationId")
		loads, err := store.WorkCenterLoadSnapshot(c.Context(), c.Params("companyId"), locationID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(loads)
	})

	app.Post("/operations/:id/reprioritize", func(c fiber.Ctx) error {
		var body struct {
			BeforePriority int `json:"beforePriority"`
			AfterPriority  int `json:"afterPriority"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		fractional := scheduler.CalculateFractionalPriority(body.BeforePriority, body.AfterPriority)
		if err := store.SetFractionalPriority(c.Context(), c.Params("id"), fractional); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"priority": fractional})
	})

	log.Printf("scheduling engine running on %s", addr)
	log.Fatal(app.Listen(addr))
}

// statusForError maps the §7 error kinds to HTTP status codes the
// way the teacher's server/main.go maps dag.ErrCycleDetected to 422.
func statusForError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduler.ErrInvalidInput):
		return c.Status(400).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, scheduler.ErrCycleDetected):
		return c.Status(422).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, scheduler.ErrNoEligibleWorkCenter), errors.Is(err, scheduler.ErrProcessNotFound):
		return c.Status(422).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
