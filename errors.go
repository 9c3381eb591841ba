package scheduler

import "errors"

// Sentinel errors for the behavioral categories in spec §7. Callers
// use errors.Is against these to decide how to respond (see
// server/main.go for the HTTP status mapping) — the same pattern the
// teacher's store.go uses for ErrCycleDetected/ErrNodeNotFound.
var (
	// ErrInvalidInput means the request payload was malformed or named
	// an unknown mode/direction. No writes occur.
	ErrInvalidInput = errors.New("scheduler: invalid input")

	// ErrNotFound means the job has no root make method or no
	// schedulable operations. Not fatal: callers should report success
	// with zero counts.
	ErrNotFound = errors.New("scheduler: job has no schedulable operations")

	// ErrCycleDetected means the dependency graph is not acyclic.
	// Fatal: no writes occur.
	ErrCycleDetected = errors.New("scheduler: dependency cycle detected")

	// ErrNoEligibleWorkCenter means a process maps to no active work
	// center at the job's location. Recorded per-operation as a
	// conflict; it does not abort the run.
	ErrNoEligibleWorkCenter = errors.New("scheduler: no eligible work center")

	// ErrProcessNotFound means an operation names a process id the
	// storage port has no record of.
	ErrProcessNotFound = errors.New("scheduler: process not found")
)
