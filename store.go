package scheduler

import "context"

// DependencyEdge is one persisted (dependent, dependency) pair: Of
// depends on On. The Engine replaces a job's whole edge set on every
// run (§4.9 step 3).
type DependencyEdge struct {
	JobID string
	Of    string
	On    string
}

// OperationUpdate is the set of fields the Engine writes back per
// operation after scheduling — everything else on the row is
// untouched (§6: write capabilities are scoped to these four fields).
type OperationUpdate struct {
	OperationID  string
	StartDate    string // ISO date, FormatISO
	DueDate      string // ISO date, FormatISO
	WorkCenterID *string
	Priority     int
}

// Store is the storage port (§6): the external collaborator that
// reads the input graph and writes the scheduling result. The Engine
// is the only component that holds one; every other component takes
// borrowed, already-loaded data. Modeled after the teacher's
// dag.Store interface (meikuraledutech-dag/store.go) — one method
// group per concern, context-first, company-scoped writes.
type Store interface {
	AssemblyLoader
	LoadReader

	// JobHeader loads a job's due date, start date, location, priority
	// and deadline type.
	JobHeader(ctx context.Context, jobID, companyID string) (*JobHeader, error)

	// Processes loads every process (with its allowed work-center
	// list) for a company.
	Processes(ctx context.Context, companyID string) ([]Process, error)

	// ActiveWorkCenters loads every active work center at a location
	// for a company.
	ActiveWorkCenters(ctx context.Context, companyID, locationID string) ([]WorkCenter, error)

	// ReplaceDependencies atomically replaces a job's whole dependency
	// edge set.
	ReplaceDependencies(ctx context.Context, jobID string, edges []DependencyEdge) error

	// UpdateOperations atomically writes back StartDate, DueDate,
	// WorkCenterID and Priority for every row in updates, scoped to
	// companyID.
	UpdateOperations(ctx context.Context, companyID string, updates []OperationUpdate) error
}
