package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Engine orchestrates load -> graph -> strategy -> selector ->
// priorities -> persist for one job, per spec §4.9. One Engine value
// is safe to reuse across jobs (it holds no per-run state itself —
// each Run call builds its own Graph and WorkCenterTally) but two
// concurrent Run calls for the *same* job are not supported; the
// surrounding request port is responsible for serializing those
// (§5).
type Engine struct {
	store Store
	now   func() time.Time
	cal   Calendar
}

// NewEngine builds an Engine against a storage port. now defaults to
// time.Now and cal to DefaultCalendar when nil/zero.
func NewEngine(store Store, now func() time.Time, cal Calendar) *Engine {
	if now == nil {
		now = time.Now
	}
	if cal == nil {
		cal = DefaultCalendar
	}
	return &Engine{store: store, now: now, cal: cal}
}

// Run executes one scheduling invocation end to end (§4.9 steps 1-9).
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	req, err := NormalizeRequest(req)
	if err != nil {
		return nil, err
	}

	handler := NewAssemblyHandler(e.store)
	assembly, err := handler.Load(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &Result{Success: true}, nil
		}
		return nil, err
	}

	ops := make([]Operation, 0, len(assembly.Operations))
	for _, op := range assembly.Operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	opIDs := make([]string, len(ops))
	for i, op := range ops {
		opIDs[i] = op.ID
	}

	g := NewGraph(opIDs)
	for methodID, methodOps := range assembly.OperationsByMethod {
		_ = methodID
		BuildSameMethodEdges(g, methodOps)
	}
	for _, edge := range assembly.CrossMethodEdges {
		g.AddDependency(edge[0], edge[1])
	}

	edgeRows := make([]DependencyEdge, 0)
	for _, op := range ops {
		node := g.Node(op.ID)
		if node == nil {
			continue
		}
		for _, on := range node.DependsOn {
			edgeRows = append(edgeRows, DependencyEdge{JobID: req.JobID, Of: op.ID, On: on})
		}
	}
	if err := e.store.ReplaceDependencies(ctx, req.JobID, edgeRows); err != nil {
		return nil, err
	}

	header, err := e.store.JobHeader(ctx, req.JobID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	today := e.now()
	var anchor time.Time
	if req.Direction == Forward {
		if header != nil && header.StartDate != nil {
			anchor = *header.StartDate
		} else {
			anchor = today
		}
	} else {
		if header != nil && header.DueDate != nil {
			anchor = *header.DueDate
		} else {
			anchor = today
		}
	}

	opMap := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if header != nil {
			op.JobPriority = header.Priority
			op.DeadlineType = header.DeadlineType
		}
		opMap[op.ID] = op
	}

	strategy := StrategyFor(req.Direction)
	pinExisting := req.Mode == ModeReschedule
	scheduledByID, err := strategy.Schedule(ops, opMap, g, anchor, today, e.cal, pinExisting)
	if err != nil {
		return nil, err
	}

	scheduled := make([]*ScheduledOperation, 0, len(scheduledByID))
	for _, op := range ops {
		if so, ok := scheduledByID[op.ID]; ok {
			scheduled = append(scheduled, so)
		}
	}

	processes, err := e.store.Processes(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	locationID := ""
	if header != nil {
		locationID = header.LocationID
	}
	workCenters, err := e.store.ActiveWorkCenters(ctx, req.CompanyID, locationID)
	if err != nil {
		return nil, err
	}

	selector := NewWorkCenterSelector(e.store, processes, workCenters)
	selector.SelectForOperations(ctx, scheduled)

	AssignPriorities(scheduled)

	updates := make([]OperationUpdate, 0, len(scheduled))
	conflicts := 0
	workCenterSet := make(map[string]bool)
	for _, so := range scheduled {
		if so.HasConflict {
			conflicts++
		}
		if so.WorkCenterID != nil {
			workCenterSet[*so.WorkCenterID] = true
		}
		updates = append(updates, OperationUpdate{
			OperationID:  so.ID,
			StartDate:    FormatISO(so.StartDate),
			DueDate:      FormatISO(so.DueDate),
			WorkCenterID: so.WorkCenterID,
			Priority:     so.AssignedPriority,
		})
	}

	if err := e.store.UpdateOperations(ctx, req.CompanyID, updates); err != nil {
		return nil, err
	}

	affected := make([]string, 0, len(workCenterSet))
	for id := range workCenterSet {
		affected = append(affected, id)
	}
	sort.Strings(affected)

	return &Result{
		Success:             true,
		OperationsScheduled: len(scheduled),
		ConflictsDetected:   conflicts,
		WorkCentersAffected: affected,
		AssemblyDepth:       assembly.Depth,
	}, nil
}

// NormalizeRequest validates a Request and fills in the documented
// defaults (§6): mode defaults to initial, direction to backward.
func NormalizeRequest(req Request) (Request, error) {
	if req.JobID == "" || req.CompanyID == "" || req.UserID == "" {
		return req, fmt.Errorf("%w: jobId, companyId and userId are required", ErrInvalidInput)
	}
	if req.Mode == "" {
		req.Mode = ModeInitial
	}
	if req.Mode != ModeInitial && req.Mode != ModeReschedule {
		return req, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}
	if req.Direction == "" {
		req.Direction = Backward
	}
	if req.Direction != Backward && req.Direction != Forward {
		return req, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, req.Direction)
	}
	return req, nil
}
