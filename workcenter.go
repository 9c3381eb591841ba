package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// LoadReader reads durable, already-persisted work-center load — the
// part of §4.7's load figure that comes from storage rather than the
// in-memory tally. Implemented by postgres.Store.
type LoadReader interface {
	// WorkCenterLoadHours sums durationHours of all non-Done/non-Canceled
	// operations on workCenterID whose start date is null or <= beforeDate.
	WorkCenterLoadHours(ctx context.Context, workCenterID string, beforeDate time.Time) (float64, error)
}

// WorkCenterTally is the process-local, per-run accumulator of hours
// assigned in the current batch but not yet persisted (§3). It is
// owned by one WorkCenterSelector for the lifetime of one engine run
// and is never shared across runs or goroutines (§9: "do not make it
// process-global").
type WorkCenterTally struct {
	hours map[string]float64
}

func newWorkCenterTally() *WorkCenterTally {
	return &WorkCenterTally{hours: make(map[string]float64)}
}

func (t *WorkCenterTally) add(workCenterID string, hours float64) {
	t.hours[workCenterID] += hours
}

func (t *WorkCenterTally) get(workCenterID string) float64 {
	return t.hours[workCenterID]
}

// WorkCenterSelector assigns work centers to scheduled operations,
// load-balancing across eligible candidates (§4.7). Initialize once
// per engine run from the processes and active work centers of the
// job's company/location, then call SelectForOperations over the
// batch.
type WorkCenterSelector struct {
	loads LoadReader

	// eligible maps process id -> work center ids that are both active
	// and colocated at the target location.
	eligible map[string][]string

	tally *WorkCenterTally
}

// NewWorkCenterSelector builds the eligibility index for one engine
// run: process id -> work center ids filtered to the active entries of
// workCenters. Location is not checked here; the caller passes the work
// centers at the job's location.
func NewWorkCenterSelector(loads LoadReader, processes []Process, workCenters []WorkCenter) *WorkCenterSelector {
	activeAtLocation := make(map[string]bool, len(workCenters))
	for _, wc := range workCenters {
		if wc.Active {
			activeAtLocation[wc.ID] = true
		}
	}

	eligible := make(map[string][]string, len(processes))
	for _, p := range processes {
		var ids []string
		for _, wcID := range p.WorkCenterIDs {
			if activeAtLocation[wcID] {
				ids = append(ids, wcID)
			}
		}
		eligible[p.ID] = ids
	}

	return &WorkCenterSelector{
		loads:    loads,
		eligible: eligible,
		tally:    newWorkCenterTally(),
	}
}

// SelectWorkCenter returns the id of the eligible work center with the
// lowest total load: durable load (read live from storage) plus the
// in-run tally. beforeDate defaults to today when the zero value is
// passed.
func (s *WorkCenterSelector) SelectWorkCenter(ctx context.Context, processID string, beforeDate time.Time) (string, error) {
	ids, ok := s.eligible[processID]
	if !ok {
		return "", fmt.Errorf("%w: process %q", ErrProcessNotFound, processID)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: process %q has no eligible work centers", ErrNoEligibleWorkCenter, processID)
	}
	if beforeDate.IsZero() {
		beforeDate = time.Now()
	}

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	best := ""
	bestLoad := 0.0
	for _, id := range sorted {
		durable, err := s.loads.WorkCenterLoadHours(ctx, id, beforeDate)
		if err != nil {
			return "", err
		}
		load := durable + s.tally.get(id)
		if best == "" || load < bestLoad {
			best, bestLoad = id, load
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: process %q yielded no candidate", ErrNoEligibleWorkCenter, processID)
	}
	return best, nil
}

// SelectForOperations assigns work centers to a scheduled batch
// (§4.7): resets the in-memory tally, sorts by StartDate ascending
// (nulls last), skips Outside operations entirely, assigns each
// remaining operation via SelectWorkCenter, and folds its duration
// into the tally so later operations in the same batch see the
// updated load. Operations for which no eligible work center exists
// are marked as conflicts rather than aborting the batch (§7:
// NoEligibleWorkCenter is non-fatal).
func (s *WorkCenterSelector) SelectForOperations(ctx context.Context, ops []*ScheduledOperation) {
	s.tally = newWorkCenterTally()

	sorted := make([]*ScheduledOperation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartDate.IsZero() != b.StartDate.IsZero() {
			return b.StartDate.IsZero()
		}
		return a.StartDate.Before(b.StartDate)
	})

	for _, so := range sorted {
		if so.Type == TypeOutside {
			continue
		}
		if so.Status.Pinned() && so.WorkCenterID != nil {
			s.tally.add(*so.WorkCenterID, so.DurationHours)
			continue
		}

		id, err := s.SelectWorkCenter(ctx, so.ProcessID, so.StartDate)
		if err != nil {
			so.HasConflict = true
			so.ConflictReason = err.Error()
			continue
		}
		so.WorkCenterID = &id
		s.tally.add(id, so.DurationHours)
	}
}
