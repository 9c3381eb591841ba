package scheduler

import (
	"fmt"
	"time"
)

// Strategy propagates dates across the dependency DAG. The two
// concrete strategies (backwardStrategy, forwardStrategy) share this
// contract and are selected by Direction — spec §9 prefers tagged
// dispatch over a dynamic registry for exactly two variants. pinExisting
// gates §4.9's mode semantics: only a reschedule run (Mode ==
// ModeReschedule) treats In Progress/Paused operations as pinned — an
// initial run overwrites them unconditionally like everything else.
type Strategy interface {
	Schedule(ops []Operation, opMap map[string]Operation, g *Graph, anchor time.Time, today time.Time, cal Calendar, pinExisting bool) (map[string]*ScheduledOperation, error)
}

// StrategyFor returns the concrete Strategy for a direction.
func StrategyFor(d Direction) Strategy {
	if d == Forward {
		return forwardStrategy{}
	}
	return backwardStrategy{}
}

type backwardStrategy struct{}

// Schedule implements §4.6's backward propagation: anchor is the job
// due date (or today if absent), walked leaves-first (reverse
// topological order). dueDate/startDate are both inclusive civil dates
// (§3), so a durationDays-1 business-day span covers an operation's own
// work, and a further business day separates a dependency's due date
// from its dependent's start date — spec.md §8 scenario 1's literal
// worked example (three 1-day ops due 2025-01-17: A 01-15/01-15, B
// 01-16/01-16, C 01-17/01-17) is the reference this is built against.
func (backwardStrategy) Schedule(ops []Operation, opMap map[string]Operation, g *Graph, anchor time.Time, today time.Time, cal Calendar, pinExisting bool) (map[string]*ScheduledOperation, error) {
	order, err := g.TopologicalSort(SortReverse)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*ScheduledOperation, len(order))

	for _, id := range order {
		op, ok := opMap[id]
		if !ok {
			continue
		}
		node := g.Node(id)

		if pinExisting && op.Status.Pinned() && op.ExistingStartDate != nil && op.ExistingDueDate != nil {
			so := pinnedScheduledOperation(op)
			result[id] = &so
			continue
		}

		durationDays := calculateDurationDays(op)

		dueDate := anchor
		if node != nil && len(node.RequiredBy) > 0 {
			found := false
			var minConstraint time.Time
			for _, depID := range node.RequiredBy {
				dep, ok := result[depID]
				if !ok {
					continue
				}
				depOp := opMap[depID]
				lead := 0
				if depOp.LeadTimeDays != nil && *depOp.LeadTimeDays > 0 {
					lead = *depOp.LeadTimeDays
				}
				// The dependent starts at least lead+1 business days after
				// this operation's due date: +1 for the day boundary between
				// an inclusive due date and the next operation's start.
				constraint := SubBusinessDays(dep.StartDate, lead+1, cal)
				if !found || constraint.Before(minConstraint) {
					minConstraint = constraint
					found = true
				}
			}
			if found {
				dueDate = minConstraint
			}
		}
		dueDate = civilDate(dueDate)

		var startDate time.Time
		priority := 99
		hasConflict := false
		conflictReason := ""

		copiedFromPredecessor := false
		if op.OperationOrder == WithPrevious && node != nil && len(node.DependsOn) > 0 {
			firstPred := node.DependsOn[0]
			if pred, ok := result[firstPred]; ok {
				startDate = pred.StartDate
				dueDate = pred.DueDate
				hasConflict = pred.HasConflict
				conflictReason = pred.ConflictReason
				if op.Priority != nil {
					priority = *op.Priority
				}
				copiedFromPredecessor = true
			}
		}

		if !copiedFromPredecessor {
			startDate = SubBusinessDays(dueDate, durationDays-1, cal)
			today := civilDate(today)
			if startDate.Before(today) {
				hasConflict = true
				conflictReason = fmt.Sprintf("computed start %s is before today %s", FormatISO(startDate), FormatISO(today))
			}
		}

		result[id] = &ScheduledOperation{
			Operation:        op,
			StartDate:        startDate,
			DueDate:          dueDate,
			DurationHours:    DurationHours(op),
			DurationDays:     durationDays,
			WorkCenterID:     op.WorkCenterID,
			AssignedPriority: priority,
			HasConflict:      hasConflict,
			ConflictReason:   conflictReason,
		}
	}

	return result, nil
}

type forwardStrategy struct{}

// Schedule implements §4.6's forward propagation: anchor is the job
// start date (or today if absent), walked roots-first (forward
// topological order). No conflict detection — forward schedules
// cannot violate "start in the past" by construction (§4.6, flagged
// open question in DESIGN.md). Mirrors backwardStrategy's inclusive-date
// arithmetic: durationDays-1 business days span an operation's own
// work, and a dependency's due date is separated from its dependent's
// start date by a further business day.
func (forwardStrategy) Schedule(ops []Operation, opMap map[string]Operation, g *Graph, anchor time.Time, today time.Time, cal Calendar, pinExisting bool) (map[string]*ScheduledOperation, error) {
	order, err := g.TopologicalSort(SortForward)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*ScheduledOperation, len(order))

	for _, id := range order {
		op, ok := opMap[id]
		if !ok {
			continue
		}
		node := g.Node(id)

		if pinExisting && op.Status.Pinned() && op.ExistingStartDate != nil && op.ExistingDueDate != nil {
			so := pinnedScheduledOperation(op)
			result[id] = &so
			continue
		}

		durationDays := calculateDurationDays(op)

		lead := 0
		if op.LeadTimeDays != nil && *op.LeadTimeDays > 0 {
			lead = *op.LeadTimeDays
		}

		var startDate time.Time
		found := false
		if node != nil && len(node.DependsOn) > 0 {
			var maxDue time.Time
			for _, depID := range node.DependsOn {
				dep, ok := result[depID]
				if !ok {
					continue
				}
				if !found || dep.DueDate.After(maxDue) {
					maxDue = dep.DueDate
					found = true
				}
			}
			if found {
				// +1 for the day boundary between a dependency's inclusive
				// due date and this operation's start, same as the backward
				// strategy's symmetric -1.
				startDate = AddBusinessDays(maxDue, lead+1, cal)
			}
		}
		if !found {
			startDate = AddBusinessDays(civilDate(anchor), lead, cal)
		}
		startDate = civilDate(startDate)

		var dueDate time.Time
		priority := 1

		copiedFromPredecessor := false
		if op.OperationOrder == WithPrevious && node != nil && len(node.DependsOn) > 0 {
			firstPred := node.DependsOn[0]
			if pred, ok := result[firstPred]; ok {
				startDate = pred.StartDate
				dueDate = pred.DueDate
				if op.Priority != nil {
					priority = *op.Priority
				}
				copiedFromPredecessor = true
			}
		}

		if !copiedFromPredecessor {
			dueDate = AddBusinessDays(startDate, durationDays-1, cal)
		}

		result[id] = &ScheduledOperation{
			Operation:        op,
			StartDate:        startDate,
			DueDate:          dueDate,
			DurationHours:    DurationHours(op),
			DurationDays:     durationDays,
			WorkCenterID:     op.WorkCenterID,
			AssignedPriority: priority,
			HasConflict:      false,
		}
	}

	return result, nil
}

// pinnedScheduledOperation builds a ScheduledOperation from an
// operation's existing dates/work center without re-propagating —
// §4.9's reschedule pinning of In Progress/Paused operations.
func pinnedScheduledOperation(op Operation) ScheduledOperation {
	priority := 99
	if op.Priority != nil {
		priority = *op.Priority
	}
	return ScheduledOperation{
		Operation:        op,
		StartDate:        civilDate(*op.ExistingStartDate),
		DueDate:          civilDate(*op.ExistingDueDate),
		DurationHours:    DurationHours(op),
		DurationDays:     calculateDurationDays(op),
		WorkCenterID:     op.WorkCenterID,
		AssignedPriority: priority,
	}
}
