package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func opMapFrom(ops []Operation) map[string]Operation {
	m := make(map[string]Operation, len(ops))
	for _, o := range ops {
		m[o.ID] = o
	}
	return m
}

// TestBackwardStrategy_LiteralScenario1 reproduces spec.md §8 scenario 1
// verbatim: three 1-day After-Previous operations A->B->C due 2025-01-17
// schedule with zero gap per op (A 01-15, B 01-16, C 01-17), since dates
// are inclusive civil dates and a 1-day operation's start equals its due.
func TestBackwardStrategy_LiteralScenario1(t *testing.T) {
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
		{ID: "B", Order: 2, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
		{ID: "C", Order: 3, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A", "B", "C"})
	BuildSameMethodEdges(g, ops)

	due := date(2025, time.January, 17) // Friday
	today := date(2025, time.January, 13)

	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, due, today, DefaultCalendar, false)
	require.NoError(t, err)

	require.Equal(t, date(2025, time.January, 15), result["A"].StartDate)
	require.Equal(t, date(2025, time.January, 15), result["A"].DueDate)
	require.Equal(t, date(2025, time.January, 16), result["B"].StartDate)
	require.Equal(t, date(2025, time.January, 16), result["B"].DueDate)
	require.Equal(t, date(2025, time.January, 17), result["C"].StartDate)
	require.Equal(t, date(2025, time.January, 17), result["C"].DueDate)
	require.False(t, result["A"].HasConflict)
	require.False(t, result["B"].HasConflict)
	require.False(t, result["C"].HasConflict)
}

// TestBackwardStrategy_SingleLinearMethod is a two-operation variant of
// scenario #1: a single method with two After-Previous operations and a
// job due date, scheduled backward. A (1 day) -> B (1 day), due
// 2025-01-21 (Tuesday).
func TestBackwardStrategy_SingleLinearMethod(t *testing.T) {
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
		{ID: "B", Order: 2, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A", "B"})
	BuildSameMethodEdges(g, ops)

	due := date(2025, time.January, 21) // Tuesday
	today := date(2025, time.January, 13)

	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, due, today, DefaultCalendar, false)
	require.NoError(t, err)

	require.Equal(t, due, result["B"].DueDate)
	require.Equal(t, due, result["B"].StartDate)
	require.Equal(t, date(2025, time.January, 20), result["A"].DueDate)
	require.Equal(t, date(2025, time.January, 20), result["A"].StartDate)
	require.False(t, result["A"].HasConflict)
	require.False(t, result["B"].HasConflict)
}

// TestBackwardStrategy_WithPreviousSharesGroupDates covers scenario #2:
// A, B (With Previous), C — C depends on both A and B. B shares A's rank
// and has no predecessor of its own, so nothing is copied: A and B are
// each scheduled from C's start and end up with the same dates.
func TestBackwardStrategy_WithPreviousSharesGroupDates(t *testing.T) {
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
		{ID: "B", Order: 2, OperationOrder: WithPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
		{ID: "C", Order: 3, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A", "B", "C"})
	BuildSameMethodEdges(g, ops)

	due := date(2025, time.January, 22) // Wednesday
	today := date(2025, time.January, 13)

	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, due, today, DefaultCalendar, false)
	require.NoError(t, err)

	require.Equal(t, result["A"].StartDate, result["B"].StartDate)
	require.Equal(t, result["A"].DueDate, result["B"].DueDate)
}

// TestBackwardStrategy_ConflictWhenStartIsBeforeToday covers scenario #3:
// a 3-day-duration operation due today triggers a conflict since its
// computed start necessarily falls before today.
func TestBackwardStrategy_ConflictWhenStartIsBeforeToday(t *testing.T) {
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(24), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A"})
	BuildSameMethodEdges(g, ops)

	today := date(2025, time.January, 22) // Wednesday
	due := today

	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, due, today, DefaultCalendar, false)
	require.NoError(t, err)

	require.True(t, result["A"].HasConflict)
	require.NotEmpty(t, result["A"].ConflictReason)
}

func TestBackwardStrategy_PinnedOperationKeepsExistingDates(t *testing.T) {
	start := date(2025, time.January, 10)
	due := date(2025, time.January, 12)
	wc := "wc-1"
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, Status: StatusInProgress,
			ExistingStartDate: &start, ExistingDueDate: &due, WorkCenterID: &wc},
	}
	g := NewGraph([]string{"A"})
	BuildSameMethodEdges(g, ops)

	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, date(2025, time.January, 20), date(2025, time.January, 13), DefaultCalendar, true)
	require.NoError(t, err)
	require.Equal(t, start, result["A"].StartDate)
	require.Equal(t, due, result["A"].DueDate)
	require.Equal(t, &wc, result["A"].WorkCenterID)
}

// TestBackwardStrategy_InitialModeOverwritesPinnedOperation covers §4.9:
// an initial run (pinExisting=false) overwrites an In Progress operation's
// existing dates unconditionally, unlike a reschedule run.
func TestBackwardStrategy_InitialModeOverwritesPinnedOperation(t *testing.T) {
	start := date(2025, time.January, 10)
	due := date(2025, time.January, 12)
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, Status: StatusInProgress,
			ExistingStartDate: &start, ExistingDueDate: &due, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A"})
	BuildSameMethodEdges(g, ops)

	jobDue := date(2025, time.January, 20)
	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, jobDue, date(2025, time.January, 13), DefaultCalendar, false)
	require.NoError(t, err)
	require.NotEqual(t, start, result["A"].StartDate)
	require.NotEqual(t, due, result["A"].DueDate)
	require.Equal(t, jobDue, result["A"].DueDate)
}

func TestForwardStrategy_SingleLinearMethod(t *testing.T) {
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
		{ID: "B", Order: 2, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A", "B"})
	BuildSameMethodEdges(g, ops)

	start := date(2025, time.January, 13) // Monday
	today := start

	result, err := forwardStrategy{}.Schedule(ops, opMapFrom(ops), g, start, today, DefaultCalendar, false)
	require.NoError(t, err)

	require.Equal(t, start, result["A"].StartDate)
	require.Equal(t, start, result["A"].DueDate)
	require.Equal(t, date(2025, time.January, 14), result["B"].StartDate)
	require.Equal(t, date(2025, time.January, 14), result["B"].DueDate)
	require.False(t, result["A"].HasConflict)
	require.False(t, result["B"].HasConflict)
}

// TestBackwardStrategy_DurationProperty covers §8's duration property:
// dueDate - startDate spans at least durationDays-1 business days.
func TestBackwardStrategy_DurationProperty(t *testing.T) {
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(24), LaborUnit: RateTotalHours, Quantity: 1},
	}
	g := NewGraph([]string{"A"})
	BuildSameMethodEdges(g, ops)

	due := date(2025, time.January, 23) // Thursday
	today := date(2025, time.January, 13)

	result, err := backwardStrategy{}.Schedule(ops, opMapFrom(ops), g, due, today, DefaultCalendar, false)
	require.NoError(t, err)

	so := result["A"]
	require.GreaterOrEqual(t, businessDaysBetween(so.StartDate, so.DueDate, DefaultCalendar), so.DurationDays-1)
}

func TestForwardStrategy_LeadTimeDelaysStart(t *testing.T) {
	lead := 2
	ops := []Operation{
		{ID: "A", Order: 1, OperationOrder: AfterPrevious, LaborTime: ptr(8), LaborUnit: RateTotalHours, Quantity: 1, LeadTimeDays: &lead},
	}
	g := NewGraph([]string{"A"})
	BuildSameMethodEdges(g, ops)

	start := date(2025, time.January, 13) // Monday
	result, err := forwardStrategy{}.Schedule(ops, opMapFrom(ops), g, start, start, DefaultCalendar, false)
	require.NoError(t, err)

	require.Equal(t, date(2025, time.January, 15), result["A"].StartDate)
}
