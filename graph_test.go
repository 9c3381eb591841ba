package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddDependency_Symmetric(t *testing.T) {
	g := NewGraph([]string{"a", "b"})
	g.AddDependency("b", "a") // b depends on a

	assert.Equal(t, []string{"a"}, g.Node("b").DependsOn)
	assert.Equal(t, []string{"b"}, g.Node("a").RequiredBy)
}

func TestGraph_AddDependency_Deduplicates(t *testing.T) {
	g := NewGraph([]string{"a", "b"})
	g.AddDependency("b", "a")
	g.AddDependency("b", "a")
	assert.Len(t, g.Node("b").DependsOn, 1)
	assert.Len(t, g.Node("a").RequiredBy, 1)
}

func TestGraph_TopologicalSort_Forward(t *testing.T) {
	g := NewGraph([]string{"a", "b", "c"})
	g.AddDependency("b", "a") // b depends on a
	g.AddDependency("c", "b") // c depends on b

	order, err := g.TopologicalSort(SortForward)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestGraph_TopologicalSort_Reverse(t *testing.T) {
	g := NewGraph([]string{"a", "b", "c"})
	g.AddDependency("b", "a")
	g.AddDependency("c", "b")

	order, err := g.TopologicalSort(SortReverse)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestGraph_TopologicalSort_ParallelGroupIsOrderStable(t *testing.T) {
	g := NewGraph([]string{"a", "b", "c"})
	g.AddDependency("c", "a")
	g.AddDependency("c", "b")

	order, err := g.TopologicalSort(SortForward)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestGraph_TopologicalSort_CycleDetected(t *testing.T) {
	g := NewGraph([]string{"a", "b"})
	g.AddDependency("a", "b")
	g.AddDependency("b", "a")

	_, err := g.TopologicalSort(SortForward)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycleDetected))

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.ElementsMatch(t, []string{"a", "b"}, cycleErr.Residual)
}
