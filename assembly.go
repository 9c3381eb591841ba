package scheduler

import (
	"context"
	"sort"
)

// AssemblyLoader loads the raw shape of a job's assembly from
// storage: the method tree and the schedulable operations of each
// method. AssemblyHandler is built on top of it and never talks to
// storage directly, keeping the tree-traversal logic testable without
// a database.
type AssemblyLoader interface {
	// MethodTree returns the root make method for a job, with the
	// full child tree populated. Returns nil, nil if the job has no
	// root make method.
	MethodTree(ctx context.Context, jobID string) (*MakeMethod, error)

	// OperationsByMethod returns the schedulable operations
	// (Done/Canceled already excluded, §3) for a make method, in no
	// particular order — AssemblyHandler sorts them.
	OperationsByMethod(ctx context.Context, methodID string) ([]Operation, error)
}

// Assembly is the traversal AssemblyHandler produces: the operations
// of every method in the tree, in both traversal orders, plus the
// derived cross-method dependency edges and the tree's depth.
type Assembly struct {
	// PostOrder lists methods children-before-parents (for backward
	// scheduling); PreOrder lists parents-before-children (forward).
	PostOrderMethods []*MakeMethod
	PreOrderMethods  []*MakeMethod

	// Operations is every schedulable operation across the whole tree,
	// keyed by id.
	Operations map[string]Operation

	// OperationsByMethod groups Operations by owning method id, each
	// sorted by Order ascending.
	OperationsByMethod map[string][]Operation

	// CrossMethodEdges are (dependent, dependency) pairs: dependent
	// depends on dependency. AssemblyHandler derives these from
	// parent/child method links; same-method edges are the caller's
	// job via BuildSameMethodEdges.
	CrossMethodEdges [][2]string

	Depth int
}

// AssemblyHandler loads the method tree rooted at a job's root make
// method and produces the traversal orders and cross-method edges the
// Scheduling Strategy and Dependency Builder need.
type AssemblyHandler struct {
	loader AssemblyLoader
}

func NewAssemblyHandler(loader AssemblyLoader) *AssemblyHandler {
	return &AssemblyHandler{loader: loader}
}

// Load builds the Assembly for a job. Returns ErrNotFound if the job
// has no root make method.
func (h *AssemblyHandler) Load(ctx context.Context, jobID string) (*Assembly, error) {
	root, err := h.loader.MethodTree(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNotFound
	}

	a := &Assembly{
		Operations:         make(map[string]Operation),
		OperationsByMethod: make(map[string][]Operation),
	}

	var walkPost func(m *MakeMethod) (depth int, err error)
	walkPost = func(m *MakeMethod) (int, error) {
		maxChildDepth := 0
		for _, c := range m.Children {
			d, err := walkPost(c)
			if err != nil {
				return 0, err
			}
			if d > maxChildDepth {
				maxChildDepth = d
			}
		}

		ops, err := h.loader.OperationsByMethod(ctx, m.ID)
		if err != nil {
			return 0, err
		}
		sort.SliceStable(ops, func(i, j int) bool { return ops[i].Order < ops[j].Order })
		a.OperationsByMethod[m.ID] = ops
		for _, op := range ops {
			a.Operations[op.ID] = op
		}

		a.PostOrderMethods = append(a.PostOrderMethods, m)
		return maxChildDepth + 1, nil
	}

	depth, err := walkPost(root)
	if err != nil {
		return nil, err
	}
	a.Depth = depth

	// Pre-order is the reverse of the recursive post-order collection
	// only when there's a single child per level; build it directly
	// instead so the invariant (parents before children) holds for
	// any branching factor.
	var walkPre func(m *MakeMethod)
	walkPre = func(m *MakeMethod) {
		a.PreOrderMethods = append(a.PreOrderMethods, m)
		for _, c := range m.Children {
			walkPre(c)
		}
	}
	walkPre(root)

	a.CrossMethodEdges = crossMethodEdges(root, a.OperationsByMethod)

	if len(a.Operations) == 0 {
		return nil, ErrNotFound
	}

	return a, nil
}

// crossMethodEdges implements §4.4's cross-method wiring: for each
// child method, every root operation of that child (rank-1, no
// same-method predecessor) must complete before the parent material's
// consuming operation starts. The consuming operation is the
// lowest-adjusted-rank operation in the parent method that consumes
// the child's parentMaterialId (the material the child method
// produces to satisfy the parent's BOM — not necessarily the same id
// as the child method's own ItemID); absent an explicit link, the
// child gates the parent method's own rank-1 operations.
func crossMethodEdges(root *MakeMethod, opsByMethod map[string][]Operation) [][2]string {
	var edges [][2]string

	var walk func(m *MakeMethod)
	walk = func(m *MakeMethod) {
		parentOps := opsByMethod[m.ID]
		parentRanks := adjustedRanks(parentOps)
		parentRootIDs := rankOneOperationIDs(parentOps, parentRanks)

		for _, child := range m.Children {
			childOps := opsByMethod[child.ID]
			childRanks := adjustedRanks(childOps)
			childRootIDs := rankOneOperationIDs(childOps, childRanks)

			var consumingID string
			var ok bool
			if child.ParentMaterialID != nil {
				consumingID, ok = findConsumingOperation(parentOps, parentRanks, *child.ParentMaterialID)
			}

			for _, childRoot := range childRootIDs {
				if ok {
					edges = append(edges, [2]string{consumingID, childRoot})
				} else {
					for _, parentRoot := range parentRootIDs {
						edges = append(edges, [2]string{parentRoot, childRoot})
					}
				}
			}

			walk(child)
		}
	}
	walk(root)

	return edges
}

// rankOneOperationIDs returns the ids of every operation at adjusted
// rank 1 (the method's root operations — no same-method predecessor).
func rankOneOperationIDs(ops []Operation, ranks map[string]int) []string {
	var ids []string
	for _, op := range ops {
		if ranks[op.ID] == 1 {
			ids = append(ids, op.ID)
		}
	}
	return ids
}

// findConsumingOperation returns the lowest-adjusted-rank operation in
// ops that consumes itemID.
func findConsumingOperation(ops []Operation, ranks map[string]int, itemID string) (string, bool) {
	best := ""
	bestRank := -1
	for _, op := range ops {
		if !containsString(op.ConsumesItemIDs, itemID) {
			continue
		}
		r := ranks[op.ID]
		if bestRank == -1 || r < bestRank {
			bestRank, best = r, op.ID
		}
	}
	return best, bestRank != -1
}
