package dag

import (
	"slices"
)

type Topo struct {
	Order  []ProjectID // build order, present projects only
	Cyclic bool
	Cycles []ProjectID // projects left with unresolved references
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := slices.Clone(g.Indeg)

	topo := &Topo{Order: make([]ProjectID, 0, nodeCount)}

	active := 0
	current := make([]ProjectID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	for len(current) > 0 {
		var next []ProjectID
		for _, id := range current {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}
	return topo
}

// FindCycle returns one reference cycle among the projects left by a cyclic
// sort, in reference order and closed with its first project, e.g.
// [a b a] when a references b and b references a.
func FindCycle(g Graph, topo *Topo) []ProjectID {
	if !topo.Cyclic {
		return nil
	}
	stuck := make(map[ProjectID]bool, len(topo.Cycles))
	for _, id := range topo.Cycles {
		stuck[id] = true
	}
	const (
		unvisited = iota
		onStack
		finished
	)
	state := make(map[ProjectID]int, len(topo.Cycles))
	var stack []ProjectID
	var cycle []ProjectID

	var visit func(id ProjectID) bool
	visit = func(id ProjectID) bool {
		state[id] = onStack
		stack = append(stack, id)
		for _, to := range g.Edges[int(id)] {
			if !stuck[to] {
				continue
			}
			switch state[to] {
			case onStack:
				start := slices.Index(stack, to)
				cycle = append(slices.Clone(stack[start:]), to)
				return true
			case unvisited:
				if visit(to) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = finished
		return false
	}

	for _, id := range topo.Cycles {
		if state[id] == unvisited && visit(id) {
			// edges run from a dependency to its dependents
			slices.Reverse(cycle)
			return cycle
		}
	}
	return nil
}
