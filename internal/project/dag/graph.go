// Package dag orders the projects of a solution build so that every project
// is built after the projects it references.
package dag

import (
	"slices"
)

// ProjectMeta is one loaded project and the config paths it references.
type ProjectMeta struct {
	Path       string
	References []string
}

type Graph struct {
	Edges   [][]ProjectID // Edges[dep] = projects referencing dep
	Indeg   []int         // references to present projects, for Kahn
	Present []bool        // the project was loaded, not only referenced
}

// BuildGraph links every present project to the projects it references.
// Self references and references to projects that were not loaded add no
// edge; the caller reports those.
func BuildGraph(idx ProjectIndex, metas []ProjectMeta) Graph {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ProjectID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	for _, meta := range metas {
		if id, ok := idx.NameToID[meta.Path]; ok {
			g.Present[int(id)] = true
		}
	}

	done := make(map[ProjectID]struct{}, len(metas))
	for _, meta := range metas {
		from, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		// a project loaded twice contributes its references once
		if _, dup := done[from]; dup {
			continue
		}
		done[from] = struct{}{}

		seen := make(map[ProjectID]struct{}, len(meta.References))
		for _, ref := range meta.References {
			dep, ok := idx.NameToID[ref]
			if !ok || dep == from || !g.Present[int(dep)] {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			g.Edges[int(dep)] = append(g.Edges[int(dep)], from)
			g.Indeg[int(from)]++
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g
}
