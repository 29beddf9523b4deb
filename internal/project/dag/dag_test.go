package dag

import (
	"slices"
	"testing"
)

func TestBuildIndexIncludesReferences(t *testing.T) {
	metas := []ProjectMeta{
		{Path: "/app/tsconfig.json", References: []string{"/lib/tsconfig.json", "/util/tsconfig.json"}},
		{Path: "/util/tsconfig.json"},
	}

	idx := BuildIndex(metas)

	wantNames := []string{"/app/tsconfig.json", "/lib/tsconfig.json", "/util/tsconfig.json"}
	if !slices.Equal(idx.IDToName, wantNames) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, wantNames)
	}
	for i, want := range wantNames {
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildGraphLinksPresentProjects(t *testing.T) {
	metas := []ProjectMeta{
		{Path: "app", References: []string{"core", "util", "app", "core"}},
		{Path: "core", References: []string{"util"}},
	}
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas)

	app, core, util := idx.NameToID["app"], idx.NameToID["core"], idx.NameToID["util"]
	if !g.Present[app] || !g.Present[core] || g.Present[util] {
		t.Fatalf("unexpected Present flags: %v", g.Present)
	}
	if !slices.Equal(g.Edges[core], []ProjectID{app}) {
		t.Fatalf("core dependents = %v, want [%v]", g.Edges[core], app)
	}
	if len(g.Edges[util]) != 0 || len(g.Edges[app]) != 0 {
		t.Fatalf("unexpected edges %v", g.Edges)
	}
	if g.Indeg[app] != 1 || g.Indeg[core] != 0 {
		t.Fatalf("indegrees = %v", g.Indeg)
	}
}

func TestToposortKahnOrdersReferencesFirst(t *testing.T) {
	metas := []ProjectMeta{
		{Path: "b", References: []string{"c"}},
		{Path: "a"},
		{Path: "c"},
		{Path: "d", References: []string{"b", "a"}},
	}
	idx := BuildIndex(metas)
	topo := ToposortKahn(BuildGraph(idx, metas))
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}
	if got := idx.Names(topo.Order); !slices.Equal(got, []string{"a", "c", "b", "d"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name  string
		metas []ProjectMeta
		stuck []string
		cycle []string
	}{
		{
			name: "pair",
			metas: []ProjectMeta{
				{Path: "a", References: []string{"b"}},
				{Path: "b", References: []string{"a"}},
				{Path: "c", References: []string{"a"}},
				{Path: "d"},
			},
			stuck: []string{"a", "b", "c"},
			cycle: []string{"a", "b", "a"},
		},
		{
			name: "triangle",
			metas: []ProjectMeta{
				{Path: "a", References: []string{"b"}},
				{Path: "b", References: []string{"c"}},
				{Path: "c", References: []string{"a"}},
			},
			stuck: []string{"a", "b", "c"},
			cycle: []string{"a", "b", "c", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := BuildIndex(tt.metas)
			g := BuildGraph(idx, tt.metas)
			topo := ToposortKahn(g)
			if !topo.Cyclic {
				t.Fatalf("expected a cycle, got %+v", topo)
			}
			if got := idx.Names(topo.Cycles); !slices.Equal(got, tt.stuck) {
				t.Fatalf("cycles = %v, want %v", got, tt.stuck)
			}
			if got := idx.Names(FindCycle(g, topo)); !slices.Equal(got, tt.cycle) {
				t.Fatalf("FindCycle = %v, want %v", got, tt.cycle)
			}
		})
	}
}

func TestFindCycleAcyclic(t *testing.T) {
	metas := []ProjectMeta{{Path: "a", References: []string{"b"}}, {Path: "b"}}
	g := BuildGraph(BuildIndex(metas), metas)
	if cycle := FindCycle(g, ToposortKahn(g)); cycle != nil {
		t.Fatalf("unexpected cycle %v", cycle)
	}
}
