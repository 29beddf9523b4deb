package build

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/project/dag"
	"tsc/internal/trace"
	"tsc/internal/tsoptions"
)

type project struct {
	path   string
	name   string
	config *tsoptions.ConfigParseResult
	// refs are the config paths of referenced projects.
	refs []string
	// invalid projects had config errors and are never built.
	invalid bool
}

type solution struct {
	// order lists projects with references before their dependents.
	order  []*project
	byPath map[string]*project
	index  dag.ProjectIndex
	graph  dag.Graph
}

// rootConfig maps a --build argument to a config file path.
func (h *Host) rootConfig(arg string) string {
	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.cwd, path)
	}
	path = filepath.Clean(path)
	if h.opts.Sys.DirectoryExists(path) {
		return filepath.Join(path, tsoptions.ConfigFileName)
	}
	return path
}

// resolve loads every root project and everything it references. A missing
// config or a reference cycle is reported and yields the exit status to
// return instead of a solution.
func (h *Host) resolve(ctx context.Context) (*solution, core.ExitStatus, bool) {
	_, span := trace.Start(ctx, trace.ScopeMode, "build.resolve")
	defer span.End()

	sys := h.opts.Sys
	sol := &solution{byPath: make(map[string]*project)}
	var queue []string
	for _, arg := range h.opts.Projects {
		queue = append(queue, h.rootConfig(arg))
	}

	missing := false
	var metas []dag.ProjectMeta
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if _, seen := sol.byPath[path]; seen {
			continue
		}
		if !sys.FileExists(path) {
			h.report(diag.FileNotFound, h.display(path))
			sol.byPath[path] = nil
			missing = true
			continue
		}
		cfg := tsoptions.ParseConfigFile(path, h.opts.BuildOptions, sys)
		p := &project{path: path, name: h.display(path), config: cfg}
		if len(cfg.Errors) > 0 {
			h.opts.Sink.ReportAll(cfg.Errors)
			p.invalid = true
		}
		for _, ref := range cfg.ProjectReferences {
			p.refs = append(p.refs, ref.Path)
			queue = append(queue, ref.Path)
		}
		sol.byPath[path] = p
		metas = append(metas, dag.ProjectMeta{Path: path, References: p.refs})
	}
	span.Set("projects", strings.Join(pathsOf(metas), ","))
	if missing {
		return nil, core.ExitInvalidProjectOutputsSkipped, false
	}

	sol.index = dag.BuildIndex(metas)
	sol.graph = dag.BuildGraph(sol.index, metas)
	topo := dag.ToposortKahn(sol.graph)
	if topo.Cyclic {
		names := sol.index.Names(dag.FindCycle(sol.graph, topo))
		for i, name := range names {
			names[i] = h.display(name)
		}
		h.report(diag.ProjectReferencesCircular, strings.Join(names, " -> "))
		return nil, core.ExitProjectReferenceCycleOutputsSkipped, false
	}
	for _, name := range sol.index.Names(topo.Order) {
		sol.order = append(sol.order, sol.byPath[name])
	}
	return sol, core.ExitSuccess, true
}

// dependents returns the projects that reference any of paths, directly or
// not, plus paths themselves.
func (s *solution) dependents(paths map[string]bool) map[string]bool {
	out := make(map[string]bool, len(paths))
	var stack []dag.ProjectID
	for path := range paths {
		if id, ok := s.index.NameToID[path]; ok && !out[path] {
			out[path] = true
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range s.graph.Edges[id] {
			name := s.index.IDToName[next]
			if !out[name] {
				out[name] = true
				stack = append(stack, next)
			}
		}
	}
	return out
}

// owners returns the projects configured by file, listing it as a root or
// having loaded it during their last build.
func (s *solution) owners(file string, loaded map[string][]string) map[string]bool {
	out := make(map[string]bool)
	for _, p := range s.order {
		if p.path == file || slices.Contains(loaded[p.path], file) {
			out[p.path] = true
			continue
		}
		for _, name := range p.config.FileNames {
			if filepath.Clean(name) == file {
				out[p.path] = true
				break
			}
		}
	}
	return out
}

func pathsOf(metas []dag.ProjectMeta) []string {
	out := make([]string, len(metas))
	for i, m := range metas {
		out[i] = m.Path
	}
	return out
}
