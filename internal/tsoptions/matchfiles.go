package tsoptions

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"tsc/internal/diag"
	"tsc/internal/host"
)

// SupportedExtensions are the source extensions picked up by include specs.
var SupportedExtensions = []string{".ts", ".tsx"}

var defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}

// IsSupportedSource reports whether name has a supported extension.
func IsSupportedSource(name string) bool {
	for _, ext := range SupportedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func matchInputFiles(configPath string, cfg *loadedConfig, opts *Options, sys host.System) ([]string, []*diag.Diagnostic) {
	dir := filepath.Dir(configPath)
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, f := range cfg.files.specs {
		add(absPath(f, cfg.files.dir))
	}

	include := cfg.include
	if !include.set && !cfg.files.set {
		include = specList{dir: dir, specs: []string{"**/*"}}
	}
	exclude := cfg.exclude
	if !exclude.set {
		exclude = specList{dir: dir, specs: append([]string(nil), defaultExcludes...)}
		if opts.OutDir != "" {
			exclude.specs = append(exclude.specs, opts.OutDir)
		}
	}

	excluders := make([]*regexp.Regexp, 0, len(exclude.specs))
	for _, spec := range exclude.specs {
		excluders = append(excluders, compileSpec(exclude.dir, spec, true))
	}
	excluded := func(p string) bool {
		slash := filepath.ToSlash(p)
		for _, re := range excluders {
			if re.MatchString(slash) {
				return true
			}
		}
		return false
	}

	for _, spec := range include.specs {
		re := compileSpec(include.dir, spec, false)
		base := literalBase(include.dir, spec)
		walkDir(sys, base, excluded, func(p string) {
			if IsSupportedSource(p) && re.MatchString(filepath.ToSlash(p)) {
				add(p)
			}
		})
	}

	if len(out) == 0 && !cfg.files.set {
		inc, _ := json.Marshal(orEmpty(include.specs))
		exc, _ := json.Marshal(orEmpty(cfg.exclude.specs))
		return nil, []*diag.Diagnostic{diag.NewGlobal(diag.NoInputsFound, configPath, string(inc), string(exc))}
	}
	return out, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func walkDir(sys host.System, dir string, skip func(string) bool, visit func(string)) {
	if skip(dir) {
		return
	}
	files, dirs := sys.ReadDirectory(dir)
	for _, f := range files {
		p := filepath.Join(dir, f)
		if !skip(p) {
			visit(p)
		}
	}
	for _, d := range dirs {
		walkDir(sys, filepath.Join(dir, d), skip, visit)
	}
}

// literalBase is the longest directory prefix of spec without wildcards.
func literalBase(dir, spec string) string {
	parts := strings.Split(filepath.ToSlash(spec), "/")
	base := dir
	for _, part := range parts[:len(parts)-1] {
		if strings.ContainsAny(part, "*?") {
			break
		}
		base = filepath.Join(base, part)
	}
	return base
}

// compileSpec turns a file spec into an anchored regular expression over
// slash-separated absolute paths. "**/" matches any number of directories,
// "*" and "?" match within one path segment. An include spec naming a
// directory matches everything under it; exclude specs always do.
func compileSpec(dir, spec string, exclude bool) *regexp.Regexp {
	full := filepath.ToSlash(absPath(spec, dir))
	parts := strings.Split(full, "/")
	last := parts[len(parts)-1]
	if !exclude {
		switch {
		case last == "**":
			parts = append(parts, "*")
		case !strings.ContainsAny(last, "*?.") && last != "":
			parts = append(parts, "**", "*")
		}
	}

	var b strings.Builder
	b.WriteByte('^')
	for i, part := range parts {
		if part == "**" {
			b.WriteString("(?:[^/]+/)*")
			continue
		}
		for _, r := range part {
			switch r {
			case '*':
				b.WriteString("[^/]*")
			case '?':
				b.WriteString("[^/]")
			default:
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		if i < len(parts)-1 {
			b.WriteByte('/')
		}
	}
	if exclude {
		b.WriteString("(?:/.*)?")
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
