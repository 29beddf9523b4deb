package tsoptions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/host"
)

// ConfigFileName is the file searched for by FindConfigFile.
const ConfigFileName = "tsconfig.json"

// FindConfigFile walks from searchDir up to the file system root and returns
// the first tsconfig.json found.
func FindConfigFile(searchDir string, sys host.System) (string, bool) {
	dir := filepath.Clean(searchDir)
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if sys.FileExists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// MergeOptions overlays every option set in override onto a copy of base.
func MergeOptions(base, override *Options) *Options {
	out := base.Clone()
	if override == nil {
		return out
	}
	for _, d := range Declarations {
		if !d.IsSet(override) {
			continue
		}
		if p := d.Bool(out); p != nil {
			*p = *d.Bool(override)
		} else if p := d.Text(out); p != nil {
			*p = *d.Text(override)
		}
	}
	return out
}

type rawConfig struct {
	Extends         string                     `json:"extends"`
	CompilerOptions map[string]json.RawMessage `json:"compilerOptions"`
	Files           *[]string                  `json:"files"`
	Include         *[]string                  `json:"include"`
	Exclude         *[]string                  `json:"exclude"`
	References      []struct {
		Path string `json:"path"`
	} `json:"references"`
}

// specList is a list of file specs together with the directory of the
// config file that declared it.
type specList struct {
	dir   string
	specs []string
	set   bool
}

type loadedConfig struct {
	options    *Options
	files      specList
	include    specList
	exclude    specList
	references []ProjectReference
}

// ParseConfigFile reads the config at configPath, follows "extends", matches
// input files and overlays the command-line options.
func ParseConfigFile(configPath string, overrides *Options, sys host.System) *ConfigParseResult {
	configPath = absPath(configPath, sys.GetCurrentDirectory())
	res := &ConfigParseResult{ConfigFilePath: configPath}

	var errs []*diag.Diagnostic
	loaded := loadConfig(configPath, sys, nil, &errs)
	if loaded == nil {
		loaded = &loadedConfig{options: &Options{}}
	}
	opts := MergeOptions(loaded.options, overrides)
	opts.ConfigFilePath = configPath
	res.Options = opts
	res.ProjectReferences = loaded.references
	res.Files = loaded.files.specs
	res.Include = loaded.include.specs
	res.Exclude = loaded.exclude.specs
	if len(errs) == 0 {
		res.FileNames, errs = matchInputFiles(configPath, loaded, opts, sys)
	}
	res.Errors = errs
	return res
}

func loadConfig(path string, sys host.System, chain []string, errs *[]*diag.Diagnostic) *loadedConfig {
	for _, seen := range chain {
		if seen == path {
			*errs = append(*errs, diag.NewGlobal(diag.ConfigCircularity, strings.Join(append(chain, path), " -> ")))
			return nil
		}
	}
	chain = append(chain, path)

	data, err := sys.ReadFile(path)
	if err != nil {
		*errs = append(*errs, diag.NewGlobal(diag.CannotReadFile, path))
		return nil
	}
	var raw rawConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		*errs = append(*errs, diag.NewGlobal(diag.FailedToParseFile, path, err.Error()))
		return nil
	}

	dir := filepath.Dir(path)
	cfg := &loadedConfig{options: &Options{}}
	if raw.Extends != "" {
		basePath := absPath(raw.Extends, dir)
		if !strings.HasSuffix(basePath, ".json") && !sys.FileExists(basePath) {
			basePath += ".json"
		}
		if base := loadConfig(basePath, sys, chain, errs); base != nil {
			cfg.options = base.options
			cfg.files, cfg.include, cfg.exclude = base.files, base.include, base.exclude
		}
	}

	own := convertCompilerOptions(raw.CompilerOptions, dir, errs)
	cfg.options = MergeOptions(cfg.options, own)
	if raw.Files != nil {
		cfg.files = specList{dir: dir, specs: *raw.Files, set: true}
	}
	if raw.Include != nil {
		cfg.include = specList{dir: dir, specs: *raw.Include, set: true}
	}
	if raw.Exclude != nil {
		cfg.exclude = specList{dir: dir, specs: *raw.Exclude, set: true}
	}
	for _, ref := range raw.References {
		p := absPath(ref.Path, dir)
		if !strings.HasSuffix(p, ".json") {
			p = filepath.Join(p, ConfigFileName)
		}
		cfg.references = append(cfg.references, ProjectReference{Path: p, OriginalPath: ref.Path})
	}
	return cfg
}

// convertCompilerOptions validates "compilerOptions" entries against the
// declaration table. Path options are made absolute against dir.
func convertCompilerOptions(raw map[string]json.RawMessage, dir string, errs *[]*diag.Diagnostic) *Options {
	opts := &Options{}
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		d, ok := compileTable.byName[strings.ToLower(key)]
		if !ok {
			if d, ok = buildTable.byName[strings.ToLower(key)]; !ok {
				*errs = append(*errs, diag.NewGlobal(diag.UnknownCompilerOption, key))
				continue
			}
		}
		if d.CommandLineOnly {
			*errs = append(*errs, diag.NewGlobal(diag.OptionOnlyOnCommandLine, d.Name))
			continue
		}
		if string(value) == "null" {
			continue
		}
		switch d.Kind {
		case KindBoolean:
			var b bool
			if json.Unmarshal(value, &b) != nil {
				*errs = append(*errs, diag.NewGlobal(diag.CompilerOptionRequiresType, d.Name, "boolean"))
				continue
			}
			*d.Bool(opts) = core.BoolToTristate(b)
		default:
			var s string
			if json.Unmarshal(value, &s) != nil {
				*errs = append(*errs, diag.NewGlobal(diag.CompilerOptionRequiresType, d.Name, "string"))
				continue
			}
			switch d.Kind {
			case KindEnum:
				canonical, ok := matchEnum(d, s)
				if !ok {
					*errs = append(*errs, diag.NewGlobal(diag.ArgumentForOptionMustBe, d.Name, enumList(d)))
					continue
				}
				s = canonical
			case KindPath:
				s = absPath(s, dir)
			}
			*d.Text(opts) = s
		}
	}
	return opts
}

// ConvertToTSConfig serialises the effective configuration as it would be
// written to configPath. Command-line-only options are left out and paths
// are made relative to the config directory.
func ConvertToTSConfig(res *ConfigParseResult, configPath string) (string, error) {
	dir := filepath.Dir(configPath)
	opts := res.Options.Clone()
	for _, d := range Declarations {
		if d.Kind == KindPath && d.IsSet(opts) {
			p := d.Text(opts)
			*p = relativePath(dir, *p)
		}
	}

	type reference struct {
		Path string `json:"path"`
	}
	out := struct {
		CompilerOptions *Options    `json:"compilerOptions"`
		References      []reference `json:"references,omitempty"`
		Files           []string    `json:"files,omitempty"`
		Include         []string    `json:"include,omitempty"`
		Exclude         []string    `json:"exclude,omitempty"`
	}{CompilerOptions: opts, Include: res.Include, Exclude: res.Exclude}

	for _, ref := range res.ProjectReferences {
		out.References = append(out.References, reference{Path: ref.OriginalPath})
	}
	if res.Files != nil {
		out.Files = res.Files
	} else if res.Include == nil {
		for _, f := range res.FileNames {
			out.Files = append(out.Files, relativePath(dir, f))
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode tsconfig: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// GenerateTSConfig returns the content written by --init: defaults overlaid
// with the options given on the command line.
func GenerateTSConfig(cmdline *Options, newLine string) (string, error) {
	defaults := &Options{Target: "es2020", Module: "commonjs", Strict: core.TSTrue, OutDir: "./dist"}
	opts := MergeOptions(defaults, cmdline)
	text, err := ConvertToTSConfig(&ConfigParseResult{ParsedCommandLine: ParsedCommandLine{Options: opts}}, ConfigFileName)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(text, "\n", newLine) + newLine, nil
}

func absPath(p, base string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func relativePath(dir, p string) string {
	if !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "./"
	}
	if strings.HasPrefix(rel, "..") {
		return rel
	}
	return "./" + rel
}
