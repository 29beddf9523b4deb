package compiler

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"tsc/internal/host"
	"tsc/internal/tsoptions"
	"tsc/internal/version"
)

// Increment when the BuildInfo layout changes.
const buildInfoSchema uint16 = 1

// BuildInfoExtension is appended to the config name to form the default
// build info file name.
const BuildInfoExtension = ".tsbuildinfo"

// BuildInfo is the persisted state of the last incremental compilation.
type BuildInfo struct {
	Schema  uint16       `msgpack:"schema"`
	Version version.Info `msgpack:"version"`
	// OptionsHash covers every serialisable compiler option.
	OptionsHash [32]byte    `msgpack:"options_hash"`
	Files       []FileState `msgpack:"files"`
	// Outputs are relative to the build info directory.
	Outputs []string `msgpack:"outputs"`
	Errors  bool     `msgpack:"errors"`
}

// FileState is one source file of a build, relative to the build info
// directory.
type FileState struct {
	Path string   `msgpack:"path"`
	Hash [32]byte `msgpack:"hash"`
}

// BuildInfoPath is where the build info of cfg is stored: tsBuildInfoFile
// when set, else <outDir or config dir>/<config name>.tsbuildinfo.
func BuildInfoPath(cfg *tsoptions.ConfigParseResult, cwd string) string {
	opts := cfg.Options
	if opts.TsBuildInfoFile != "" {
		return absoluteIn(opts.TsBuildInfoFile, cwd)
	}
	name := "tsconfig"
	dir := cwd
	if cfg.ConfigFilePath != "" {
		base := filepath.Base(cfg.ConfigFilePath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
		dir = filepath.Dir(cfg.ConfigFilePath)
	}
	if opts.OutDir != "" {
		dir = absoluteIn(opts.OutDir, cwd)
	}
	return filepath.Join(dir, name+BuildInfoExtension)
}

// NewBuildInfo records p and the outcome of its emit.
func NewBuildInfo(p *Program, res Result, path string) *BuildInfo {
	dir := filepath.Dir(path)
	info := &BuildInfo{
		Schema:      buildInfoSchema,
		Version:     version.Current(),
		OptionsHash: optionsHash(p.CompilerOptions()),
		Errors:      res.ErrorCount > 0,
	}
	for _, f := range p.SourceFiles() {
		info.Files = append(info.Files, FileState{Path: relativeTo(dir, f.Path), Hash: f.Hash})
	}
	if res.Emit != nil {
		for _, out := range res.Emit.EmittedFiles {
			info.Outputs = append(info.Outputs, relativeTo(dir, out))
		}
		for _, out := range res.Emit.Reused {
			info.Outputs = append(info.Outputs, relativeTo(dir, out))
		}
	}
	return info
}

// WriteBuildInfo encodes info with msgpack. Hosts replace files atomically.
func WriteBuildInfo(sys host.System, path string, info *BuildInfo) error {
	data, err := msgpack.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode build info: %w", err)
	}
	return sys.WriteFile(path, data)
}

// ReadBuildInfo loads the build info at path. A missing file is not an
// error; ok is false then.
func ReadBuildInfo(sys host.System, path string) (*BuildInfo, bool, error) {
	data, err := sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var info BuildInfo
	if err := msgpack.Unmarshal(data, &info); err != nil {
		return nil, false, fmt.Errorf("decode build info %s: %w", path, err)
	}
	return &info, true, nil
}

// OutputPaths returns the recorded outputs as absolute paths.
func (b *BuildInfo) OutputPaths(path string) []string {
	dir := filepath.Dir(path)
	out := make([]string, 0, len(b.Outputs))
	for _, rel := range b.Outputs {
		out = append(out, absoluteIn(rel, dir))
	}
	return out
}

// Current reports whether p would compile to exactly what b recorded: same
// compiler version and options, same files with the same content, no errors
// last time and every output still present.
func (b *BuildInfo) Current(p *Program, path string) bool {
	if b == nil || b.Schema != buildInfoSchema || b.Errors {
		return false
	}
	if b.Version.Version != version.Version || b.OptionsHash != optionsHash(p.CompilerOptions()) {
		return false
	}
	dir := filepath.Dir(path)
	files := p.SourceFiles()
	if len(files) != len(b.Files) {
		return false
	}
	recorded := make(map[string][32]byte, len(b.Files))
	for _, f := range b.Files {
		recorded[f.Path] = f.Hash
	}
	for _, f := range files {
		if h, ok := recorded[relativeTo(dir, f.Path)]; !ok || h != f.Hash {
			return false
		}
	}
	return !slices.ContainsFunc(b.OutputPaths(path), func(out string) bool {
		return !p.sys.FileExists(out)
	})
}

func optionsHash(opts *tsoptions.Options) [32]byte {
	data, err := json.Marshal(opts)
	if err != nil {
		return [32]byte{}
	}
	return sha256.Sum256(data)
}

func relativeTo(dir, path string) string {
	rel, err := filepath.Rel(dir, filepath.FromSlash(path))
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
