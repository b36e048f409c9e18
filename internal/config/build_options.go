package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BuildOptions is the top-level .hulkc.yaml configuration: per-project
// tuning knobs for one compiler invocation. Grounded on internal/ext/config.go's
// LoadConfig/ParseConfig/FindConfig shape (teacher), scaled down from
// "declare Go deps and generate bindings" to "override a handful of
// codegen/runtime defaults" — there is no binding generation here, so the
// Dep/BindSpec machinery has no counterpart in this package.
type BuildOptions struct {
	// OutputPath overrides the default "<input base name>.s" destination.
	OutputPath string `yaml:"output_path,omitempty"`

	// RuntimeLibPath is parsed but not read anywhere: internal/runtime
	// always serves the binary's embedded copies of lib/data.s and
	// lib/code.s, whatever this holds.
	RuntimeLibPath string `yaml:"runtime_lib_path,omitempty"`

	// LogRegisterEviction makes the register allocator report (to stderr)
	// every time bank.get evicts a busy register to satisfy a new temp,
	// so eviction-pressure test fixtures can be authored against real
	// counts instead of guessed ones. Off by default: normal builds never
	// need to see this.
	LogRegisterEviction bool `yaml:"log_register_eviction,omitempty"`

	// IntRegisterPool and FloatRegisterPool override the default register
	// name tables (IntRegisters/FloatRegisters) when present. Shrinking a
	// pool is the only supported use: it forces eviction sooner, which is
	// how internal/codegen/mips's bank eviction path gets exercised
	// without needing a pathologically large generated program.
	IntRegisterPool   []string `yaml:"int_register_pool,omitempty"`
	FloatRegisterPool []string `yaml:"float_register_pool,omitempty"`
}

const configFileName = ".hulkc.yaml"

// LoadBuildOptions reads and parses a .hulkc.yaml file.
func LoadBuildOptions(path string) (*BuildOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build options %s: %w", path, err)
	}
	return ParseBuildOptions(data, path)
}

// ParseBuildOptions parses .hulkc.yaml content from bytes. The path
// argument is used only for error messages.
func ParseBuildOptions(data []byte, path string) (*BuildOptions, error) {
	var opts BuildOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := opts.validate(path); err != nil {
		return nil, err
	}
	return &opts, nil
}

// FindBuildOptions searches for .hulkc.yaml starting from dir and walking
// up to parent directories, the same way internal/ext's FindConfig finds
// funxy.yaml. Returns the path and nil error if found, or an empty string
// and nil error if no file exists anywhere above dir — that's the normal
// case, and callers should fall back to the package-level defaults.
func FindBuildOptions(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate rejects a pool override given as an empty list. Any non-empty
// list is accepted: the scratch registers internal/codegen/mips reserves
// (spec §4.6's $f12 for comparisons/index conversion) sit outside either
// pool.
func (o *BuildOptions) validate(path string) error {
	if o.IntRegisterPool != nil && len(o.IntRegisterPool) == 0 {
		return fmt.Errorf("%s: int_register_pool, if present, must not be empty", path)
	}
	if o.FloatRegisterPool != nil && len(o.FloatRegisterPool) == 0 {
		return fmt.Errorf("%s: float_register_pool, if present, must not be empty", path)
	}
	return nil
}

// ResolveIntRegisters returns o's int pool override if set, else the
// package default.
func (o *BuildOptions) ResolveIntRegisters() []string {
	if o != nil && len(o.IntRegisterPool) > 0 {
		return o.IntRegisterPool
	}
	return IntRegisters
}

// ResolveFloatRegisters returns o's float pool override if set, else the
// package default.
func (o *BuildOptions) ResolveFloatRegisters() []string {
	if o != nil && len(o.FloatRegisterPool) > 0 {
		return o.FloatRegisterPool
	}
	return FloatRegisters
}
