// Package config loads optimizer settings from a YAML file, mirroring the
// command-line flags so invocations can be kept in a project file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds everything an optimization run can be configured with.
// Pointer fields distinguish "not set" from an explicit zero value, so flag
// values can override only what the file leaves open.
type Settings struct {
	// Backend selects the target dialect: "evm" or "wasm".
	Backend string `yaml:"backend"`
	// Sequence overrides the default optimization sequence when non-nil.
	Sequence *string `yaml:"sequence"`
	// Debug selects trace output: "", "steps" or "changes".
	Debug string `yaml:"debug"`
	// OptimizeStackAllocation enables the iterated stack compression phase.
	// Defaults to true when unset.
	OptimizeStackAllocation *bool `yaml:"optimize_stack_allocation"`
	// ExpectedRuns tunes the gas model's deploy-versus-runtime tradeoff.
	ExpectedRuns uint64 `yaml:"expected_runs"`
	// ReservedIdentifiers lists names the optimizer must keep intact.
	ReservedIdentifiers []string `yaml:"reserved_identifiers"`
}

// Default returns the settings an empty file would produce.
func Default() Settings {
	return Settings{
		Backend:      "evm",
		ExpectedRuns: 200,
	}
}

// Load reads settings from a YAML file, layered over the defaults.
func Load(path string) (Settings, error) {
	settings := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("config %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks the enumerated fields.
func (s Settings) Validate() error {
	switch s.Backend {
	case "evm", "wasm":
	default:
		return fmt.Errorf("unknown backend %q (want \"evm\" or \"wasm\")", s.Backend)
	}
	switch s.Debug {
	case "", "steps", "changes":
	default:
		return fmt.Errorf("unknown debug mode %q (want \"steps\" or \"changes\")", s.Debug)
	}
	return nil
}

// StackAllocation reports the effective stack-allocation toggle.
func (s Settings) StackAllocation() bool {
	if s.OptimizeStackAllocation == nil {
		return true
	}
	return *s.OptimizeStackAllocation
}
