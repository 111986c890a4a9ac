// Package config loads the compiler's BuilderOptions from a TOML file,
// grounded on the teacher's internal/tqw package (its world-data loader
// is the teacher's only TOML consumer: toml.Unmarshal(data, &v) against a
// tagged struct).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// BuilderOptions controls optional compiler behavior that the core
// algorithms (spec.md §4) consult but do not themselves decide, e.g. the
// DFA accept-resolution tie-break policy of spec.md §4.3.
type BuilderOptions struct {
	// CaseSensitive controls whether terminal regexes are matched as
	// written or case-folded (spec.md §4.2).
	CaseSensitive bool `toml:"case_sensitive"`

	// PrioritizeFixedLengthSymbols lets a strictly lower-priority
	// (fixed-length) DFA accept candidate win a tie over a
	// variable-length one instead of raising IndistinguishableSymbols
	// (spec.md §4.3).
	PrioritizeFixedLengthSymbols bool `toml:"prioritize_fixed_length_symbols"`

	// GeneratedBy is recorded verbatim into the output Properties map
	// under "Generated By" (spec.md §6).
	GeneratedBy string `toml:"generated_by"`
}

// Default returns the zero-value-safe default BuilderOptions: case
// sensitive, no fixed-length tie-break, generated-by left blank.
func Default() BuilderOptions {
	return BuilderOptions{CaseSensitive: true}
}

// Load reads and parses a BuilderOptions TOML file at path.
func Load(path string) (BuilderOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BuilderOptions{}, err
	}
	return Parse(data)
}

// Parse parses a BuilderOptions TOML document already in memory.
func Parse(data []byte) (BuilderOptions, error) {
	opts := Default()
	if err := toml.Unmarshal(data, &opts); err != nil {
		return BuilderOptions{}, err
	}
	return opts, nil
}
