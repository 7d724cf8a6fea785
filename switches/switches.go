// Package switches holds the process command-line switches in an immutable
// set that is handed to every component that needs to consult them.
package switches

import (
	"flag"
	"maps"
	"slices"
	"strings"
)

// DisableMachineID suppresses generation and retrieval of machine-specific
// identifiers.
const DisableMachineID = "disable-machine-id"

// Set is a read-only mapping of switch name to value. Presence-only switches
// map to the empty string. The zero value is an empty set.
type Set struct {
	values map[string]string
}

// New builds a Set from name/value pairs. Names may carry leading dashes.
func New(values map[string]string) Set {
	normalized := make(map[string]string, len(values))
	for name, value := range values {
		normalized[normalize(name)] = value
	}

	return Set{values: normalized}
}

// Of builds a Set of presence-only switches.
func Of(names ...string) Set {
	values := make(map[string]string, len(names))
	for _, name := range names {
		values[normalize(name)] = ""
	}

	return Set{values: values}
}

// FromFlagSet captures the flags that were explicitly set on a parsed fs,
// whether from arguments, environment or a config file. Boolean flags set to
// false are left out so that "--x=false" behaves like an absent switch.
func FromFlagSet(fs *flag.FlagSet) Set {
	values := make(map[string]string)

	fs.Visit(func(f *flag.Flag) {
		if isBoolFlag(f) {
			if f.Value.String() == "true" {
				values[f.Name] = ""
			}
			return
		}
		values[f.Name] = f.Value.String()
	})

	return Set{values: values}
}

// Has reports whether the switch is present.
func (s Set) Has(name string) bool {
	_, ok := s.values[normalize(name)]
	return ok
}

// Value returns the switch value, empty when absent or presence-only.
func (s Set) Value(name string) string {
	return s.values[normalize(name)]
}

// Names returns the present switches in sorted order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Len returns the number of present switches.
func (s Set) Len() int {
	return len(s.values)
}

// normalize accepts "--name" and "-name" spellings.
func normalize(name string) string {
	return strings.TrimLeft(name, "-")
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
