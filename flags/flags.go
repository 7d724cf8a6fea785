// Package flags is the table of user-facing switches that settings UIs list
// and that command-line parsing accepts.
package flags

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/slashdevops/hostid/switches"
)

// OS is a bit mask of the operating systems an entry applies to.
type OS uint8

const (
	OSWindows OS = 1 << iota
	OSMac
	OSLinux

	OSAll = OSWindows | OSMac | OSLinux
)

// OSFor maps a runtime.GOOS value to its mask bit. Unknown systems map to 0.
func OSFor(goos string) OS {
	switch goos {
	case "windows":
		return OSWindows
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	default:
		return 0
	}
}

// String lists the systems in the mask, e.g. "windows,linux".
func (o OS) String() string {
	var names []string
	if o&OSWindows != 0 {
		names = append(names, "windows")
	}
	if o&OSMac != 0 {
		names = append(names, "mac")
	}
	if o&OSLinux != 0 {
		names = append(names, "linux")
	}
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, ",")
}

// Kind says how an entry maps onto the command line.
type Kind int

const (
	// SingleValue entries add Switch (with Value, if any) when enabled.
	SingleValue Kind = iota
	// SingleDisableValue entries add Switch when the user turns the
	// feature off.
	SingleDisableValue
)

func (k Kind) String() string {
	switch k {
	case SingleValue:
		return "single-value"
	case SingleDisableValue:
		return "single-disable-value"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry declares one switch.
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	OS          OS     `json:"-" yaml:"-"`
	Kind        Kind   `json:"-" yaml:"-"`
	Switch      string `json:"switch" yaml:"switch"`
	// Value is carried on the command line as --switch=value. Empty for
	// presence-only switches.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Available reports whether the entry applies to goos.
func (e Entry) Available(goos string) bool {
	return e.OS&OSFor(goos) != 0
}

var (
	ErrInvalidEntry   = errors.New("invalid flag entry")
	ErrDuplicateEntry = errors.New("duplicate flag entry")
)

// Builtin is the table shipped with the binary.
var Builtin = []Entry{
	{
		Name:  switches.DisableMachineID,
		Title: "Disable machine ID",
		Description: "Disables use of a generated machine-specific ID to lock the user data directory to that machine. " +
			"This is designed to remove 3rd party uniquely identifying information.",
		OS:     OSWindows,
		Kind:   SingleValue,
		Switch: switches.DisableMachineID,
	},
}

// Registry is an immutable, ordered collection of entries.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// NewRegistry validates entries and keeps them in the given order.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(entries))}

	switchOwner := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Switch == "" {
			return nil, fmt.Errorf("%w: name %q, switch %q", ErrInvalidEntry, e.Name, e.Switch)
		}
		if e.OS == 0 {
			return nil, fmt.Errorf("%w: %q applies to no operating system", ErrInvalidEntry, e.Name)
		}
		switch e.Kind {
		case SingleValue:
		case SingleDisableValue:
			if e.Value != "" {
				return nil, fmt.Errorf("%w: disable switch %q cannot carry a value", ErrInvalidEntry, e.Name)
			}
		default:
			return nil, fmt.Errorf("%w: %q has unknown %s", ErrInvalidEntry, e.Name, e.Kind)
		}
		if _, ok := r.byName[e.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Name)
		}
		if owner, ok := switchOwner[e.Switch]; ok {
			return nil, fmt.Errorf("%w: switch %q used by %q and %q", ErrDuplicateEntry, e.Switch, owner, e.Name)
		}

		switchOwner[e.Switch] = e.Name
		r.byName[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

// Default returns the registry of Builtin entries.
func Default() *Registry {
	r, err := NewRegistry(Builtin...)
	if err != nil {
		panic(err)
	}

	return r
}

// Lookup finds an entry by name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}

	return r.entries[i], true
}

// Entries returns a copy of every entry.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// ForOS returns the entries a settings UI on goos should list.
func (r *Registry) ForOS(goos string) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Available(goos) {
			out = append(out, e)
		}
	}

	return out
}

// Bind registers every entry's switch on fs so that parsing accepts it.
// Presence-only switches, which includes every SingleDisableValue entry,
// become boolean flags. Valued ones become string flags defaulting to empty.
// Switches are bound on all systems, so a command line that carries one is
// never rejected.
func (r *Registry) Bind(fs *flag.FlagSet) {
	for _, e := range r.entries {
		if fs.Lookup(e.Switch) != nil {
			continue
		}

		usage := e.Title
		if e.Kind == SingleDisableValue {
			usage = "Turn off: " + usage
		}
		if e.OS != OSAll {
			usage = fmt.Sprintf("%s (%s)", usage, e.OS)
		}

		if e.Kind == SingleDisableValue || e.Value == "" {
			fs.Bool(e.Switch, false, usage)
		} else {
			fs.String(e.Switch, "", usage)
		}
	}
}

// Enabled reports the entry's state under sw. A SingleValue entry is on
// while its switch is present. A SingleDisableValue entry is on until its
// switch turns it off.
func (e Entry) Enabled(sw switches.Set) bool {
	if e.Kind == SingleDisableValue {
		return !sw.Has(e.Switch)
	}

	return sw.Has(e.Switch)
}

// CommandLine renders the switch that puts the entry in the given state, or
// "" when that state is the default and needs no switch.
func (e Entry) CommandLine(enabled bool) string {
	switch {
	case e.Kind == SingleDisableValue && !enabled:
		return "--" + e.Switch
	case e.Kind == SingleDisableValue, !enabled:
		return ""
	case e.Value == "":
		return "--" + e.Switch
	default:
		return "--" + e.Switch + "=" + e.Value
	}
}
