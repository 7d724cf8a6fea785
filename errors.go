package hostid

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentifiers is returned by ID when no enabled component produced
	// a value.
	ErrNoIdentifiers = errors.New("no hardware identifiers found with current configuration")

	// ErrEmptyValue marks a component that answered with an empty value.
	ErrEmptyValue = errors.New("empty value returned")

	// ErrNoValues marks a multi-valued component that answered with nothing.
	ErrNoValues = errors.New("no values found")

	// ErrNotFound is returned when a value is absent from command output or
	// system files.
	ErrNotFound = errors.New("value not found")

	// ErrOEMPlaceholder is returned for firmware placeholders such as
	// "To be filled by O.E.M.".
	ErrOEMPlaceholder = errors.New("value is OEM placeholder")

	// ErrUnsupportedPlatform is returned by ID on operating systems without
	// collectors.
	ErrUnsupportedPlatform = errors.New("hardware fingerprinting is not supported on this platform")
)

// CommandError records a failed system command.
type CommandError struct {
	Command string // e.g. "lsblk", "wmic", "powershell"
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError records output that could not be interpreted.
type ParseError struct {
	Source string // e.g. "wmic output", "/proc/cpuinfo"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ComponentError is what Diagnostics.Errors holds for a failed component.
type ComponentError struct {
	Component string
	Err       error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %q: %v", e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}
