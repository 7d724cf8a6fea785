// Package prefs implements the device-bound pieces of preference integrity
// tracking: a deterministic machine-specific ID and the MAC calculator it
// seeds.
package prefs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/slashdevops/hostid/switches"
)

// Status is the outcome of a device ID lookup.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	// StatusNotImplemented means no ID is available on this platform. It is
	// also returned when the disable-machine-id switch is present.
	StatusNotImplemented
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusNotImplemented:
		return "not-implemented"
	default:
		return "unknown"
	}
}

// DeviceSource reads the raw OS identifier. Implementations return an error
// wrapping errors.ErrUnsupported when the platform has none.
type DeviceSource interface {
	RawID(ctx context.Context) (string, error)
}

// DeviceIDOption configures a DeviceID.
type DeviceIDOption func(*DeviceID)

// WithDeviceLogger enables logging.
func WithDeviceLogger(logger *slog.Logger) DeviceIDOption {
	return func(d *DeviceID) {
		d.logger = logger
	}
}

// DeviceID returns the deterministic machine-specific identifier.
type DeviceID struct {
	switches switches.Set
	source   DeviceSource
	logger   *slog.Logger
}

// NewDeviceID returns a DeviceID reading sw. A nil src selects the
// platform source.
func NewDeviceID(sw switches.Set, src DeviceSource, opts ...DeviceIDOption) *DeviceID {
	d := &DeviceID{switches: sw, source: src}
	for _, opt := range opts {
		opt(d)
	}

	if d.source == nil {
		d.source = systemSource{}
	}

	return d
}

// MachineSpecificID returns the device ID and its status. The ID is empty
// unless the status is StatusSuccess. With the disable switch present the
// source is not consulted and StatusNotImplemented is returned.
func (d *DeviceID) MachineSpecificID(ctx context.Context) (string, Status) {
	if d.switches.Has(switches.DisableMachineID) {
		if d.logger != nil {
			d.logger.Debug("device id disabled by switch", "switch", switches.DisableMachineID)
		}
		return "", StatusNotImplemented
	}

	id, err := d.source.RawID(ctx)
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		return "", StatusNotImplemented
	case err != nil:
		if d.logger != nil {
			d.logger.Warn("device id lookup failed", "error", err)
		}
		return "", StatusFailure
	case id == "":
		return "", StatusFailure
	}

	return id, StatusSuccess
}
