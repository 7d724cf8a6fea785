// Package metrics provides the machine ID attached to metrics reports.
package metrics

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/slashdevops/hostid"
	"github.com/slashdevops/hostid/switches"
)

// DefaultTimeout bounds a single MachineID call.
const DefaultTimeout = 10 * time.Second

// Source computes the machine ID. *hostid.Fingerprinter implements it.
type Source interface {
	ID(ctx context.Context) (string, error)
}

// Provider answers whether a machine ID exists and what it is. It consults
// the switch set on every call and never caches the answer itself.
type Provider struct {
	switches  switches.Set
	source    Source
	logger    *slog.Logger
	timeout   time.Duration
	supported bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger enables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// New returns a Provider reading sw. A nil src selects the hardware
// fingerprint of the system UUID and disk serials.
func New(sw switches.Set, src Source, opts ...Option) *Provider {
	p := &Provider{
		switches:  sw,
		source:    src,
		timeout:   DefaultTimeout,
		supported: platformSupported(runtime.GOOS),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		p.source = hostid.New().WithSystemUUID().WithDisk().WithLogger(p.logger)
	}

	return p
}

// HasID reports whether MachineID can return an identifier.
func (p *Provider) HasID() bool {
	if p.disabled() {
		return false
	}

	return p.supported
}

// MachineID returns the machine identifier, or "" when disabled or when the
// source fails. With the disable switch present the source is not called.
func (p *Provider) MachineID(ctx context.Context) string {
	if p.disabled() {
		p.debug("machine id disabled by switch", "switch", switches.DisableMachineID)
		return ""
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	id, err := p.source.ID(ctx)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("machine id unavailable", "error", err)
		}
		return ""
	}

	return id
}

func (p *Provider) disabled() bool {
	return p.switches.Has(switches.DisableMachineID)
}

func (p *Provider) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func platformSupported(goos string) bool {
	return goos == "windows" || goos == "linux" || goos == "darwin"
}
