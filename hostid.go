package hostid

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"
)

// FormatMode selects the length of a fingerprint. Every mode yields a
// power-of-two number of lowercase hex characters.
type FormatMode int

const (
	// Format64 is a plain SHA-256 digest, 64 hex characters. Default.
	Format64 FormatMode = iota
	// Format32 is the first half of the SHA-256 digest.
	Format32
	// Format128 appends the digest of the digest.
	Format128
	// Format256 chains four digests.
	Format256
)

// Length returns the number of hex characters the mode produces.
func (m FormatMode) Length() int {
	switch m {
	case Format32:
		return 32
	case Format128:
		return 128
	case Format256:
		return 256
	default:
		return 64
	}
}

// Component names used as keys in Diagnostics.
const (
	ComponentCPU         = "cpu"
	ComponentMotherboard = "motherboard"
	ComponentSystemUUID  = "uuid"
	ComponentMAC         = "mac"
	ComponentDisk        = "disk"
	ComponentMachineID   = "machine-id"   // systemd machine-id on Linux
	ComponentMachineGUID = "machine-guid" // Cryptography\MachineGuid on Windows
)

// biosFirmwareMessage is the placeholder many OEM firmwares ship in place of
// a real serial number.
const biosFirmwareMessage = "To be filled by O.E.M."

// DefaultTimeout bounds every system command the fingerprinter runs.
const DefaultTimeout = 5 * time.Second

// Diagnostics records which components contributed to the last fingerprint.
type Diagnostics struct {
	Errors    map[string]error // component name -> failure
	Collected []string         // components that produced a value
}

// CommandExecutor runs a system command and returns its trimmed stdout.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// Fingerprinter derives a stable machine ID from hardware characteristics.
// Configure it with the With* methods, then call ID. The first successful
// ID call freezes the result.
type Fingerprinter struct {
	mu sync.Mutex

	executor    CommandExecutor
	logger      *slog.Logger
	diagnostics *Diagnostics
	salt        string
	cached      string
	format      FormatMode

	cpu         bool
	motherboard bool
	systemUUID  bool
	mac         bool
	disk        bool
}

// New returns a Fingerprinter backed by real system commands, with no
// components enabled and Format64 output.
func New() *Fingerprinter {
	return &Fingerprinter{
		executor: &defaultCommandExecutor{Timeout: DefaultTimeout},
		format:   Format64,
	}
}

// WithSalt mixes an application-specific string into the digest.
func (f *Fingerprinter) WithSalt(salt string) *Fingerprinter {
	f.salt = salt
	return f
}

// WithFormat sets the output length.
func (f *Fingerprinter) WithFormat(mode FormatMode) *Fingerprinter {
	f.format = mode
	return f
}

func (f *Fingerprinter) WithCPU() *Fingerprinter {
	f.cpu = true
	return f
}

func (f *Fingerprinter) WithMotherboard() *Fingerprinter {
	f.motherboard = true
	return f
}

// WithSystemUUID enables the firmware UUID together with the OS install
// identifier (systemd machine-id, Windows MachineGuid).
func (f *Fingerprinter) WithSystemUUID() *Fingerprinter {
	f.systemUUID = true
	return f
}

// WithMAC enables MAC addresses of physical, up interfaces.
func (f *Fingerprinter) WithMAC() *Fingerprinter {
	f.mac = true
	return f
}

func (f *Fingerprinter) WithDisk() *Fingerprinter {
	f.disk = true
	return f
}

// WithExecutor replaces the system command runner. Tests use this to feed
// canned command output.
func (f *Fingerprinter) WithExecutor(executor CommandExecutor) *Fingerprinter {
	f.executor = executor
	return f
}

// WithLogger enables logging. A nil logger, the default, logs nothing.
func (f *Fingerprinter) WithLogger(logger *slog.Logger) *Fingerprinter {
	f.logger = logger
	return f
}

// VMFriendly restricts the fingerprint to CPU and system UUID, which survive
// NIC and disk churn in virtual machines.
func (f *Fingerprinter) VMFriendly() *Fingerprinter {
	f.cpu = true
	f.systemUUID = true
	f.motherboard = false
	f.mac = false
	f.disk = false
	return f
}

// ID returns the fingerprint, computing it on first use. ctx bounds the
// system commands run while collecting components.
func (f *Fingerprinter) ID(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != "" {
		f.debug("returning cached fingerprint")
		return f.cached, nil
	}

	f.info("generating fingerprint",
		"platform", runtime.GOOS,
		"format", f.format.Length(),
		"components", f.enabledComponents(),
	)

	c := &collector{
		executor: f.executor,
		logger:   f.logger,
		diag:     &Diagnostics{Errors: make(map[string]error)},
	}

	identifiers, err := collectIdentifiers(ctx, f, c)
	f.diagnostics = c.diag
	if err != nil {
		return "", err
	}

	if len(identifiers) == 0 {
		f.warn("no hardware identifiers collected", "errors", c.diag.Errors)
		return "", ErrNoIdentifiers
	}

	f.cached = hashIdentifiers(identifiers, f.salt, f.format)

	f.info("fingerprint generated",
		"collected", c.diag.Collected,
		"errors_count", len(c.diag.Errors),
	)

	return f.cached, nil
}

// Diagnostics returns what the last ID call collected, or nil before the
// first call.
func (f *Fingerprinter) Diagnostics() *Diagnostics {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.diagnostics
}

// Validate reports whether id equals this machine's fingerprint.
func (f *Fingerprinter) Validate(ctx context.Context, id string) (bool, error) {
	current, err := f.ID(ctx)
	if err != nil {
		return false, err
	}

	return current == id, nil
}

// hashIdentifiers sorts, joins and digests the identifiers.
func hashIdentifiers(identifiers []string, salt string, mode FormatMode) string {
	sorted := slices.Clone(identifiers)
	slices.Sort(sorted)

	combined := strings.Join(sorted, "|")
	if salt != "" {
		combined = salt + "|" + combined
	}

	sum := sha256.Sum256([]byte(combined))
	return formatHash(hex.EncodeToString(sum[:]), mode)
}

// formatHash stretches or truncates a 64-character digest to mode's length.
func formatHash(hash string, mode FormatMode) string {
	if len(hash) != 64 {
		return hash
	}

	switch mode {
	case Format32:
		return hash[:32]
	case Format128:
		return hash + rehash(hash)
	case Format256:
		h2 := rehash(hash)
		h3 := rehash(h2)
		h4 := rehash(h3)
		return hash + h2 + h3 + h4
	default:
		return hash
	}
}

func rehash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (f *Fingerprinter) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fingerprinter) info(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Info(msg, args...)
	}
}

func (f *Fingerprinter) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}

func (f *Fingerprinter) enabledComponents() []string {
	var components []string
	if f.cpu {
		components = append(components, ComponentCPU)
	}
	if f.motherboard {
		components = append(components, ComponentMotherboard)
	}
	if f.systemUUID {
		components = append(components, ComponentSystemUUID)
	}
	if f.mac {
		components = append(components, ComponentMAC)
	}
	if f.disk {
		components = append(components, ComponentDisk)
	}

	return components
}
