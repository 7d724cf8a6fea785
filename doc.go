// Package hostid derives deterministic machine identifiers from hardware
// characteristics and exposes them to the components that need one.
//
// # Fingerprints
//
// A [Fingerprinter] collects hardware signals (CPU, motherboard serial,
// firmware UUID together with the OS install ID, MAC addresses, disk
// serials), sorts and joins them, and digests the result with SHA-256:
//
//	id, err := hostid.New().
//		WithCPU().
//		WithSystemUUID().
//		ID(ctx)
//
// [Fingerprinter.WithFormat] selects 32, 64 (default), 128 or 256 hex
// characters. [Fingerprinter.WithSalt] makes IDs application specific and
// [Fingerprinter.Diagnostics] reports which components contributed.
//
// Linux reads /proc and /sys and runs lsblk. Windows queries WMI through
// wmic, falling back to PowerShell, and reads the Cryptography MachineGuid
// from the registry. macOS reads system_profiler JSON, falling back to
// ioreg, and takes the CPU brand from sysctl. Other platforms return
// [ErrUnsupportedPlatform].
//
// # Consumers and the disable-machine-id switch
//
// The metrics package reports a machine ID alongside metrics and the prefs
// package derives a deterministic device ID that seeds preference MACs.
// Both receive a switches.Set at construction. When it contains
// switches.DisableMachineID they return a neutral result without touching
// the OS:
//
//	sw := switches.Of(switches.DisableMachineID)
//	metrics.New(sw, nil).HasID()                          // false
//	metrics.New(sw, nil).MachineID(ctx)                   // ""
//	prefs.NewDeviceID(sw, nil).MachineSpecificID(ctx)     // "", prefs.StatusNotImplemented
//
// The flags package declares the switch for settings UIs and binds it to a
// flag.FlagSet.
//
// # CLI
//
//	hostid id
//	hostid id --disable-machine-id
//	hostid device-id --json
//	hostid fingerprint --all --format 32
//	hostid flags --output yaml
package hostid
