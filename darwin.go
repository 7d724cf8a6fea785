//go:build darwin

package hostid

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	ioregUUIDRe   = regexp.MustCompile(`"IOPlatformUUID"\s*=\s*"([^"]+)"`)
	ioregSerialRe = regexp.MustCompile(`"IOPlatformSerialNumber"\s*=\s*"([^"]+)"`)
)

// spHardwareDataType is `system_profiler SPHardwareDataType -json`, trimmed
// to the fields read here.
type spHardwareDataType struct {
	SPHardwareDataType []spHardwareEntry `json:"SPHardwareDataType"`
}

type spHardwareEntry struct {
	PlatformUUID string `json:"platform_UUID"`
	SerialNumber string `json:"serial_number"`
	ChipType     string `json:"chip_type"`
}

// spStorageDataType is `system_profiler SPStorageDataType -json`.
type spStorageDataType struct {
	SPStorageDataType []struct {
		PhysicalDrive struct {
			DeviceName string `json:"device_name"`
			IsInternal string `json:"is_internal_disk"`
		} `json:"physical_drive"`
	} `json:"SPStorageDataType"`
}

func collectIdentifiers(ctx context.Context, f *Fingerprinter, c *collector) ([]string, error) {
	var ids []string

	src := newMacSources(ctx, c)

	if f.systemUUID {
		ids = c.one(ids, ComponentSystemUUID, "uuid:", func() (string, error) {
			return src.platformValue(func(e spHardwareEntry) string { return e.PlatformUUID }, ioregUUIDRe)
		})
	}

	if f.motherboard {
		ids = c.one(ids, ComponentMotherboard, "serial:", func() (string, error) {
			return src.platformValue(func(e spHardwareEntry) string { return e.SerialNumber }, ioregSerialRe)
		})
	}

	if f.cpu {
		ids = c.one(ids, ComponentCPU, "cpu:", func() (string, error) {
			return macOSCPUID(ctx, c, src)
		})
	}

	if f.mac {
		ids = c.many(ids, ComponentMAC, "mac:", func() ([]string, error) {
			return physicalMACs(c.logger)
		})
	}

	if f.disk {
		ids = c.many(ids, ComponentDisk, "disk:", func() ([]string, error) {
			return macOSDiskNames(ctx, c)
		})
	}

	return ids, nil
}

// macSources runs each slow hardware query at most once per ID call.
type macSources struct {
	hardware func() (spHardwareEntry, error)
	ioreg    func() (string, error)
}

func newMacSources(ctx context.Context, c *collector) *macSources {
	return &macSources{
		hardware: sync.OnceValues(func() (spHardwareEntry, error) {
			output, err := executeCommand(ctx, c.executor, c.logger, "system_profiler", "SPHardwareDataType", "-json")
			if err != nil {
				return spHardwareEntry{}, err
			}
			return parseHardwareJSON(output)
		}),
		ioreg: sync.OnceValues(func() (string, error) {
			return executeCommand(ctx, c.executor, c.logger, "ioreg", "-d2", "-c", "IOPlatformExpertDevice")
		}),
	}
}

// platformValue reads one system_profiler field and falls back to ioreg when
// the profiler fails or leaves the field empty.
func (s *macSources) platformValue(field func(spHardwareEntry) string, re *regexp.Regexp) (string, error) {
	if entry, err := s.hardware(); err == nil {
		if value := field(entry); value != "" {
			return value, nil
		}
	}

	output, err := s.ioreg()
	if err != nil {
		return "", err
	}

	if match := re.FindStringSubmatch(output); len(match) > 1 {
		return match[1], nil
	}

	return "", &ParseError{Source: "ioreg output", Err: ErrNotFound}
}

func parseHardwareJSON(output string) (spHardwareEntry, error) {
	var hw spHardwareDataType
	if err := json.Unmarshal([]byte(output), &hw); err != nil {
		return spHardwareEntry{}, &ParseError{Source: "SPHardwareDataType", Err: err}
	}

	if len(hw.SPHardwareDataType) == 0 {
		return spHardwareEntry{}, &ParseError{Source: "SPHardwareDataType", Err: ErrNotFound}
	}

	return hw.SPHardwareDataType[0], nil
}

// macOSCPUID prefers sysctl. Apple Silicon reports no CPU features, which
// yields "brand:" with a trailing colon; existing fingerprints depend on it.
// The profiler's chip type is used only when sysctl has no brand string.
func macOSCPUID(ctx context.Context, c *collector, src *macSources) (string, error) {
	brand, err := executeCommand(ctx, c.executor, c.logger, "sysctl", "-n", "machdep.cpu.brand_string")
	if brand = strings.TrimSpace(brand); err == nil && brand != "" {
		features, err := executeCommand(ctx, c.executor, c.logger, "sysctl", "-n", "machdep.cpu.features")
		if err != nil {
			return brand, nil
		}
		return brand + ":" + strings.TrimSpace(features), nil
	}

	entry, hwErr := src.hardware()
	if hwErr == nil && entry.ChipType != "" {
		return entry.ChipType, nil
	}

	return "", fmt.Errorf("%w: no CPU brand from sysctl or system_profiler", ErrNotFound)
}

func macOSDiskNames(ctx context.Context, c *collector) ([]string, error) {
	output, err := executeCommand(ctx, c.executor, c.logger, "system_profiler", "SPStorageDataType", "-json")
	if err != nil {
		return nil, err
	}

	return parseStorageJSON(output)
}

// parseStorageJSON returns the internal physical drives. Volumes on the same
// drive repeat its device name, so names are deduplicated.
func parseStorageJSON(output string) ([]string, error) {
	var storage spStorageDataType
	if err := json.Unmarshal([]byte(output), &storage); err != nil {
		return nil, &ParseError{Source: "SPStorageDataType", Err: err}
	}

	seen := make(map[string]struct{})
	var names []string

	for _, entry := range storage.SPStorageDataType {
		name := entry.PhysicalDrive.DeviceName
		if name == "" || entry.PhysicalDrive.IsInternal != "yes" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}
