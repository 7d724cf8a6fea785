//go:build windows

package hostid

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// readMachineGUID is replaced in tests.
var readMachineGUID = registryMachineGUID

// wmiQuery names a WMI class property together with the wmic alias that
// exposes it.
type wmiQuery struct {
	alias    string // wmic alias, e.g. "cpu"
	class    string // CIM class, e.g. "Win32_Processor"
	property string
}

var (
	cpuQuery         = wmiQuery{alias: "cpu", class: "Win32_Processor", property: "ProcessorId"}
	motherboardQuery = wmiQuery{alias: "baseboard", class: "Win32_BaseBoard", property: "SerialNumber"}
	uuidQuery        = wmiQuery{alias: "csproduct", class: "Win32_ComputerSystemProduct", property: "UUID"}
	diskQuery        = wmiQuery{alias: "diskdrive", class: "Win32_DiskDrive", property: "SerialNumber"}
)

func collectIdentifiers(ctx context.Context, f *Fingerprinter, c *collector) ([]string, error) {
	var ids []string

	if f.cpu {
		ids = c.one(ids, ComponentCPU, "cpu:", func() (string, error) {
			return wmiValue(ctx, c, cpuQuery)
		})
	}

	if f.motherboard {
		ids = c.one(ids, ComponentMotherboard, "mb:", func() (string, error) {
			return wmiValue(ctx, c, motherboardQuery)
		})
	}

	if f.systemUUID {
		ids = c.one(ids, ComponentSystemUUID, "uuid:", func() (string, error) {
			return wmiValue(ctx, c, uuidQuery)
		})
		ids = c.one(ids, ComponentMachineGUID, "guid:", readMachineGUID)
	}

	if f.mac {
		ids = c.many(ids, ComponentMAC, "mac:", func() ([]string, error) {
			return physicalMACs(c.logger)
		})
	}

	if f.disk {
		ids = c.many(ids, ComponentDisk, "disk:", func() ([]string, error) {
			return wmiValues(ctx, c, diskQuery)
		})
	}

	return ids, nil
}

// wmiValue asks wmic for a single property and falls back to PowerShell's
// Get-CimInstance, which replaces wmic on current Windows releases.
func wmiValue(ctx context.Context, c *collector, q wmiQuery) (string, error) {
	values, err := wmiValues(ctx, c, q)
	if err != nil {
		return "", err
	}

	return values[0], nil
}

func wmiValues(ctx context.Context, c *collector, q wmiQuery) ([]string, error) {
	output, wmicErr := executeCommand(ctx, c.executor, c.logger, "wmic", q.alias, "get", q.property, "/value")
	if wmicErr == nil {
		if values := parseWmicValues(output, q.property+"="); len(values) > 0 {
			return values, nil
		}
		wmicErr = &ParseError{Source: "wmic output", Err: ErrNotFound}
	}

	script := fmt.Sprintf("Get-CimInstance -ClassName %s | Select-Object -ExpandProperty %s", q.class, q.property)
	output, psErr := executeCommand(ctx, c.executor, c.logger, "powershell", "-NoProfile", "-Command", script)
	if psErr != nil {
		return nil, fmt.Errorf("%s.%s: wmic: %w, powershell: %w", q.class, q.property, wmicErr, psErr)
	}

	values := usable(nonEmptyLines(output))
	if len(values) == 0 {
		return nil, &ParseError{Source: "powershell output", Err: ErrNotFound}
	}

	return values, nil
}

// parseWmicValues collects the non-placeholder values of every line
// starting with prefix.
func parseWmicValues(output, prefix string) []string {
	var values []string
	for _, line := range nonEmptyLines(output) {
		if value, ok := strings.CutPrefix(line, prefix); ok {
			values = append(values, strings.TrimSpace(value))
		}
	}

	return usable(values)
}

func usable(values []string) []string {
	var out []string
	for _, v := range values {
		if v == "" || strings.EqualFold(v, biosFirmwareMessage) {
			continue
		}
		out = append(out, v)
	}

	return out
}

// registryMachineGUID reads the per-install GUID Windows generates at setup.
func registryMachineGUID() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Cryptography`, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", fmt.Errorf("opening Cryptography key: %w", err)
	}
	defer key.Close()

	guid, _, err := key.GetStringValue("MachineGuid")
	if err != nil {
		return "", fmt.Errorf("reading MachineGuid: %w", err)
	}

	return guid, nil
}
