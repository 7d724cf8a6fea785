//go:build linux

package hostid

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Filesystem access used by the Linux collectors; replaced in tests.
var (
	readFile = os.ReadFile
	readDir  = os.ReadDir
)

var (
	systemUUIDPaths = []string{
		"/sys/class/dmi/id/product_uuid",
		"/sys/devices/virtual/dmi/id/product_uuid",
	}
	boardSerialPaths = []string{
		"/sys/class/dmi/id/board_serial",
		"/sys/devices/virtual/dmi/id/board_serial",
	}
	machineIDPaths = []string{
		"/etc/machine-id",
		"/var/lib/dbus/machine-id",
	}
)

func collectIdentifiers(ctx context.Context, f *Fingerprinter, c *collector) ([]string, error) {
	var ids []string

	if f.cpu {
		ids = c.one(ids, ComponentCPU, "cpu:", linuxCPUID)
	}

	if f.systemUUID {
		ids = c.one(ids, ComponentSystemUUID, "uuid:", func() (string, error) {
			return firstValid(systemUUIDPaths, isValidUUID)
		})
		ids = c.one(ids, ComponentMachineID, "machine:", func() (string, error) {
			return firstValid(machineIDPaths, isNonEmpty)
		})
	}

	if f.motherboard {
		ids = c.one(ids, ComponentMotherboard, "mb:", func() (string, error) {
			return firstValid(boardSerialPaths, isValidSerial)
		})
	}

	if f.mac {
		ids = c.many(ids, ComponentMAC, "mac:", func() ([]string, error) {
			return physicalMACs(c.logger)
		})
	}

	if f.disk {
		ids = c.many(ids, ComponentDisk, "disk:", func() ([]string, error) {
			return linuxDiskSerials(ctx, c)
		})
	}

	return ids, nil
}

func linuxCPUID() (string, error) {
	data, err := readFile("/proc/cpuinfo")
	if err != nil {
		return "", err
	}

	return parseCPUInfo(string(data))
}

// parseCPUInfo keeps the first processor's identifying fields.
func parseCPUInfo(content string) (string, error) {
	var vendor, model, flags string

	for line := range strings.SplitSeq(content, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case key == "vendor_id" && vendor == "":
			vendor = value
		case key == "model name" && model == "":
			model = value
		case key == "flags" && flags == "":
			flags = value
		}
	}

	if vendor == "" && model == "" && flags == "" {
		return "", &ParseError{Source: "/proc/cpuinfo", Err: ErrNotFound}
	}

	return fmt.Sprintf("%s:%s:%s", vendor, model, flags), nil
}

// firstValid returns the first trimmed file content accepted by valid.
func firstValid(paths []string, valid func(string) bool) (string, error) {
	for _, path := range paths {
		data, err := readFile(path)
		if err != nil {
			continue
		}

		if value := strings.TrimSpace(string(data)); valid(value) {
			return value, nil
		}
	}

	return "", fmt.Errorf("%w in %s", ErrNotFound, strings.Join(paths, ", "))
}

func isValidUUID(value string) bool {
	id, err := uuid.Parse(value)
	return err == nil && id != uuid.Nil
}

func isValidSerial(value string) bool {
	return value != "" && !strings.EqualFold(value, biosFirmwareMessage)
}

func isNonEmpty(value string) bool {
	return value != ""
}

// linuxDiskSerials merges lsblk output with /sys/block, dropping duplicates.
func linuxDiskSerials(ctx context.Context, c *collector) ([]string, error) {
	seen := make(map[string]struct{})
	var serials []string

	add := func(values []string) {
		for _, v := range values {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			serials = append(serials, v)
		}
	}

	var lsblkErr error
	if output, err := executeCommand(ctx, c.executor, c.logger, "lsblk", "-d", "-n", "-o", "SERIAL"); err == nil {
		add(nonEmptyLines(output))
	} else {
		lsblkErr = err
	}

	add(sysBlockSerials())

	if len(serials) == 0 && lsblkErr != nil {
		return nil, lsblkErr
	}

	return serials, nil
}

func sysBlockSerials() []string {
	entries, err := readDir("/sys/block")
	if err != nil {
		return nil
	}

	var serials []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "loop") {
			continue
		}

		data, err := readFile(filepath.Join("/sys/block", entry.Name(), "device", "serial"))
		if err != nil {
			continue
		}

		if serial := strings.TrimSpace(string(data)); serial != "" {
			serials = append(serials, serial)
		}
	}

	return serials
}
