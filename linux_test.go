//go:build linux

package hostid

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFS points the Linux collectors at an in-memory filesystem.
func useFS(t *testing.T, files fstest.MapFS) {
	t.Helper()

	origRead, origDir := readFile, readDir
	t.Cleanup(func() { readFile, readDir = origRead, origDir })

	readFile = func(name string) ([]byte, error) {
		return fs.ReadFile(files, strings.TrimPrefix(name, "/"))
	}
	readDir = func(name string) ([]os.DirEntry, error) {
		return fs.ReadDir(files, strings.TrimPrefix(name, "/"))
	}
}

const testCPUInfo = `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) CPU
flags		: fpu vme de pse

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) CPU
flags		: fpu vme de pse
`

func testMachine() fstest.MapFS {
	return fstest.MapFS{
		"proc/cpuinfo":                    {Data: []byte(testCPUInfo)},
		"sys/class/dmi/id/product_uuid":   {Data: []byte("4c4c4544-0042-3510-8051-b7c04f333231\n")},
		"sys/class/dmi/id/board_serial":   {Data: []byte("To be filled by O.E.M.\n")},
		"etc/machine-id":                  {Data: []byte("b08dfa6083e7567a1921a715000001fb\n")},
		"sys/block/sda/device/serial":     {Data: []byte("S3Z9NB0K\n")},
		"sys/block/loop0/device/serial":   {Data: []byte("LOOP\n")},
		"sys/block/nvme0n1/device/serial": {Data: []byte("\n")},
	}
}

func TestParseCPUInfo(t *testing.T) {
	got, err := parseCPUInfo(testCPUInfo)
	require.NoError(t, err)
	assert.Equal(t, "GenuineIntel:Intel(R) Xeon(R) CPU:fpu vme de pse", got)

	_, err = parseCPUInfo("garbage")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		value string
		want  bool
	}{
		{"uuid", isValidUUID, "4c4c4544-0042-3510-8051-b7c04f333231", true},
		{"nil uuid", isValidUUID, "00000000-0000-0000-0000-000000000000", false},
		{"malformed uuid", isValidUUID, "not-a-uuid", false},
		{"empty uuid", isValidUUID, "", false},
		{"serial", isValidSerial, "ABC123", true},
		{"oem serial", isValidSerial, "To Be Filled By O.E.M.", false},
		{"empty serial", isValidSerial, "", false},
		{"non-empty", isNonEmpty, "x", true},
		{"empty", isNonEmpty, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.value))
		})
	}
}

func TestFirstValidFallsThrough(t *testing.T) {
	useFS(t, fstest.MapFS{
		"sys/devices/virtual/dmi/id/product_uuid": {Data: []byte("4c4c4544-0042-3510-8051-b7c04f333231")},
	})

	got, err := firstValid(systemUUIDPaths, isValidUUID)
	require.NoError(t, err)
	assert.Equal(t, "4c4c4544-0042-3510-8051-b7c04f333231", got)

	_, err = firstValid(boardSerialPaths, isValidSerial)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinuxDiskSerialsDeduplicates(t *testing.T) {
	useFS(t, testMachine())

	mock := newMockExecutor()
	mock.setOutput("lsblk", "S3Z9NB0K\nWD-123\n")

	got, err := linuxDiskSerials(context.Background(), newTestCollector(mock))
	require.NoError(t, err)
	assert.Equal(t, []string{"S3Z9NB0K", "WD-123"}, got)
}

func TestLinuxDiskSerialsLsblkFailure(t *testing.T) {
	useFS(t, fstest.MapFS{})

	mock := newMockExecutor()
	mock.setError("lsblk", &CommandError{Command: "lsblk", Err: ErrNotFound})

	_, err := linuxDiskSerials(context.Background(), newTestCollector(mock))

	var cmdErr *CommandError
	assert.ErrorAs(t, err, &cmdErr)
}

func TestFingerprintLinux(t *testing.T) {
	useFS(t, testMachine())

	mock := newMockExecutor()
	mock.setOutput("lsblk", "S3Z9NB0K")

	f := New().WithExecutor(mock).WithCPU().WithSystemUUID().WithMotherboard().WithDisk()

	id, err := f.ID(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, 64)

	diag := f.Diagnostics()
	assert.Equal(t, []string{ComponentCPU, ComponentSystemUUID, ComponentMachineID, ComponentDisk}, diag.Collected)
	assert.Contains(t, diag.Errors, ComponentMotherboard, "OEM placeholder board serial should be reported as an error")

	// Cached: the executor is not consulted again.
	_, err = f.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mock.callCount["lsblk"])

	valid, err := f.Validate(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestFingerprintLinuxSaltAndFormat(t *testing.T) {
	useFS(t, testMachine())

	plain, err := New().WithCPU().ID(context.Background())
	require.NoError(t, err)
	salted, err := New().WithCPU().WithSalt("app").ID(context.Background())
	require.NoError(t, err)
	short, err := New().WithCPU().WithFormat(Format32).ID(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, plain, salted, "salt should change the fingerprint")
	assert.Equal(t, plain[:32], short, "Format32 should truncate the Format64 fingerprint")
}

func TestFingerprintLinuxNothingCollected(t *testing.T) {
	useFS(t, fstest.MapFS{})

	_, err := New().WithExecutor(newMockExecutor()).WithCPU().WithSystemUUID().ID(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentifiers)
}
