package prefs

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/slashdevops/hostid/switches"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	id    string
	err   error
	calls int
}

func (f *fakeSource) RawID(context.Context) (string, error) {
	f.calls++
	return f.id, f.err
}

func TestMachineSpecificID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sw         switches.Set
		src        *fakeSource
		wantID     string
		wantStatus Status
		wantCalls  int
	}{
		{
			name:       "success",
			src:        &fakeSource{id: "S-1-5-21-1004336348-1177238915-682003330"},
			wantID:     "S-1-5-21-1004336348-1177238915-682003330",
			wantStatus: StatusSuccess,
			wantCalls:  1,
		},
		{
			name:       "source error",
			src:        &fakeSource{err: errors.New("access denied")},
			wantStatus: StatusFailure,
			wantCalls:  1,
		},
		{
			name:       "empty id",
			src:        &fakeSource{},
			wantStatus: StatusFailure,
			wantCalls:  1,
		},
		{
			name:       "unsupported platform",
			src:        &fakeSource{err: fmt.Errorf("plan9: %w", errors.ErrUnsupported)},
			wantStatus: StatusNotImplemented,
			wantCalls:  1,
		},
		{
			name:       "disabled by switch",
			sw:         switches.Of(switches.DisableMachineID),
			src:        &fakeSource{id: "S-1-5-21-1"},
			wantStatus: StatusNotImplemented,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, status := NewDeviceID(tt.sw, tt.src).MachineSpecificID(t.Context())
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCalls, tt.src.calls)
		})
	}
}

func TestMachineSpecificIDSystemSourceDisabled(t *testing.T) {
	t.Parallel()

	id, status := NewDeviceID(switches.Of(switches.DisableMachineID), nil).MachineSpecificID(t.Context())
	assert.Empty(t, id)
	assert.Equal(t, StatusNotImplemented, status)
}

func TestSystemSourceNonWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows has a device id")
	}
	t.Parallel()

	_, status := NewDeviceID(switches.Set{}, nil).MachineSpecificID(t.Context())
	assert.Equal(t, StatusNotImplemented, status)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failure", StatusFailure.String())
	assert.Equal(t, "not-implemented", StatusNotImplemented.String())
	assert.Equal(t, "unknown", Status(42).String())
}
