package metrics

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/slashdevops/hostid"
	"github.com/slashdevops/hostid/switches"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	id    string
	err   error
	calls atomic.Int32
}

func (s *countingSource) ID(context.Context) (string, error) {
	s.calls.Add(1)
	return s.id, s.err
}

// blockingSource waits for its context, standing in for a slow OS query.
type blockingSource struct {
	calls atomic.Int32
}

func (s *blockingSource) ID(ctx context.Context) (string, error) {
	s.calls.Add(1)
	<-ctx.Done()
	return "", ctx.Err()
}

func TestHasID(t *testing.T) {
	t.Parallel()

	src := &countingSource{id: "abc"}

	enabled := New(switches.Set{}, src)
	assert.Equal(t, platformSupported(runtime.GOOS), enabled.HasID())

	disabled := New(switches.Of(switches.DisableMachineID), src)
	assert.False(t, disabled.HasID())

	assert.Zero(t, src.calls.Load(), "HasID must not query the source")
}

func TestPlatformSupported(t *testing.T) {
	t.Parallel()

	for _, goos := range []string{"windows", "linux", "darwin"} {
		assert.True(t, platformSupported(goos), goos)
	}
	for _, goos := range []string{"freebsd", "plan9", "js", ""} {
		assert.False(t, platformSupported(goos), goos)
	}
}

func TestHasIDSupportedPlatformDefault(t *testing.T) {
	t.Parallel()

	p := New(switches.Set{}, &countingSource{})
	p.supported = true
	assert.True(t, p.HasID())

	p = New(switches.Of(switches.DisableMachineID), &countingSource{})
	p.supported = true
	assert.False(t, p.HasID())
}

func TestMachineID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sw        switches.Set
		src       *countingSource
		want      string
		wantCalls int32
	}{
		{
			name:      "switch absent returns source id",
			sw:        switches.Set{},
			src:       &countingSource{id: "0123abcd"},
			want:      "0123abcd",
			wantCalls: 1,
		},
		{
			name:      "switch absent and source fails",
			sw:        switches.Set{},
			src:       &countingSource{err: errors.New("no disk")},
			want:      "",
			wantCalls: 1,
		},
		{
			name:      "switch present skips source",
			sw:        switches.Of(switches.DisableMachineID),
			src:       &countingSource{id: "0123abcd"},
			want:      "",
			wantCalls: 0,
		},
		{
			name:      "unrelated switch keeps original behavior",
			sw:        switches.Of("enable-logging"),
			src:       &countingSource{id: "0123abcd"},
			want:      "0123abcd",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := New(tt.sw, tt.src)
			assert.Equal(t, tt.want, p.MachineID(t.Context()))
			assert.Equal(t, tt.wantCalls, tt.src.calls.Load())
		})
	}
}

func TestMachineIDDisabledDoesNotBlock(t *testing.T) {
	t.Parallel()

	src := &blockingSource{}
	p := New(switches.Of(switches.DisableMachineID), src, WithTimeout(time.Hour))

	done := make(chan string, 1)
	go func() { done <- p.MachineID(context.Background()) }()

	select {
	case id := <-done:
		assert.Empty(t, id)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "MachineID blocked with the disable switch present")
	}

	assert.Zero(t, src.calls.Load())
}

func TestMachineIDTimeout(t *testing.T) {
	t.Parallel()

	src := &blockingSource{}
	p := New(switches.Set{}, src, WithTimeout(10*time.Millisecond))

	assert.Empty(t, p.MachineID(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestNewDefaultSource(t *testing.T) {
	t.Parallel()

	p := New(switches.Of(switches.DisableMachineID), nil)
	require.NotNil(t, p.source)
	assert.Empty(t, p.MachineID(t.Context()))
}

type recordingExecutor struct {
	commands []string
}

func (e *recordingExecutor) Execute(_ context.Context, name string, _ ...string) (string, error) {
	e.commands = append(e.commands, name)
	return "", errors.New("not available in tests")
}

func TestMachineIDDisabledRunsNoCommands(t *testing.T) {
	t.Parallel()

	exec := &recordingExecutor{}
	fp := hostid.New().WithDisk().WithExecutor(exec)

	p := New(switches.Of(switches.DisableMachineID), fp)
	assert.Empty(t, p.MachineID(t.Context()))
	assert.False(t, p.HasID())

	assert.Empty(t, exec.commands)
	assert.Nil(t, fp.Diagnostics(), "fingerprint must not have been attempted")
}
