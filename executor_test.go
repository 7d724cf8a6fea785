package hostid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteTimeout(t *testing.T) {
	executor := &defaultCommandExecutor{}
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	time.Sleep(2 * time.Millisecond)

	_, err := executor.Execute(ctx, "echo", "test")
	assert.Error(t, err, "expected an error from an expired context")
}

func TestExecuteMissingCommand(t *testing.T) {
	executor := &defaultCommandExecutor{Timeout: time.Second}

	_, err := executor.Execute(context.Background(), "hostid-command-that-does-not-exist")

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "hostid-command-that-does-not-exist", cmdErr.Command)
}

func TestExecuteCommandUsesExecutor(t *testing.T) {
	mock := newMockExecutor()
	mock.setOutput("lsblk", "SERIAL1")

	out, err := executeCommand(context.Background(), mock, nil, "lsblk")
	require.NoError(t, err)
	assert.Equal(t, "SERIAL1", out)
	assert.Equal(t, 1, mock.callCount["lsblk"])
}

func TestExecuteCommandNilExecutor(t *testing.T) {
	// Falls back to the default executor; only absence of a panic matters.
	assert.NotPanics(t, func() {
		_, _ = executeCommand(context.Background(), nil, nil, "echo", "test")
	})
}
