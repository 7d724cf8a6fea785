package hostid

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrors(t *testing.T) {
	inner := errors.New("exit status 1")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"command", &CommandError{Command: "lsblk", Err: inner}, `command "lsblk" failed: exit status 1`},
		{"parse", &ParseError{Source: "wmic output", Err: inner}, "failed to parse wmic output: exit status 1"},
		{"component", &ComponentError{Component: "disk", Err: inner}, `component "disk": exit status 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), inner)
		})
	}
}

func TestComponentErrorAs(t *testing.T) {
	err := fmt.Errorf("collecting: %w", &ComponentError{
		Component: ComponentDisk,
		Err:       &CommandError{Command: "lsblk", Err: ErrNotFound},
	})

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "lsblk", cmdErr.Command)

	var compErr *ComponentError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, ComponentDisk, compErr.Component)

	assert.ErrorIs(t, err, ErrNotFound)
}
