package hostid

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// defaultCommandExecutor runs commands with os/exec.
type defaultCommandExecutor struct {
	Timeout time.Duration
}

// Execute runs name with args, killing it once Timeout elapses or ctx ends.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", &CommandError{Command: name, Err: err}
	}

	return strings.TrimSpace(string(output)), nil
}

// executeCommand runs a command through executor, falling back to the
// default executor when none is configured, and logs its duration.
func executeCommand(ctx context.Context, executor CommandExecutor, logger *slog.Logger, name string, args ...string) (string, error) {
	if executor == nil {
		executor = &defaultCommandExecutor{Timeout: DefaultTimeout}
	}

	start := time.Now()
	output, err := executor.Execute(ctx, name, args...)
	if logger != nil {
		logger.Debug("command executed",
			"command", name,
			"duration", time.Since(start),
			"error", err,
		)
	}

	return output, err
}
