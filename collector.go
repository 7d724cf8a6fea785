package hostid

import (
	"log/slog"
	"strings"
)

// collector accumulates identifiers for a single ID call and records the
// outcome of every component in diag.
type collector struct {
	executor CommandExecutor
	logger   *slog.Logger
	diag     *Diagnostics
}

// one appends prefix+value when get succeeds with a non-empty value.
func (c *collector) one(identifiers []string, component, prefix string, get func() (string, error)) []string {
	value, err := get()
	if err != nil {
		c.fail(component, err)
		return identifiers
	}

	if value == "" {
		c.fail(component, ErrEmptyValue)
		return identifiers
	}

	c.collected(component)
	if c.logger != nil {
		c.logger.Debug("component value", "component", component, "value", value)
	}

	return append(identifiers, prefix+value)
}

// many appends prefix+v for every v when get succeeds with at least one value.
func (c *collector) many(identifiers []string, component, prefix string, get func() ([]string, error)) []string {
	values, err := get()
	if err != nil {
		c.fail(component, err)
		return identifiers
	}

	if len(values) == 0 {
		c.fail(component, ErrNoValues)
		return identifiers
	}

	c.collected(component)
	if c.logger != nil {
		c.logger.Debug("component values", "component", component, "count", len(values))
	}

	for _, v := range values {
		identifiers = append(identifiers, prefix+v)
	}

	return identifiers
}

func (c *collector) fail(component string, err error) {
	c.diag.Errors[component] = &ComponentError{Component: component, Err: err}
	if c.logger != nil {
		c.logger.Warn("component failed", "component", component, "error", err)
	}
}

func (c *collector) collected(component string) {
	c.diag.Collected = append(c.diag.Collected, component)
	if c.logger != nil {
		c.logger.Info("component collected", "component", component)
	}
}

// nonEmptyLines splits command output into trimmed, non-empty lines.
func nonEmptyLines(output string) []string {
	var lines []string
	for line := range strings.SplitSeq(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
