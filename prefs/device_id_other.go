//go:build !windows

package prefs

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

type systemSource struct{}

func (systemSource) RawID(context.Context) (string, error) {
	return "", fmt.Errorf("device id on %s: %w", runtime.GOOS, errors.ErrUnsupported)
}
