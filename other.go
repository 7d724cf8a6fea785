//go:build !linux && !windows && !darwin

package hostid

import (
	"context"
	"fmt"
	"runtime"
)

func collectIdentifiers(_ context.Context, _ *Fingerprinter, _ *collector) ([]string, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}
