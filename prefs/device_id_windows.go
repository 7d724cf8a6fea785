//go:build windows

package prefs

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

// systemSource resolves the SID of the local machine account, which is
// stable for the lifetime of the Windows installation.
type systemSource struct{}

func (systemSource) RawID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := windows.ComputerName()
	if err != nil {
		return "", fmt.Errorf("reading computer name: %w", err)
	}

	sid, _, _, err := windows.LookupSID("", name)
	if err != nil {
		return "", fmt.Errorf("looking up SID of %q: %w", name, err)
	}

	return sid.String(), nil
}
