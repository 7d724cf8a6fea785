// Package version holds build metadata, set with -ldflags:
//
//	go build -ldflags "\
//	  -X 'github.com/slashdevops/hostid/internal/version.Version=1.0.0' \
//	  -X 'github.com/slashdevops/hostid/internal/version.GitCommit=$(git rev-parse HEAD)'"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version   = "0.0.0"
	BuildDate = "1970-01-01T00:00:00Z"
	GitCommit = ""
	GitBranch = ""
	BuildUser = ""

	GoVersion     = runtime.Version()
	GoVersionArch = runtime.GOARCH
	GoVersionOS   = runtime.GOOS
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Short returns the version, preferring module build info when no version
// was linked in.
func Short() string {
	if Version == "0.0.0" {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	return Version
}

// Long returns every known build attribute on one line.
func Long(app string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s version: %s", app, Short())
	for _, kv := range [][2]string{
		{"Build date", BuildDate},
		{"Build user", BuildUser},
		{"Git commit", GitCommit},
		{"Git branch", GitBranch},
		{"Go version", GoVersion},
		{"Platform", GoVersionOS + "/" + GoVersionArch},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&sb, ", %s: %s", kv[0], kv[1])
		}
	}

	return sb.String()
}
