package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortPrefersLinkedVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3"
	assert.Equal(t, "1.2.3", Short())
}

func TestShortFallsBackToBuildInfo(t *testing.T) {
	origVersion, origRead := Version, readBuildInfo
	t.Cleanup(func() { Version, readBuildInfo = origVersion, origRead })

	Version = "0.0.0"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, true
	}
	assert.Equal(t, "v0.4.0", Short())

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	assert.Equal(t, "0.0.0", Short())
}

func TestLongSkipsEmptyFields(t *testing.T) {
	origCommit, origBranch := GitCommit, GitBranch
	t.Cleanup(func() { GitCommit, GitBranch = origCommit, origBranch })

	GitCommit = "abc123"
	GitBranch = ""

	got := Long("hostid")
	assert.True(t, strings.HasPrefix(got, "hostid version: "))
	assert.Contains(t, got, "Git commit: abc123")
	assert.NotContains(t, got, "Git branch")
}
