package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GoVersion, info.GoVersion)
}

func TestBuildInfoString(t *testing.T) {
	b := BuildInfo{
		Version:   "1.2.3",
		BuildDate: "2026-01-15",
		GitCommit: "abcdef1234567890",
		GoVersion: "go1.24.4",
		Module:    "github.com/orionlab/orion",
	}

	s := b.String()
	assert.Contains(t, s, "Version: 1.2.3")
	assert.Contains(t, s, "Build Date: 2026-01-15")
	assert.Contains(t, s, "Git Commit: abcdef1")
	assert.Contains(t, s, "Module: github.com/orionlab/orion")
}

func TestBuildInfoStringOmitsUnknown(t *testing.T) {
	b := BuildInfo{Version: "dev", BuildDate: unknownValue, GitCommit: unknownValue}
	s := b.String()
	assert.NotContains(t, s, "Build Date")
	assert.NotContains(t, s, "Git Commit")
}

func TestIsRelease(t *testing.T) {
	assert.False(t, IsRelease())
}
