package version

import (
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected dev, got %q", info.Version)
	}
}

func TestShortContainsVersion(t *testing.T) {
	if !strings.HasPrefix(Short(), Version) {
		t.Errorf("short version %q must start with %q", Short(), Version)
	}
}

func TestShortWithCommit(t *testing.T) {
	orig, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = orig, origCommit }()

	Version = "1.2.0"
	GitCommit = "abc1234"
	if got := Short(); !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Errorf("got %q", got)
	}
}
