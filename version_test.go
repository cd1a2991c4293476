package opregistry

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	if _, err := semver.StrictNewVersion(Version); err != nil {
		t.Errorf("Version %q is not a semantic version: %v", Version, err)
	}
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if v := GetVersion(); v != Version {
		t.Errorf("GetVersion() = %s, want %s", v, Version)
	}
}
