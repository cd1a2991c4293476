package operation

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Unversioned accepts only the absent version. Embed it in handlers that have
// never been versioned.
type Unversioned struct{}

// AcceptsVersion implements VersionPolicy.
func (Unversioned) AcceptsVersion(version string) bool {
	return version == ""
}

// Versions accepts an explicit set of versions.
type Versions struct {
	accepted       map[string]struct{}
	includeDefault bool
}

// NewVersions creates a policy accepting exactly the given versions.
func NewVersions(versions ...string) Versions {
	accepted := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		if v != "" {
			accepted[v] = struct{}{}
		}
	}
	return Versions{accepted: accepted}
}

// WithDefault returns a copy that also accepts the absent version.
func (v Versions) WithDefault() Versions {
	v.includeDefault = true
	return v
}

// AcceptsVersion implements VersionPolicy.
func (v Versions) AcceptsVersion(version string) bool {
	if version == "" {
		return v.includeDefault
	}
	_, ok := v.accepted[version]
	return ok
}

// SemverConstraint accepts versions satisfying a semantic version constraint
// such as ">= 2.0, < 3". Versions like "v2" are coerced to "2.0.0".
type SemverConstraint struct {
	constraints    *semver.Constraints
	expr           string
	includeDefault bool
}

// NewSemverConstraint parses expr into a policy.
func NewSemverConstraint(expr string) (SemverConstraint, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return SemverConstraint{}, fmt.Errorf("%w: %q: %v", ErrInvalidConstraint, expr, err)
	}
	return SemverConstraint{constraints: c, expr: expr}, nil
}

// WithDefault returns a copy that also accepts the absent version.
func (s SemverConstraint) WithDefault() SemverConstraint {
	s.includeDefault = true
	return s
}

// AcceptsVersion implements VersionPolicy.
func (s SemverConstraint) AcceptsVersion(version string) bool {
	if version == "" {
		return s.includeDefault
	}
	if s.constraints == nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return s.constraints.Check(v)
}

// String returns the constraint expression.
func (s SemverConstraint) String() string {
	return s.expr
}

var (
	_ VersionPolicy = Unversioned{}
	_ VersionPolicy = Versions{}
	_ VersionPolicy = SemverConstraint{}
)
