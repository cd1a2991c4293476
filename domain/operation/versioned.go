package operation

import "strings"

// VersionSeparator separates an operation name from its version.
const VersionSeparator = "@"

// VersionedName is an operation name split into its base name and an
// optional version. An empty Version means the version is absent.
type VersionedName struct {
	Base    string
	Version string
}

// ParseVersionedName splits raw on the version separator.
//
// A raw string without a separator is returned as the base name with no
// version. A raw string with a separator must split into exactly two
// non-empty parts; anything else is a *MalformedNameError.
func ParseVersionedName(raw string) (VersionedName, error) {
	if !strings.Contains(raw, VersionSeparator) {
		return VersionedName{Base: raw}, nil
	}

	parts := strings.Split(raw, VersionSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return VersionedName{}, &MalformedNameError{Raw: raw}
	}

	return VersionedName{Base: parts[0], Version: parts[1]}, nil
}

// HasVersion reports whether a version was given.
func (n VersionedName) HasVersion() bool {
	return n.Version != ""
}

// String returns the raw form of the name.
func (n VersionedName) String() string {
	if !n.HasVersion() {
		return n.Base
	}
	return n.Base + VersionSeparator + n.Version
}
