// Package opregistry holds release information for the operation registry.
package opregistry

// Version is the current version of opregistry.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
