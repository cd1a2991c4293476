package operation

import "github.com/felixgeelhaar/opregistry/domain/provider"

// Directory stores registered handlers and indexes them by component name
// and by capability tag.
// This is a repository interface - implementations are in infrastructure.
type Directory interface {
	// LookupByName returns the component registered under exactly name.
	// A miss returns an error wrapping ErrComponentNotFound.
	LookupByName(name string) (Handler, error)

	// ListByCapabilityTag returns every handler carrying tag.
	ListByCapabilityTag(tag provider.CapabilityTag) []Handler
}
