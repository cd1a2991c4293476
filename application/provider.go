package application

import (
	"github.com/felixgeelhaar/opregistry/domain/provider"
	"github.com/felixgeelhaar/opregistry/infrastructure/logging"
)

// ResolveTag returns the capability tag of the provider registered under
// providerID. Unknown ids fail with *provider.NotFoundError; ids registered
// more than once fail with *provider.DuplicateError.
func (r *Registry) ResolveTag(providerID string) (provider.CapabilityTag, error) {
	_, catalog := r.source.Snapshot()
	return resolveTag(catalog, providerID)
}

func resolveTag(catalog provider.Catalog, providerID string) (provider.CapabilityTag, error) {
	found := catalog.FindByID(providerID)

	switch len(found) {
	case 0:
		return "", &provider.NotFoundError{ID: providerID}
	case 1:
		return found[0].Tag, nil
	default:
		err := &provider.DuplicateError{ID: providerID, Count: len(found)}
		logging.Error().
			Add(logging.Provider(providerID)).
			Add(logging.ErrorField(err)).
			Msg("provider catalog misconfigured")
		return "", err
	}
}
