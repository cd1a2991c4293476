package config

import (
	"fmt"

	domainconfig "github.com/felixgeelhaar/opregistry/domain/config"
	"github.com/felixgeelhaar/opregistry/domain/provider"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/memory"
)

// BuildResult contains the store contents built from a manifest.
type BuildResult struct {
	// Providers are the catalog entries.
	Providers []provider.Provider
	// Entries are the directory registrations.
	Entries []memory.Entry
}

// Build converts a manifest into catalog entries and directory registrations.
func Build(m *domainconfig.Manifest) (*BuildResult, error) {
	result := &BuildResult{
		Providers: make([]provider.Provider, 0, len(m.Providers)),
		Entries:   make([]memory.Entry, 0, len(m.Handlers)),
	}

	tags := make(map[string]provider.CapabilityTag, len(m.Providers))
	for _, pc := range m.Providers {
		p := provider.Provider{ID: pc.ID, Tag: provider.CapabilityTag(pc.CapabilityTag())}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domainconfig.ErrBuildFailed, err)
		}
		tags[pc.ID] = p.Tag
		result.Providers = append(result.Providers, p)
	}

	for _, hc := range m.Handlers {
		h, err := NewDeclaredHandler(hc)
		if err != nil {
			return nil, fmt.Errorf("%w: handler %q: %v", domainconfig.ErrBuildFailed, hc.ID, err)
		}

		entry := memory.Entry{Name: hc.Component, Handler: h}
		for _, id := range hc.Providers {
			tag, ok := tags[id]
			if !ok {
				return nil, fmt.Errorf("%w: handler %q: unknown provider %q", domainconfig.ErrBuildFailed, hc.ID, id)
			}
			entry.Tags = append(entry.Tags, tag)
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// Stores builds fresh in-memory stores holding the build result.
func (r *BuildResult) Stores() (*memory.Directory, *memory.Catalog, error) {
	directory := memory.NewDirectory()
	if err := directory.Replace(r.Entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domainconfig.ErrBuildFailed, err)
	}
	catalog, _ := memory.NewCatalog()
	if err := catalog.Replace(r.Providers); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domainconfig.ErrBuildFailed, err)
	}
	return directory, catalog, nil
}

// Publish builds fresh stores and makes them current in one step. On error
// the stores already published are kept.
func (r *BuildResult) Publish(stores *memory.Stores) error {
	directory, catalog, err := r.Stores()
	if err != nil {
		return err
	}
	stores.Publish(directory, catalog)
	return nil
}

// NewStores builds populated in-memory stores from a manifest.
func NewStores(m *domainconfig.Manifest) (*memory.Directory, *memory.Catalog, error) {
	result, err := Build(m)
	if err != nil {
		return nil, nil, err
	}
	return result.Stores()
}
