package memory

import (
	"sync"

	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// Catalog is an in-memory implementation of provider.Catalog.
type Catalog struct {
	providers []provider.Provider
	mu        sync.RWMutex
}

// NewCatalog creates a new in-memory provider catalog.
func NewCatalog(providers ...provider.Provider) (*Catalog, error) {
	c := &Catalog{}
	for _, p := range providers {
		if err := c.Register(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a provider to the catalog.
func (c *Catalog) Register(p provider.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.providers {
		if existing.ID == p.ID {
			return provider.ErrProviderExists
		}
	}
	c.providers = append(c.providers, p)
	return nil
}

// Replace swaps the catalog contents. Entries are validated but not
// deduplicated, so a broken source surfaces as a duplicate at resolve time.
func (c *Catalog) Replace(providers []provider.Provider) error {
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	kept := make([]provider.Provider, len(providers))
	copy(kept, providers)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = kept
	return nil
}

// FindByID returns every entry whose id equals id.
func (c *Catalog) FindByID(id string) []provider.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []provider.Provider
	for _, p := range c.providers {
		if p.ID == id {
			result = append(result, p)
		}
	}
	return result
}

// List returns all entries.
func (c *Catalog) List() []provider.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]provider.Provider, len(c.providers))
	copy(result, c.providers)
	return result
}

// Count returns the number of entries.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.providers)
}

var _ provider.Catalog = (*Catalog)(nil)
