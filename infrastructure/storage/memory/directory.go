// Package memory provides in-memory storage implementations.
package memory

import (
	"sync"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// Entry is a handler registration.
type Entry struct {
	// Name registers the handler in the legacy flat namespace. Optional.
	Name string

	// Handler is the registered converter or validator.
	Handler operation.Handler

	// Tags are the capability tags of the providers the handler serves.
	Tags []provider.CapabilityTag
}

func (e Entry) validate() error {
	if e.Handler == nil || (e.Name == "" && len(e.Tags) == 0) {
		return operation.ErrInvalidHandler
	}
	return nil
}

// Directory is an in-memory implementation of operation.Directory.
type Directory struct {
	entries []Entry
	byName  map[string]operation.Handler
	byTag   map[provider.CapabilityTag][]operation.Handler
	mu      sync.RWMutex
}

// NewDirectory creates a new in-memory component directory.
func NewDirectory() *Directory {
	return &Directory{
		byName: make(map[string]operation.Handler),
		byTag:  make(map[provider.CapabilityTag][]operation.Handler),
	}
}

// Register adds a handler to the directory.
func (d *Directory) Register(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if e.Name != "" {
		if _, exists := d.byName[e.Name]; exists {
			return operation.ErrComponentExists
		}
		d.byName[e.Name] = e.Handler
	}
	for _, tag := range e.Tags {
		d.byTag[tag] = append(d.byTag[tag], e.Handler)
	}
	d.entries = append(d.entries, e)
	return nil
}

// Unregister removes the handler registered under name. Tag-only
// registrations have no name; remove them with RemoveWhere.
func (d *Directory) Unregister(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byName[name]; !exists {
		return &operation.ComponentNotFoundError{Name: name}
	}

	kept := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	d.byName, d.byTag = index(kept)
	d.entries = kept
	return nil
}

// RemoveWhere removes every registration for which match returns true and
// reports how many were removed. Unlike Unregister it reaches tag-only
// registrations, which have no legacy name.
func (d *Directory) RemoveWhere(match func(Entry) bool) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	removed := len(d.entries) - len(kept)
	if removed > 0 {
		d.byName, d.byTag = index(kept)
		d.entries = kept
	}
	return removed
}

// Replace atomically swaps the directory contents. On error the previous
// contents are kept.
func (d *Directory) Replace(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return err
		}
		if e.Name == "" {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			return operation.ErrComponentExists
		}
		seen[e.Name] = struct{}{}
	}

	kept := make([]Entry, len(entries))
	copy(kept, entries)
	byName, byTag := index(kept)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries, d.byName, d.byTag = kept, byName, byTag
	return nil
}

// LookupByName returns the component registered under exactly name.
func (d *Directory) LookupByName(name string) (operation.Handler, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.byName[name]
	if !ok {
		return nil, &operation.ComponentNotFoundError{Name: name}
	}
	return h, nil
}

// ListByCapabilityTag returns the handlers carrying tag in registration order.
func (d *Directory) ListByCapabilityTag(tag provider.CapabilityTag) []operation.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tagged := d.byTag[tag]
	result := make([]operation.Handler, len(tagged))
	copy(result, tagged)
	return result
}

// Entries returns all registrations in registration order.
func (d *Directory) Entries() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]Entry, len(d.entries))
	copy(result, d.entries)
	return result
}

// Names returns all legacy component names.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.byName))
	for name := range d.byName {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registrations.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

func index(entries []Entry) (map[string]operation.Handler, map[provider.CapabilityTag][]operation.Handler) {
	byName := make(map[string]operation.Handler)
	byTag := make(map[provider.CapabilityTag][]operation.Handler)
	for _, e := range entries {
		if e.Name != "" {
			byName[e.Name] = e.Handler
		}
		for _, tag := range e.Tags {
			byTag[tag] = append(byTag[tag], e.Handler)
		}
	}
	return byName, byTag
}

var _ operation.Directory = (*Directory)(nil)
