package memory

import (
	"sync/atomic"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// Snapshot is a directory and catalog built from the same manifest.
type Snapshot struct {
	Directory *Directory
	Catalog   *Catalog
}

// Stores publishes directory and catalog pairs. Readers see either the
// previous pair or the next one, never one store from each.
type Stores struct {
	current atomic.Pointer[Snapshot]
}

// NewStores creates stores publishing directory and catalog. Nil arguments
// are replaced with empty stores.
func NewStores(directory *Directory, catalog *Catalog) *Stores {
	s := &Stores{}
	s.Publish(directory, catalog)
	return s
}

// Publish makes directory and catalog the current pair.
func (s *Stores) Publish(directory *Directory, catalog *Catalog) {
	if directory == nil {
		directory = NewDirectory()
	}
	if catalog == nil {
		catalog = &Catalog{}
	}
	s.current.Store(&Snapshot{Directory: directory, Catalog: catalog})
}

// Current returns the current pair.
func (s *Stores) Current() Snapshot {
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return Snapshot{Directory: NewDirectory(), Catalog: &Catalog{}}
}

// Snapshot returns the current pair as the registry's read interfaces.
func (s *Stores) Snapshot() (operation.Directory, provider.Catalog) {
	snap := s.Current()
	return snap.Directory, snap.Catalog
}
