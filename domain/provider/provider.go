// Package provider provides the domain model for cloud providers and the
// capability tags that mark which handlers serve them.
package provider

// CapabilityTag marks the handlers that serve a provider.
type CapabilityTag string

// String returns the tag as a plain string.
func (t CapabilityTag) String() string {
	return string(t)
}

// Provider is a catalog entry binding a provider id to its capability tag.
type Provider struct {
	// ID identifies the provider (e.g. "aws", "kubernetes").
	ID string `json:"id" yaml:"id"`

	// Tag is the capability tag carried by the provider's handlers.
	Tag CapabilityTag `json:"tag" yaml:"tag"`
}

// Validate checks that the entry can be stored in a catalog.
func (p Provider) Validate() error {
	if p.ID == "" {
		return ErrInvalidProvider
	}
	if p.Tag == "" {
		return &InvalidError{ID: p.ID, Reason: "capability tag is required"}
	}
	return nil
}

// Catalog defines the provider lookup used during resolution.
// This is a repository interface - implementations are in infrastructure.
type Catalog interface {
	// FindByID returns every entry whose id equals id.
	// A correct catalog returns zero or one entries.
	FindByID(id string) []Provider
}
