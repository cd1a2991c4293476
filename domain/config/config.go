// Package config provides domain models for registry manifests.
package config

// Manifest declares the providers and handlers served by a registry.
type Manifest struct {
	// Name is a human-readable name for this manifest.
	Name string `json:"name" yaml:"name"`
	// Description describes the manifest's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Providers is the provider catalog.
	Providers []ProviderConfig `json:"providers,omitempty" yaml:"providers,omitempty"`
	// Handlers are the converters and validators to register.
	Handlers []HandlerConfig `json:"handlers,omitempty" yaml:"handlers,omitempty"`
}

// ProviderConfig declares a provider catalog entry.
type ProviderConfig struct {
	// ID is the provider identifier.
	ID string `json:"id" yaml:"id"`
	// Tag is the capability tag (default: the provider id).
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// CapabilityTag returns the declared tag, defaulting to the provider id.
func (p ProviderConfig) CapabilityTag() string {
	if p.Tag == "" {
		return p.ID
	}
	return p.Tag
}

// HandlerConfig declares a converter or validator.
type HandlerConfig struct {
	// ID identifies the handler in CLI output and logs.
	ID string `json:"id" yaml:"id"`
	// Name is the operation name the handler declares.
	Name string `json:"name" yaml:"name"`
	// Kind is converter or validator.
	Kind string `json:"kind" yaml:"kind"`
	// Component registers the handler in the legacy flat namespace under
	// this exact name.
	Component string `json:"component,omitempty" yaml:"component,omitempty"`
	// Providers lists the provider ids whose capability tags the handler carries.
	Providers []string `json:"providers,omitempty" yaml:"providers,omitempty"`
	// Versions lists the explicit versions the handler accepts.
	Versions []string `json:"versions,omitempty" yaml:"versions,omitempty"`
	// Constraint is a semantic version constraint the handler accepts.
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	// Default marks the handler as the unversioned default. Handlers with no
	// versions and no constraint are always the default.
	Default bool `json:"default,omitempty" yaml:"default,omitempty"`
}

// IsDefault reports whether the handler accepts the absent version.
func (h HandlerConfig) IsDefault() bool {
	return h.Default || (len(h.Versions) == 0 && h.Constraint == "")
}
