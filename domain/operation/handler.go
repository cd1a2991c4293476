package operation

import (
	"context"
	"encoding/json"
)

// VersionPolicy decides which requested versions a handler serves.
type VersionPolicy interface {
	// AcceptsVersion reports whether the handler serves version.
	// An empty version asks whether the handler is the unversioned default.
	AcceptsVersion(version string) bool
}

// Handler is the capability the registry needs from a converter or validator.
type Handler interface {
	VersionPolicy

	// Kind returns whether the handler is a converter or a validator.
	Kind() Kind

	// DeclaredName returns the operation name the handler serves.
	DeclaredName() string
}

// Operation is an executable produced by a converter.
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// Converter turns a raw operation description into an executable operation.
type Converter interface {
	Handler
	Convert(ctx context.Context, input json.RawMessage) (Operation, error)
}

// Validator checks a raw operation description before execution.
type Validator interface {
	Handler
	Validate(ctx context.Context, input json.RawMessage) error
}
