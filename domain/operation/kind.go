// Package operation provides the domain model for atomic operation handlers:
// versioned operation names, the handler capability consumed by the registry
// and the component directory contract.
package operation

import "fmt"

// Kind distinguishes converters from validators.
type Kind int

const (
	KindConverter Kind = iota + 1 // Turns a description into an executable operation
	KindValidator                 // Checks a description before execution
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindConverter:
		return "converter"
	case KindValidator:
		return "validator"
	default:
		return "unknown"
	}
}

// noun is the plural used in diagnostics.
func (k Kind) noun() string {
	switch k {
	case KindConverter:
		return "atomic operation converters"
	case KindValidator:
		return "description validators"
	default:
		return "handlers"
	}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "converter":
		return KindConverter, nil
	case "validator":
		return KindValidator, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}
