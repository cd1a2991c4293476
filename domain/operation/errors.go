package operation

import (
	"errors"
	"fmt"
)

// Domain errors for operation resolution.
var (
	// ErrMalformedVersionedName indicates a versioned name is not of the form
	// {description}@{version}.
	ErrMalformedVersionedName = errors.New("malformed versioned name")

	// ErrComponentNotFound indicates no component is registered under a name.
	ErrComponentNotFound = errors.New("component not found")

	// ErrComponentExists indicates a component with the same name is already registered.
	ErrComponentExists = errors.New("component already exists")

	// ErrInvalidHandler indicates a handler registration is missing required data.
	ErrInvalidHandler = errors.New("invalid handler")

	// ErrConverterNotFound indicates no converter matched after full resolution.
	ErrConverterNotFound = errors.New("atomic operation converter not found")

	// ErrAmbiguousHandler indicates more than one handler matched. This is a
	// registration bug, never a user error.
	ErrAmbiguousHandler = errors.New("ambiguous handler registration")

	// ErrKindMismatch indicates a component of the wrong kind was registered
	// under the requested name.
	ErrKindMismatch = errors.New("handler kind mismatch")

	// ErrUnknownKind indicates a kind string is not recognised.
	ErrUnknownKind = errors.New("unknown handler kind")

	// ErrInvalidConstraint indicates a version constraint could not be parsed.
	ErrInvalidConstraint = errors.New("invalid version constraint")
)

// MalformedNameError reports a raw name that does not follow {description}@{version}.
type MalformedNameError struct {
	Raw string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("Versioned descriptions must follow '{description}@{version}' format, got '%s'", e.Raw)
}

// Unwrap returns ErrMalformedVersionedName.
func (e *MalformedNameError) Unwrap() error {
	return ErrMalformedVersionedName
}

// ComponentNotFoundError reports a legacy lookup miss.
type ComponentNotFoundError struct {
	Name string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("no component named '%s' is registered", e.Name)
}

// Unwrap returns ErrComponentNotFound.
func (e *ComponentNotFoundError) Unwrap() error {
	return ErrComponentNotFound
}

// ConverterNotFoundError reports that no converter serves a description for a provider.
type ConverterNotFoundError struct {
	Description string
	Provider    string
}

func (e *ConverterNotFoundError) Error() string {
	return fmt.Sprintf("No atomic operation converter found for description '%s' and cloud provider '%s'. "+
		"It is possible that either 1) the account name used for the operation is incorrect, "+
		"or 2) the account name used for the operation is unhealthy/unable to communicate with %s.",
		e.Description, e.Provider, e.Provider)
}

// Unwrap returns ErrConverterNotFound.
func (e *ConverterNotFoundError) Unwrap() error {
	return ErrConverterNotFound
}

// AmbiguousHandlerError reports that several handlers survived filtering.
type AmbiguousHandlerError struct {
	Kind     Kind
	Name     string
	Provider string
	Count    int
}

func (e *AmbiguousHandlerError) Error() string {
	return fmt.Sprintf("More than one (%d) %s found for description '%s' and cloud provider '%s'",
		e.Count, e.Kind.noun(), e.Name, e.Provider)
}

// Unwrap returns ErrAmbiguousHandler.
func (e *AmbiguousHandlerError) Unwrap() error {
	return ErrAmbiguousHandler
}

// KindMismatchError reports a legacy component of the wrong kind.
type KindMismatchError struct {
	Name string
	Want Kind
	Got  Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("component '%s' is a %s, not a %s", e.Name, e.Got, e.Want)
}

// Unwrap returns ErrKindMismatch.
func (e *KindMismatchError) Unwrap() error {
	return ErrKindMismatch
}
