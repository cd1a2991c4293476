package provider

import (
	"errors"
	"fmt"
)

// Domain errors for the provider catalog.
var (
	// ErrProviderNotFound indicates no catalog entry exists for a provider id.
	ErrProviderNotFound = errors.New("cloud provider not found")

	// ErrDuplicateProvider indicates the catalog holds more than one entry for
	// a provider id. This is a catalog integrity violation.
	ErrDuplicateProvider = errors.New("duplicate cloud provider")

	// ErrInvalidProvider indicates a catalog entry is missing required fields.
	ErrInvalidProvider = errors.New("invalid cloud provider")

	// ErrProviderExists indicates a provider with the same id is already registered.
	ErrProviderExists = errors.New("cloud provider already exists")
)

// NotFoundError reports an unknown provider id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No cloud provider named '%s' found", e.ID)
}

// Unwrap returns ErrProviderNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrProviderNotFound
}

// DuplicateError reports a provider id registered more than once.
type DuplicateError struct {
	ID    string
	Count int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("More than one (%d) cloud providers found for the identifier '%s'", e.Count, e.ID)
}

// Unwrap returns ErrDuplicateProvider.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateProvider
}

// InvalidError reports a malformed catalog entry.
type InvalidError struct {
	ID     string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid cloud provider '%s': %s", e.ID, e.Reason)
}

// Unwrap returns ErrInvalidProvider.
func (e *InvalidError) Unwrap() error {
	return ErrInvalidProvider
}
