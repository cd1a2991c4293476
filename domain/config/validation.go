package config

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/opregistry/domain/operation"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates registry manifests.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the manifest and returns any errors.
func (v *Validator) Validate(m *Manifest) ValidationErrors {
	v.errors = nil

	if m.Name == "" {
		v.addError("name", "name is required")
	}
	declared := v.validateProviders(m)
	v.validateHandlers(m, declared)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateProviders(m *Manifest) map[string]bool {
	declared := make(map[string]bool, len(m.Providers))
	for i, p := range m.Providers {
		path := fmt.Sprintf("providers[%d]", i)
		if p.ID == "" {
			v.addError(path+".id", "provider id is required")
			continue
		}
		if declared[p.ID] {
			v.addError(path+".id", fmt.Sprintf("provider %q is declared more than once", p.ID))
		}
		declared[p.ID] = true
	}
	return declared
}

func (v *Validator) validateHandlers(m *Manifest, providers map[string]bool) {
	ids := make(map[string]bool, len(m.Handlers))
	components := make(map[string]bool)

	for i, h := range m.Handlers {
		path := fmt.Sprintf("handlers[%d]", i)

		if h.ID == "" {
			v.addError(path+".id", "handler id is required")
		} else if ids[h.ID] {
			v.addError(path+".id", fmt.Sprintf("handler id %q is used more than once", h.ID))
		}
		ids[h.ID] = true

		if h.Name == "" {
			v.addError(path+".name", "operation name is required")
		} else if strings.Contains(h.Name, operation.VersionSeparator) {
			v.addError(path+".name", "operation name must not contain a version; use versions or constraint")
		}

		if _, err := operation.ParseKind(h.Kind); err != nil {
			v.addError(path+".kind", fmt.Sprintf("invalid kind: %q (want converter or validator)", h.Kind))
		}

		if h.Component == "" && len(h.Providers) == 0 {
			v.addError(path, "handler must declare a component name or at least one provider")
		}
		if h.Component != "" {
			if components[h.Component] {
				v.addError(path+".component", fmt.Sprintf("component %q is registered more than once", h.Component))
			}
			components[h.Component] = true
		}

		for j, id := range h.Providers {
			if !providers[id] {
				v.addError(fmt.Sprintf("%s.providers[%d]", path, j), fmt.Sprintf("unknown provider: %q", id))
			}
		}

		for j, version := range h.Versions {
			if version == "" || strings.Contains(version, operation.VersionSeparator) {
				v.addError(fmt.Sprintf("%s.versions[%d]", path, j), fmt.Sprintf("invalid version: %q", version))
			}
		}

		if h.Constraint != "" {
			if _, err := operation.NewSemverConstraint(h.Constraint); err != nil {
				v.addError(path+".constraint", err.Error())
			}
		}
	}
}
