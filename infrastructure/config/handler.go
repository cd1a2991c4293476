package config

import (
	"github.com/felixgeelhaar/opregistry/domain/config"
	"github.com/felixgeelhaar/opregistry/domain/operation"
)

// DeclaredHandler is an operation.Handler described by a manifest entry. It
// carries no business logic; it lets operators check which handler a request
// would resolve to.
type DeclaredHandler struct {
	id        string
	name      string
	kind      operation.Kind
	versions  operation.Versions
	semver    *operation.SemverConstraint
	isDefault bool
}

// NewDeclaredHandler builds a handler from a manifest entry.
func NewDeclaredHandler(hc config.HandlerConfig) (*DeclaredHandler, error) {
	kind, err := operation.ParseKind(hc.Kind)
	if err != nil {
		return nil, err
	}

	h := &DeclaredHandler{
		id:        hc.ID,
		name:      hc.Name,
		kind:      kind,
		versions:  operation.NewVersions(hc.Versions...),
		isDefault: hc.IsDefault(),
	}
	if hc.Constraint != "" {
		c, err := operation.NewSemverConstraint(hc.Constraint)
		if err != nil {
			return nil, err
		}
		h.semver = &c
	}
	return h, nil
}

// ID returns the manifest id of the handler.
func (h *DeclaredHandler) ID() string { return h.id }

// Kind implements operation.Handler.
func (h *DeclaredHandler) Kind() operation.Kind { return h.kind }

// DeclaredName implements operation.Handler.
func (h *DeclaredHandler) DeclaredName() string { return h.name }

// AcceptsVersion implements operation.Handler.
func (h *DeclaredHandler) AcceptsVersion(version string) bool {
	if version == "" {
		return h.isDefault
	}
	if h.versions.AcceptsVersion(version) {
		return true
	}
	return h.semver != nil && h.semver.AcceptsVersion(version)
}

var _ operation.Handler = (*DeclaredHandler)(nil)
