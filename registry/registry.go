// Package registry drives the component-set resolver against an external
// ECS registry: walking a component.Set in order, it emits or consumes
// per-type records through the text or binary codec and performs the
// two-pass entity remapping that lets a saved blob be loaded into any
// fresh registry.
package registry

import (
	"github.com/labelle-toolkit/serialization/entity"
)

// Registry is the external collaborator this package drives. It is not
// implemented here; an ECS layer supplies it.
type Registry interface {
	// CreateEntity allocates and returns a fresh entity identifier.
	CreateEntity() entity.ID
	// AddComponent attaches value, of the named component type, to id.
	AddComponent(id entity.ID, typeName string, value any) error
	// GetComponent returns the named component's value on id, if present.
	GetComponent(id entity.ID, typeName string) (any, bool)
	// HasComponent reports whether id carries the named component.
	HasComponent(id entity.ID, typeName string) bool
	// View returns an iterator over every entity carrying the named
	// component type.
	View(typeName string) Iterator
}

// Iterator walks the entities carrying one component type.
type Iterator interface {
	// Next advances the iterator and reports whether an entity follows.
	Next() bool
	// Entity returns the current entity. Valid only after Next returns true.
	Entity() entity.ID
}
