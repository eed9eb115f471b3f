package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Kind           BackendKind `json:"kind"`
	RenumbersTasks bool        `json:"renumbers_tasks"`
	BackendType    string      `json:"backend_type"`
	Backend        any         `json:"backend,omitempty"`
}

func backendState(backend any) (string, any) {
	backendType := "unknown"
	if comp, ok := backend.(introspection.Component); ok {
		backendType = comp.ComponentType()
	}
	var state any
	if in, ok := backend.(introspection.Introspectable); ok {
		state = in.State()
	}
	return backendType, state
}

// State implements introspection.Introspectable.
func (s *DocumentStore) State() any {
	backendType, state := backendState(s.backend)
	return StoreState{
		Kind:           s.kind,
		RenumbersTasks: s.kind.RenumbersTasks(),
		BackendType:    backendType,
		Backend:        state,
	}
}

// ComponentType implements introspection.Component.
func (s *DocumentStore) ComponentType() string {
	return "document-store"
}

// State implements introspection.Introspectable.
func (s *EntityStore) State() any {
	backendType, state := backendState(s.backend)
	return StoreState{
		Kind:           KindAPI,
		RenumbersTasks: KindAPI.RenumbersTasks(),
		BackendType:    backendType,
		Backend:        state,
	}
}

// ComponentType implements introspection.Component.
func (s *EntityStore) ComponentType() string {
	return "entity-store"
}

var _ introspection.Introspectable = (*DocumentStore)(nil)
var _ introspection.Component = (*DocumentStore)(nil)
var _ introspection.Introspectable = (*EntityStore)(nil)
var _ introspection.Component = (*EntityStore)(nil)
