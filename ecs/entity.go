// Package ecs implements the entity graph that the rest of the module
// observes and versions. An entity is a bag of named component payloads;
// edges connect entities with typed, field-labelled relationships.
//
// This package provides:
// - Entity and Edge records with UUID identity and lineage tracking
// - Graph, an arena holding nodes and edges keyed by id
// - Mutation operations that emit change events to registered observers
// - A generic Registry for keyed item collections with captured logs
//
// Mutations must go through Graph methods: writing to the Nodes or Edges
// maps directly bypasses event emission.
package ecs

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a single node in the graph. Component payloads are opaque to
// the core: they are stored, compared and reported but never interpreted.
type Entity struct {
	ID         uuid.UUID      // identity of this version
	LineageID  uuid.UUID      // stable across versions of the same logical entity
	RootID     uuid.UUID      // graph root this entity belongs to; zero until attached
	CreatedAt  time.Time      // creation time of this version
	PreviousID uuid.UUID      // prior version id; zero for the first version
	Components map[string]any // component name -> payload
}

// NewEntity creates an entity with fresh identity and lineage ids and an
// empty component map.
func NewEntity() *Entity {
	return &Entity{
		ID:         uuid.New(),
		LineageID:  uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Components: make(map[string]any),
	}
}

// Clone returns a copy of the entity with its own component map.
// Component payloads are shared, not deep-copied: callers replace payloads
// through Graph.UpdateComponent instead of mutating them in place.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Components = make(map[string]any, len(e.Components))
	for name, value := range e.Components {
		c.Components[name] = value
	}
	return &c
}

// NextVersion returns a re-versioned copy of the entity: a fresh id, the
// old id recorded as PreviousID, and the lineage id carried over. The
// caller decides when to attach the new version to a graph.
func (e *Entity) NextVersion() *Entity {
	c := e.Clone()
	c.PreviousID = e.ID
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	return c
}

// ComponentNames returns the entity's component names in sorted order.
func (e *Entity) ComponentNames() []string {
	return sortedKeys(e.Components)
}
