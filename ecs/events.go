package ecs

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies which mutation an Event describes.
type EventKind uint8

const (
	KindNodeAdded EventKind = iota + 1
	KindNodeRemoved
	KindNodeModified
	KindEdgeAdded
	KindEdgeRemoved
	KindEdgeModified
	KindComponentAdded
	KindComponentRemoved
	KindComponentModified
)

func (k EventKind) String() string {
	switch k {
	case KindNodeAdded:
		return "node_added"
	case KindNodeRemoved:
		return "node_removed"
	case KindNodeModified:
		return "node_modified"
	case KindEdgeAdded:
		return "edge_added"
	case KindEdgeRemoved:
		return "edge_removed"
	case KindEdgeModified:
		return "edge_modified"
	case KindComponentAdded:
		return "component_added"
	case KindComponentRemoved:
		return "component_removed"
	case KindComponentModified:
		return "component_modified"
	}
	return "unknown"
}

// Event is a change notification emitted by a Graph mutation. The root id
// and timestamp are stamped by the emitting graph, never by the caller.
//
// The set of implementations is closed: NodeAdded, NodeRemoved,
// NodeModified, EdgeAdded, EdgeRemoved, EdgeModified, ComponentAdded,
// ComponentRemoved and ComponentModified. Callers dispatch with a type
// switch over those nine types. NodeModified and EdgeModified are part of
// the union for completeness; no Graph operation currently emits them.
type Event interface {
	Kind() EventKind
	Root() uuid.UUID
	Time() time.Time
	event()
}

// base carries the fields shared by every event.
type base struct {
	root uuid.UUID
	at   time.Time
}

func (b base) Root() uuid.UUID { return b.root }
func (b base) Time() time.Time { return b.at }
func (base) event()            {}

// NodeAdded reports an entity attached to the graph.
type NodeAdded struct {
	base
	EntityID uuid.UUID
	Entity   *Entity
}

func (NodeAdded) Kind() EventKind { return KindNodeAdded }

// NodeRemoved reports an entity detached from the graph.
type NodeRemoved struct {
	base
	EntityID uuid.UUID
	Entity   *Entity
}

func (NodeRemoved) Kind() EventKind { return KindNodeRemoved }

// NodeModified reports a change to an entity field other than its
// components.
type NodeModified struct {
	base
	EntityID uuid.UUID
	Field    string
	OldValue any
	NewValue any
}

func (NodeModified) Kind() EventKind { return KindNodeModified }

// EdgeAdded reports a relationship added between two entities.
type EdgeAdded struct {
	base
	Key  EdgeKey
	Edge *Edge
}

func (EdgeAdded) Kind() EventKind { return KindEdgeAdded }

// EdgeRemoved reports a relationship removed from the graph.
type EdgeRemoved struct {
	base
	Key  EdgeKey
	Edge *Edge
}

func (EdgeRemoved) Kind() EventKind { return KindEdgeRemoved }

// EdgeModified reports a change to an existing relationship's attributes.
type EdgeModified struct {
	base
	Key     EdgeKey
	OldEdge *Edge
	NewEdge *Edge
}

func (EdgeModified) Kind() EventKind { return KindEdgeModified }

// ComponentAdded reports a component set on an entity for the first time.
type ComponentAdded struct {
	base
	EntityID  uuid.UUID
	Component string
	Value     any
}

func (ComponentAdded) Kind() EventKind { return KindComponentAdded }

// ComponentRemoved reports a component removed from an entity.
type ComponentRemoved struct {
	base
	EntityID  uuid.UUID
	Component string
	Value     any
}

func (ComponentRemoved) Kind() EventKind { return KindComponentRemoved }

// ComponentModified reports a component payload replaced on an entity.
type ComponentModified struct {
	base
	EntityID  uuid.UUID
	Component string
	OldValue  any
	NewValue  any
}

func (ComponentModified) Kind() EventKind { return KindComponentModified }

// Observer receives events from graphs it is registered with. Notify is
// called synchronously before the mutation returns; implementations must
// not call back into mutation methods on the emitting graph.
type Observer interface {
	Notify(Event)
}
