package ecs

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Graph is an arena of entities and the edges between them. Nodes and
// Edges are exported for read access; all mutation goes through the
// methods below so that observers see every change. Component operations
// address entities by id, so callers never need a back-reference from an
// entity to its graph.
//
// A Graph is not safe for concurrent use. Observers are invoked
// synchronously and must not mutate the graph from inside Notify.
type Graph struct {
	RootID    uuid.UUID
	LineageID uuid.UUID
	Nodes     map[uuid.UUID]*Entity
	Edges     map[EdgeKey]*Edge

	observers []Observer
}

// NewGraph creates an empty graph identified by the given root entity id
// and lineage id.
func NewGraph(rootID, lineageID uuid.UUID) *Graph {
	return &Graph{
		RootID:    rootID,
		LineageID: lineageID,
		Nodes:     make(map[uuid.UUID]*Entity),
		Edges:     make(map[EdgeKey]*Edge),
	}
}

// AddObserver registers an observer. Adding an observer that is already
// registered is a no-op.
func (g *Graph) AddObserver(o Observer) {
	for _, existing := range g.observers {
		if existing == o {
			return
		}
	}
	g.observers = append(g.observers, o)
}

// RemoveObserver unregisters an observer. Unknown observers are ignored.
func (g *Graph) RemoveObserver(o Observer) {
	for i, existing := range g.observers {
		if existing == o {
			g.observers = append(g.observers[:i], g.observers[i+1:]...)
			return
		}
	}
}

// notify delivers an event to every observer before the mutation that
// produced it returns.
func (g *Graph) notify(ev Event) {
	for _, o := range g.observers {
		o.Notify(ev)
	}
}

// stamp fills the fields the graph owns: the root id and the emission
// time.
func (g *Graph) stamp() base {
	return base{root: g.RootID, at: time.Now().UTC()}
}

// AddNode attaches an entity to the graph and emits NodeAdded. Adding an
// id that is already present is a silent no-op. The entity's RootID is
// stamped with the graph's root id.
func (g *Graph) AddNode(e *Entity) {
	if _, ok := g.Nodes[e.ID]; ok {
		return
	}
	e.RootID = g.RootID
	g.Nodes[e.ID] = e
	g.notify(NodeAdded{base: g.stamp(), EntityID: e.ID, Entity: e})
}

// RemoveNode detaches an entity and emits NodeRemoved. Removing an
// unknown id returns (nil, false) without emitting. Edges referencing the
// entity are left in place; the diff layer treats them independently.
func (g *Graph) RemoveNode(id uuid.UUID) (*Entity, bool) {
	e, ok := g.Nodes[id]
	if !ok {
		return nil, false
	}
	delete(g.Nodes, id)
	g.notify(NodeRemoved{base: g.stamp(), EntityID: id, Entity: e})
	return e, true
}

// Node returns the entity with the given id.
func (g *Graph) Node(id uuid.UUID) (*Entity, bool) {
	e, ok := g.Nodes[id]
	return e, ok
}

// AddEdge inserts an edge and emits EdgeAdded. Inserting an edge whose
// (source, target) key is already present is a silent no-op.
func (g *Graph) AddEdge(e *Edge) {
	key := e.Key()
	if _, ok := g.Edges[key]; ok {
		return
	}
	g.Edges[key] = e
	g.notify(EdgeAdded{base: g.stamp(), Key: key, Edge: e})
}

// RemoveEdge deletes the edge between source and target and emits
// EdgeRemoved. An unknown key returns (nil, false) without emitting.
func (g *Graph) RemoveEdge(source, target uuid.UUID) (*Edge, bool) {
	key := EdgeKey{Source: source, Target: target}
	e, ok := g.Edges[key]
	if !ok {
		return nil, false
	}
	delete(g.Edges, key)
	g.notify(EdgeRemoved{base: g.stamp(), Key: key, Edge: e})
	return e, true
}

// Edge returns the edge between source and target.
func (g *Graph) Edge(source, target uuid.UUID) (*Edge, bool) {
	e, ok := g.Edges[EdgeKey{Source: source, Target: target}]
	return e, ok
}

// AddComponent sets a component on an entity and emits ComponentAdded.
// It reports whether the entity is known to the graph; an unknown id
// changes nothing and emits nothing. Setting a name that already exists
// is a silent no-op (use UpdateComponent to replace a payload).
func (g *Graph) AddComponent(entityID uuid.UUID, name string, value any) bool {
	e, ok := g.Nodes[entityID]
	if !ok {
		return false
	}
	if _, exists := e.Components[name]; exists {
		return true
	}
	e.Components[name] = value
	g.notify(ComponentAdded{base: g.stamp(), EntityID: entityID, Component: name, Value: value})
	return true
}

// RemoveComponent deletes a component and emits ComponentRemoved,
// returning the removed payload. An unknown entity or component name
// returns (nil, false) without emitting.
func (g *Graph) RemoveComponent(entityID uuid.UUID, name string) (any, bool) {
	e, ok := g.Nodes[entityID]
	if !ok {
		return nil, false
	}
	value, exists := e.Components[name]
	if !exists {
		return nil, false
	}
	delete(e.Components, name)
	g.notify(ComponentRemoved{base: g.stamp(), EntityID: entityID, Component: name, Value: value})
	return value, true
}

// UpdateComponent replaces a component payload and emits
// ComponentModified with both old and new values. If the name is not
// present yet the call behaves exactly like AddComponent. It reports
// whether the entity is known to the graph.
func (g *Graph) UpdateComponent(entityID uuid.UUID, name string, value any) bool {
	e, ok := g.Nodes[entityID]
	if !ok {
		return false
	}
	old, exists := e.Components[name]
	if !exists {
		e.Components[name] = value
		g.notify(ComponentAdded{base: g.stamp(), EntityID: entityID, Component: name, Value: value})
		return true
	}
	e.Components[name] = value
	g.notify(ComponentModified{base: g.stamp(), EntityID: entityID, Component: name, OldValue: old, NewValue: value})
	return true
}

// Component returns an entity's component payload by name.
func (g *Graph) Component(entityID uuid.UUID, name string) (any, bool) {
	e, ok := g.Nodes[entityID]
	if !ok {
		return nil, false
	}
	value, exists := e.Components[name]
	return value, exists
}

// Clone returns a deep copy of the graph's nodes and edges. Observers are
// not carried over: a clone is a snapshot of state, not a live participant
// in change tracking.
func (g *Graph) Clone() *Graph {
	c := NewGraph(g.RootID, g.LineageID)
	for id, e := range g.Nodes {
		c.Nodes[id] = e.Clone()
	}
	for key, e := range g.Edges {
		c.Edges[key] = e.Clone()
	}
	return c
}

// NodeIDs returns all node ids in sorted order for deterministic
// iteration.
func (g *Graph) NodeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// EdgeKeys returns all edge keys sorted by source then target id.
func (g *Graph) EdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(g.Edges))
	for key := range g.Edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return bytes.Compare(keys[i].Source[:], keys[j].Source[:]) < 0
		}
		return bytes.Compare(keys[i].Target[:], keys[j].Target[:]) < 0
	})
	return keys
}

// WithComponent returns the ids of all entities carrying a component with
// the given name, in sorted order.
func (g *Graph) WithComponent(name string) []uuid.UUID {
	var ids []uuid.UUID
	for id, e := range g.Nodes {
		if _, ok := e.Components[name]; ok {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// RelatedBy returns the targets of all edges leaving source with the
// given edge type, in sorted order.
func (g *Graph) RelatedBy(source uuid.UUID, edgeType EdgeType) []uuid.UUID {
	var ids []uuid.UUID
	for key, e := range g.Edges {
		if key.Source == source && e.Type == edgeType {
			ids = append(ids, key.Target)
		}
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
