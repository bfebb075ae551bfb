package diff

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/Mistobaan/Abstractions/ecs"
)

// Graphs computes the structural differences between two graph states,
// typically snapshots of the same graph at different commits. It walks
// three phases in order: node presence, edge presence and attributes,
// then components of the nodes present in both graphs. Diffing a graph
// against itself yields no changes.
func Graphs(old, new *ecs.Graph) []Change {
	var changes []Change
	changes = append(changes, nodeChanges(old, new)...)
	changes = append(changes, edgeChanges(old, new)...)
	changes = append(changes, componentChanges(old, new)...)
	return changes
}

func nodeChanges(old, new *ecs.Graph) []Change {
	var changes []Change
	for _, id := range new.NodeIDs() {
		if _, ok := old.Nodes[id]; ok {
			continue
		}
		node := new.Nodes[id]
		changes = append(changes, Change{
			Kind:     NodeAdded,
			EntityID: id,
			NewValue: node,
			Details:  map[string]any{"components": node.ComponentNames()},
		})
	}
	for _, id := range old.NodeIDs() {
		if _, ok := new.Nodes[id]; ok {
			continue
		}
		node := old.Nodes[id]
		changes = append(changes, Change{
			Kind:     NodeRemoved,
			EntityID: id,
			OldValue: node,
			Details:  map[string]any{"components": node.ComponentNames()},
		})
	}
	return changes
}

func edgeChanges(old, new *ecs.Graph) []Change {
	var changes []Change
	for _, key := range new.EdgeKeys() {
		edge := new.Edges[key]
		if _, ok := old.Edges[key]; !ok {
			changes = append(changes, Change{
				Kind:     EdgeAdded,
				Edge:     &key,
				NewValue: edge,
				Details:  edgeDetails(edge),
			})
		}
	}
	for _, key := range old.EdgeKeys() {
		edge := old.Edges[key]
		if _, ok := new.Edges[key]; !ok {
			changes = append(changes, Change{
				Kind:     EdgeRemoved,
				Edge:     &key,
				OldValue: edge,
				Details:  edgeDetails(edge),
			})
		}
	}
	for _, key := range new.EdgeKeys() {
		newEdge := new.Edges[key]
		oldEdge, ok := old.Edges[key]
		if !ok {
			continue
		}
		details := changedEdgeFields(oldEdge, newEdge)
		if len(details) == 0 {
			continue
		}
		changes = append(changes, Change{
			Kind:     EdgeModified,
			Edge:     &key,
			OldValue: oldEdge,
			NewValue: newEdge,
			Details:  details,
		})
	}
	return changes
}

func edgeDetails(e *ecs.Edge) map[string]any {
	return map[string]any{
		"source_id":  e.Source.String(),
		"target_id":  e.Target.String(),
		"edge_type":  string(e.Type),
		"field_name": e.FieldName,
	}
}

// changedEdgeFields returns an old/new pair for every edge attribute that
// differs, or an empty map when the edges match.
func changedEdgeFields(oldEdge, newEdge *ecs.Edge) map[string]any {
	details := make(map[string]any)
	if oldEdge.Type != newEdge.Type {
		details["edge_type"] = oldNew(string(oldEdge.Type), string(newEdge.Type))
	}
	if oldEdge.FieldName != newEdge.FieldName {
		details["field_name"] = oldNew(oldEdge.FieldName, newEdge.FieldName)
	}
	if !ptrEqual(oldEdge.ContainerIndex, newEdge.ContainerIndex) {
		details["container_index"] = oldNew(deref(oldEdge.ContainerIndex), deref(newEdge.ContainerIndex))
	}
	if !ptrEqual(oldEdge.ContainerKey, newEdge.ContainerKey) {
		details["container_key"] = oldNew(deref(oldEdge.ContainerKey), deref(newEdge.ContainerKey))
	}
	return details
}

func componentChanges(old, new *ecs.Graph) []Change {
	var changes []Change
	for _, id := range new.NodeIDs() {
		oldNode, ok := old.Nodes[id]
		if !ok {
			continue
		}
		newNode := new.Nodes[id]

		for _, name := range componentNames(oldNode, newNode) {
			oldValue, inOld := oldNode.Components[name]
			newValue, inNew := newNode.Components[name]
			switch {
			case !inOld:
				changes = append(changes, Change{
					Kind:      ComponentAdded,
					EntityID:  id,
					Component: name,
					NewValue:  newValue,
					Details:   map[string]any{"value_type": typeName(newValue)},
				})
			case !inNew:
				changes = append(changes, Change{
					Kind:      ComponentRemoved,
					EntityID:  id,
					Component: name,
					OldValue:  oldValue,
					Details:   map[string]any{"value_type": typeName(oldValue)},
				})
			case !reflect.DeepEqual(oldValue, newValue):
				changes = append(changes, Change{
					Kind:      ComponentModified,
					EntityID:  id,
					Component: name,
					OldValue:  oldValue,
					NewValue:  newValue,
					Details: map[string]any{
						"old_type": typeName(oldValue),
						"new_type": typeName(newValue),
					},
				})
			}
		}
	}
	return changes
}

// componentNames returns the union of both entities' component names in
// sorted order.
func componentNames(a, b *ecs.Entity) []string {
	seen := make(map[string]bool, len(a.Components)+len(b.Components))
	for name := range a.Components {
		seen[name] = true
	}
	for name := range b.Components {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func oldNew(oldValue, newValue any) map[string]any {
	return map[string]any{"old": oldValue, "new": newValue}
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
