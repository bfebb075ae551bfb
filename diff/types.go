// Package diff computes structural differences between two entity graphs
// and renders them for people and tools.
//
// This package provides:
// - Change records with a stable string Kind vocabulary
// - Graphs, the pure three-phase analyzer (nodes, edges, components)
// - Text, JSON and mermaid renderings of a change list
//
// The analyzer never mutates its inputs and emits no events. Output
// ordering is deterministic: phases always run node, edge, component, and
// ids are visited in sorted order within each phase.
package diff

import (
	"github.com/google/uuid"

	"github.com/Mistobaan/Abstractions/ecs"
)

// Kind labels a single structural change. The values mirror the event
// kinds emitted by live graph mutation, so consumers can share dispatch
// vocabulary between the two. NodeModified and EdgeModified exist for
// completeness; the analyzer reports entity changes at component and edge
// granularity instead.
type Kind string

const (
	NodeAdded         Kind = "node_added"
	NodeRemoved       Kind = "node_removed"
	NodeModified      Kind = "node_modified"
	EdgeAdded         Kind = "edge_added"
	EdgeRemoved       Kind = "edge_removed"
	EdgeModified      Kind = "edge_modified"
	ComponentAdded    Kind = "component_added"
	ComponentRemoved  Kind = "component_removed"
	ComponentModified Kind = "component_modified"
)

// Change describes one difference between an old and a new graph. Only
// the fields relevant to the Kind are set: node and component changes
// carry EntityID, edge changes carry Edge, component changes carry
// Component. OldValue is nil for additions and NewValue is nil for
// removals.
type Change struct {
	Kind      Kind           `json:"kind"`
	EntityID  uuid.UUID      `json:"entity_id,omitzero"`
	Edge      *ecs.EdgeKey   `json:"edge,omitempty"`
	Component string         `json:"component,omitempty"`
	OldValue  any            `json:"old_value,omitempty"`
	NewValue  any            `json:"new_value,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Summary aggregates a change list by kind.
type Summary struct {
	Counts map[Kind]int `json:"counts"`
	Total  int          `json:"total"`
}

// Summarize counts the changes in a list by kind.
func Summarize(changes []Change) Summary {
	s := Summary{Counts: make(map[Kind]int), Total: len(changes)}
	for _, c := range changes {
		s.Counts[c.Kind]++
	}
	return s
}
