package ecs

import (
	"fmt"

	"github.com/google/uuid"
)

// EdgeType classifies the relationship an edge represents.
type EdgeType string

const (
	Association EdgeType = "association"
	Aggregation EdgeType = "aggregation"
	Composition EdgeType = "composition"
	ListItem    EdgeType = "list_item"
	DictValue   EdgeType = "dict_value"
	SetMember   EdgeType = "set_member"
	TupleItem   EdgeType = "tuple_item"
)

// ParseEdgeType converts a textual edge type into an EdgeType.
func ParseEdgeType(s string) (EdgeType, error) {
	switch EdgeType(s) {
	case Association, Aggregation, Composition, ListItem, DictValue, SetMember, TupleItem:
		return EdgeType(s), nil
	}
	return "", fmt.Errorf("unknown edge type %q", s)
}

// EdgeKey identifies an edge by its endpoints. A graph holds at most one
// edge per (source, target) pair.
type EdgeKey struct {
	Source uuid.UUID
	Target uuid.UUID
}

func (k EdgeKey) String() string {
	return k.Source.String() + "->" + k.Target.String()
}

// Edge is a directed, typed relationship between two entities. The
// container fields locate the target inside an ordered or keyed container
// on the source's field and are nil when they do not apply.
type Edge struct {
	Source         uuid.UUID
	Target         uuid.UUID
	Type           EdgeType
	FieldName      string  // source field the relationship hangs off
	ContainerIndex *int    // position for list_item/tuple_item edges
	ContainerKey   *string // key for dict_value edges
}

// Key returns the map key for the edge.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}

// Clone returns a copy of the edge with its own container pointers.
func (e *Edge) Clone() *Edge {
	c := *e
	if e.ContainerIndex != nil {
		idx := *e.ContainerIndex
		c.ContainerIndex = &idx
	}
	if e.ContainerKey != nil {
		key := *e.ContainerKey
		c.ContainerKey = &key
	}
	return &c
}
