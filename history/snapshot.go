// Package history implements git-like version tracking for entity graphs.
//
// This package provides:
// - Snapshot, an immutable copy of a graph taken at commit time
// - Manager, the in-memory commit and branch store with ancestor
//   resolution, commit logs and snapshot diffing
// - Tracker, an observer that buffers mutation events per graph and turns
//   them into commits, automatically or on demand
//
// Commit identifiers are random UUID strings: two commits of identical
// graph states are distinct commits, and nothing is deduplicated.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/Mistobaan/Abstractions/ecs"
)

const (
	// DefaultBranch receives commits when no branch is named.
	DefaultBranch = "main"

	// InitialCommitMessage is used for the commit created when a graph is
	// first registered with a Tracker.
	InitialCommitMessage = "Initial commit"

	// DefaultAutoCommitThreshold is the number of buffered events that
	// triggers an automatic commit.
	DefaultAutoCommitThreshold = 10
)

// Snapshot is one commit: a deep copy of a graph plus the metadata tying
// it into the commit graph. Snapshots are immutable once stored; the
// Events list is filled by the Tracker with the mutations that led from
// the parent commit to this one.
type Snapshot struct {
	CommitID  string
	Graph     *ecs.Graph
	Parents   []string // zero or one entry for linear history, more after merges
	Timestamp time.Time
	Message   string
	Events    []ecs.Event

	depth int    // longest parent chain below this commit
	seq   uint64 // commit admission order, breaks timestamp ties
}

func newSnapshot(g *ecs.Graph, parents []string) *Snapshot {
	return &Snapshot{
		CommitID:  uuid.NewString(),
		Graph:     g.Clone(),
		Parents:   append([]string(nil), parents...),
		Timestamp: time.Now().UTC(),
	}
}
