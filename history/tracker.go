package history

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Mistobaan/Abstractions/diff"
	"github.com/Mistobaan/Abstractions/ecs"
)

// Tracker observes live graphs and maintains their history. Events are
// buffered per root id until a commit attaches them to a snapshot. With
// auto-commit enabled the tracker commits on its own whenever a root's
// buffer reaches the threshold.
//
// Register the tracker with each graph it should follow:
//
//	tracker := history.NewTracker(true)
//	graph.AddObserver(tracker)
//	tracker.Register(graph)
type Tracker struct {
	// History is the commit store the tracker writes into. It is exported
	// so callers can query branches, logs and ancestors directly.
	History *Manager

	autoCommit bool
	threshold  int
	pending    map[uuid.UUID][]ecs.Event
	graphs     *ecs.Registry[uuid.UUID, *ecs.Graph]
}

// NewTracker creates a tracker with a fresh history. With autoCommit set,
// buffered events are committed automatically once they reach the
// threshold (DefaultAutoCommitThreshold unless changed via SetThreshold).
func NewTracker(autoCommit bool) *Tracker {
	return &Tracker{
		History:    NewManager(),
		autoCommit: autoCommit,
		threshold:  DefaultAutoCommitThreshold,
		pending:    make(map[uuid.UUID][]ecs.Event),
		graphs:     ecs.NewRegistry[uuid.UUID, *ecs.Graph]("graphs"),
	}
}

// SetThreshold changes the auto-commit threshold. Values below one are
// ignored.
func (t *Tracker) SetThreshold(n int) {
	if n > 0 {
		t.threshold = n
	}
}

// Notify buffers a graph event under the event's root id. When
// auto-commit is on and the buffer reaches the threshold, the root's
// current state is committed with a generated message and the buffer is
// cleared. Events without a root id are dropped.
func (t *Tracker) Notify(ev ecs.Event) {
	root := ev.Root()
	if root == uuid.Nil {
		return
	}
	t.pending[root] = append(t.pending[root], ev)

	if t.autoCommit && len(t.pending[root]) >= t.threshold {
		n := len(t.pending[root])
		log.Debug("auto-commit threshold reached", "root", root, "events", n)
		t.CommitNow(root, fmt.Sprintf("Auto-commit: %d changes", n), DefaultBranch)
	}
}

// Register records a graph as the live state for its root id. The first
// registration of a root creates its initial commit; re-registering
// replaces the tracked graph without committing.
func (t *Tracker) Register(g *ecs.Graph) {
	t.graphs.Put(g.RootID, g)
	if len(t.History.CommitsForRoot(g.RootID)) == 0 {
		t.CommitNow(g.RootID, InitialCommitMessage, DefaultBranch)
	}
}

// Live returns the graph currently registered for a root.
func (t *Tracker) Live(root uuid.UUID) (*ecs.Graph, bool) {
	return t.graphs.Get(root)
}

// Registry exposes the live-graph registry, mainly for its captured logs
// and status report.
func (t *Tracker) Registry() *ecs.Registry[uuid.UUID, *ecs.Graph] {
	return t.graphs
}

// CommitNow commits the current state of a root's graph. The commit's
// parent is the root's current head, if any, and the events buffered for
// the root are attached to the snapshot and cleared. It reports false
// when no graph is registered for the root.
func (t *Tracker) CommitNow(root uuid.UUID, message, branch string) (string, bool) {
	g, ok := t.graphs.Get(root)
	if !ok {
		return "", false
	}

	var parents []string
	if head, hasHead := t.History.Head(root); hasHead {
		parents = []string{head}
	}

	commitID := t.History.Commit(g, message, parents, branch)
	if snap, stored := t.History.GetCommit(commitID); stored {
		snap.Events = append(snap.Events, t.pending[root]...)
		delete(t.pending, root)
	}
	return commitID, true
}

// PendingCount returns how many events are buffered for a root.
func (t *Tracker) PendingCount(root uuid.UUID) int {
	return len(t.pending[root])
}

// HistoryFor returns the root's commit log, newest first.
func (t *Tracker) HistoryFor(root uuid.UUID) []*Snapshot {
	return t.History.Log(root, 0)
}

// Evolution diffs two points of a root's history. Empty commit ids pick
// defaults: the earliest commit as the starting point and the current
// head as the end. Roots with fewer than two commits have no evolution to
// report.
func (t *Tracker) Evolution(root uuid.UUID, fromCommit, toCommit string) []diff.Change {
	if len(t.History.CommitsForRoot(root)) < 2 {
		return nil
	}

	if fromCommit == "" {
		snapshots := t.History.Log(root, 0)
		if len(snapshots) > 0 {
			fromCommit = snapshots[len(snapshots)-1].CommitID
		}
	}
	if toCommit == "" {
		toCommit, _ = t.History.Head(root)
	}
	if fromCommit == "" || toCommit == "" {
		return nil
	}
	return t.History.Diff(fromCommit, toCommit)
}

// BranchFromCurrent creates a branch at the root's current head. It
// reports false when the root has no commits yet or the branch name is
// taken.
func (t *Tracker) BranchFromCurrent(root uuid.UUID, name string) bool {
	head, ok := t.History.Head(root)
	if !ok {
		return false
	}
	return t.History.CreateBranch(name, head)
}
