package history

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Mistobaan/Abstractions/diff"
	"github.com/Mistobaan/Abstractions/ecs"
)

// Manager stores snapshots and the indices that make them navigable:
// commit ids to snapshots, branch names to head commits, root and lineage
// ids to their commit sets, and the latest commit per root. All state is
// in memory; dropping the Manager drops the history.
type Manager struct {
	commits        map[string]*Snapshot
	branches       map[string]string
	rootCommits    map[uuid.UUID]map[string]bool
	heads          map[uuid.UUID]string
	lineageCommits map[uuid.UUID]map[string]bool
	seq            uint64
}

// NewManager creates an empty history.
func NewManager() *Manager {
	return &Manager{
		commits:        make(map[string]*Snapshot),
		branches:       make(map[string]string),
		rootCommits:    make(map[uuid.UUID]map[string]bool),
		heads:          make(map[uuid.UUID]string),
		lineageCommits: make(map[uuid.UUID]map[string]bool),
	}
}

// Commit snapshots the graph and returns the new commit id. The commit is
// recorded unconditionally: identical states produce distinct commits.
// The named branch is moved to the new commit, as is the head for the
// graph's root; an empty branch name means DefaultBranch.
func (m *Manager) Commit(g *ecs.Graph, message string, parents []string, branch string) string {
	if branch == "" {
		branch = DefaultBranch
	}

	snap := newSnapshot(g, parents)
	snap.Message = message

	depth := 0
	for _, parent := range snap.Parents {
		if ps, ok := m.commits[parent]; ok && ps.depth > depth {
			depth = ps.depth
		}
	}
	snap.depth = depth + 1
	m.seq++
	snap.seq = m.seq

	m.commits[snap.CommitID] = snap
	m.branches[branch] = snap.CommitID
	addToSet(m.rootCommits, g.RootID, snap.CommitID)
	m.heads[g.RootID] = snap.CommitID
	addToSet(m.lineageCommits, g.LineageID, snap.CommitID)

	return snap.CommitID
}

// GetCommit returns the snapshot stored under a commit id.
func (m *Manager) GetCommit(commitID string) (*Snapshot, bool) {
	snap, ok := m.commits[commitID]
	return snap, ok
}

// GraphAt returns the graph state at a commit. The returned graph is the
// stored snapshot copy: callers must treat it as read-only.
func (m *Manager) GraphAt(commitID string) (*ecs.Graph, bool) {
	snap, ok := m.commits[commitID]
	if !ok {
		return nil, false
	}
	return snap.Graph, true
}

// CommitsForRoot returns the ids of every commit recorded for a root
// entity, in sorted order.
func (m *Manager) CommitsForRoot(root uuid.UUID) []string {
	return sortedSet(m.rootCommits[root])
}

// CommitsForLineage returns the ids of every commit recorded for a
// lineage, in sorted order.
func (m *Manager) CommitsForLineage(lineage uuid.UUID) []string {
	return sortedSet(m.lineageCommits[lineage])
}

// CreateBranch points a new branch at an existing commit. It reports
// false, changing nothing, when the branch name is already taken or the
// commit is unknown. Existing branches are never overwritten by this
// method; only Commit moves a branch.
func (m *Manager) CreateBranch(name, fromCommit string) bool {
	if _, exists := m.branches[name]; exists {
		return false
	}
	if _, known := m.commits[fromCommit]; !known {
		return false
	}
	m.branches[name] = fromCommit
	return true
}

// BranchHead returns the commit a branch points at.
func (m *Manager) BranchHead(name string) (string, bool) {
	head, ok := m.branches[name]
	return head, ok
}

// Branches returns all branch names in sorted order.
func (m *Manager) Branches() []string {
	names := make([]string, 0, len(m.branches))
	for name := range m.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Head returns the most recent commit recorded for a root entity.
func (m *Manager) Head(root uuid.UUID) (string, bool) {
	head, ok := m.heads[root]
	return head, ok
}

// CommonAncestor finds the deepest commit reachable from both arguments.
// A commit counts as its own ancestor, so the common ancestor of a commit
// and itself is that commit. Ties between equally deep candidates go to
// the most recently recorded one, keeping the result deterministic.
func (m *Manager) CommonAncestor(a, b string) (string, bool) {
	ancestorsA := m.ancestors(a)
	ancestorsB := m.ancestors(b)

	var (
		best      string
		found     bool
		bestDepth int
		bestSeq   uint64
	)
	for id := range ancestorsA {
		if !ancestorsB[id] {
			continue
		}
		depth, seq := 0, uint64(0)
		if snap, ok := m.commits[id]; ok {
			depth, seq = snap.depth, snap.seq
		}
		if !found || depth > bestDepth || (depth == bestDepth && seq > bestSeq) {
			best, found, bestDepth, bestSeq = id, true, depth, seq
		}
	}
	return best, found
}

// ancestors walks parent links and returns every reachable commit id,
// including the starting id itself.
func (m *Manager) ancestors(commitID string) map[string]bool {
	seen := make(map[string]bool)
	stack := []string{commitID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current] {
			continue
		}
		seen[current] = true
		if snap, ok := m.commits[current]; ok {
			stack = append(stack, snap.Parents...)
		}
	}
	return seen
}

// Log returns snapshots sorted newest first. A zero root id selects every
// commit in the history; a positive limit caps the result length.
func (m *Manager) Log(root uuid.UUID, limit int) []*Snapshot {
	var ids []string
	if root == uuid.Nil {
		for id := range m.commits {
			ids = append(ids, id)
		}
	} else {
		ids = m.CommitsForRoot(root)
	}

	snapshots := make([]*Snapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := m.commits[id]; ok {
			snapshots = append(snapshots, snap)
		}
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
		}
		return snapshots[i].seq > snapshots[j].seq
	})

	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots
}

// Diff computes the structural changes between two commits. An unknown
// commit id on either side yields an empty result.
func (m *Manager) Diff(fromCommit, toCommit string) []diff.Change {
	fromGraph, okFrom := m.GraphAt(fromCommit)
	toGraph, okTo := m.GraphAt(toCommit)
	if !okFrom || !okTo {
		return nil
	}
	return diff.Graphs(fromGraph, toGraph)
}

func addToSet(sets map[uuid.UUID]map[string]bool, key uuid.UUID, id string) {
	set, ok := sets[key]
	if !ok {
		set = make(map[string]bool)
		sets[key] = set
	}
	set[id] = true
}

func sortedSet(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
