package history

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/Mistobaan/Abstractions/diff"
	"github.com/Mistobaan/Abstractions/ecs"
)

func newWorld() (*ecs.Graph, *ecs.Entity) {
	root := ecs.NewEntity()
	g := ecs.NewGraph(root.ID, root.LineageID)
	g.AddNode(root)
	return g, root
}

func TestCommitAndLog(t *testing.T) {
	m := NewManager()
	g, root := newWorld()

	first := m.Commit(g, "first", nil, "")
	g.AddComponent(root.ID, "a", 1)
	second := m.Commit(g, "second", []string{first}, "")
	g.AddComponent(root.ID, "b", 2)
	third := m.Commit(g, "third", []string{second}, "")

	log := m.Log(root.ID, 0)
	if len(log) != 3 {
		t.Fatalf("Expected 3 commits in the log, got %d", len(log))
	}
	// Newest first.
	wantOrder := []string{third, second, first}
	for i, snap := range log {
		if snap.CommitID != wantOrder[i] {
			t.Errorf("Log position %d should be %s, got %s", i, wantOrder[i], snap.CommitID)
		}
	}

	if limited := m.Log(root.ID, 2); len(limited) != 2 || limited[0].CommitID != third {
		t.Error("Log limit should cap the result at the newest commits")
	}
	if all := m.Log(uuid.Nil, 0); len(all) != 3 {
		t.Errorf("Zero root should select all commits, got %d", len(all))
	}

	if head, _ := m.Head(root.ID); head != third {
		t.Errorf("Head should follow the latest commit, got %s", head)
	}
	if ids := m.CommitsForRoot(root.ID); len(ids) != 3 {
		t.Errorf("Expected 3 commits for root, got %d", len(ids))
	}
	if ids := m.CommitsForLineage(g.LineageID); len(ids) != 3 {
		t.Errorf("Expected 3 commits for lineage, got %d", len(ids))
	}
}

func TestSnapshotIsIsolatedFromLiveGraph(t *testing.T) {
	m := NewManager()
	g, root := newWorld()
	g.AddComponent(root.ID, "name", "before")

	commitID := m.Commit(g, "snapshot", nil, "")

	// Mutate the live graph after committing.
	g.UpdateComponent(root.ID, "name", "after")
	extra := ecs.NewEntity()
	g.AddNode(extra)

	stored, ok := m.GraphAt(commitID)
	if !ok {
		t.Fatal("GraphAt should find the committed state")
	}
	if value, _ := stored.Component(root.ID, "name"); value != "before" {
		t.Errorf("Snapshot should keep the committed payload, got %v", value)
	}
	if _, present := stored.Node(extra.ID); present {
		t.Error("Snapshot should not see nodes added after the commit")
	}

	if _, ok := m.GraphAt("no-such-commit"); ok {
		t.Error("GraphAt should report false for unknown commits")
	}
	if _, ok := m.GetCommit("no-such-commit"); ok {
		t.Error("GetCommit should report false for unknown commits")
	}
}

func TestBranches(t *testing.T) {
	m := NewManager()
	g, root := newWorld()

	first := m.Commit(g, "base", nil, "")
	if head, _ := m.BranchHead(DefaultBranch); head != first {
		t.Error("Committing without a branch name should move the default branch")
	}

	if !m.CreateBranch("feature", first) {
		t.Fatal("CreateBranch should succeed for a fresh name and known commit")
	}
	if m.CreateBranch("feature", first) {
		t.Error("CreateBranch should refuse an existing branch name")
	}
	if m.CreateBranch("other", "unknown-commit") {
		t.Error("CreateBranch should refuse an unknown commit")
	}

	// Advancing main must not move feature.
	g.AddComponent(root.ID, "x", 1)
	second := m.Commit(g, "advance", []string{first}, DefaultBranch)
	if head, _ := m.BranchHead("feature"); head != first {
		t.Error("Other branches should stay put when main advances")
	}
	if head, _ := m.BranchHead(DefaultBranch); head != second {
		t.Error("The committed branch should follow the new commit")
	}

	// Committing onto the named branch moves it.
	g.AddComponent(root.ID, "y", 2)
	featureHead := m.Commit(g, "feature work", []string{first}, "feature")
	if head, _ := m.BranchHead("feature"); head != featureHead {
		t.Error("Committing on a branch should move that branch head")
	}

	if !reflect.DeepEqual(m.Branches(), []string{"feature", DefaultBranch}) {
		t.Errorf("Branches should list names sorted, got %v", m.Branches())
	}
	if _, ok := m.BranchHead("missing"); ok {
		t.Error("BranchHead should report false for unknown branches")
	}
}

func TestCommonAncestor(t *testing.T) {
	m := NewManager()
	g, root := newWorld()

	base := m.Commit(g, "base", nil, "")
	g.AddComponent(root.ID, "a", 1)
	mainOne := m.Commit(g, "main 1", []string{base}, "")
	g.UpdateComponent(root.ID, "a", 2)
	mainTwo := m.Commit(g, "main 2", []string{mainOne}, "")

	g.UpdateComponent(root.ID, "a", 3)
	feature := m.Commit(g, "feature", []string{mainOne}, "feature")

	// The nearest shared commit wins, not an arbitrary one.
	if ancestor, ok := m.CommonAncestor(mainTwo, feature); !ok || ancestor != mainOne {
		t.Errorf("Common ancestor should be the nearest shared commit %s, got %s", mainOne, ancestor)
	}

	// A commit is its own ancestor.
	if ancestor, ok := m.CommonAncestor(mainTwo, mainTwo); !ok || ancestor != mainTwo {
		t.Error("A commit should be its own common ancestor")
	}

	// An ancestor-descendant pair resolves to the ancestor.
	if ancestor, ok := m.CommonAncestor(base, mainTwo); !ok || ancestor != base {
		t.Error("The older commit of a linear pair should be the ancestor")
	}

	// Histories with no shared commits have no ancestor.
	other, _ := newWorld()
	lone := m.Commit(other, "unrelated", nil, "other")
	if _, ok := m.CommonAncestor(mainTwo, lone); ok {
		t.Error("Unrelated commits should have no common ancestor")
	}
}

func TestManagerDiff(t *testing.T) {
	m := NewManager()
	g, root := newWorld()

	first := m.Commit(g, "empty", nil, "")
	g.AddComponent(root.ID, "health", map[string]any{"hp": 100})
	child := ecs.NewEntity()
	g.AddNode(child)
	g.AddEdge(&ecs.Edge{Source: root.ID, Target: child.ID, Type: ecs.Composition, FieldName: "parts"})
	second := m.Commit(g, "populated", []string{first}, "")

	changes := m.Diff(first, second)
	kinds := make([]diff.Kind, 0, len(changes))
	for _, c := range changes {
		kinds = append(kinds, c.Kind)
	}
	want := []diff.Kind{diff.NodeAdded, diff.EdgeAdded, diff.ComponentAdded}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("Expected %v, got %v", want, kinds)
	}

	if changes := m.Diff(first, "unknown"); len(changes) != 0 {
		t.Error("Diff against an unknown commit should be empty")
	}
	if changes := m.Diff(second, second); len(changes) != 0 {
		t.Error("Diff of a commit against itself should be empty")
	}

	// Reversed endpoints invert the perspective.
	reversed := m.Diff(second, first)
	if len(reversed) != 3 || reversed[0].Kind != diff.NodeRemoved {
		t.Errorf("Reversed diff should report removals, got %v", reversed)
	}
}
