package scenario

import (
	"strings"
	"testing"

	"github.com/Mistobaan/Abstractions/history"
)

const gameScenario = `
name: game-world
steps:
  - add_entity:
      name: player
      components:
        health: {hp: 100, max_hp: 100}
  - add_entity:
      name: sword
      components:
        damage: {value: 20}
  - add_edge: {from: player, to: sword, type: composition, field: equipment}
  - commit: {message: "Initial game state"}
  - set_component: {entity: player, component: health, value: {hp: 75, max_hp: 100}}
  - branch: {name: before-battle}
  - remove_component: {entity: sword, component: damage}
  - remove_edge: {from: player, to: sword}
  - remove_entity: {name: sword}
  - commit: {message: "After battle"}
`

func TestRunScenario(t *testing.T) {
	s, err := Parse([]byte(gameScenario))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Name != "game-world" {
		t.Errorf("Scenario name should be game-world, got %q", s.Name)
	}

	tracker := history.NewTracker(false)
	result, err := s.Run(tracker)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Initial commit plus the two explicit ones.
	if len(result.Commits) != 3 {
		t.Fatalf("Expected 3 commits, got %d", len(result.Commits))
	}
	log := tracker.HistoryFor(result.Root)
	if len(log) != 3 {
		t.Fatalf("History should hold 3 snapshots, got %d", len(log))
	}
	if log[0].Message != "After battle" {
		t.Errorf("Newest commit should be the last commit step, got %q", log[0].Message)
	}
	if log[2].Message != history.InitialCommitMessage {
		t.Errorf("Oldest commit should be the initial commit, got %q", log[2].Message)
	}

	// The sword was removed from the live graph but survives in history.
	if len(result.Graph.Nodes) != 1 {
		t.Errorf("Live graph should hold only the player, got %d nodes", len(result.Graph.Nodes))
	}
	if _, ok := result.Names["sword"]; ok {
		t.Error("Removed entities should lose their symbolic name")
	}
	middle, _ := tracker.History.GraphAt(result.Commits[1])
	if len(middle.Nodes) != 2 {
		t.Errorf("The middle commit should still hold both entities, got %d", len(middle.Nodes))
	}

	// The branch points at the state before the battle.
	if _, ok := tracker.History.BranchHead("before-battle"); !ok {
		t.Error("The branch step should create the branch")
	}

	// Evolution over the whole history sees the battle's effects.
	changes := tracker.Evolution(result.Root, "", "")
	if len(changes) == 0 {
		t.Fatal("Evolution should report changes between first and last commit")
	}

	player := result.Names["player"]
	health, ok := result.Graph.Component(player, "health")
	if !ok {
		t.Fatal("Player should keep its health component")
	}
	if hp := health.(map[string]any)["hp"]; hp != 75 {
		t.Errorf("Player hp should be updated to 75, got %v", hp)
	}
}

func TestParseRejectsInvalidScenarios(t *testing.T) {
	if _, err := Parse([]byte("name: empty\nsteps: []\n")); err == nil {
		t.Error("Scenarios without steps should be rejected")
	}

	twoActions := `
steps:
  - add_entity: {name: a}
    commit: {message: both}
`
	if _, err := Parse([]byte(twoActions)); err == nil {
		t.Error("Steps with two actions should be rejected")
	}

	if _, err := Parse([]byte("steps:\n  - {}\n")); err == nil {
		t.Error("Steps with no action should be rejected")
	}

	if _, err := Parse([]byte("steps: [")); err == nil {
		t.Error("Malformed YAML should be rejected")
	}
}

func TestRunErrors(t *testing.T) {
	tracker := history.NewTracker(false)

	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown entity",
			yaml:    "steps:\n  - add_entity: {name: a}\n  - set_component: {entity: ghost, component: x, value: 1}\n",
			wantErr: "unknown entity",
		},
		{
			name:    "bad edge type",
			yaml:    "steps:\n  - add_entity: {name: a}\n  - add_entity: {name: b}\n  - add_edge: {from: a, to: b, type: friendship, field: f}\n",
			wantErr: "unknown edge type",
		},
		{
			name:    "duplicate name",
			yaml:    "steps:\n  - add_entity: {name: a}\n  - add_entity: {name: a}\n",
			wantErr: "already in use",
		},
		{
			name:    "commit before entities",
			yaml:    "steps:\n  - commit: {message: too early}\n",
			wantErr: "before any entity",
		},
		{
			name:    "missing component",
			yaml:    "steps:\n  - add_entity: {name: a}\n  - remove_component: {entity: a, component: nope}\n",
			wantErr: "has no component",
		},
	}

	for _, tc := range cases {
		s, err := Parse([]byte(tc.yaml))
		if err != nil {
			t.Errorf("%s: parse should succeed, got %v", tc.name, err)
			continue
		}
		_, err = s.Run(tracker)
		if err == nil {
			t.Errorf("%s: run should fail", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: error should mention %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}
