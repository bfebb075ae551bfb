package diff

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Mistobaan/Abstractions/ecs"
)

func changedWorld() (*ecs.Graph, *ecs.Graph, []Change) {
	g, root, child := buildGraph()
	before := g.Clone()

	extra := ecs.NewEntity()
	g.AddNode(extra)
	g.AddEdge(&ecs.Edge{Source: root.ID, Target: extra.ID, Type: ecs.Aggregation, FieldName: "gear"})
	g.UpdateComponent(child.ID, "health", map[string]any{"hp": 10})
	g.RemoveComponent(root.ID, "name")

	return before, g, Graphs(before, g)
}

func TestSummaryString(t *testing.T) {
	_, _, changes := changedWorld()
	out := Summarize(changes).String()

	if !strings.HasPrefix(out, "=== ENTITY GRAPH CHANGE SUMMARY ===") {
		t.Errorf("Summary should start with the banner, got %q", out)
	}
	if !strings.Contains(out, "node_added: 1") {
		t.Errorf("Summary should count node additions, got %q", out)
	}
	if !strings.Contains(out, "Total Changes: 4") {
		t.Errorf("Summary should report the total, got %q", out)
	}

	empty := Summarize(nil).String()
	if !strings.Contains(empty, "Total Changes: 0") {
		t.Errorf("Empty summary should report zero changes, got %q", empty)
	}
}

func TestFormatDetails(t *testing.T) {
	_, _, changes := changedWorld()
	out := FormatDetails(changes)

	for _, section := range []string{"=== NODE_ADDED ===", "=== EDGE_ADDED ===", "=== COMPONENT_MODIFIED ===", "=== COMPONENT_REMOVED ==="} {
		if !strings.Contains(out, section) {
			t.Errorf("Detailed report should contain section %q", section)
		}
	}
	if !strings.Contains(out, "Component: health") {
		t.Error("Detailed report should name changed components")
	}
	if !strings.Contains(out, "Old Value: Map[1 items]") {
		t.Errorf("Detailed report should format map payloads by size, got %q", out)
	}
	if !strings.Contains(out, "Entity: ") || !strings.Contains(out, "Edge: ") {
		t.Error("Detailed report should show entity and edge lines")
	}

	// Kind sections appear in alphabetical order.
	if strings.Index(out, "=== COMPONENT_MODIFIED ===") > strings.Index(out, "=== NODE_ADDED ===") {
		t.Error("Sections should be sorted alphabetically by kind")
	}
}

func TestFormatJSON(t *testing.T) {
	_, _, changes := changedWorld()
	raw, err := FormatJSON(changes)
	if err != nil {
		t.Fatalf("FormatJSON failed: %v", err)
	}

	var decoded struct {
		Summary struct {
			Counts map[string]int `json:"counts"`
			Total  int            `json:"total"`
		} `json:"summary"`
		Changes []map[string]any `json:"changes"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("FormatJSON output should be valid JSON: %v", err)
	}
	if decoded.Summary.Total != len(changes) {
		t.Errorf("JSON summary total should be %d, got %d", len(changes), decoded.Summary.Total)
	}
	if len(decoded.Changes) != len(changes) {
		t.Errorf("JSON should carry %d changes, got %d", len(changes), len(decoded.Changes))
	}
	if decoded.Summary.Counts["component_modified"] != 1 {
		t.Errorf("JSON counts should tally kinds, got %v", decoded.Summary.Counts)
	}

	// Empty input still yields a well-formed document.
	raw, err = FormatJSON(nil)
	if err != nil {
		t.Fatalf("FormatJSON(nil) failed: %v", err)
	}
	if !strings.Contains(string(raw), "\"changes\": []") {
		t.Errorf("Empty diff should marshal an empty change list, got %s", raw)
	}
}

func TestMermaid(t *testing.T) {
	before, after, changes := changedWorld()
	out := Mermaid(before, after, changes)

	if !strings.HasPrefix(out, "```mermaid\ngraph TD") {
		t.Errorf("Mermaid output should open a fenced graph block, got %q", out)
	}
	if !strings.HasSuffix(out, "```") {
		t.Error("Mermaid output should close the fence")
	}
	for _, style := range []string{":::addedNode", ":::modifiedNode", ":::unchangedNode"} {
		if !strings.Contains(out, style) {
			t.Errorf("Mermaid output should tag nodes with %s", style)
		}
	}
	if !strings.Contains(out, "-.->|+gear|") {
		t.Error("Added edges should be dashed with a + label")
	}
	if !strings.Contains(out, "-->|parts|") {
		t.Error("Unchanged edges should stay solid")
	}
	// Node identifiers must not contain uuid dashes.
	firstNodeLine := strings.Split(out, "\n")[4]
	if strings.Contains(strings.Fields(firstNodeLine)[0], "-") {
		t.Errorf("Mermaid node ids should be dash-free, got %q", firstNodeLine)
	}

	// Deterministic output across runs.
	if out != Mermaid(before, after, changes) {
		t.Error("Mermaid output should be deterministic")
	}
}
