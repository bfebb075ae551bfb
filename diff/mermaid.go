package diff

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Mistobaan/Abstractions/ecs"
)

// Mermaid renders the transition between two graphs as a fenced mermaid
// flowchart. Nodes are styled added, removed, modified or unchanged;
// unchanged edges are solid while added and removed edges are dashed and
// labelled with a +/- prefix. Node identifiers are emitted as bare hex so
// the output survives mermaid's tokenizer; labels keep the short id.
func Mermaid(old, new *ecs.Graph, changes []Change) string {
	lines := []string{
		"```mermaid",
		"graph TD",
		"  %% Entity Graph Change Visualization",
		"",
	}

	modified := make(map[uuid.UUID]bool)
	for _, c := range changes {
		if c.Kind == ComponentModified {
			modified[c.EntityID] = true
		}
	}

	for _, id := range unionNodeIDs(old, new) {
		_, inOld := old.Nodes[id]
		_, inNew := new.Nodes[id]

		var style string
		switch {
		case inOld && inNew:
			style = "unchangedNode"
			if modified[id] {
				style = "modifiedNode"
			}
		case inNew:
			style = "addedNode"
		default:
			style = "removedNode"
		}
		lines = append(lines, fmt.Sprintf("  %s[\"Entity\\n%s\"]:::%s", mermaidID(id), shortID(id), style))
	}

	lines = append(lines, "")

	for _, key := range unionEdgeKeys(old, new) {
		src, tgt := mermaidID(key.Source), mermaidID(key.Target)
		oldEdge, inOld := old.Edges[key]
		newEdge, inNew := new.Edges[key]
		switch {
		case inOld && inNew:
			lines = append(lines, fmt.Sprintf("  %s -->|%s| %s", src, newEdge.FieldName, tgt))
		case inNew:
			lines = append(lines, fmt.Sprintf("  %s -.->|+%s| %s", src, newEdge.FieldName, tgt))
		default:
			lines = append(lines, fmt.Sprintf("  %s -.->|-%s| %s", src, oldEdge.FieldName, tgt))
		}
	}

	lines = append(lines,
		"",
		"  classDef addedNode fill:#90EE90,stroke:#228B22,stroke-width:2px",
		"  classDef removedNode fill:#FFB6C1,stroke:#DC143C,stroke-width:2px",
		"  classDef modifiedNode fill:#FFD700,stroke:#FFA500,stroke-width:2px",
		"  classDef unchangedNode fill:#E6E6FA,stroke:#9370DB,stroke-width:1px",
		"```",
	)

	return strings.Join(lines, "\n")
}

func mermaidID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

func unionNodeIDs(old, new *ecs.Graph) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(old.Nodes)+len(new.Nodes))
	for id := range old.Nodes {
		seen[id] = true
	}
	for id := range new.Nodes {
		seen[id] = true
	}
	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func unionEdgeKeys(old, new *ecs.Graph) []ecs.EdgeKey {
	seen := make(map[ecs.EdgeKey]bool, len(old.Edges)+len(new.Edges))
	for key := range old.Edges {
		seen[key] = true
	}
	for key := range new.Edges {
		seen[key] = true
	}
	keys := make([]ecs.EdgeKey, 0, len(seen))
	for key := range seen {
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
