package diff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Mistobaan/Abstractions/ecs"
	"github.com/google/uuid"
)

const maxValueDisplay = 80

// String renders the summary as the standard change banner.
func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteString("=== ENTITY GRAPH CHANGE SUMMARY ===\n\n")
	sb.WriteString("Change Type Counts:\n")

	kinds := make([]string, 0, len(s.Counts))
	for kind := range s.Counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", kind, s.Counts[Kind(kind)]))
	}

	sb.WriteString(fmt.Sprintf("\nTotal Changes: %d\n", s.Total))
	return sb.String()
}

// FormatDetails renders the summary followed by every change, grouped by
// kind in alphabetical order.
func FormatDetails(changes []Change) string {
	var sb strings.Builder
	sb.WriteString(Summarize(changes).String())

	grouped := make(map[Kind][]Change)
	for _, c := range changes {
		grouped[c.Kind] = append(grouped[c.Kind], c)
	}
	kinds := make([]string, 0, len(grouped))
	for kind := range grouped {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		sb.WriteString(fmt.Sprintf("\n=== %s ===\n\n", strings.ToUpper(kind)))
		for _, c := range grouped[Kind(kind)] {
			sb.WriteString(formatChangeDetail(c))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatChangeDetail(c Change) string {
	var lines []string
	if c.EntityID != uuid.Nil {
		lines = append(lines, fmt.Sprintf("Entity: %s...", shortID(c.EntityID)))
	}
	if c.Edge != nil {
		lines = append(lines, fmt.Sprintf("Edge: %s... -> %s...", shortID(c.Edge.Source), shortID(c.Edge.Target)))
	}
	if c.Component != "" {
		lines = append(lines, fmt.Sprintf("Component: %s", c.Component))
	}
	if c.OldValue != nil {
		lines = append(lines, fmt.Sprintf("Old Value: %s", formatValue(c.OldValue)))
	}
	if c.NewValue != nil {
		lines = append(lines, fmt.Sprintf("New Value: %s", formatValue(c.NewValue)))
	}
	if len(c.Details) > 0 {
		lines = append(lines, fmt.Sprintf("Details: %v", c.Details))
	}
	return "  " + strings.Join(lines, "\n  ") + "\n"
}

// formatValue renders a payload compactly: graph records by identity,
// containers by size, everything else verbatim but truncated.
func formatValue(value any) string {
	switch v := value.(type) {
	case *ecs.Entity:
		return fmt.Sprintf("Entity(%s...)", shortID(v.ID))
	case *ecs.Edge:
		return fmt.Sprintf("Edge(%s, %s)", v.Type, v.FieldName)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		return fmt.Sprintf("Map[%d items]", rv.Len())
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("List[%d items]", rv.Len())
	}
	return truncateValue(fmt.Sprintf("%v", value))
}

func truncateValue(s string) string {
	if len(s) <= maxValueDisplay {
		return s
	}
	return s[:maxValueDisplay] + "..."
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// FormatJSON renders the changes with their summary as indented JSON for
// tool consumption.
func FormatJSON(changes []Change) ([]byte, error) {
	if changes == nil {
		changes = []Change{}
	}
	report := struct {
		Summary Summary  `json:"summary"`
		Changes []Change `json:"changes"`
	}{
		Summary: Summarize(changes),
		Changes: changes,
	}
	return json.MarshalIndent(report, "", "  ")
}
