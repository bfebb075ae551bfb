package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mistobaan/Abstractions/diff"
	"github.com/Mistobaan/Abstractions/history"
	"github.com/Mistobaan/Abstractions/internal/colors"
)

// displayLogFull prints one block per snapshot, newest first.
func displayLogFull(snapshots []*history.Snapshot) {
	for i, snap := range snapshots {
		fmt.Printf("%s %s\n", colors.Cyan("commit"), colors.Bold(shortCommit(snap.CommitID)))

		relTime := getRelativeTime(snap.Timestamp)
		fmt.Printf("Date:   %s (%s)\n",
			snap.Timestamp.Format("Mon Jan 2 15:04:05 2006"),
			colors.Gray(relTime))

		if len(snap.Parents) > 0 {
			parents := make([]string, 0, len(snap.Parents))
			for _, p := range snap.Parents {
				parents = append(parents, shortCommit(p))
			}
			fmt.Printf("Parent: %s\n", colors.Gray(strings.Join(parents, ", ")))
		}
		if len(snap.Events) > 0 {
			fmt.Printf("Events: %d\n", len(snap.Events))
		}

		fmt.Printf("\n    %s\n", snap.Message)

		if i < len(snapshots)-1 {
			fmt.Println()
		}
	}
}

// displayLogOneline prints one line per snapshot.
func displayLogOneline(snapshots []*history.Snapshot) {
	for _, snap := range snapshots {
		message := snap.Message
		if len(message) > 60 {
			message = message[:57] + "..."
		}
		events := ""
		if len(snap.Events) > 0 {
			events = colors.Gray(fmt.Sprintf(" (%d events)", len(snap.Events)))
		}
		fmt.Printf("%s %s%s\n", colors.Cyan(shortCommit(snap.CommitID)), message, events)
	}
}

// displayChanges prints one colorized line per change, then the count
// banner.
func displayChanges(changes []diff.Change) {
	if len(changes) == 0 {
		fmt.Println("No changes.")
		return
	}
	for _, c := range changes {
		fmt.Println(colors.ColorizeChange(string(c.Kind), changeLine(c)))
	}
	fmt.Println()
	fmt.Print(diff.Summarize(changes).String())
}

// changeLine renders a change as a single line of text.
func changeLine(c diff.Change) string {
	switch c.Kind {
	case diff.NodeAdded, diff.NodeRemoved, diff.NodeModified:
		return fmt.Sprintf("%s entity %s", c.Kind, shortCommit(c.EntityID.String()))
	case diff.EdgeAdded, diff.EdgeRemoved, diff.EdgeModified:
		return fmt.Sprintf("%s %s -> %s", c.Kind,
			shortCommit(c.Edge.Source.String()), shortCommit(c.Edge.Target.String()))
	default:
		return fmt.Sprintf("%s %q on entity %s", c.Kind, c.Component, shortCommit(c.EntityID.String()))
	}
}

func shortCommit(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// getRelativeTime returns a human-readable relative time string
func getRelativeTime(t time.Time) string {
	elapsed := time.Since(t)

	if elapsed < time.Minute {
		return "just now"
	}
	if elapsed < time.Hour {
		mins := int(elapsed.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if elapsed < 24*time.Hour {
		hours := int(elapsed.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(elapsed.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
