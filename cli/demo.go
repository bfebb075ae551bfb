package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mistobaan/Abstractions/diff"
	"github.com/Mistobaan/Abstractions/ecs"
	"github.com/Mistobaan/Abstractions/history"
	"github.com/Mistobaan/Abstractions/internal/colors"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted walkthrough of graph tracking and history",
	Long: `Demo builds a small game world, mutates it while a tracker observes,
and walks through the resulting history: commit logs, change reports,
branches, common ancestors and a mermaid diagram of the evolution.`,
	Run: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) {
	fmt.Println(colors.SectionHeader("1. Setting up the tracked world"))
	fmt.Println()

	tracker := history.NewTracker(false)

	player := ecs.NewEntity()
	weapon := ecs.NewEntity()

	world := ecs.NewGraph(player.ID, player.LineageID)
	world.AddObserver(tracker)
	tracker.Register(world)

	fmt.Printf("Created world with root %s\n", colors.Cyan(shortCommit(player.ID.String())))
	fmt.Println("Initial commit recorded.")
	fmt.Println()

	fmt.Println(colors.SectionHeader("2. Real-time change tracking"))
	fmt.Println()

	fmt.Println("Adding entities...")
	world.AddNode(player)
	world.AddNode(weapon)

	fmt.Println("Adding components...")
	world.AddComponent(player.ID, "health", map[string]any{"hp": 100, "max_hp": 100})
	world.AddComponent(player.ID, "position", map[string]any{"x": 0, "y": 0})
	world.AddComponent(weapon.ID, "damage", map[string]any{"value": 20, "type": "sword"})

	fmt.Println("Adding relationships...")
	world.AddEdge(&ecs.Edge{
		Source:    player.ID,
		Target:    weapon.ID,
		Type:      ecs.Composition,
		FieldName: "equipment",
	})

	fmt.Println(colors.InfoText(fmt.Sprintf("Buffered events: %d", tracker.PendingCount(player.ID))))

	commit1, _ := tracker.CommitNow(player.ID, "Initial game state", history.DefaultBranch)
	fmt.Printf("Committed %s\n", colors.Cyan(shortCommit(commit1)))
	fmt.Println()

	fmt.Println(colors.SectionHeader("3. Making additional changes"))
	fmt.Println()

	fmt.Println("Modifying components...")
	world.UpdateComponent(player.ID, "health", map[string]any{"hp": 75, "max_hp": 100})
	world.UpdateComponent(weapon.ID, "damage", map[string]any{"value": 25, "type": "sword"})

	fmt.Println("Adding an armor entity...")
	armor := ecs.NewEntity()
	world.AddNode(armor)
	world.AddComponent(armor.ID, "defense", map[string]any{"value": 15, "type": "leather"})
	world.AddEdge(&ecs.Edge{
		Source:    player.ID,
		Target:    armor.ID,
		Type:      ecs.Composition,
		FieldName: "armor",
	})

	fmt.Println("Removing a component...")
	world.RemoveComponent(weapon.ID, "damage")

	commit2, _ := tracker.CommitNow(player.ID, "Player progression and equipment", history.DefaultBranch)
	fmt.Printf("Committed %s\n", colors.Cyan(shortCommit(commit2)))
	fmt.Println()

	fmt.Println(colors.SectionHeader("4. Commit history"))
	fmt.Println()

	displayLogFull(tracker.HistoryFor(player.ID))
	fmt.Println()

	fmt.Println(colors.SectionHeader("5. Evolution between commits"))
	fmt.Println()

	changes := tracker.Evolution(player.ID, commit1, commit2)
	displayChanges(changes)
	fmt.Println()
	fmt.Print(diff.FormatDetails(changes))
	fmt.Println()

	fmt.Println(colors.SectionHeader("6. Branches and ancestors"))
	fmt.Println()

	if tracker.BranchFromCurrent(player.ID, "development") {
		fmt.Println(colors.SuccessText("Created branch 'development' at the current head"))
	}

	world.UpdateComponent(player.ID, "health", map[string]any{"hp": 90, "max_hp": 100})
	world.AddComponent(player.ID, "experience", map[string]any{"level": 5, "xp": 1250})
	devCommit, _ := tracker.CommitNow(player.ID, "Level up system", "development")
	fmt.Printf("Development commit %s\n", colors.Cyan(shortCommit(devCommit)))

	fmt.Printf("Branches: %v\n", tracker.History.Branches())

	mainHead, _ := tracker.History.BranchHead(history.DefaultBranch)
	devHead, _ := tracker.History.BranchHead("development")

	branchChanges := tracker.History.Diff(mainHead, devHead)
	fmt.Printf("Changes from %s to development: %d\n", history.DefaultBranch, len(branchChanges))
	fmt.Print(diff.Summarize(branchChanges).String())

	if ancestor, ok := tracker.History.CommonAncestor(mainHead, devHead); ok {
		fmt.Printf("Common ancestor: %s\n", colors.Cyan(shortCommit(ancestor)))
	}
	fmt.Println()

	fmt.Println(colors.SectionHeader("7. Visual diff"))
	fmt.Println()

	before, okBefore := tracker.History.GraphAt(commit1)
	after, okAfter := tracker.History.GraphAt(commit2)
	if okBefore && okAfter {
		fmt.Println(diff.Mermaid(before, after, changes))
	}

	fmt.Println(colors.SectionHeader("8. Registry state"))
	fmt.Println()

	status := tracker.Registry().Status()
	fmt.Printf("Registry %q holds %d graph(s)\n", status.Name, status.Total)
	fmt.Print(tracker.Registry().Logs())
}
