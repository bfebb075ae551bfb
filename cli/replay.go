package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Mistobaan/Abstractions/diff"
	"github.com/Mistobaan/Abstractions/history"
	"github.com/Mistobaan/Abstractions/internal/colors"
	"github.com/Mistobaan/Abstractions/internal/scenario"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a YAML scenario and show how the graph evolved",
	Long: `Replay runs the mutation steps of a scenario file against a tracked
entity graph, then compares the earliest and latest commits. The default
output is the colorized change list plus a summary; flags select other
renderings of the same history.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Bool("summary", false, "show only the change summary")
	replayCmd.Flags().Bool("details", false, "show the full change report grouped by kind")
	replayCmd.Flags().Bool("json", false, "emit the summary and changes as JSON")
	replayCmd.Flags().Bool("mermaid", false, "emit a mermaid diagram of the changed graph")
	replayCmd.Flags().Bool("log", false, "show the commit log instead of changes")
	replayCmd.Flags().Bool("oneline", false, "compact commit log, one line per commit")
	replayCmd.Flags().Bool("auto-commit", false, "commit automatically as events accumulate")
	replayCmd.Flags().Int("threshold", history.DefaultAutoCommitThreshold, "events per automatic commit")
}

func runReplay(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	// Flags win over config file values, which win over the defaults.
	autoCommit := viper.GetBool("auto_commit")
	if cmd.Flags().Changed("auto-commit") {
		autoCommit, _ = cmd.Flags().GetBool("auto-commit")
	}
	threshold := viper.GetInt("threshold")
	if cmd.Flags().Changed("threshold") {
		threshold, _ = cmd.Flags().GetInt("threshold")
	}

	tracker := history.NewTracker(autoCommit)
	tracker.SetThreshold(threshold)

	result, err := sc.Run(tracker)
	if err != nil {
		return err
	}

	// Steps after the last commit step would otherwise be invisible.
	if tracker.PendingCount(result.Root) > 0 {
		tracker.CommitNow(result.Root, "Final state", history.DefaultBranch)
	}

	if showLog, _ := cmd.Flags().GetBool("log"); showLog {
		snapshots := tracker.HistoryFor(result.Root)
		if oneline, _ := cmd.Flags().GetBool("oneline"); oneline {
			displayLogOneline(snapshots)
		} else {
			displayLogFull(snapshots)
		}
		return nil
	}

	changes := tracker.Evolution(result.Root, "", "")
	if changes == nil {
		fmt.Printf("Scenario %q needs at least two commits before it has an evolution to show.\n", sc.Name)
		return nil
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	asMermaid, _ := cmd.Flags().GetBool("mermaid")
	summaryOnly, _ := cmd.Flags().GetBool("summary")
	detailed, _ := cmd.Flags().GetBool("details")

	switch {
	case asJSON:
		out, err := diff.FormatJSON(changes)
		if err != nil {
			return fmt.Errorf("failed to encode changes: %w", err)
		}
		fmt.Println(string(out))
	case asMermaid:
		snapshots := tracker.HistoryFor(result.Root)
		newest := snapshots[0].Graph
		oldest := snapshots[len(snapshots)-1].Graph
		fmt.Println(diff.Mermaid(oldest, newest, changes))
	case summaryOnly:
		fmt.Print(diff.Summarize(changes).String())
	case detailed:
		fmt.Print(diff.FormatDetails(changes))
	default:
		fmt.Println(colors.SectionHeader(fmt.Sprintf("Scenario: %s", sc.Name)))
		fmt.Println()
		displayChanges(changes)
	}
	return nil
}
