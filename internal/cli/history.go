package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questfoundry/qf/internal/format"
	"github.com/questfoundry/qf/internal/loop"
	"github.com/questfoundry/qf/internal/workspace"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past loop runs",
	Long: `Without arguments, lists all recorded runs, newest first. With a
run id, re-renders the stored summary for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err := workspace.FindRoot(cwd)
	if err != nil {
		return fmt.Errorf("not inside a QuestFoundry project (run qf init first): %w", err)
	}
	store := workspace.NewStore(root)

	if len(args) == 1 {
		return showRun(store, args[0])
	}
	return listRuns(store)
}

func listRuns(store *workspace.Store) error {
	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	idWidth := len("RUN ID")
	loopWidth := len("LOOP")
	for _, r := range runs {
		if len(r.ID) > idWidth {
			idWidth = len(r.ID)
		}
		if len(r.Loop) > loopWidth {
			loopWidth = len(r.Loop)
		}
	}

	fmt.Printf("%-*s  %-*s  %-10s  %s\n", idWidth, "RUN ID", loopWidth, "LOOP", "ITERATIONS", "RESULT")
	fmt.Printf("%s  %s  %s  %s\n",
		strings.Repeat("-", idWidth), strings.Repeat("-", loopWidth),
		strings.Repeat("-", 10), strings.Repeat("-", 6))
	for _, r := range runs {
		fmt.Printf("%-*s  %-*s  %-10d  %s\n", idWidth, r.ID, loopWidth, r.Loop, r.Iterations, r.Reason)
	}
	return nil
}

func showRun(store *workspace.Store, id string) error {
	rec, err := store.LoadRun(id)
	if err != nil {
		return err
	}
	sum, err := store.LoadSummary(id)
	if err != nil {
		return err
	}

	abbrev := ""
	if def, err := loop.Lookup(rec.Loop); err == nil {
		abbrev = def.Abbrev
	}
	fmt.Print(format.Summary(sum, abbrev))
	return nil
}
