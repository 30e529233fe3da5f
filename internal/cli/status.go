package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/questfoundry/qf/internal/config"
	"github.com/questfoundry/qf/internal/workspace"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show project status",
	Long: `Shows the current project's metadata, configuration and most
recent run.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err := workspace.FindRoot(cwd)
	if err != nil {
		return fmt.Errorf("not inside a QuestFoundry project (run qf init first): %w", err)
	}

	projectFile, err := workspace.FindProjectFile(root)
	if err != nil {
		return err
	}
	project, err := workspace.LoadProject(projectFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	fmt.Println("Project")
	fmt.Println("-------")
	printField("Name", project.Name)
	if project.Description != "" {
		printField("Description", project.Description)
	}
	printField("Version", project.Version)
	printField("Created", project.CreatedAt.Format("2006-01-02 15:04:05"))
	printField("Root", root)
	fmt.Println()

	fmt.Println("Config")
	fmt.Println("------")
	printField("Provider", cfg.Provider)
	printField("Max iterations", fmt.Sprintf("%d", cfg.Limits.MaxIterations))
	if cfg.StorySeed != "" {
		printField("Story seed", cfg.StorySeed)
	}
	fmt.Println()

	runs, err := workspace.NewStore(root).ListRuns()
	if err != nil {
		return err
	}
	fmt.Println("Runs")
	fmt.Println("----")
	if len(runs) == 0 {
		fmt.Println("  No runs recorded.")
		return nil
	}
	printField("Total", fmt.Sprintf("%d", len(runs)))
	last := runs[0]
	printField("Last run", fmt.Sprintf("%s (%s, %d iterations)", last.LoopName, last.Reason, last.Iterations))
	printField("Started", last.StartedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func printField(label, value string) {
	fmt.Printf("  %-16s %s\n", label+":", value)
}
