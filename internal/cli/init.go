package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/questfoundry/qf/internal/config"
	"github.com/questfoundry/qf/internal/workspace"
)

var initDescription string
var initVersion string

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize a QuestFoundry project",
	Long: `Creates the project file and the .questfoundry/ workspace in the
current directory.

This command sets up:
  - <name>.qfproj with project metadata
  - .questfoundry/config.yaml with default limits
  - .questfoundry/runs/ for persisted run records`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "", "project description")
	initCmd.Flags().StringVar(&initVersion, "project-version", "0.1.0", "initial project version")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	if _, err := workspace.FindProjectFile(cwd); err == nil {
		return fmt.Errorf("a project already exists in this directory")
	}

	project := &workspace.Project{
		Name:        args[0],
		Description: initDescription,
		Version:     initVersion,
		CreatedAt:   time.Now().UTC(),
	}
	if err := project.Validate(); err != nil {
		return err
	}

	store := workspace.NewStore(cwd)
	if err := store.Init(); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if err := config.Save(cwd, &cfg); err != nil {
		return err
	}

	path, err := workspace.SaveProject(cwd, project)
	if err != nil {
		return err
	}

	fmt.Printf("Initialized project %q\n", project.Name)
	fmt.Printf("  %s\n", path)
	fmt.Printf("  %s/\n", workspace.Dir)
	fmt.Println("\nNext: qf run story-spark --seed \"your story idea\"")
	return nil
}
