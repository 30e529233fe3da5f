package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "qf",
	Short: "Iteration-aware runner for QuestFoundry creative loops",
	Long: `qf drives QuestFoundry creative loops and tracks their progress.
Each run iterates until the loop's quality bar is met, recording every
step, revision and orchestrator decision along the way.`,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("qf version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
