package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/questfoundry/qf/internal/format"
	"github.com/questfoundry/qf/internal/loop"
)

var loopsCmd = &cobra.Command{
	Use:   "loops",
	Short: "List the available creative loops",
	Long:  `Lists every loop in the catalog, grouped by category.`,
	Args:  cobra.NoArgs,
	RunE:  runLoops,
}

func init() {
	rootCmd.AddCommand(loopsCmd)
}

func runLoops(cmd *cobra.Command, args []string) error {
	fmt.Print(format.Catalog(loop.All()))
	return nil
}
