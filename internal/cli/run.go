package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/questfoundry/qf/internal/config"
	"github.com/questfoundry/qf/internal/engine"
	"github.com/questfoundry/qf/internal/format"
	"github.com/questfoundry/qf/internal/loop"
	"github.com/questfoundry/qf/internal/workspace"
)

// EnvEngineBinary overrides the engine binary path.
const EnvEngineBinary = "QF_ENGINE"

// EnvSeed supplies a story seed without a flag or seed file.
const EnvSeed = "QUESTFOUNDRY_SEED"

// runEngine is the engine used by the run command. It can be overridden in
// tests.
var runEngine engine.Engine

var runSeed string
var runMaxIterations int

var runCmd = &cobra.Command{
	Use:   "run <loop>",
	Short: "Run a creative loop",
	Long: `Runs the named loop through the QuestFoundry engine, tracking
iterations, steps and revisions until the loop stabilizes or an exit
condition fires. Loops accept the kebab-case id or the display name.

The run summary is printed and persisted under .questfoundry/runs/.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runSeed, "seed", "s", "", "story seed (required by story-spark)")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "override the configured iteration limit")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	def, err := loop.Lookup(args[0])
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err := workspace.FindRoot(cwd)
	if err != nil {
		return fmt.Errorf("not inside a QuestFoundry project (run qf init first): %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	seed, err := resolveSeed(root, cfg)
	if err != nil {
		return err
	}
	if def.RequiresSeed && seed == "" {
		return fmt.Errorf("loop %s requires a story seed (use --seed, %s, or %s)",
			def.ID, EnvSeed, workspace.SeedFile)
	}

	maxIterations := cfg.Limits.MaxIterations
	if runMaxIterations > 0 {
		maxIterations = runMaxIterations
	}

	eng := runEngine
	if eng == nil {
		binary := os.Getenv(EnvEngineBinary)
		if binary == "" {
			binary = engine.DefaultBinary
		}
		eng = engine.NewExecEngine(binary)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now().UTC()
	fmt.Printf("Running %s (%s)...\n", def.Name, def.Abbrev)

	runner := loop.NewRunner(eng, maxIterations)
	result := runner.Run(ctx, def, engine.Request{
		Workspace: root,
		Seed:      seed,
	})

	fmt.Println()
	fmt.Print(format.Summary(result.Summary, def.Abbrev))

	store := workspace.NewStore(root)
	rec := &workspace.RunRecord{
		ID:         workspace.NewRunID(startedAt, def.ID),
		Loop:       def.ID,
		LoopName:   def.Name,
		StartedAt:  startedAt,
		Reason:     result.Reason.String(),
		Stabilized: result.Summary.Stabilized,
		Iterations: result.Iterations,
	}
	if err := store.SaveRun(rec, result.Summary); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("loop %s failed: %w", def.ID, result.Err)
	}
	if result.Reason != loop.ExitReasonStabilized {
		fmt.Printf("\nLoop stopped: %s\n", result.Reason)
	}
	return nil
}

// resolveSeed picks the story seed, in priority order: the --seed flag, the
// QUESTFOUNDRY_SEED environment variable, the story_seed config key, and the
// .questfoundry/seed.txt file.
func resolveSeed(root string, cfg *config.Config) (string, error) {
	if runSeed != "" {
		return runSeed, nil
	}
	if env := os.Getenv(EnvSeed); env != "" {
		return env, nil
	}
	if cfg.StorySeed != "" {
		return cfg.StorySeed, nil
	}
	return workspace.ReadSeed(root)
}
