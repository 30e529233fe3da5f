package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questfoundry/qf/internal/engine"
	"github.com/questfoundry/qf/internal/logging"
	"github.com/questfoundry/qf/internal/progress"
)

// ExitReason indicates why a loop run stopped.
type ExitReason int

const (
	ExitReasonUnknown       ExitReason = iota
	ExitReasonStabilized               // Loop reached its quality bar
	ExitReasonBlocked                  // Last iteration ended with blocked steps
	ExitReasonMaxIterations            // Hit the configured iteration limit
	ExitReasonCanceled                 // Context canceled mid-run
	ExitReasonError                    // Engine failed or misbehaved
)

// String returns a human-readable description of the exit reason.
func (r ExitReason) String() string {
	switch r {
	case ExitReasonStabilized:
		return "stabilized"
	case ExitReasonBlocked:
		return "blocked"
	case ExitReasonMaxIterations:
		return "max iterations"
	case ExitReasonCanceled:
		return "canceled"
	case ExitReasonError:
		return "error"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a loop run. Summary is always populated,
// even on failure, with whatever progress was recorded before the stop.
type Result struct {
	Reason     ExitReason
	Iterations int
	Summary    progress.Summary
	Err        error
}

// errIterationLimit aborts the engine stream from inside the event handler.
var errIterationLimit = errors.New("iteration limit reached")

// Runner executes one loop through the engine and tracks its progress.
type Runner struct {
	eng           engine.Engine
	maxIterations int
	now           func() time.Time
	onEvent       func(engine.Event)
	log           *logging.Logger
}

// Options holds configuration for creating a Runner. Engine is required;
// the rest default sensibly.
type Options struct {
	Engine        engine.Engine
	MaxIterations int                // 0 means no limit
	Now           func() time.Time   // Optional: deterministic timestamps for tests
	OnEvent       func(engine.Event) // Optional: observe each event as it arrives
}

// NewRunner creates a Runner with the given engine and iteration limit.
func NewRunner(eng engine.Engine, maxIterations int) *Runner {
	return NewRunnerWithOptions(Options{Engine: eng, MaxIterations: maxIterations})
}

// NewRunnerWithOptions creates a Runner with explicit options.
func NewRunnerWithOptions(opts Options) *Runner {
	return &Runner{
		eng:           opts.Engine,
		maxIterations: opts.MaxIterations,
		now:           opts.Now,
		onEvent:       opts.OnEvent,
		log:           logging.Default().With("component", "runner"),
	}
}

// Run executes the loop described by def until the engine stream ends or an
// exit condition fires. The returned Result carries the progress summary in
// every case.
func (r *Runner) Run(ctx context.Context, def Definition, req engine.Request) Result {
	req.Loop = def.ID
	tracker := progress.NewTrackerWithOptions(def.Name, progress.Options{Now: r.now})
	if err := tracker.StartLoop(); err != nil {
		return Result{Reason: ExitReasonError, Err: err}
	}

	// Running steps of the current iteration, by name. Step names are
	// unique within an iteration, so completion and blockage events
	// resolve unambiguously.
	running := make(map[string]*progress.Step)

	handle := func(ev engine.Event) error {
		if r.onEvent != nil {
			r.onEvent(ev)
		}
		switch ev.Type {
		case engine.EventLoopStarted:
			r.log.Debug("engine confirmed loop start")
			return nil

		case engine.EventIterationStarted:
			if r.maxIterations > 0 && ev.Iteration > r.maxIterations {
				return errIterationLimit
			}
			if _, err := tracker.StartIteration(ev.Iteration); err != nil {
				return fmt.Errorf("failed to start iteration %d: %w", ev.Iteration, err)
			}
			clear(running)
			return nil

		case engine.EventStepStarted:
			s, err := tracker.StartStep(ev.Step, ev.Agent, ev.Revision)
			if err != nil {
				return fmt.Errorf("failed to start step %q: %w", ev.Step, err)
			}
			running[ev.Step] = s
			return nil

		case engine.EventStepCompleted:
			s, ok := running[ev.Step]
			if !ok {
				return fmt.Errorf("engine completed unknown step %q", ev.Step)
			}
			if err := tracker.CompleteStep(s); err != nil {
				return fmt.Errorf("failed to complete step %q: %w", ev.Step, err)
			}
			delete(running, ev.Step)
			return nil

		case engine.EventStepBlocked:
			s, ok := running[ev.Step]
			if !ok {
				return fmt.Errorf("engine blocked unknown step %q", ev.Step)
			}
			if err := tracker.BlockStep(s, ev.Reasons); err != nil {
				return fmt.Errorf("failed to block step %q: %w", ev.Step, err)
			}
			delete(running, ev.Step)
			return nil

		case engine.EventDecision:
			tracker.RecordDecision(ev.Decision)
			return nil

		case engine.EventLoopStabilized:
			if err := tracker.MarkStabilized(); err != nil {
				return fmt.Errorf("failed to stabilize loop: %w", err)
			}
			return nil

		default:
			// Forward compatibility: unknown event types are skipped so
			// newer engines do not break older clients.
			r.log.Debug("skipping unknown event type", "type", string(ev.Type))
			return nil
		}
	}

	err := r.eng.RunLoop(ctx, req, handle)
	result := Result{
		Iterations: len(tracker.Iterations()),
		Summary:    tracker.Summary(),
	}

	switch {
	case errors.Is(err, errIterationLimit):
		result.Reason = ExitReasonMaxIterations
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result.Reason = ExitReasonCanceled
	case err != nil:
		result.Reason = ExitReasonError
		result.Err = err
	case tracker.Stabilized():
		result.Reason = ExitReasonStabilized
	case lastIterationBlocked(result.Summary):
		result.Reason = ExitReasonBlocked
	default:
		result.Reason = ExitReasonError
		result.Err = errors.New("engine stream ended before stabilization")
	}
	return result
}

func lastIterationBlocked(sum progress.Summary) bool {
	if len(sum.Iterations) == 0 {
		return false
	}
	return sum.Iterations[len(sum.Iterations)-1].BlockedSteps > 0
}
