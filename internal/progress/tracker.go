package progress

import (
	"fmt"
	"time"
)

// Decision is one timestamped entry in the orchestrator decision log.
type Decision struct {
	Text       string    `json:"text"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Tracker records the execution of one loop: its iterations, their steps,
// the orchestrator's decisions and the final stabilization state. A Tracker
// is owned by a single driver for the duration of one loop run and discarded
// afterwards; only the Summary is meant to outlive it.
type Tracker struct {
	loopName   string
	now        func() time.Time
	started    bool
	startedAt  time.Time
	endedAt    time.Time
	stabilized bool
	iterations []*Iteration
	decisions  []Decision
}

// Options configures a Tracker.
type Options struct {
	// Now supplies timestamps for state transitions. Defaults to time.Now.
	// Tests inject a fixed or stepping clock for deterministic durations.
	Now func() time.Time
}

// NewTracker creates a tracker for one loop execution attempt.
func NewTracker(loopName string) *Tracker {
	return NewTrackerWithOptions(loopName, Options{})
}

// NewTrackerWithOptions creates a tracker with explicit options.
func NewTrackerWithOptions(loopName string, opts Options) *Tracker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Tracker{loopName: loopName, now: now}
}

// LoopName returns the name of the loop being tracked.
func (t *Tracker) LoopName() string { return t.loopName }

// Started reports whether StartLoop has been called.
func (t *Tracker) Started() bool { return t.started }

// Stabilized reports whether the loop reached its terminal success state.
func (t *Tracker) Stabilized() bool { return t.stabilized }

// Iterations returns the iterations recorded so far, in order.
func (t *Tracker) Iterations() []*Iteration {
	out := make([]*Iteration, len(t.iterations))
	copy(out, t.iterations)
	return out
}

// StartLoop records the loop start time. It fails if called twice.
func (t *Tracker) StartLoop() error {
	if t.started {
		return fmt.Errorf("start loop %q: %w", t.loopName, ErrAlreadyStarted)
	}
	t.started = true
	t.startedAt = t.now()
	return nil
}

// StartIteration opens iteration number, which must be exactly one greater
// than the previous iteration's number (1 for the first). If the previous
// iteration is still open it is closed first; that close fails with
// ErrStepRunning if any of its steps has not reached a terminal status.
func (t *Tracker) StartIteration(number int) (*Iteration, error) {
	if !t.started {
		return nil, fmt.Errorf("start iteration %d: %w", number, ErrNotStarted)
	}
	if t.stabilized {
		return nil, fmt.Errorf("start iteration %d: %w", number, ErrAlreadyStabilized)
	}
	want := 1
	if n := len(t.iterations); n > 0 {
		want = t.iterations[n-1].number + 1
	}
	if number != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIterationNumber, number, want)
	}

	now := t.now()
	if cur := t.current(); cur != nil {
		if err := cur.close(now); err != nil {
			return nil, err
		}
	}

	it, err := newIteration(number, now)
	if err != nil {
		return nil, err
	}
	t.iterations = append(t.iterations, it)
	return it, nil
}

// StartStep creates a running step in the currently open iteration. Step
// names must be unique within an iteration.
func (t *Tracker) StartStep(name, agent string, revision bool) (*Step, error) {
	cur := t.current()
	if cur == nil {
		return nil, fmt.Errorf("start step %q: %w", name, ErrNoActiveIteration)
	}
	s := newStep(name, agent, revision, t.now())
	if err := cur.addStep(s); err != nil {
		return nil, err
	}
	return s, nil
}

// CompleteStep marks the step completed. It fails with
// ErrInvalidStateTransition if the step is already terminal.
func (t *Tracker) CompleteStep(s *Step) error {
	return s.complete(t.now())
}

// BlockStep marks the step blocked with the given reasons. Blocking does not
// close the iteration or start a new one: whether to retry is the driver's
// decision, made when it learns why the quality gate failed.
func (t *Tracker) BlockStep(s *Step, reasons []string) error {
	return s.block(t.now(), reasons)
}

// RecordDecision appends a timestamped entry to the orchestrator decision
// log. It always succeeds.
func (t *Tracker) RecordDecision(text string) {
	t.decisions = append(t.decisions, Decision{Text: text, RecordedAt: t.now()})
}

// Decisions returns the decision log in recording order.
func (t *Tracker) Decisions() []Decision {
	out := make([]Decision, len(t.decisions))
	copy(out, t.decisions)
	return out
}

// MarkStabilized closes the current iteration and records the loop's
// terminal success state. It fails if no iteration was started, if the loop
// already stabilized, or if the latest iteration still has running or
// blocked steps.
func (t *Tracker) MarkStabilized() error {
	if t.stabilized {
		return fmt.Errorf("stabilize loop %q: %w", t.loopName, ErrAlreadyStabilized)
	}
	if len(t.iterations) == 0 {
		return fmt.Errorf("stabilize loop %q: %w", t.loopName, ErrNoIterations)
	}
	last := t.iterations[len(t.iterations)-1]
	if last.hasRunning() {
		return fmt.Errorf("stabilize loop %q: %w", t.loopName, ErrStepRunning)
	}
	if last.hasBlocked() {
		return fmt.Errorf("stabilize loop %q: %w", t.loopName, ErrIterationBlocked)
	}

	now := t.now()
	if !last.closed {
		if err := last.close(now); err != nil {
			return err
		}
	}
	t.stabilized = true
	t.endedAt = now
	return nil
}

// current returns the open iteration, or nil if none is open.
func (t *Tracker) current() *Iteration {
	if n := len(t.iterations); n > 0 && !t.iterations[n-1].closed {
		return t.iterations[n-1]
	}
	return nil
}
