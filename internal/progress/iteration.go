package progress

import (
	"fmt"
	"time"
)

// Iteration groups the steps of one stabilization attempt. Steps are
// append-only and kept in execution order. An iteration is closed when the
// tracker proceeds to the next iteration or the loop stabilizes.
type Iteration struct {
	number    int
	steps     []*Step
	startedAt time.Time
	endedAt   time.Time
	closed    bool
}

func newIteration(number int, now time.Time) (*Iteration, error) {
	if number < 1 {
		return nil, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidIterationNumber, number)
	}
	return &Iteration{number: number, startedAt: now}, nil
}

// Number returns the 1-based iteration number.
func (it *Iteration) Number() int { return it.number }

// Steps returns the iteration's steps in execution order.
func (it *Iteration) Steps() []*Step {
	out := make([]*Step, len(it.steps))
	copy(out, it.steps)
	return out
}

// StartedAt returns the time the iteration started.
func (it *Iteration) StartedAt() time.Time { return it.startedAt }

// EndedAt returns the time the iteration was closed, and whether it has been.
func (it *Iteration) EndedAt() (time.Time, bool) {
	return it.endedAt, it.closed
}

// Closed reports whether the iteration has been closed.
func (it *Iteration) Closed() bool { return it.closed }

// Duration returns the elapsed time between start and close, or zero while
// the iteration is still open.
func (it *Iteration) Duration() time.Duration {
	if !it.closed {
		return 0
	}
	return it.endedAt.Sub(it.startedAt)
}

// CompletedCount returns the number of completed steps.
func (it *Iteration) CompletedCount() int {
	return it.countStatus(StatusCompleted)
}

// BlockedCount returns the number of blocked steps.
func (it *Iteration) BlockedCount() int {
	return it.countStatus(StatusBlocked)
}

// RevisionCount returns the number of revision steps.
func (it *Iteration) RevisionCount() int {
	n := 0
	for _, s := range it.steps {
		if s.revision {
			n++
		}
	}
	return n
}

// FirstPassCount returns the number of first-pass (non-revision) steps.
func (it *Iteration) FirstPassCount() int {
	return len(it.steps) - it.RevisionCount()
}

func (it *Iteration) countStatus(status Status) int {
	n := 0
	for _, s := range it.steps {
		if s.status == status {
			n++
		}
	}
	return n
}

func (it *Iteration) addStep(s *Step) error {
	if it.closed {
		return fmt.Errorf("add step %q to iteration %d: %w", s.name, it.number, ErrIterationClosed)
	}
	for _, existing := range it.steps {
		if existing.name == s.name {
			return fmt.Errorf("%w: %q in iteration %d", ErrDuplicateStep, s.name, it.number)
		}
	}
	it.steps = append(it.steps, s)
	return nil
}

func (it *Iteration) close(now time.Time) error {
	if it.closed {
		return fmt.Errorf("close iteration %d: %w", it.number, ErrIterationClosed)
	}
	if it.hasRunning() {
		return fmt.Errorf("close iteration %d: %w", it.number, ErrStepRunning)
	}
	it.endedAt = clampEnd(it.startedAt, now)
	it.closed = true
	return nil
}

func (it *Iteration) hasRunning() bool {
	for _, s := range it.steps {
		if !s.status.Terminal() {
			return true
		}
	}
	return false
}

func (it *Iteration) hasBlocked() bool {
	for _, s := range it.steps {
		if s.status == StatusBlocked {
			return true
		}
	}
	return false
}
