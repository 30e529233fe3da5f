package progress

import (
	"fmt"
	"time"
)

// Status is a step's lifecycle state.
type Status int

const (
	// StatusRunning means the step has started and not yet finished.
	StatusRunning Status = iota
	// StatusCompleted means the step finished successfully. Terminal.
	StatusCompleted
	// StatusBlocked means the step hit a blocking condition. Terminal.
	StatusBlocked
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusBlocked
}

// Step records the lifecycle of one atomic execution unit attributed to an
// agent. A step is created in StatusRunning and transitions exactly once to
// StatusCompleted or StatusBlocked via the owning tracker.
type Step struct {
	name      string
	agent     string
	revision  bool
	status    Status
	startedAt time.Time
	endedAt   time.Time
	reasons   []string
}

func newStep(name, agent string, revision bool, now time.Time) *Step {
	return &Step{
		name:      name,
		agent:     agent,
		revision:  revision,
		status:    StatusRunning,
		startedAt: now,
	}
}

// Name returns the step name.
func (s *Step) Name() string { return s.name }

// Agent returns the name of the agent the step is attributed to.
func (s *Step) Agent() string { return s.agent }

// Revision reports whether this step re-executes work from an earlier iteration.
func (s *Step) Revision() bool { return s.revision }

// Status returns the step's current status.
func (s *Step) Status() Status { return s.status }

// StartedAt returns the time the step started.
func (s *Step) StartedAt() time.Time { return s.startedAt }

// EndedAt returns the time the step reached a terminal status, and whether
// it has done so.
func (s *Step) EndedAt() (time.Time, bool) {
	return s.endedAt, s.status.Terminal()
}

// Duration returns the elapsed time between start and end, or zero while the
// step is still running. Duration is defined only once both timestamps exist.
func (s *Step) Duration() time.Duration {
	if !s.status.Terminal() {
		return 0
	}
	return s.endedAt.Sub(s.startedAt)
}

// Reasons returns the blocking reasons recorded when the step was blocked.
// Empty unless the step is blocked.
func (s *Step) Reasons() []string {
	out := make([]string, len(s.reasons))
	copy(out, s.reasons)
	return out
}

// complete transitions the step to StatusCompleted.
func (s *Step) complete(now time.Time) error {
	if s.status.Terminal() {
		return fmt.Errorf("complete step %q: %w: already %s", s.name, ErrInvalidStateTransition, s.status)
	}
	s.status = StatusCompleted
	s.endedAt = clampEnd(s.startedAt, now)
	return nil
}

// block transitions the step to StatusBlocked, recording the reasons.
func (s *Step) block(now time.Time, reasons []string) error {
	if s.status.Terminal() {
		return fmt.Errorf("block step %q: %w: already %s", s.name, ErrInvalidStateTransition, s.status)
	}
	s.status = StatusBlocked
	s.reasons = make([]string, len(reasons))
	copy(s.reasons, reasons)
	s.endedAt = clampEnd(s.startedAt, now)
	return nil
}

// clampEnd keeps end >= start even if the wall clock stepped backwards
// between the two captures.
func clampEnd(start, end time.Time) time.Time {
	if end.Before(start) {
		return start
	}
	return end
}
