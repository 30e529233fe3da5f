// Package engine defines the boundary to the external QuestFoundry
// execution engine, which owns role invocation, provider management and
// artifact persistence. The CLI never reimplements any of that: it sends a
// loop request and consumes the engine's event stream.
package engine

import "context"

// EventType identifies an engine event.
type EventType string

// Event types emitted by the engine, in the order a run produces them.
const (
	EventLoopStarted      EventType = "loop_started"
	EventIterationStarted EventType = "iteration_started"
	EventStepStarted      EventType = "step_started"
	EventStepCompleted    EventType = "step_completed"
	EventStepBlocked      EventType = "step_blocked"
	EventDecision         EventType = "decision"
	EventLoopStabilized   EventType = "loop_stabilized"
)

// Event is one JSON-line event from the engine's stream. Fields beyond Type
// are populated per event type: iteration number for iteration_started, step
// name/agent/revision for the step events, reasons for step_blocked, and
// decision text for decision events.
type Event struct {
	Type      EventType `json:"type"`
	Iteration int       `json:"iteration,omitempty"`
	Step      string    `json:"step,omitempty"`
	Agent     string    `json:"agent,omitempty"`
	Revision  bool      `json:"revision,omitempty"`
	Reasons   []string  `json:"reasons,omitempty"`
	Decision  string    `json:"decision,omitempty"`
}

// Request describes one loop execution.
type Request struct {
	// Loop is the kebab-case loop identifier, e.g. "story-spark".
	Loop string
	// Workspace is the project root containing the .questfoundry directory.
	Workspace string
	// Seed is the optional story seed, required by the story-spark loop.
	Seed string
}

// Handler receives engine events in stream order. Returning an error aborts
// the run; the error is propagated out of RunLoop.
type Handler func(Event) error

// Engine runs loops and streams their events. Implementations must invoke
// the handler synchronously from a single goroutine: the downstream progress
// tracker is not safe for concurrent use.
type Engine interface {
	RunLoop(ctx context.Context, req Request, handle Handler) error
}
