package engine

import (
	"context"
	"sync"
)

// MockEngine implements Engine for tests. It replays a scripted event
// sequence and records every request it receives. Exported so command and
// driver tests in other packages can share it.
type MockEngine struct {
	mu sync.Mutex

	events []Event
	err    error

	// runFunc, when set, takes over RunLoop entirely.
	runFunc func(ctx context.Context, req Request, handle Handler) error

	calls []Request
}

// NewMockEngine creates an empty MockEngine.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// Script sets the events replayed by RunLoop, in order.
func (m *MockEngine) Script(events ...Event) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
	return m
}

// FailWith makes RunLoop return err after replaying the scripted events.
func (m *MockEngine) FailWith(err error) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// RunFunc replaces RunLoop's behavior entirely.
func (m *MockEngine) RunFunc(fn func(ctx context.Context, req Request, handle Handler) error) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runFunc = fn
	return m
}

// Calls returns the recorded requests.
func (m *MockEngine) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// RunLoop records the request, replays the script, then returns the
// configured error, if any.
func (m *MockEngine) RunLoop(ctx context.Context, req Request, handle Handler) error {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	events := m.events
	err := m.err
	runFunc := m.runFunc
	m.mu.Unlock()

	if runFunc != nil {
		return runFunc(ctx, req, handle)
	}

	for _, ev := range events {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if handleErr := handle(ev); handleErr != nil {
			return handleErr
		}
	}
	return err
}

// StabilizedScript returns the event sequence of a clean single-iteration
// run of the named steps, for tests that just need a successful loop.
func StabilizedScript(steps ...[2]string) []Event {
	events := []Event{
		{Type: EventLoopStarted},
		{Type: EventIterationStarted, Iteration: 1},
	}
	for _, s := range steps {
		events = append(events,
			Event{Type: EventStepStarted, Step: s[0], Agent: s[1]},
			Event{Type: EventStepCompleted, Step: s[0], Agent: s[1]},
		)
	}
	events = append(events, Event{Type: EventLoopStabilized})
	return events
}
