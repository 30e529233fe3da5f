package progress

import "errors"

// Tracker misuse errors. All of these indicate a bug in the driver, not a
// runtime condition: none are retried or recovered internally, and callers
// should surface them loudly.
var (
	// ErrAlreadyStarted is returned when StartLoop is called twice.
	ErrAlreadyStarted = errors.New("loop already started")

	// ErrNotStarted is returned when an iteration is started before StartLoop.
	ErrNotStarted = errors.New("loop not started")

	// ErrNoActiveIteration is returned when a step is started with no open iteration.
	ErrNoActiveIteration = errors.New("no active iteration")

	// ErrInvalidIterationNumber is returned when an iteration number is not
	// exactly one greater than the previous iteration's number.
	ErrInvalidIterationNumber = errors.New("invalid iteration number")

	// ErrIterationClosed is returned when a closed iteration is mutated.
	ErrIterationClosed = errors.New("iteration already closed")

	// ErrStepRunning is returned when an iteration would be closed while one
	// of its steps has not reached a terminal status.
	ErrStepRunning = errors.New("iteration has running steps")

	// ErrIterationBlocked is returned when MarkStabilized is called while the
	// latest iteration contains blocked steps.
	ErrIterationBlocked = errors.New("iteration has blocked steps")

	// ErrInvalidStateTransition is returned when Complete or Block is applied
	// to a step already in a terminal status.
	ErrInvalidStateTransition = errors.New("invalid step state transition")

	// ErrDuplicateStep is returned when a step name is reused within one
	// iteration. Names must be unique per iteration so that revisions in
	// later iterations match unambiguously.
	ErrDuplicateStep = errors.New("duplicate step name in iteration")

	// ErrNoIterations is returned when MarkStabilized is called before any
	// iteration was started.
	ErrNoIterations = errors.New("no iterations")

	// ErrAlreadyStabilized is returned when the tracker is mutated after
	// stabilization.
	ErrAlreadyStabilized = errors.New("loop already stabilized")
)
