package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(name string) *Tracker {
	return NewTrackerWithOptions(name, Options{Now: testClock(time.Second)})
}

func TestTracker_StartLoopTwiceFails(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())
	assert.True(t, tr.Started())

	err := tr.StartLoop()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestTracker_StartIterationBeforeStartLoopFails(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	_, err := tr.StartIteration(1)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestTracker_StartStepWithoutIterationFails(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())

	_, err := tr.StartStep("Context Init", "Lore Weaver", false)
	assert.ErrorIs(t, err, ErrNoActiveIteration)
}

func TestTracker_MonotonicIterationNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prior   []int
		next    int
		wantErr bool
	}{
		{name: "first iteration is 1", prior: nil, next: 1, wantErr: false},
		{name: "first iteration cannot be 0", prior: nil, next: 0, wantErr: true},
		{name: "first iteration cannot be 2", prior: nil, next: 2, wantErr: true},
		{name: "second iteration is 2", prior: []int{1}, next: 2, wantErr: false},
		{name: "skipping to 3 rejected", prior: []int{1}, next: 3, wantErr: true},
		{name: "repeating 1 rejected", prior: []int{1}, next: 1, wantErr: true},
		{name: "third iteration is 3", prior: []int{1, 2}, next: 3, wantErr: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := newTestTracker("Story Spark")
			require.NoError(t, tr.StartLoop())
			for _, n := range tt.prior {
				_, err := tr.StartIteration(n)
				require.NoError(t, err)
			}

			_, err := tr.StartIteration(tt.next)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIterationNumber)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTracker_StartIterationClosesPrevious(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())

	first, err := tr.StartIteration(1)
	require.NoError(t, err)

	s, err := tr.StartStep("Draft", "Scene Smith", false)
	require.NoError(t, err)
	require.NoError(t, tr.BlockStep(s, []string{"Quality gate failure"}))

	second, err := tr.StartIteration(2)
	require.NoError(t, err)

	assert.True(t, first.Closed())
	assert.False(t, second.Closed())

	// New steps attach to the open iteration, not the closed one.
	_, err = tr.StartStep("Draft (revised)", "Scene Smith", true)
	require.NoError(t, err)
	assert.Len(t, second.Steps(), 1)
	assert.Len(t, first.Steps(), 1)
}

func TestTracker_StartIterationWithRunningStepFails(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())
	_, err := tr.StartIteration(1)
	require.NoError(t, err)

	_, err = tr.StartStep("Draft", "Scene Smith", false)
	require.NoError(t, err)

	_, err = tr.StartIteration(2)
	assert.ErrorIs(t, err, ErrStepRunning)
}

func TestTracker_DoubleCompleteRejected(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())
	_, err := tr.StartIteration(1)
	require.NoError(t, err)

	s, err := tr.StartStep("Draft", "Scene Smith", false)
	require.NoError(t, err)

	require.NoError(t, tr.CompleteStep(s))
	assert.ErrorIs(t, tr.CompleteStep(s), ErrInvalidStateTransition)
	assert.ErrorIs(t, tr.BlockStep(s, []string{"late"}), ErrInvalidStateTransition)
}

func TestTracker_MarkStabilized(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Hook Harvest")
	require.NoError(t, tr.StartLoop())

	// Before any iteration: NoIterations.
	assert.ErrorIs(t, tr.MarkStabilized(), ErrNoIterations)

	it, err := tr.StartIteration(1)
	require.NoError(t, err)

	s, err := tr.StartStep("Analysis", "Lore Weaver", false)
	require.NoError(t, err)

	// Running step: cannot stabilize yet.
	assert.ErrorIs(t, tr.MarkStabilized(), ErrStepRunning)

	require.NoError(t, tr.CompleteStep(s))
	require.NoError(t, tr.MarkStabilized())

	assert.True(t, tr.Stabilized())
	assert.True(t, it.Closed())

	// Exactly once.
	assert.ErrorIs(t, tr.MarkStabilized(), ErrAlreadyStabilized)

	// No mutations after stabilization.
	_, err = tr.StartIteration(2)
	assert.ErrorIs(t, err, ErrAlreadyStabilized)
	_, err = tr.StartStep("Late", "Lore Weaver", false)
	assert.ErrorIs(t, err, ErrNoActiveIteration)
}

func TestTracker_MarkStabilizedWithBlockedStepFails(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())
	_, err := tr.StartIteration(1)
	require.NoError(t, err)

	s, err := tr.StartStep("Draft", "Scene Smith", false)
	require.NoError(t, err)
	require.NoError(t, tr.BlockStep(s, []string{"Quality gate failure"}))

	assert.ErrorIs(t, tr.MarkStabilized(), ErrIterationBlocked)
	assert.False(t, tr.Stabilized())
}

func TestTracker_DecisionLogOrdering(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())

	tr.RecordDecision("run iteration 1")
	tr.RecordDecision("revise Draft")
	tr.RecordDecision("stabilize")

	decisions := tr.Decisions()
	require.Len(t, decisions, 3)
	assert.Equal(t, "run iteration 1", decisions[0].Text)
	assert.Equal(t, "revise Draft", decisions[1].Text)
	assert.Equal(t, "stabilize", decisions[2].Text)

	for i := 1; i < len(decisions); i++ {
		assert.False(t, decisions[i].RecordedAt.Before(decisions[i-1].RecordedAt),
			"decision %d recorded before decision %d", i, i-1)
	}
}

func TestTracker_SingleActiveIteration(t *testing.T) {
	t.Parallel()

	tr := newTestTracker("Story Spark")
	require.NoError(t, tr.StartLoop())

	for n := 1; n <= 3; n++ {
		_, err := tr.StartIteration(n)
		require.NoError(t, err)

		s, err := tr.StartStep("Draft", "Scene Smith", n > 1)
		require.NoError(t, err)
		require.NoError(t, tr.CompleteStep(s))

		open := 0
		for _, it := range tr.Iterations() {
			if !it.Closed() {
				open++
			}
		}
		assert.Equal(t, 1, open, "after starting iteration %d", n)
	}

	require.NoError(t, tr.MarkStabilized())
	for _, it := range tr.Iterations() {
		assert.True(t, it.Closed())
	}
}
