package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIteration_RejectsNonPositiveNumber(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for _, number := range []int{0, -1} {
		_, err := newIteration(number, now)
		assert.ErrorIs(t, err, ErrInvalidIterationNumber, "number %d", number)
	}

	it, err := newIteration(1, now)
	require.NoError(t, err)
	assert.Equal(t, 1, it.Number())
	assert.False(t, it.Closed())
}

func TestIteration_Counts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	it, err := newIteration(1, now)
	require.NoError(t, err)

	first := newStep("Context Init", "Lore Weaver", false, now)
	require.NoError(t, it.addStep(first))
	require.NoError(t, first.complete(now.Add(time.Second)))

	revised := newStep("Draft (revised)", "Scene Smith", true, now)
	require.NoError(t, it.addStep(revised))
	require.NoError(t, revised.complete(now.Add(2*time.Second)))

	gated := newStep("Quality Check", "Gatekeeper", false, now)
	require.NoError(t, it.addStep(gated))
	require.NoError(t, gated.block(now.Add(3*time.Second), []string{"gate"}))

	assert.Equal(t, 2, it.CompletedCount())
	assert.Equal(t, 1, it.BlockedCount())
	assert.Equal(t, 1, it.RevisionCount())
	assert.Equal(t, 2, it.FirstPassCount())
	assert.Len(t, it.Steps(), 3)
}

func TestIteration_RejectsDuplicateStepName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	it, err := newIteration(1, now)
	require.NoError(t, err)

	require.NoError(t, it.addStep(newStep("Draft", "Scene Smith", false, now)))

	err = it.addStep(newStep("Draft", "Lore Weaver", false, now))
	assert.ErrorIs(t, err, ErrDuplicateStep)
	assert.Len(t, it.Steps(), 1)
}

func TestIteration_Close(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	it, err := newIteration(1, now)
	require.NoError(t, err)

	s := newStep("Draft", "Scene Smith", false, now)
	require.NoError(t, it.addStep(s))

	// Cannot close while a step is still running.
	err = it.close(now.Add(time.Second))
	assert.ErrorIs(t, err, ErrStepRunning)

	require.NoError(t, s.complete(now.Add(time.Second)))
	require.NoError(t, it.close(now.Add(2*time.Second)))

	assert.True(t, it.Closed())
	assert.Equal(t, 2*time.Second, it.Duration())

	// Closing twice fails, and a closed iteration accepts no more steps.
	err = it.close(now.Add(3*time.Second))
	assert.ErrorIs(t, err, ErrIterationClosed)

	err = it.addStep(newStep("Late", "Scene Smith", false, now))
	assert.ErrorIs(t, err, ErrIterationClosed)
}

func TestIteration_StepsReturnsCopy(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	it, err := newIteration(1, now)
	require.NoError(t, err)
	require.NoError(t, it.addStep(newStep("Draft", "Scene Smith", false, now)))

	steps := it.Steps()
	steps[0] = nil
	assert.NotNil(t, it.Steps()[0])
}
