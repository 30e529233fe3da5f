// Package testutil provides shared fixtures and assertions for summary and
// run-record tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questfoundry/qf/internal/progress"
)

// StabilizedSummary builds a one-iteration stabilized summary with the named
// steps, all completed on the first pass.
func StabilizedSummary(loopName string, steps ...string) progress.Summary {
	stepSummaries := make([]progress.StepSummary, 0, len(steps))
	for _, name := range steps {
		stepSummaries = append(stepSummaries, progress.StepSummary{
			Name:   name,
			Agent:  "showrunner",
			Status: "completed",
		})
	}
	return progress.Summary{
		LoopName:       loopName,
		Stabilized:     true,
		IterationCount: 1,
		TotalSteps:     len(steps),
		Efficiency:     1.0,
		Iterations: []progress.IterationSummary{
			{
				Number:         1,
				CompletedSteps: len(steps),
				FirstPassSteps: len(steps),
				Steps:          stepSummaries,
			},
		},
	}
}

// AssertStabilized asserts that a summary describes a cleanly stabilized run
// with every recorded step completed.
func AssertStabilized(t *testing.T, sum progress.Summary) {
	t.Helper()
	assert.True(t, sum.Stabilized, "summary not stabilized")
	require.NotEmpty(t, sum.Iterations, "summary has no iterations")
	for _, it := range sum.Iterations {
		assert.Zero(t, it.BlockedSteps, "iteration %d has blocked steps", it.Number)
	}
}

// AssertBlocked asserts that a summary ends with a blocked iteration.
func AssertBlocked(t *testing.T, sum progress.Summary) {
	t.Helper()
	assert.False(t, sum.Stabilized, "blocked summary marked stabilized")
	require.NotEmpty(t, sum.Iterations, "summary has no iterations")
	last := sum.Iterations[len(sum.Iterations)-1]
	assert.Positive(t, last.BlockedSteps, "last iteration has no blocked steps")
}
