package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questfoundry/qf/internal/progress"
	"github.com/questfoundry/qf/internal/workspace"
)

func TestStatusCommand_NoWorkspace(t *testing.T) {
	chdirTemp(t)

	err := runStatus(statusCmd, nil)
	assert.ErrorContains(t, err, "not inside a QuestFoundry project")
}

func TestStatusCommand_FreshProject(t *testing.T) {
	chdirTemp(t)
	initProject(t, "Emberfall")

	output := captureOutput(func() {
		require.NoError(t, runStatus(statusCmd, nil))
	})

	assert.Contains(t, output, "Name:")
	assert.Contains(t, output, "Emberfall")
	assert.Contains(t, output, "Provider:")
	assert.Contains(t, output, "anthropic")
	assert.Contains(t, output, "No runs recorded")
}

func TestStatusCommand_WithRuns(t *testing.T) {
	tmpDir := chdirTemp(t)
	initProject(t, "Emberfall")

	store := workspace.NewStore(tmpDir)
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(&workspace.RunRecord{
		ID:         workspace.NewRunID(started, "hook-harvest"),
		Loop:       "hook-harvest",
		LoopName:   "Hook Harvest",
		StartedAt:  started,
		Reason:     "stabilized",
		Stabilized: true,
		Iterations: 2,
	}, progress.Summary{}))

	output := captureOutput(func() {
		require.NoError(t, runStatus(statusCmd, nil))
	})

	assert.Contains(t, output, "Hook Harvest (stabilized, 2 iterations)")
	assert.Contains(t, output, "2026-03-14 09:00:00")
}
