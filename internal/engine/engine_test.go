package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Event
	}{
		{
			name:  "iteration started",
			input: `{"type":"iteration_started","iteration":2}`,
			want:  Event{Type: EventIterationStarted, Iteration: 2},
		},
		{
			name:  "step started",
			input: `{"type":"step_started","step":"Draft","agent":"Scene Smith","revision":true}`,
			want:  Event{Type: EventStepStarted, Step: "Draft", Agent: "Scene Smith", Revision: true},
		},
		{
			name:  "step blocked with reasons",
			input: `{"type":"step_blocked","step":"Quality Check","agent":"Gatekeeper","reasons":["Quality gate failure"]}`,
			want:  Event{Type: EventStepBlocked, Step: "Quality Check", Agent: "Gatekeeper", Reasons: []string{"Quality gate failure"}},
		},
		{
			name:  "decision",
			input: `{"type":"decision","decision":"revise Draft"}`,
			want:  Event{Type: EventDecision, Decision: "revise Draft"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got Event
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMockEngine_ReplaysScript(t *testing.T) {
	t.Parallel()

	mock := NewMockEngine().Script(StabilizedScript([2]string{"Draft", "Scene Smith"})...)

	var got []Event
	err := mock.RunLoop(context.Background(), Request{Loop: "story-spark", Workspace: "/tmp/ws"}, func(ev Event) error {
		got = append(got, ev)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 5)
	assert.Equal(t, EventLoopStarted, got[0].Type)
	assert.Equal(t, EventIterationStarted, got[1].Type)
	assert.Equal(t, EventStepStarted, got[2].Type)
	assert.Equal(t, EventStepCompleted, got[3].Type)
	assert.Equal(t, EventLoopStabilized, got[4].Type)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "story-spark", calls[0].Loop)
}

func TestMockEngine_HandlerErrorAborts(t *testing.T) {
	t.Parallel()

	mock := NewMockEngine().Script(StabilizedScript([2]string{"Draft", "Scene Smith"})...)
	boom := errors.New("boom")

	seen := 0
	err := mock.RunLoop(context.Background(), Request{}, func(ev Event) error {
		seen++
		if seen == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, seen)
}

func TestMockEngine_FailWith(t *testing.T) {
	t.Parallel()

	engineErr := errors.New("provider unavailable")
	mock := NewMockEngine().FailWith(engineErr)

	err := mock.RunLoop(context.Background(), Request{}, func(Event) error { return nil })
	assert.ErrorIs(t, err, engineErr)
}

func TestMockEngine_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockEngine().Script(StabilizedScript([2]string{"Draft", "Scene Smith"})...)
	err := mock.RunLoop(ctx, Request{}, func(Event) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
