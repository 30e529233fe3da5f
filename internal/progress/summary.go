package progress

// Summary is the read-only report of one loop execution. It is a plain
// JSON-compatible value: rendering it is the presentation layer's job, and
// persisting it is the only state that outlives the tracker.
type Summary struct {
	LoopName        string             `json:"loop_name"`
	Stabilized      bool               `json:"stabilized"`
	MultiIteration  bool               `json:"multi_iteration"`
	IterationCount  int                `json:"iteration_count"`
	TotalSteps      int                `json:"total_steps"`
	DurationSeconds float64            `json:"duration_seconds"`
	Efficiency      float64            `json:"efficiency"`
	Iterations      []IterationSummary `json:"iterations"`
	Decisions       []Decision         `json:"decisions,omitempty"`
}

// IterationSummary reports one iteration's steps and aggregate counts.
type IterationSummary struct {
	Number          int           `json:"number"`
	CompletedSteps  int           `json:"completed_steps"`
	BlockedSteps    int           `json:"blocked_steps"`
	RevisionSteps   int           `json:"revision_steps"`
	FirstPassSteps  int           `json:"first_pass_steps"`
	DurationSeconds float64       `json:"duration_seconds"`
	Steps           []StepSummary `json:"steps"`
}

// StepSummary reports one step.
type StepSummary struct {
	Name            string   `json:"name"`
	Agent           string   `json:"agent"`
	Status          string   `json:"status"`
	Revision        bool     `json:"revision"`
	DurationSeconds float64  `json:"duration_seconds"`
	Reasons         []string `json:"reasons,omitempty"`
}

// Summary computes the execution report. It is callable at any point,
// including mid-run on partial progress; the efficiency ratio is only
// meaningful once the loop has stabilized.
func (t *Tracker) Summary() Summary {
	sum := Summary{
		LoopName:       t.loopName,
		Stabilized:     t.stabilized,
		MultiIteration: len(t.iterations) > 1,
		IterationCount: len(t.iterations),
		Efficiency:     t.efficiency(),
		Iterations:     make([]IterationSummary, 0, len(t.iterations)),
		Decisions:      t.Decisions(),
	}

	if t.started {
		end := t.endedAt
		if !t.stabilized {
			end = t.now()
		}
		sum.DurationSeconds = clampEnd(t.startedAt, end).Sub(t.startedAt).Seconds()
	}

	for _, it := range t.iterations {
		is := IterationSummary{
			Number:          it.number,
			CompletedSteps:  it.CompletedCount(),
			BlockedSteps:    it.BlockedCount(),
			RevisionSteps:   it.RevisionCount(),
			FirstPassSteps:  it.FirstPassCount(),
			DurationSeconds: it.Duration().Seconds(),
			Steps:           make([]StepSummary, 0, len(it.steps)),
		}
		for _, s := range it.steps {
			ss := StepSummary{
				Name:            s.name,
				Agent:           s.agent,
				Status:          s.status.String(),
				Revision:        s.revision,
				DurationSeconds: s.Duration().Seconds(),
			}
			if len(s.reasons) > 0 {
				ss.Reasons = s.Reasons()
			}
			is.Steps = append(is.Steps, ss)
			sum.TotalSteps++
		}
		sum.Iterations = append(sum.Iterations, is)
	}

	return sum
}

// efficiency is the proportion of step-slots that did not need to be redone:
// completed first-pass steps whose name never reappears on a revision step,
// over all step-slots across all iterations. Matching is by step name; a
// revision with the same name but a different agent still counts as a
// revision of that step. Zero when no steps were recorded.
func (t *Tracker) efficiency() float64 {
	total := 0
	revised := make(map[string]bool)
	for _, it := range t.iterations {
		for _, s := range it.steps {
			total++
			if s.revision {
				revised[s.name] = true
			}
		}
	}
	if total == 0 {
		return 0
	}

	kept := 0
	for _, it := range t.iterations {
		for _, s := range it.steps {
			if !s.revision && s.status == StatusCompleted && !revised[s.name] {
				kept++
			}
		}
	}
	return float64(kept) / float64(total)
}
