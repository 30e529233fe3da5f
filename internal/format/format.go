// Package format renders progress summaries and catalog listings for the
// terminal. It consumes plain summary values and produces styled strings; it
// never reaches back into the tracker or the engine.
package format

import (
	"fmt"
	"strings"

	"github.com/questfoundry/qf/internal/loop"
	"github.com/questfoundry/qf/internal/progress"
)

// Duration formats a duration in seconds as "2m 34s", or "45s" under a
// minute.
func Duration(seconds float64) string {
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// Summary renders the full execution report for one loop run: header panel,
// per-iteration step lines, the decision log and, for multi-iteration runs,
// the efficiency footer.
func Summary(sum progress.Summary, abbrev string) string {
	var sb strings.Builder

	header := titleStyle.Render(sum.LoopName)
	if abbrev != "" {
		header += " " + abbrevStyle.Render("("+abbrev+")")
	}
	if sum.Stabilized {
		header += "\n" + successStyle.Render("Stabilized in "+Duration(sum.DurationSeconds))
	} else {
		header += "\n" + warnStyle.Render("Not stabilized after "+Duration(sum.DurationSeconds))
	}
	sb.WriteString(headerPanelStyle.Render(header))
	sb.WriteString("\n")

	for _, it := range sum.Iterations {
		writeIteration(&sb, it, sum.MultiIteration)
	}

	if len(sum.Decisions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("Decisions"))
		sb.WriteString("\n")
		for _, d := range sum.Decisions {
			sb.WriteString("  " + dimStyle.Render("•") + " " + d.Text + "\n")
		}
	}

	if sum.MultiIteration {
		sb.WriteString("\n")
		sb.WriteString(efficiencyFooter(sum))
	}

	return sb.String()
}

func writeIteration(sb *strings.Builder, it progress.IterationSummary, multi bool) {
	if multi {
		title := fmt.Sprintf("Iteration %d", it.Number)
		if it.DurationSeconds > 0 {
			title += " " + dimStyle.Render("("+Duration(it.DurationSeconds)+")")
		}
		sb.WriteString("\n" + sectionStyle.Render(title) + "\n")
	} else {
		sb.WriteString("\n")
	}

	for _, step := range it.Steps {
		sb.WriteString("  " + StepLine(step) + "\n")
		if step.Status == "blocked" {
			for _, reason := range step.Reasons {
				sb.WriteString("      " + errorStyle.Render("- "+reason) + "\n")
			}
		}
	}

	counts := successStyle.Render(fmt.Sprintf("%d completed", it.CompletedSteps))
	if it.BlockedSteps > 0 {
		counts += dimStyle.Render(" | ") + errorStyle.Render(fmt.Sprintf("%d blocked", it.BlockedSteps))
	}
	if it.RevisionSteps > 0 {
		counts += dimStyle.Render(" | ") + warnStyle.Render(fmt.Sprintf("%d revisions", it.RevisionSteps))
	}
	sb.WriteString("  " + counts + "\n")
}

// StepLine renders one step as icon, name, revision marker, agent and
// duration.
func StepLine(step progress.StepSummary) string {
	var icon string
	switch {
	case step.Status == "blocked":
		icon = errorStyle.Render("✗")
	case step.Status == "completed" && step.Revision:
		icon = warnStyle.Render("↻")
	case step.Status == "completed":
		icon = successStyle.Render("✓")
	default:
		icon = warnStyle.Render("→")
	}

	line := icon + " " + step.Name
	if step.Revision {
		line += dimStyle.Render(" (revision)")
	}
	if step.Agent != "" {
		line += " " + dimStyle.Render("("+step.Agent+")")
	}
	if step.DurationSeconds > 0 {
		line += " " + dimStyle.Render(Duration(step.DurationSeconds))
	}
	return line
}

func efficiencyFooter(sum progress.Summary) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Efficiency") + "\n")
	sb.WriteString(fmt.Sprintf("  Iterations:      %d\n", sum.IterationCount))
	sb.WriteString(fmt.Sprintf("  Step executions: %d\n", sum.TotalSteps))
	pct := fmt.Sprintf("  First-pass kept: %.0f%%", sum.Efficiency*100)
	if sum.Efficiency >= 0.5 {
		sb.WriteString(successStyle.Render(pct))
	} else {
		sb.WriteString(warnStyle.Render(pct))
	}
	sb.WriteString("\n")
	return sb.String()
}

// Catalog renders the loop catalog grouped by category for `qf loops`.
func Catalog(defs []loop.Definition) string {
	grouped := make(map[string][]loop.Definition)
	for _, def := range defs {
		grouped[def.Category] = append(grouped[def.Category], def)
	}

	var sb strings.Builder
	for _, cat := range loop.Categories() {
		loops := grouped[cat]
		if len(loops) == 0 {
			continue
		}
		sb.WriteString(categoryStyle.Render(cat) + "\n")
		for _, def := range loops {
			sb.WriteString(fmt.Sprintf("  %-18s %s  %s\n",
				def.ID,
				abbrevStyle.Render(def.Abbrev),
				def.Description))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
