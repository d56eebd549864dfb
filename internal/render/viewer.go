package render

import (
	"fmt"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/session"
)

// WorkflowViewer provides human-readable views of a loaded workflow
type WorkflowViewer struct {
	session *session.Session
	styles  Styles
}

// NewWorkflowViewer creates a viewer over a session
func NewWorkflowViewer(s *session.Session, styles Styles) *WorkflowViewer {
	return &WorkflowViewer{session: s, styles: styles}
}

const noWorkflow = "No workflow loaded"

// ViewLevels shows the execution order level by level
func (v *WorkflowViewer) ViewLevels() string {
	snap := v.session.Snapshot()
	wf := snap.Workflow()
	if wf == nil {
		return noWorkflow
	}

	order := snap.ExecutionOrder()
	unordered := make(map[string]bool, len(order.Unordered))
	for _, id := range order.Unordered {
		unordered[id] = true
	}

	var sb strings.Builder
	sb.WriteString(v.styles.Header.Render("Execution Order") + "\n")
	sb.WriteString(rule + "\n\n")

	for i, level := range order.Levels {
		label := fmt.Sprintf("Level %d", i+1)
		if len(level) > 1 {
			label += fmt.Sprintf(" (%d parallel jobs)", len(level))
		}
		if len(level) > 0 && unordered[level[0]] {
			label += " " + v.styles.Warning.Render("[unresolved dependencies]")
		}
		sb.WriteString(v.styles.Level.Render(label) + "\n")

		for j, id := range level {
			prefix, connector := "├─ ", "│  "
			if j == len(level)-1 {
				prefix, connector = "└─ ", "   "
			}

			line := prefix + v.styles.Job.Render(id)
			if job, ok := wf.Job(id); ok && job.RunsOn != "" {
				line += " " + v.styles.Muted.Render("("+job.RunsOn+")")
			}
			sb.WriteString(line + "\n")

			sb.WriteString(fmt.Sprintf("%s  depends on: %s\n", connector, joinOrNone(snap.JobDependencies(id))))
			sb.WriteString(fmt.Sprintf("%s  dependents: %s\n", connector, joinOrNone(snap.JobsThatDependOn(id))))
			if job, ok := wf.Job(id); ok && job.If != "" {
				sb.WriteString(connector + "  " + v.styles.Condition.Render("condition: "+job.If) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if cycles := snap.Cycles(); len(cycles) > 0 {
		sb.WriteString(v.styles.Warning.Render("Dependency cycle: "+strings.Join(cycles, ", ")) + "\n")
	}
	missing := snap.MissingDependencies()
	for _, id := range wf.JobIDs() {
		if unknown := missing[id]; len(unknown) > 0 {
			sb.WriteString(v.styles.Warning.Render(fmt.Sprintf("%s needs unknown job(s): %s", id, strings.Join(unknown, ", "))) + "\n")
		}
	}

	return sb.String()
}

// ViewDependencies lists every job with its dependency record
func (v *WorkflowViewer) ViewDependencies() string {
	snap := v.session.Snapshot()
	if snap.Workflow() == nil {
		return noWorkflow
	}

	records := snap.Dependencies()
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.JobName)
	}
	width := maxWidth(names)

	var sb strings.Builder
	sb.WriteString(v.styles.Header.Render("Job Dependencies") + "\n")
	sb.WriteString(rule + "\n\n")

	for _, record := range records {
		line := padRight(v.styles.Job.Render(record.JobName), width) + "  ← " + joinOrNone(record.DependsOn)
		if record.HasConditions {
			line += "  " + v.styles.Condition.Render("if: "+strings.Join(record.Conditions, " && "))
		}
		sb.WriteString(line + "\n")
	}

	return sb.String()
}

// ViewJob shows one job with its steps
func (v *WorkflowViewer) ViewJob(id string) string {
	snap := v.session.Snapshot()
	job, ok := snap.JobByID(id)
	if !ok {
		return fmt.Sprintf("No job found: %s", id)
	}

	var sb strings.Builder
	title := job.ID
	if job.Name != "" && job.Name != job.ID {
		title += " (" + job.Name + ")"
	}
	sb.WriteString(v.styles.Header.Render(title) + "\n")
	sb.WriteString(rule + "\n")

	if job.RunsOn != "" {
		sb.WriteString(fmt.Sprintf("Runs on:    %s\n", job.RunsOn))
	}
	if job.Uses != "" {
		sb.WriteString(fmt.Sprintf("Uses:       %s\n", job.Uses))
	}
	sb.WriteString(fmt.Sprintf("Depends on: %s\n", joinOrNone(snap.JobDependencies(id))))
	sb.WriteString(fmt.Sprintf("Dependents: %s\n", joinOrNone(snap.JobsThatDependOn(id))))
	if job.If != "" {
		sb.WriteString(v.styles.Condition.Render("Condition:  "+job.If) + "\n")
	}
	if job.HasMatrix() {
		sb.WriteString("Matrix:     yes\n")
	}
	if job.TimeoutMinutes > 0 {
		sb.WriteString(fmt.Sprintf("Timeout:    %dm\n", job.TimeoutMinutes))
	}

	if len(job.Steps) == 0 {
		sb.WriteString("\n(no steps)\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\nSteps (%d):\n", len(job.Steps)))
	for i, step := range job.Steps {
		prefix, connector := "├─ ", "│  "
		if i == len(job.Steps)-1 {
			prefix, connector = "└─ ", "   "
		}
		sb.WriteString(fmt.Sprintf("%s%d. %s\n", prefix, i+1, truncate(firstLine(step.DisplayName()), 60)))

		if step.Uses != "" {
			ref := step.Uses
			if url := model.ActionURL(step.Uses); url != "" {
				ref += " " + v.styles.Muted.Render("<"+url+">")
			}
			sb.WriteString(fmt.Sprintf("%s   uses: %s\n", connector, ref))
		}
		if step.Run != "" {
			sb.WriteString(fmt.Sprintf("%s   run: %s\n", connector, truncate(firstLine(step.Run), 60)))
		}
		if step.If != "" {
			sb.WriteString(connector + "   " + v.styles.Condition.Render("if: "+step.If) + "\n")
		}
	}

	return sb.String()
}

// ViewStats shows the workflow statistics
func (v *WorkflowViewer) ViewStats() string {
	snap := v.session.Snapshot()
	stats := snap.Stats()
	if stats == nil {
		return noWorkflow
	}

	rows := [][2]string{
		{"Jobs", fmt.Sprintf("%d", stats.TotalJobs)},
		{"Steps", fmt.Sprintf("%d", stats.TotalSteps)},
		{"Triggers", fmt.Sprintf("%d (%s)", len(stats.Triggers), joinOrNone(stats.Triggers))},
		{"Levels", fmt.Sprintf("%d", len(snap.ExecutionOrder().Levels))},
		{"Matrix", yesNo(stats.HasMatrix)},
		{"Conditions", yesNo(stats.HasConditions)},
		{"Dependencies", yesNo(stats.HasDependencies)},
	}

	var sb strings.Builder
	sb.WriteString(v.styles.Header.Render(snap.Workflow().Name) + "\n")
	sb.WriteString(rule + "\n")
	for _, row := range rows {
		sb.WriteString(padRight(row[0]+":", 14) + row[1] + "\n")
	}
	return sb.String()
}

// ViewTriggers lists trigger descriptions of the loaded workflow
func (v *WorkflowViewer) ViewTriggers(descriptions []model.TriggerDescription) string {
	snap := v.session.Snapshot()
	if snap.Workflow() == nil {
		return noWorkflow
	}

	var sb strings.Builder
	sb.WriteString(v.styles.Header.Render("Triggers") + "\n")
	sb.WriteString(rule + "\n")
	for _, desc := range descriptions {
		sb.WriteString(v.styles.Job.Render(desc.Name) + "\n")
		for _, detail := range desc.Details {
			sb.WriteString("   " + detail + "\n")
		}
		for _, next := range desc.NextRuns {
			sb.WriteString("   " + v.styles.Muted.Render("next run: "+next) + "\n")
		}
	}
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
