// Package stats summarizes a workflow.
package stats

import (
	"github.com/sourceplane/wfviz/internal/model"
)

// Aggregate computes summary statistics for a workflow. Triggers with an
// explicit null configuration are not counted.
func Aggregate(wf *model.Workflow) model.WorkflowStats {
	s := model.WorkflowStats{Triggers: make([]string, 0)}
	if wf == nil {
		return s
	}

	s.TotalJobs = len(wf.Jobs)
	for _, job := range wf.Jobs {
		s.TotalSteps += len(job.Steps)
	}

	for _, trigger := range wf.Triggers {
		if !trigger.Null {
			s.Triggers = append(s.Triggers, trigger.Name)
		}
	}

	s.HasMatrix = anyJob(wf.Jobs, (*model.Job).HasMatrix)
	s.HasConditions = anyJob(wf.Jobs, func(job *model.Job) bool { return job.If != "" })
	s.HasDependencies = anyJob(wf.Jobs, func(job *model.Job) bool { return job.Needs != nil })

	return s
}

func anyJob(jobs []*model.Job, predicate func(*model.Job) bool) bool {
	for _, job := range jobs {
		if predicate(job) {
			return true
		}
	}
	return false
}
