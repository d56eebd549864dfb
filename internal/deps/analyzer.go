package deps

import (
	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/normalize"
)

// Analyze derives one dependency record per job, in declaration order.
// References to unknown jobs are kept as declared.
func Analyze(wf *model.Workflow) []model.JobDependency {
	if wf == nil {
		return []model.JobDependency{}
	}

	records := make([]model.JobDependency, 0, len(wf.Jobs))
	for _, job := range wf.Jobs {
		record := model.JobDependency{
			JobName:    job.ID,
			DependsOn:  normalize.Needs(job.Needs),
			Conditions: []string{},
		}
		if job.If != "" {
			record.HasConditions = true
			record.Conditions = []string{job.If}
		}
		records = append(records, record)
	}
	return records
}
