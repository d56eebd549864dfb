package planner

import (
	"github.com/sourceplane/wfviz/internal/model"
)

// Levels computes the execution levels for a set of dependency records.
// See Plan.
func Levels(jobDeps []model.JobDependency) [][]string {
	return Plan(jobDeps).Levels
}

// Plan orders jobs into levels with a leveled Kahn sort. Level 0 holds the
// jobs with no dependencies; every following level holds the jobs whose
// dependencies all sit in earlier levels. Within a level jobs keep their
// input order.
//
// When a round places no job while some remain (a cycle, or a dependency on
// a job that does not exist), all remaining jobs are emitted as one final
// level and listed in Unordered. Every job appears exactly once and the
// result has at most N+1 levels.
func Plan(jobDeps []model.JobDependency) model.ExecutionOrder {
	order := model.ExecutionOrder{Levels: make([][]string, 0)}

	// Repeated job names are placed once, at their first occurrence.
	pending := make([]model.JobDependency, 0, len(jobDeps))
	seen := make(map[string]bool, len(jobDeps))
	for _, job := range jobDeps {
		if seen[job.JobName] {
			continue
		}
		seen[job.JobName] = true
		pending = append(pending, job)
	}

	visited := make(map[string]bool, len(pending))
	for len(pending) > 0 {
		level := make([]string, 0)
		remaining := make([]model.JobDependency, 0, len(pending))

		for _, job := range pending {
			if dependenciesMet(job.DependsOn, visited) {
				level = append(level, job.JobName)
			} else {
				remaining = append(remaining, job)
			}
		}

		if len(level) == 0 {
			stuck := make([]string, 0, len(remaining))
			for _, job := range remaining {
				stuck = append(stuck, job.JobName)
			}
			order.Levels = append(order.Levels, stuck)
			order.Unordered = stuck
			break
		}

		// Marked only after the round so a level never contains a job
		// together with one of its dependencies.
		for _, name := range level {
			visited[name] = true
		}
		order.Levels = append(order.Levels, level)
		pending = remaining
	}

	return order
}

func dependenciesMet(dependsOn []string, visited map[string]bool) bool {
	for _, dep := range dependsOn {
		if !visited[dep] {
			return false
		}
	}
	return true
}
