package planner

import (
	"github.com/sourceplane/wfviz/internal/model"
)

// JobGraph is the dependency graph of a workflow's jobs
type JobGraph struct {
	order []string
	needs map[string][]string
}

// NewJobGraph creates a job graph from dependency records
func NewJobGraph(jobDeps []model.JobDependency) *JobGraph {
	g := &JobGraph{
		order: make([]string, 0, len(jobDeps)),
		needs: make(map[string][]string, len(jobDeps)),
	}
	for _, job := range jobDeps {
		if _, exists := g.needs[job.JobName]; exists {
			continue
		}
		g.order = append(g.order, job.JobName)
		g.needs[job.JobName] = job.DependsOn
	}
	return g
}

// DetectCycles returns the jobs that lie on a dependency cycle, in
// declaration order. Jobs that only depend on a cycle are not included.
func (g *JobGraph) DetectCycles() []string {
	// Tarjan's strongly connected components; a job is on a cycle when its
	// component has more than one job or it needs itself.
	index := 0
	indices := make(map[string]int, len(g.order))
	lowlink := make(map[string]int, len(g.order))
	onStack := make(map[string]bool, len(g.order))
	stack := make([]string, 0, len(g.order))
	onCycle := make(map[string]bool)

	var strongConnect func(node string)
	strongConnect = func(node string) {
		indices[node] = index
		lowlink[node] = index
		index++
		stack = append(stack, node)
		onStack[node] = true

		for _, dep := range g.needs[node] {
			if _, exists := g.needs[dep]; !exists {
				continue
			}
			if dep == node {
				onCycle[node] = true
			}
			if _, seen := indices[dep]; !seen {
				strongConnect(dep)
				lowlink[node] = min(lowlink[node], lowlink[dep])
			} else if onStack[dep] {
				lowlink[node] = min(lowlink[node], indices[dep])
			}
		}

		if lowlink[node] != indices[node] {
			return
		}

		component := make([]string, 0)
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == node {
				break
			}
		}
		if len(component) > 1 {
			for _, jobName := range component {
				onCycle[jobName] = true
			}
		}
	}

	for _, jobName := range g.order {
		if _, seen := indices[jobName]; !seen {
			strongConnect(jobName)
		}
	}

	cycles := make([]string, 0)
	for _, jobName := range g.order {
		if onCycle[jobName] {
			cycles = append(cycles, jobName)
		}
	}
	return cycles
}
