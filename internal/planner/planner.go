package planner

import (
	"fmt"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/normalize"
)

// Node is a job as drawn in a workflow graph
type Node struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label"`
	Summary   string `json:"summary" yaml:"summary"`
	RunsOn    string `json:"runsOn,omitempty" yaml:"runsOn,omitempty"`
	Steps     int    `json:"steps" yaml:"steps"`
	Needs     int    `json:"needs" yaml:"needs"`
	HasIf     bool   `json:"hasIf" yaml:"hasIf"`
	HasMatrix bool   `json:"hasMatrix" yaml:"hasMatrix"`
}

// Edge points from a dependency to the job that needs it
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Graph holds the drawable nodes and edges of a workflow
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
	// Roots are the jobs no other job needs; layouts start from them.
	Roots []string `json:"roots" yaml:"roots"`
}

// BuildGraph builds graph elements for a workflow. Edges are only created
// for needs that name an existing job.
func BuildGraph(wf *model.Workflow) Graph {
	graph := Graph{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
		Roots: make([]string, 0),
	}
	if wf == nil {
		return graph
	}

	needed := make(map[string]bool)
	for _, job := range wf.Jobs {
		needs := normalize.Needs(job.Needs)

		graph.Nodes = append(graph.Nodes, Node{
			ID:        job.ID,
			Label:     job.DisplayName(),
			Summary:   summarize(job, len(needs)),
			RunsOn:    job.RunsOn,
			Steps:     len(job.Steps),
			Needs:     len(needs),
			HasIf:     job.If != "",
			HasMatrix: job.HasMatrix(),
		})

		for _, dep := range needs {
			needed[dep] = true
			if _, exists := wf.Job(dep); exists {
				graph.Edges = append(graph.Edges, Edge{
					ID:     fmt.Sprintf("%s->%s", dep, job.ID),
					Source: dep,
					Target: job.ID,
				})
			}
		}
	}

	for _, job := range wf.Jobs {
		if !needed[job.ID] {
			graph.Roots = append(graph.Roots, job.ID)
		}
	}

	return graph
}

// summarize renders "runner · N steps · N dependencies · if · matrix"
func summarize(job *model.Job, needs int) string {
	parts := make([]string, 0, 5)
	if job.RunsOn != "" {
		parts = append(parts, job.RunsOn)
	}
	parts = append(parts, plural(len(job.Steps), "step", "steps"))
	if needs > 0 {
		parts = append(parts, plural(needs, "dependency", "dependencies"))
	}
	if job.If != "" {
		parts = append(parts, "if")
	}
	if job.HasMatrix() {
		parts = append(parts, "matrix")
	}
	return strings.Join(parts, " · ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
