package deps

import (
	"github.com/sourceplane/wfviz/internal/model"
)

// Resolver answers dependency queries over a set of dependency records
type Resolver struct {
	records []model.JobDependency
	byName  map[string]int
}

// NewResolver creates a resolver. The first record wins for repeated names.
func NewResolver(records []model.JobDependency) *Resolver {
	byName := make(map[string]int, len(records))
	for i, record := range records {
		if _, exists := byName[record.JobName]; !exists {
			byName[record.JobName] = i
		}
	}
	return &Resolver{
		records: records,
		byName:  byName,
	}
}

// GetDependencies returns the direct dependencies of a job, or an empty
// list when the job is unknown
func (r *Resolver) GetDependencies(jobName string) []string {
	i, exists := r.byName[jobName]
	if !exists {
		return []string{}
	}

	deps := make([]string, len(r.records[i].DependsOn))
	copy(deps, r.records[i].DependsOn)
	return deps
}

// GetDependents returns all jobs that directly depend on the given job
func (r *Resolver) GetDependents(jobName string) []string {
	dependents := make([]string, 0)

	for _, record := range r.records {
		for _, dep := range record.DependsOn {
			if dep == jobName {
				dependents = append(dependents, record.JobName)
				break
			}
		}
	}

	return dependents
}

// GetTransitiveDependencies returns every job reachable through needs,
// in discovery order
func (r *Resolver) GetTransitiveDependencies(jobName string) []string {
	return r.traverse(jobName, r.GetDependencies)
}

// GetTransitiveDependents returns every job that transitively needs the
// given job, in discovery order
func (r *Resolver) GetTransitiveDependents(jobName string) []string {
	return r.traverse(jobName, r.GetDependents)
}

func (r *Resolver) traverse(start string, next func(string) []string) []string {
	result := make([]string, 0)
	visited := map[string]bool{start: true}

	var walk func(string)
	walk = func(name string) {
		for _, neighbour := range next(name) {
			if visited[neighbour] {
				continue
			}
			visited[neighbour] = true
			result = append(result, neighbour)
			walk(neighbour)
		}
	}

	walk(start)
	return result
}

// Missing returns, per job, the declared dependencies that name no job.
// Jobs without missing references are omitted.
func (r *Resolver) Missing() map[string][]string {
	missing := make(map[string][]string)
	for _, record := range r.records {
		for _, dep := range record.DependsOn {
			if _, exists := r.byName[dep]; !exists {
				missing[record.JobName] = append(missing[record.JobName], dep)
			}
		}
	}
	return missing
}
