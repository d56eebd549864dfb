package session

import (
	"github.com/sourceplane/wfviz/internal/model"
)

// JobByID looks up a job of the pinned workflow
func (sn Snapshot) JobByID(id string) (*model.Job, bool) {
	return sn.state.Workflow.Job(id)
}

// JobDependencies returns the jobs id needs. Unknown ids and an empty
// session yield an empty list.
func (sn Snapshot) JobDependencies(id string) []string {
	if sn.state.Workflow == nil {
		return []string{}
	}
	return sn.resolver().GetDependencies(id)
}

// JobsThatDependOn returns the jobs that list id in their needs, in
// declaration order
func (sn Snapshot) JobsThatDependOn(id string) []string {
	if sn.state.Workflow == nil {
		return []string{}
	}
	return sn.resolver().GetDependents(id)
}

// TransitiveDependencies returns every job id waits on, directly or not
func (sn Snapshot) TransitiveDependencies(id string) []string {
	if sn.state.Workflow == nil {
		return []string{}
	}
	return sn.resolver().GetTransitiveDependencies(id)
}

// TransitiveDependents returns every job waiting on id, directly or not
func (sn Snapshot) TransitiveDependents(id string) []string {
	if sn.state.Workflow == nil {
		return []string{}
	}
	return sn.resolver().GetTransitiveDependents(id)
}

// MissingDependencies maps jobs to needed ids that are not declared
func (sn Snapshot) MissingDependencies() map[string][]string {
	if sn.state.Workflow == nil {
		return map[string][]string{}
	}
	return sn.resolver().Missing()
}

func (s *Session) JobByID(id string) (*model.Job, bool) {
	return s.Snapshot().JobByID(id)
}

func (s *Session) JobDependencies(id string) []string {
	return s.Snapshot().JobDependencies(id)
}

func (s *Session) JobsThatDependOn(id string) []string {
	return s.Snapshot().JobsThatDependOn(id)
}

func (s *Session) TransitiveDependencies(id string) []string {
	return s.Snapshot().TransitiveDependencies(id)
}

func (s *Session) TransitiveDependents(id string) []string {
	return s.Snapshot().TransitiveDependents(id)
}

func (s *Session) MissingDependencies() map[string][]string {
	return s.Snapshot().MissingDependencies()
}
