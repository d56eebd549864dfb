package session

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sourceplane/wfviz/internal/deps"
	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/planner"
	"github.com/sourceplane/wfviz/internal/stats"
	"github.com/sourceplane/wfviz/internal/trigger"
)

const (
	kindDependencies = "dependencies"
	kindOrder        = "order"
	kindStats        = "stats"
	kindGraph        = "graph"
	kindCycles       = "cycles"
	kindResolver     = "resolver"
)

var projectionKinds = []string{kindDependencies, kindOrder, kindStats, kindGraph, kindCycles, kindResolver}

func cacheKey(id, kind string) string {
	return id + ":" + kind
}

// memo returns the cached projection of kind for st, computing it on a miss.
// Computation is pure, so concurrent misses only duplicate work.
func memo[T any](s *Session, st *State, kind string, compute func() T) T {
	key := cacheKey(st.ID, kind)
	if cached, found := s.cache.Get(key); found {
		if v, ok := cached.(T); ok {
			return v
		}
	}

	v := compute()
	s.cache.Set(key, v, gocache.DefaultExpiration)
	// A snapshot replaced meanwhile must not keep cache entries.
	if s.State().ID != st.ID {
		s.cache.Delete(key)
	}
	return v
}

// Snapshot answers every projection from one pinned State, so a reader that
// combines several projections never mixes two workflows.
type Snapshot struct {
	session *Session
	state   *State
}

// Snapshot pins the current state
func (s *Session) Snapshot() Snapshot {
	return Snapshot{session: s, state: s.State()}
}

// State returns the pinned state
func (sn Snapshot) State() *State {
	return sn.state
}

// Workflow returns the pinned workflow, or nil
func (sn Snapshot) Workflow() *model.Workflow {
	return sn.state.Workflow
}

// Dependencies returns one dependency record per job in declaration order
func (sn Snapshot) Dependencies() []model.JobDependency {
	if sn.state.Workflow == nil {
		return []model.JobDependency{}
	}
	return memo(sn.session, sn.state, kindDependencies, func() []model.JobDependency {
		return deps.Analyze(sn.state.Workflow)
	})
}

// ExecutionOrder returns the leveled execution order
func (sn Snapshot) ExecutionOrder() model.ExecutionOrder {
	if sn.state.Workflow == nil {
		return model.ExecutionOrder{Levels: [][]string{}}
	}
	return memo(sn.session, sn.state, kindOrder, func() model.ExecutionOrder {
		return planner.Plan(sn.Dependencies())
	})
}

// Stats returns workflow statistics, or nil when nothing is loaded
func (sn Snapshot) Stats() *model.WorkflowStats {
	if sn.state.Workflow == nil {
		return nil
	}
	return memo(sn.session, sn.state, kindStats, func() *model.WorkflowStats {
		aggregated := stats.Aggregate(sn.state.Workflow)
		return &aggregated
	})
}

// Graph returns the drawable graph of the pinned workflow
func (sn Snapshot) Graph() planner.Graph {
	if sn.state.Workflow == nil {
		return planner.BuildGraph(nil)
	}
	return memo(sn.session, sn.state, kindGraph, func() planner.Graph {
		return planner.BuildGraph(sn.state.Workflow)
	})
}

// Cycles returns the jobs on a dependency cycle
func (sn Snapshot) Cycles() []string {
	if sn.state.Workflow == nil {
		return []string{}
	}
	return memo(sn.session, sn.state, kindCycles, func() []string {
		return planner.NewJobGraph(sn.Dependencies()).DetectCycles()
	})
}

// Triggers describes the pinned workflow's triggers
func (sn Snapshot) Triggers(now time.Time) []model.TriggerDescription {
	return trigger.Describe(sn.state.Workflow, now)
}

// Report assembles a serializable snapshot, or nil when nothing is loaded
func (sn Snapshot) Report(now time.Time) *model.Report {
	aggregated := sn.Stats()
	if aggregated == nil {
		return nil
	}
	return &model.Report{
		APIVersion:   "wfviz.sourceplane.io/v1",
		Kind:         "WorkflowReport",
		Name:         sn.state.Workflow.Name,
		Stats:        *aggregated,
		Triggers:     sn.Triggers(now),
		Order:        sn.ExecutionOrder(),
		Dependencies: sn.Dependencies(),
		Cycles:       sn.Cycles(),
	}
}

func (sn Snapshot) resolver() *deps.Resolver {
	return memo(sn.session, sn.state, kindResolver, func() *deps.Resolver {
		return deps.NewResolver(sn.Dependencies())
	})
}

// Dependencies returns one dependency record per job in declaration order
func (s *Session) Dependencies() []model.JobDependency {
	return s.Snapshot().Dependencies()
}

// ExecutionOrder returns the leveled execution order
func (s *Session) ExecutionOrder() model.ExecutionOrder {
	return s.Snapshot().ExecutionOrder()
}

// Stats returns workflow statistics, or nil when nothing is loaded
func (s *Session) Stats() *model.WorkflowStats {
	return s.Snapshot().Stats()
}

// Graph returns the drawable graph of the loaded workflow
func (s *Session) Graph() planner.Graph {
	return s.Snapshot().Graph()
}

// Cycles returns the jobs on a dependency cycle
func (s *Session) Cycles() []string {
	return s.Snapshot().Cycles()
}

// Triggers describes the loaded workflow's triggers
func (s *Session) Triggers(now time.Time) []model.TriggerDescription {
	return s.Snapshot().Triggers(now)
}

// Report assembles a serializable snapshot, or nil when nothing is loaded
func (s *Session) Report(now time.Time) *model.Report {
	return s.Snapshot().Report(now)
}
