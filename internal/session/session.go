// Package session owns the currently loaded workflow and its derived views.
//
// A Session has a single writer (Load and Clear) and any number of readers.
// Each transition replaces the whole State; readers always observe a
// complete snapshot. Derived projections are computed on first use and
// memoized per snapshot.
package session

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sourceplane/wfviz/internal/loader"
	"github.com/sourceplane/wfviz/internal/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultExpiration = 30 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

// State is an immutable snapshot of a session
type State struct {
	// ID identifies the loaded workflow; empty when none is loaded.
	ID       string
	Workflow *model.Workflow
	Document *yaml.Node
	Source   string
	Err      error
	Loading  bool
}

// Session is the controller for one workflow
type Session struct {
	state  atomic.Pointer[State]
	cache  *gocache.Cache
	logger *zap.Logger
}

// New creates an empty session
func New() *Session {
	s := &Session{
		cache:  gocache.New(defaultExpiration, cleanupInterval),
		logger: zap.L().Named("session"),
	}
	s.state.Store(&State{})
	return s
}

// State returns the current snapshot
func (s *Session) State() *State {
	return s.state.Load()
}

// Workflow returns the loaded workflow, or nil
func (s *Session) Workflow() *model.Workflow {
	return s.State().Workflow
}

// Err returns the error of the last failed load, or nil
func (s *Session) Err() error {
	return s.State().Err
}

// ErrorMessage returns the user-visible error message, or ""
func (s *Session) ErrorMessage() string {
	if err := s.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Loading reports whether a load is in progress
func (s *Session) Loading() bool {
	return s.State().Loading
}

// Load parses, validates and stores a workflow. On failure the previously
// loaded workflow stays current and the error is recorded.
func (s *Session) Load(raw string) error {
	prev := s.State()

	busy := *prev
	busy.Loading = true
	busy.Err = nil
	s.state.Store(&busy)

	wf, doc, err := loader.Load(raw)
	if err != nil {
		failed := *prev
		failed.Loading = false
		failed.Err = err
		s.state.Store(&failed)
		s.logger.Debug("workflow rejected", zap.Error(err))
		return err
	}

	next := &State{
		ID:       uuid.NewString(),
		Workflow: wf,
		Document: doc,
		Source:   raw,
	}
	s.state.Store(next)
	s.forget(prev.ID)
	s.logger.Debug("workflow loaded",
		zap.String("id", next.ID),
		zap.String("name", wf.Name),
		zap.Int("jobs", len(wf.Jobs)))
	return nil
}

// Clear drops the loaded workflow and any error
func (s *Session) Clear() {
	prev := s.state.Swap(&State{})
	s.forget(prev.ID)
	s.logger.Debug("session cleared")
}

// forget drops the memoized projections of a replaced snapshot
func (s *Session) forget(id string) {
	if id == "" {
		return
	}
	for _, kind := range projectionKinds {
		s.cache.Delete(cacheKey(id, kind))
	}
}
