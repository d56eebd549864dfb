package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/sourceplane/wfviz/internal/loader"
	"go.uber.org/zap"
)

// readBody reads a bounded request body; ok is false when a problem was written
func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			badRequest(w, r, "too_large", "workflow document exceeds 1 MiB")
			return "", false
		}
		badRequest(w, r, "bad_request", err.Error())
		return "", false
	}
	return string(data), true
}

func (s *Server) HandleLoadWorkflow(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	s.loads.Lock()
	err := s.session.Load(raw)
	state := s.session.State()
	s.loads.Unlock()

	if err != nil {
		s.logger.Info("workflow rejected", zap.Error(err))
		handleLoadError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"id":   state.ID,
		"name": state.Workflow.Name,
		"jobs": state.Workflow.JobIDs(),
	})
}

func (s *Server) HandleClearWorkflow(w http.ResponseWriter, r *http.Request) {
	s.loads.Lock()
	s.session.Clear()
	s.loads.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	state := s.session.State()
	status := map[string]any{
		"loaded":  state.Workflow != nil,
		"loading": state.Loading,
	}
	if state.Workflow != nil {
		status["id"] = state.ID
		status["name"] = state.Workflow.Name
	}
	if state.Err != nil {
		status["error"] = state.Err.Error()
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	now := s.now()
	report := snap.Report(now)
	if report == nil {
		noWorkflow(w, r)
		return
	}
	report.Triggers = s.describer.Describe(snap.Workflow(), now)
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) HandleLint(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	doc, err := loader.Parse(raw)
	if err != nil {
		handleLoadError(w, r, err)
		return
	}

	result, err := s.linter.Check(doc)
	if err != nil {
		internalError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := s.session.Stats()
	if stats == nil {
		noWorkflow(w, r)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap.Workflow() == nil {
		noWorkflow(w, r)
		return
	}
	order := snap.ExecutionOrder()
	respondWithJSON(w, http.StatusOK, map[string]any{
		"levels":    order.Levels,
		"unordered": order.Unordered,
		"cycles":    snap.Cycles(),
	})
}

func (s *Server) HandleGetDependencies(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap.Workflow() == nil {
		noWorkflow(w, r)
		return
	}
	respondWithJSON(w, http.StatusOK, snap.Dependencies())
}

func (s *Server) HandleGetGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap.Workflow() == nil {
		noWorkflow(w, r)
		return
	}
	respondWithJSON(w, http.StatusOK, snap.Graph())
}

func (s *Server) HandleGetTriggers(w http.ResponseWriter, r *http.Request) {
	wf := s.session.Workflow()
	if wf == nil {
		noWorkflow(w, r)
		return
	}
	respondWithJSON(w, http.StatusOK, s.describer.Describe(wf, s.now()))
}
