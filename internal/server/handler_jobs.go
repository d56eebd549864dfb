package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sourceplane/wfviz/internal/model"
	"github.com/sourceplane/wfviz/internal/session"
)

// job pins the session and resolves the {id} route variable to a declared
// job; ok is false when a problem was written
func (s *Server) job(w http.ResponseWriter, r *http.Request) (session.Snapshot, *model.Job, bool) {
	snap := s.session.Snapshot()
	if snap.Workflow() == nil {
		noWorkflow(w, r)
		return snap, nil, false
	}

	id := mux.Vars(r)["id"]
	job, found := snap.JobByID(id)
	if !found {
		notFound(w, r, fmt.Sprintf("job %q not found", id))
		return snap, nil, false
	}
	return snap, job, true
}

func transitive(r *http.Request) bool {
	v := r.URL.Query().Get("transitive")
	return v == "true" || v == "1"
}

func (s *Server) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	_, job, ok := s.job(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, job)
}

func (s *Server) HandleGetJobDependencies(w http.ResponseWriter, r *http.Request) {
	snap, job, ok := s.job(w, r)
	if !ok {
		return
	}

	deps := snap.JobDependencies(job.ID)
	if transitive(r) {
		deps = snap.TransitiveDependencies(job.ID)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"job": job.ID, "dependencies": deps})
}

func (s *Server) HandleGetJobDependents(w http.ResponseWriter, r *http.Request) {
	snap, job, ok := s.job(w, r)
	if !ok {
		return
	}

	dependents := snap.JobsThatDependOn(job.ID)
	if transitive(r) {
		dependents = snap.TransitiveDependents(job.ID)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"job": job.ID, "dependents": dependents})
}
