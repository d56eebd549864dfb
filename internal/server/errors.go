package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moogar0880/problems"
	"github.com/sourceplane/wfviz/internal/loader"
	"github.com/sourceplane/wfviz/internal/schema"
)

func respondWithProblem(w http.ResponseWriter, problem *problems.DefaultProblem) {
	w.Header().Set("Content-Type", problems.ProblemMediaType)
	w.WriteHeader(problem.Status)
	body, _ := json.Marshal(problem)
	w.Write(body)
}

func badRequest(w http.ResponseWriter, r *http.Request, problemType, detail string) {
	respondWithProblem(w, problems.NewStatusProblem(http.StatusBadRequest).
		WithInstance(r.URL.Path).
		WithType(problemType).
		WithDetail(detail))
}

func notFound(w http.ResponseWriter, r *http.Request, detail string) {
	respondWithProblem(w, problems.NewStatusProblem(http.StatusNotFound).
		WithInstance(r.URL.Path).
		WithType("not_found").
		WithDetail(detail))
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	respondWithProblem(w, problems.NewStatusProblem(http.StatusInternalServerError).
		WithInstance(r.URL.Path).
		WithType("internal_error").
		WithError(err))
}

func noWorkflow(w http.ResponseWriter, r *http.Request) {
	notFound(w, r, "no workflow loaded")
}

// handleLoadError maps a failed load to a 400 problem
func handleLoadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, loader.ErrNoContent):
		badRequest(w, r, "no_content", err.Error())
	case loader.IsParseError(err):
		badRequest(w, r, "parse_error", err.Error())
	case schema.IsValidationError(err):
		badRequest(w, r, "validation_error", err.Error())
	default:
		internalError(w, r, err)
	}
}
