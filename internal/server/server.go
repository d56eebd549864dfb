// Package server exposes a workflow session over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sourceplane/wfviz/internal/schema"
	"github.com/sourceplane/wfviz/internal/session"
	"github.com/sourceplane/wfviz/internal/trigger"
	"go.uber.org/zap"
)

// MaxBodyBytes caps uploaded workflow documents
const MaxBodyBytes = 1 << 20

type Server struct {
	http.Server
	session   *session.Session
	linter    *schema.Linter
	describer *trigger.Describer
	logger    *zap.Logger
	now       func() time.Time

	// loads serializes writers; the session allows a single writer.
	loads sync.Mutex
}

func NewServer(addr string, s *session.Session, linter *schema.Linter, nextRuns int) *Server {
	srv := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       30 * time.Second,
		},
		session:   s,
		linter:    linter,
		describer: trigger.NewDescriber(nextRuns),
		logger:    zap.L().Named("server"),
		now:       time.Now,
	}
	srv.Handler = srv.routes()
	return srv
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/workflow", s.HandleLoadWorkflow).Methods(http.MethodPut)
	router.HandleFunc("/workflow", s.HandleClearWorkflow).Methods(http.MethodDelete)
	router.HandleFunc("/workflow", s.HandleGetReport).Methods(http.MethodGet)
	router.HandleFunc("/workflow/status", s.HandleGetStatus).Methods(http.MethodGet)
	router.HandleFunc("/workflow/lint", s.HandleLint).Methods(http.MethodPost)

	router.HandleFunc("/workflow/stats", s.HandleGetStats).Methods(http.MethodGet)
	router.HandleFunc("/workflow/order", s.HandleGetOrder).Methods(http.MethodGet)
	router.HandleFunc("/workflow/dependencies", s.HandleGetDependencies).Methods(http.MethodGet)
	router.HandleFunc("/workflow/graph", s.HandleGetGraph).Methods(http.MethodGet)
	router.HandleFunc("/workflow/triggers", s.HandleGetTriggers).Methods(http.MethodGet)

	router.HandleFunc("/workflow/jobs/{id}", s.HandleGetJob).Methods(http.MethodGet)
	router.HandleFunc("/workflow/jobs/{id}/dependencies", s.HandleGetJobDependencies).Methods(http.MethodGet)
	router.HandleFunc("/workflow/jobs/{id}/dependents", s.HandleGetJobDependents).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFound(w, r, "no such resource")
	})
	router.Use(s.loggingMiddleware)
	return router
}

func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.Addr))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	s.logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.logger.Error("error shutting down http server", zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", zap.String("method", r.Method), zap.String("uri", r.RequestURI))
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
