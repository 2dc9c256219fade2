// Package httpserver exposes the benchmark API: run creation with a
// streamed progress body, plus read-back endpoints for runs, their
// evaluations and the scenario catalog.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snow-ghost/evalbench/core"
	"github.com/snow-ghost/evalbench/pkg/logging"
	"github.com/snow-ghost/evalbench/pkg/providers"
	"github.com/snow-ghost/evalbench/pkg/run"
	"github.com/snow-ghost/evalbench/pkg/store"
	"github.com/snow-ghost/evalbench/pkg/streaming"
)

// Server represents the HTTP server
type Server struct {
	port         string
	logger       *logging.Logger
	router       *http.ServeMux
	orchestrator *run.Orchestrator
	store        core.EvalStore
	source       core.ScenarioSource
	httpServer   *http.Server
}

// NewServer creates a new HTTP server
func NewServer(port string, orchestrator *run.Orchestrator, st core.EvalStore, source core.ScenarioSource, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		port:         port,
		logger:       logger,
		router:       http.NewServeMux(),
		orchestrator: orchestrator,
		store:        st,
		source:       source,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	// Health and metrics
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	v1 := http.NewServeMux()
	v1.HandleFunc("/runs", s.handleRuns)
	v1.HandleFunc("/runs/", s.handleRunByID)
	v1.HandleFunc("/scenarios", s.handleScenarios)

	s.router.Handle("/v1/", http.StripPrefix("/v1", v1))
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting HTTP server", "port", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, letting in-flight runs finish streaming.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"evalbench","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleRuns dispatches the /runs collection: POST starts a run with a
// streamed body, GET lists past runs.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleStartRun starts a benchmark run and streams progress as NDJSON.
// The terminal line is either a complete summary or an error object.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req run.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", "INVALID_JSON", http.StatusBadRequest)
		return
	}
	if req.Model == "" {
		s.writeError(w, "Model is required", "MODEL_REQUIRED", http.StatusBadRequest)
		return
	}
	// Reject unknown families before the stream opens so the caller
	// gets a real status code instead of an in-band error object.
	if _, err := providers.ParseFamily(req.Model); err != nil {
		s.writeError(w, err.Error(), "UNSUPPORTED_MODEL", http.StatusBadRequest)
		return
	}

	sink, err := streaming.NewNDJSONWriter(w)
	if err != nil {
		s.logger.Error("failed to create stream writer", "error", err)
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	summary, err := s.orchestrator.Execute(r.Context(), req, sink)
	if err != nil {
		s.logger.Error("run failed", "error", err)
		sink.WriteError(err)
		return
	}

	if err := sink.Emit(summary); err != nil {
		s.logger.Warn("failed to write run summary", "error", err)
	}
}

// handleListRuns handles run listing requests
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		s.writeError(w, "Failed to list runs", "STORE_ERROR", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []core.Run{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

// handleRunByID handles /runs/{id} and /runs/{id}/evaluations.
func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/runs/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handleGetRun(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "evaluations":
		s.handleListEvaluations(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

// handleGetRun handles single run requests
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request, runID string) {
	rn, err := s.store.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		s.writeError(w, "Run not found", "RUN_NOT_FOUND", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to get run", "error", err, "run_id", runID)
		s.writeError(w, "Failed to get run", "STORE_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rn)
}

// handleListEvaluations handles evaluation listing for one run
func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request, runID string) {
	evals, err := s.store.ListEvaluations(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		s.writeError(w, "Run not found", "RUN_NOT_FOUND", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to list evaluations", "error", err, "run_id", runID)
		s.writeError(w, "Failed to list evaluations", "STORE_ERROR", http.StatusInternalServerError)
		return
	}
	if evals == nil {
		evals = []core.Evaluation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"evaluations": evals})
}

// handleScenarios handles scenario catalog requests
func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	set, err := s.source.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load scenarios", "error", err)
		s.writeError(w, "Failed to load scenarios", "SCENARIO_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"scenarios": set})
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := core.ErrorResponse{
		Error: message,
		Code:  code,
	}

	json.NewEncoder(w).Encode(errorResp)
}
