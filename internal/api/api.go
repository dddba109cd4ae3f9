// Package api provides the HTTP server exposing analyses and variation
// reports, with live pipeline progress streamed over SSE.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kamilpajak/designlens/internal/auth"
	"github.com/kamilpajak/designlens/internal/database"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/variations"
	"github.com/kamilpajak/designlens/pkg/models"
)

// AnalyzeFunc runs the full analysis pipeline for a URL, reporting
// progress to the emitter.
type AnalyzeFunc func(ctx context.Context, url string, emitter llm.ProgressEmitter) (*models.Document, error)

// VariationsFunc generates quality-gated variations for an analyzed
// document, one per pattern, reporting progress to the emitter.
type VariationsFunc func(ctx context.Context, doc *models.Document, patterns []variations.Pattern, emitter llm.ProgressEmitter) []variations.Variation

// Server is the API server.
type Server struct {
	db           *database.DB
	authVerifier *auth.Verifier
	analyze      AnalyzeFunc
	variations   VariationsFunc
	mux          *http.ServeMux
}

// Config holds API server configuration. AuthVerifier is optional; with
// none configured the API is open.
type Config struct {
	DB           *database.DB
	AuthVerifier *auth.Verifier
	Analyze      AnalyzeFunc
	Variations   VariationsFunc
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	s := &Server{
		db:           cfg.DB,
		authVerifier: cfg.AuthVerifier,
		analyze:      cfg.Analyze,
		variations:   cfg.Variations,
		mux:          http.NewServeMux(),
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	protect := func(h http.HandlerFunc) http.HandlerFunc {
		if s.authVerifier == nil {
			return h
		}
		middleware := auth.Middleware(s.authVerifier)
		return func(w http.ResponseWriter, r *http.Request) {
			middleware(h).ServeHTTP(w, r)
		}
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/analyses", protect(s.handleCreateAnalysis))
	s.mux.HandleFunc("GET /api/analyses", protect(s.handleListAnalyses))
	s.mux.HandleFunc("GET /api/analyses/{analysisID}", protect(s.handleGetAnalysis))
	s.mux.HandleFunc("POST /api/analyses/{analysisID}/variations", protect(s.handleCreateVariations))
	s.mux.HandleFunc("GET /api/analyses/{analysisID}/reports", protect(s.handleListReports))
	s.mux.HandleFunc("GET /api/reports/{reportID}", protect(s.handleGetReport))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
