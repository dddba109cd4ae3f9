package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/kamilpajak/designlens/internal/llm"
)

type createAnalysisRequest struct {
	URL string `json:"url"`
}

// handleCreateAnalysis runs the pipeline for a URL and streams progress
// as SSE. The final event carries the stored analysis ID and document.
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req createAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validURL(req.URL) {
		writeError(w, http.StatusBadRequest, "url must be absolute http(s)")
		return
	}

	// The flusher check must precede the stream headers so the JSON error
	// fallback is not emitted under an event-stream content type.
	emitter := NewSSEEmitter(w)
	if emitter == nil {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	setStreamHeaders(w)

	doc, err := s.analyze(r.Context(), req.URL, emitter)
	if err != nil && doc == nil {
		emitter.Emit(llm.ProgressEvent{Type: "error", Message: err.Error()})
		return
	}

	stored, storeErr := s.db.CreateAnalysis(r.Context(), doc)
	if storeErr != nil {
		emitter.Emit(llm.ProgressEvent{Type: "error", Message: "failed to store analysis: " + storeErr.Error()})
		return
	}

	final := map[string]any{
		"id":         stored.ID,
		"incomplete": stored.Incomplete,
		"document":   json.RawMessage(stored.Document),
	}
	data, _ := json.Marshal(final)
	emitter.Emit(llm.ProgressEvent{Type: "done", Message: string(data)})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	analyses, err := s.db.ListAnalyses(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	type entry struct {
		ID         uuid.UUID `json:"id"`
		URL        string    `json:"url"`
		Incomplete bool      `json:"incomplete"`
		CreatedAt  string    `json:"created_at"`
	}
	out := make([]entry, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, entry{
			ID:         a.ID,
			URL:        a.URL,
			Incomplete: a.Incomplete,
			CreatedAt:  a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("analysisID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	analysis, err := s.db.GetAnalysisByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch analysis")
		return
	}
	if analysis == nil {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         analysis.ID,
		"url":        analysis.URL,
		"incomplete": analysis.Incomplete,
		"document":   json.RawMessage(analysis.Document),
		"created_at": analysis.CreatedAt,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("analysisID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	reports, err := s.db.ListVariationReports(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("reportID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	report, err := s.db.GetVariationReportByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch report")
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
