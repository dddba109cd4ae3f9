package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/kamilpajak/designlens/internal/database"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/variations"
	"github.com/kamilpajak/designlens/pkg/models"
)

type createVariationsRequest struct {
	Patterns []string `json:"patterns"`
}

type variationEntry struct {
	Pattern    string           `json:"pattern"`
	ReportID   uuid.UUID        `json:"report_id,omitempty"`
	State      models.LoopState `json:"state,omitempty"`
	BestEffort bool             `json:"best_effort,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// handleCreateVariations generates pattern variations for a stored
// analysis and persists each loop's audit trail as a variation report,
// streaming progress as SSE. An empty pattern list selects every pattern.
func (s *Server) handleCreateVariations(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("analysisID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	var req createVariationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	patterns, err := variations.ByIDs(req.Patterns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
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

	var doc models.Document
	if err := json.Unmarshal(analysis.Document, &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "stored document is unreadable")
		return
	}

	emitter := NewSSEEmitter(w)
	if emitter == nil {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	setStreamHeaders(w)

	results := s.variations(r.Context(), &doc, patterns, emitter)

	entries := make([]variationEntry, 0, len(results))
	for _, v := range results {
		entry := variationEntry{Pattern: v.Pattern.ID, Error: v.Err}
		if v.Report != nil {
			stored, storeErr := s.db.CreateVariationReport(r.Context(), id, database.ReportKindPattern, v.Pattern.ID, v.Report)
			if storeErr != nil {
				emitter.Emit(llm.ProgressEvent{Type: "error", Message: "failed to store report: " + storeErr.Error()})
				return
			}
			entry.ReportID = stored.ID
			entry.State = stored.State
			entry.BestEffort = stored.BestEffort
		}
		entries = append(entries, entry)
	}

	data, _ := json.Marshal(map[string]any{"analysis_id": id, "reports": entries})
	emitter.Emit(llm.ProgressEvent{Type: "done", Message: string(data)})
}
