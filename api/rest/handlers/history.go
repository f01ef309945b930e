package handlers

import (
	"fmt"
	"net/http"

	"docs-orchestrator/core/models"
	"docs-orchestrator/core/repository"
)

// HistoryHandler serves recorded job outcomes. The recorder is
// optional; without a database the endpoint reports itself disabled.
type HistoryHandler struct {
	history *repository.HistoryRepository
}

// NewHistoryHandler creates a new history handler. history may be nil.
func NewHistoryHandler(history *repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// HistoryResponse is the GET /v1/history body.
type HistoryResponse struct {
	Enabled bool                  `json:"enabled"`
	Entries []models.HistoryEntry `json:"entries"`
}

// RecentHistory handles GET /v1/history.
func (h *HistoryHandler) RecentHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, HistoryResponse{Enabled: false, Entries: []models.HistoryEntry{}})
		return
	}

	limit := 50
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		fmt.Sscanf(limitParam, "%d", &limit)
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := h.history.RecentOutcomes(limit)
	if err != nil {
		http.Error(w, "failed to load history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Enabled: true, Entries: entries})
}
