package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/services/retrieval"
)

// SearchHandler exposes the retrieval index directly: ad-hoc similarity
// queries and manual reindexing.
type SearchHandler struct {
	config    *common.Config
	retrieval interfaces.RetrievalService
	loader    retrieval.DocumentLoader
	logger    arbor.ILogger
}

// NewSearchHandler creates a search handler
func NewSearchHandler(config *common.Config, retrievalService interfaces.RetrievalService, loader retrieval.DocumentLoader, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		config:    config,
		retrieval: retrievalService,
		loader:    loader,
		logger:    logger,
	}
}

// Search handles GET /api/search?q=...&k=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	k := h.config.Retrieval.DefaultTopK
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed < 1 {
			WriteError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = parsed
	}

	matches, err := h.retrieval.Search(r.Context(), query, k)
	if err != nil {
		if errors.Is(err, interfaces.ErrEmptyCorpus) {
			WriteError(w, http.StatusServiceUnavailable, "Retrieval is unavailable: no documents indexed")
			return
		}
		h.logger.Error().Err(err).Msg("Search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"k":       k,
		"count":   len(matches),
		"matches": matches,
	})
}

// Reindex handles POST /api/reindex: reloads the document directory and
// rebuilds the index.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	docs, err := h.loader.Load()
	if err != nil {
		h.logger.Error().Err(err).Msg("Reindex failed to load documents")
		WriteError(w, http.StatusInternalServerError, "Failed to load documents: "+err.Error())
		return
	}

	if err := h.retrieval.Reindex(r.Context(), docs); err != nil {
		if errors.Is(err, interfaces.ErrEmptyCorpus) {
			WriteError(w, http.StatusServiceUnavailable, "No documents found to index")
			return
		}
		h.logger.Error().Err(err).Msg("Reindex failed")
		WriteError(w, http.StatusInternalServerError, "Reindex failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"documents": len(docs),
	})
}
