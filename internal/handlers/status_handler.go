package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/services/status"
)

// StatusHandler reports the service lifecycle state and index size.
type StatusHandler struct {
	status    *status.Service
	retrieval interfaces.RetrievalService
	logger    arbor.ILogger
}

// NewStatusHandler creates a status handler
func NewStatusHandler(statusService *status.Service, retrievalService interfaces.RetrievalService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		status:    statusService,
		retrieval: retrievalService,
		logger:    logger,
	}
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snapshot := h.status.Snapshot()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state":       snapshot.State,
		"message":     snapshot.Message,
		"metadata":    snapshot.Metadata,
		"updated_at":  snapshot.UpdatedAt,
		"corpus_size": h.retrieval.Size(),
	})
}
