package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/status"
	"github.com/ternarybob/refero/internal/services/template"
	"github.com/ternarybob/refero/internal/services/validation"
)

// ReportRequest is the payload of POST /api/report.
type ReportRequest struct {
	Query    string `json:"query"`
	K        int    `json:"k,omitempty"`
	Format   string `json:"format,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// ReportResponse is the full pipeline output for one scenario.
type ReportResponse struct {
	ID               string                   `json:"id"`
	Timestamp        time.Time                `json:"timestamp"`
	RetrievedSources []models.RetrievedMatch  `json:"retrieved_sources"`
	StructuredOutput *models.StructuredRecord `json:"structured_output"`
	TemplateRows     []models.TemplateRow     `json:"corep_template"`
	Summary          models.SummaryTotals     `json:"summary"`
	ValidationReport *models.ValidationReport `json:"validation_report"`
	ExportData       string                   `json:"export_data"`
	ExportMIME       string                   `json:"export_mime"`
}

// ReportHandler runs the full report pipeline: retrieve, extract, map,
// validate, export.
type ReportHandler struct {
	config     *common.Config
	status     *status.Service
	retrieval  interfaces.RetrievalService
	extraction interfaces.ExtractionService
	template   *template.Service
	validation *validation.Service
	logger     arbor.ILogger
}

// NewReportHandler creates a report handler
func NewReportHandler(
	config *common.Config,
	statusService *status.Service,
	retrievalService interfaces.RetrievalService,
	extractionService interfaces.ExtractionService,
	templateService *template.Service,
	validationService *validation.Service,
	logger arbor.ILogger,
) *ReportHandler {
	return &ReportHandler{
		config:     config,
		status:     statusService,
		retrieval:  retrievalService,
		extraction: extractionService,
		template:   templateService,
		validation: validationService,
		logger:     logger,
	}
}

// GenerateReport handles POST /api/report
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if !h.status.IsReady() {
		WriteError(w, http.StatusServiceUnavailable, "Service is not ready")
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	k := req.K
	if k <= 0 {
		k = h.config.Retrieval.DefaultTopK
	}
	format := req.Format
	if format == "" {
		format = template.FormatJSON
	}

	startTime := time.Now()

	matches, err := h.retrieval.Search(r.Context(), req.Query, k)
	if err != nil {
		if errors.Is(err, interfaces.ErrEmptyCorpus) {
			WriteError(w, http.StatusServiceUnavailable, "Retrieval is unavailable: no documents indexed")
			return
		}
		h.logger.Error().Err(err).Msg("Retrieval search failed")
		WriteError(w, http.StatusInternalServerError, "Retrieval failed: "+err.Error())
		return
	}

	// Extraction is fail-soft; a degraded record flows through the rest of
	// the pipeline like any other.
	record, err := h.extraction.Extract(r.Context(), req.Query, matches)
	if err != nil {
		h.logger.Error().Err(err).Msg("Extraction failed")
		WriteError(w, http.StatusInternalServerError, "Extraction failed: "+err.Error())
		return
	}
	if req.Currency != "" {
		record.Currency = req.Currency
	}

	rows := h.template.MapToRows(record)
	totals := h.template.CalculateSummary(record)
	report := h.validation.GenerateReport(record)

	exportData, exportMIME, err := h.template.Export(record, format)
	if err != nil {
		if errors.Is(err, interfaces.ErrUnsupportedFormat) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("Export failed")
		WriteError(w, http.StatusInternalServerError, "Export failed: "+err.Error())
		return
	}

	h.logger.Info().
		Str("strategy", string(h.extraction.Strategy())).
		Str("format", format).
		Str("status", string(report.Summary.Status)).
		Dur("duration", time.Since(startTime)).
		Msg("Report generated")

	WriteJSON(w, http.StatusOK, ReportResponse{
		ID:               common.NewReportID(),
		Timestamp:        time.Now().UTC(),
		RetrievedSources: matches,
		StructuredOutput: record,
		TemplateRows:     rows,
		Summary:          totals,
		ValidationReport: report,
		ExportData:       exportData,
		ExportMIME:       exportMIME,
	})
}
