package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/extraction"
	"github.com/ternarybob/refero/internal/services/status"
	"github.com/ternarybob/refero/internal/services/template"
	"github.com/ternarybob/refero/internal/services/validation"
)

// fakeRetrieval returns canned matches without touching an embedder.
type fakeRetrieval struct {
	matches []models.RetrievedMatch
	err     error
}

func (f *fakeRetrieval) Reindex(ctx context.Context, docs []models.Document) error { return f.err }

func (f *fakeRetrieval) Search(ctx context.Context, query string, k int) ([]models.RetrievedMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.matches) {
		k = len(f.matches)
	}
	return f.matches[:k], nil
}

func (f *fakeRetrieval) Size() int { return len(f.matches) }

func newTestReportHandler(t *testing.T, ready bool, retrievalService interfaces.RetrievalService) *ReportHandler {
	t.Helper()
	logger := arbor.NewLogger()
	config := common.NewDefaultConfig()

	statusService := status.NewService(logger)
	if ready {
		statusService.SetState(status.StateReady, "", nil)
	}

	extractionService := extraction.NewPatternService(&config.Extraction, logger)
	templateService := template.NewService(logger)
	validationService := validation.NewService(templateService, logger)

	return NewReportHandler(config, statusService, retrievalService, extractionService, templateService, validationService, logger)
}

func testRetrieval() *fakeRetrieval {
	return &fakeRetrieval{
		matches: []models.RetrievedMatch{
			{Source: "PRA_Own_Funds.txt", Text: "CET1 includes ordinary share capital.", FullText: "CET1 includes ordinary share capital.", Score: 0.1},
			{Source: "CRR_Article_26.txt", Text: "Retained earnings count toward CET1.", FullText: "Retained earnings count toward CET1.", Score: 0.2},
		},
	}
}

func TestGenerateReportFullPipeline(t *testing.T) {
	handler := newTestReportHandler(t, true, testRetrieval())

	body := `{"query": "The bank has £120m ordinary share capital, £30m retained earnings, £10m AT1 instruments, and £8m intangible assets.", "k": 2}`
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.ID, "rpt_"))
	assert.Len(t, resp.RetrievedSources, 2)
	require.NotNil(t, resp.StructuredOutput)
	assert.Equal(t, "C 01.00", resp.StructuredOutput.TemplateID)

	require.Len(t, resp.TemplateRows, 5)
	assert.Equal(t, "010", resp.TemplateRows[0].RowCode)
	assert.Equal(t, "£120.00", resp.TemplateRows[0].FormattedAmount)
	assert.Equal(t, 142.0, resp.Summary.TotalCET1)

	require.NotNil(t, resp.ValidationReport)
	// Positive intangibles raise a sign warning but no errors.
	assert.Equal(t, models.StatusPass, resp.ValidationReport.Summary.Status)
	assert.Zero(t, resp.ValidationReport.Summary.Errors)

	assert.Equal(t, template.MIMEJSON, resp.ExportMIME)
	assert.Contains(t, resp.ExportData, `"template": "C 01.00"`)
}

func TestGenerateReportNotReady(t *testing.T) {
	handler := newTestReportHandler(t, false, testRetrieval())

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(`{"query": "x"}`))
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateReportEmptyCorpus(t *testing.T) {
	handler := newTestReportHandler(t, true, &fakeRetrieval{err: interfaces.ErrEmptyCorpus})

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(`{"query": "x"}`))
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateReportRequiresQuery(t *testing.T) {
	handler := newTestReportHandler(t, true, testRetrieval())

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReportUnsupportedFormat(t *testing.T) {
	handler := newTestReportHandler(t, true, testRetrieval())

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(`{"query": "£120m ordinary share capital", "format": "xml"}`))
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "xml")
}

func TestGenerateReportRejectsGet(t *testing.T) {
	handler := newTestReportHandler(t, true, testRetrieval())

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
