package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"

	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatHTML = "html"
)

// MIME types for the supported export formats.
const (
	MIMEJSON = "application/json"
	MIMECSV  = "text/csv"
	MIMEHTML = "text/html"
)

// exportDocument is the JSON export payload.
type exportDocument struct {
	Template      string               `json:"template"`
	Currency      string               `json:"currency"`
	ReportingDate string               `json:"reporting_date,omitempty"`
	Rows          []models.TemplateRow `json:"rows"`
	Summary       models.SummaryTotals `json:"summary"`
}

var htmlExportTemplate = htmltemplate.Must(htmltemplate.New("export").Parse(`<html>
<head><title>COREP Template {{.Template}}</title></head>
<body>
<h1>COREP Template {{.Template}}</h1>
<p>Currency: {{.Currency}} | Date: {{.ReportingDate}}</p>
<table border="1">
<tr><th>Row</th><th>Description</th><th>Amount</th></tr>
{{range .Rows}}<tr><td>{{.RowCode}}</td><td>{{.Description}}</td><td>{{.FormattedAmount}}</td></tr>
{{end}}</table>
<h2>Summary</h2>
<ul>
{{range .Summary}}<li>{{.Label}}: {{.Formatted}}</li>
{{end}}</ul>
</body>
</html>
`))

type htmlSummaryItem struct {
	Label     string
	Formatted string
}

type htmlExportData struct {
	Template      string
	Currency      string
	ReportingDate string
	Rows          []models.TemplateRow
	Summary       []htmlSummaryItem
}

// Export serializes the template view of a record into the requested format
// and returns the payload with its MIME type. Unsupported formats fail with
// ErrUnsupportedFormat naming the requested value.
func (s *Service) Export(record *models.StructuredRecord, format string) (string, string, error) {
	rows := s.MapToRows(record)
	summary := s.CalculateSummary(record)

	switch format {
	case FormatJSON:
		payload, err := s.exportJSON(record, rows, summary)
		return payload, MIMEJSON, err
	case FormatCSV:
		return s.exportCSV(record, rows, summary), MIMECSV, nil
	case FormatHTML:
		payload, err := s.exportHTML(record, rows, summary)
		return payload, MIMEHTML, err
	default:
		return "", "", fmt.Errorf("%w: %q", interfaces.ErrUnsupportedFormat, format)
	}
}

func (s *Service) exportJSON(record *models.StructuredRecord, rows []models.TemplateRow, summary models.SummaryTotals) (string, error) {
	doc := exportDocument{
		Template:      record.TemplateID,
		Currency:      record.Currency,
		ReportingDate: record.ReportingDate,
		Rows:          rows,
		Summary:       summary,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize JSON export: %w", err)
	}
	return string(data), nil
}

func (s *Service) exportCSV(record *models.StructuredRecord, rows []models.TemplateRow, summary models.SummaryTotals) string {
	var lines []string
	lines = append(lines, "Row,Description,Amount,Currency")

	for _, row := range rows {
		amount := ""
		if row.Amount != nil {
			amount = strconv.FormatFloat(*row.Amount, 'f', -1, 64)
		}
		lines = append(lines, fmt.Sprintf("%s,%s,%s,%s", row.RowCode, row.Description, amount, row.Currency))
	}

	lines = append(lines,
		"",
		"SUMMARY",
		fmt.Sprintf("Total CET1,%s,%s", strconv.FormatFloat(summary.TotalCET1, 'f', -1, 64), record.Currency),
		fmt.Sprintf("Total AT1,%s,%s", strconv.FormatFloat(summary.TotalAT1, 'f', -1, 64), record.Currency),
		fmt.Sprintf("Total Tier 2,%s,%s", strconv.FormatFloat(summary.TotalTier2, 'f', -1, 64), record.Currency),
		fmt.Sprintf("Total Own Funds,%s,%s", strconv.FormatFloat(summary.TotalOwnFunds, 'f', -1, 64), record.Currency),
	)

	return strings.Join(lines, "\n")
}

func (s *Service) exportHTML(record *models.StructuredRecord, rows []models.TemplateRow, summary models.SummaryTotals) (string, error) {
	reportingDate := record.ReportingDate
	if reportingDate == "" {
		reportingDate = "N/A"
	}

	data := htmlExportData{
		Template:      record.TemplateID,
		Currency:      record.Currency,
		ReportingDate: reportingDate,
		Rows:          rows,
		Summary: []htmlSummaryItem{
			{"Total CET1", s.FormatCurrency(&summary.TotalCET1, record.Currency)},
			{"Total AT1", s.FormatCurrency(&summary.TotalAT1, record.Currency)},
			{"Total Tier 2", s.FormatCurrency(&summary.TotalTier2, record.Currency)},
			{"Total Own Funds", s.FormatCurrency(&summary.TotalOwnFunds, record.Currency)},
		},
	}

	var buf bytes.Buffer
	if err := htmlExportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render HTML export: %w", err)
	}
	return buf.String(), nil
}
