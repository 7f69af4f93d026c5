package models

// Severity classifies a validation flag. The set is closed so status
// computation and grouping can switch exhaustively instead of matching
// arbitrary strings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ReportStatus is the overall verdict of a validation run.
type ReportStatus string

const (
	StatusPass ReportStatus = "PASS"
	StatusFail ReportStatus = "FAIL"
)

// ValidationFlag is one finding produced by a validation rule.
type ValidationFlag struct {
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Field      string   `json:"field,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// ValidationSummary aggregates flag counts and the pass/fail verdict.
// Status is FAIL iff Errors > 0; warnings and info never fail a report.
type ValidationSummary struct {
	TotalFlags int          `json:"total_flags"`
	Errors     int          `json:"errors"`
	Warnings   int          `json:"warnings"`
	Info       int          `json:"info"`
	Status     ReportStatus `json:"status"`
}

// GroupedFlags holds validation flags grouped by severity, preserving the
// order in which the rules produced them.
type GroupedFlags struct {
	Errors   []ValidationFlag `json:"errors"`
	Warnings []ValidationFlag `json:"warnings"`
	Info     []ValidationFlag `json:"info"`
}

// ValidationReport is the complete validation outcome for one record.
type ValidationReport struct {
	Summary         ValidationSummary `json:"validation_summary"`
	Flags           GroupedFlags      `json:"validation_flags"`
	Recommendations []string          `json:"recommendations"`
}
