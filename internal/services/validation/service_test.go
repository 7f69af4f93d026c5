package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/template"
)

func newTestService() *Service {
	logger := arbor.NewLogger()
	return NewService(template.NewService(logger), logger)
}

// wellFormedRecord passes every rule: all amounts present, intangibles
// negative, provenance everywhere, metadata set, and a summary matching the
// mapper's recomputation.
func wellFormedRecord() *models.StructuredRecord {
	refs := []string{"PRA_Own_Funds.txt", "CRR_Article_26.txt"}
	return &models.StructuredRecord{
		TemplateID:    models.TemplateOwnFunds,
		Currency:      "GBP",
		ReportingDate: "2026-01-31",
		Tiers: map[string]map[string]*models.CapitalComponent{
			models.TierCET1: {
				models.ComponentOrdinaryShareCapital: {Amount: models.Amount(120), RowCode: "010", ProvenanceRefs: refs},
				models.ComponentRetainedEarnings:     {Amount: models.Amount(30), RowCode: "020", ProvenanceRefs: refs},
				models.ComponentIntangiblesDeduction: {Amount: models.Amount(-8), RowCode: "350", ProvenanceRefs: refs},
			},
			models.TierAT1: {
				models.ComponentInstruments: {Amount: models.Amount(10), RowCode: "120", ProvenanceRefs: refs},
			},
			models.TierTier2: {
				models.ComponentInstruments: {Amount: models.Amount(5), RowCode: "200", ProvenanceRefs: refs},
			},
		},
		DataGaps: []models.DataGap{},
		Summary: models.Summary{
			TotalCET1:     models.Amount(158),
			TotalAT1:      models.Amount(10),
			TotalTier2:    models.Amount(5),
			TotalOwnFunds: models.Amount(173),
		},
	}
}

func TestValidateWellFormedRecordHasNoFlags(t *testing.T) {
	svc := newTestService()

	flags := svc.Validate(wellFormedRecord())
	assert.Empty(t, flags)

	report := svc.GenerateReport(wellFormedRecord())
	assert.Equal(t, models.StatusPass, report.Summary.Status)
	assert.Equal(t, 0, report.Summary.TotalFlags)
	assert.Equal(t, []string{"Validation passed - review output for accuracy before submission"}, report.Recommendations)
}

func TestValidateMissingTiersShortCircuits(t *testing.T) {
	svc := newTestService()

	flags := svc.Validate(&models.StructuredRecord{TemplateID: models.TemplateOwnFunds, Currency: "GBP"})
	require.Len(t, flags, 1)
	assert.Equal(t, models.SeverityError, flags[0].Severity)
	assert.Equal(t, "own_funds", flags[0].Field)
}

func TestValidateMissingCET1Section(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	delete(record.Tiers, models.TierCET1)

	flags := svc.Validate(record)

	var errors []models.ValidationFlag
	for _, flag := range flags {
		if flag.Severity == models.SeverityError {
			errors = append(errors, flag)
		}
	}
	// Missing CET1 section, plus the capital-stack violation because AT1 and
	// Tier2 are populated with no CET1.
	require.Len(t, errors, 2)
	assert.Equal(t, "Missing CET1 section", errors[0].Message)
	assert.Equal(t, "Higher tier capital reported but no CET1 capital found", errors[1].Message)
}

func TestValidateCapitalStackViolation(t *testing.T) {
	svc := newTestService()

	// CET1 present but entirely empty, Tier2 populated.
	record := wellFormedRecord()
	record.Tiers[models.TierCET1][models.ComponentOrdinaryShareCapital].Amount = nil
	record.Tiers[models.TierCET1][models.ComponentRetainedEarnings].Amount = nil
	record.Tiers[models.TierCET1][models.ComponentIntangiblesDeduction].Amount = nil
	record.Tiers[models.TierAT1][models.ComponentInstruments].Amount = nil

	flags := svc.Validate(record)

	var errors []models.ValidationFlag
	for _, flag := range flags {
		if flag.Severity == models.SeverityError {
			errors = append(errors, flag)
		}
	}
	require.Len(t, errors, 1)
	assert.Equal(t, "cross_component", errors[0].Field)
	assert.Equal(t, "Higher tier capital reported but no CET1 capital found", errors[0].Message)

	report := svc.GenerateReport(record)
	assert.Equal(t, models.StatusFail, report.Summary.Status)
}

func TestValidateIntangiblesSignWarning(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	record.Tiers[models.TierCET1][models.ComponentIntangiblesDeduction].Amount = models.Amount(8)
	// Keep the summary consistent so only the sign rule fires.
	record.Summary.TotalCET1 = models.Amount(142)
	record.Summary.TotalOwnFunds = models.Amount(157)

	flags := svc.Validate(record)
	require.Len(t, flags, 1)
	assert.Equal(t, models.SeverityWarning, flags[0].Severity)
	assert.Equal(t, "CET1.intangibles_deduction", flags[0].Field)

	// Warnings never fail the report.
	report := svc.GenerateReport(record)
	assert.Equal(t, models.StatusPass, report.Summary.Status)
}

func TestValidateSummaryMismatch(t *testing.T) {
	svc := newTestService()

	// An absent total diverging from the mapper's inclusive zero policy must
	// fire the mismatch check, as must a plainly wrong number.
	record := wellFormedRecord()
	record.Summary.TotalTier2 = nil
	record.Summary.TotalCET1 = models.Amount(999)

	flags := svc.Validate(record)

	var mismatches []models.ValidationFlag
	for _, flag := range flags {
		if flag.Field == "summary.total_cet1" || flag.Field == "summary.total_tier2" {
			mismatches = append(mismatches, flag)
		}
	}
	require.Len(t, mismatches, 2)
	assert.Equal(t, "Summary total_cet1 mismatch: expected 158, got 999", mismatches[0].Message)
	assert.Equal(t, "Summary total_tier2 mismatch: expected 5, got null", mismatches[1].Message)
}

func TestValidateAbsentTiersAreInfo(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	delete(record.Tiers, models.TierAT1)
	delete(record.Tiers, models.TierTier2)
	record.Summary.TotalAT1 = nil
	record.Summary.TotalTier2 = nil
	record.Summary.TotalOwnFunds = models.Amount(158)

	flags := svc.Validate(record)

	var messages []string
	for _, flag := range flags {
		messages = append(messages, flag.Message)
	}
	assert.Contains(t, messages, "No AT1 capital reported")
	assert.Contains(t, messages, "No Tier 2 capital reported")
	assert.Contains(t, messages, "Only CET1 capital reported - confirm no AT1 or Tier 2 instruments exist")

	// Absent tiers recompute to zero, so the nil extractor totals mismatch.
	report := svc.GenerateReport(record)
	assert.Equal(t, models.StatusPass, report.Summary.Status)
	assert.Equal(t, 2, report.Summary.Warnings)
	assert.Equal(t, 3, report.Summary.Info)
}

func TestValidateZeroInstrumentsIsInfo(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	record.Tiers[models.TierAT1][models.ComponentInstruments].Amount = models.Amount(0)
	record.Summary.TotalAT1 = nil
	record.Summary.TotalOwnFunds = models.Amount(163)

	flags := svc.Validate(record)

	found := false
	for _, flag := range flags {
		if flag.Message == "AT1 instruments reported as zero" {
			found = true
			assert.Equal(t, models.SeverityInfo, flag.Severity)
		}
	}
	assert.True(t, found)
}

func TestValidateMissingProvenanceWarnings(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	record.Tiers[models.TierAT1][models.ComponentInstruments].ProvenanceRefs = nil
	record.Tiers[models.TierTier2][models.ComponentInstruments].ProvenanceRefs = []string{}

	flags := svc.Validate(record)
	require.Len(t, flags, 2)
	assert.Equal(t, "Missing regulatory references for AT1.instruments", flags[0].Message)
	assert.Equal(t, "Missing regulatory references for Tier2.instruments", flags[1].Message)

	report := svc.GenerateReport(record)
	assert.Equal(t, models.StatusPass, report.Summary.Status)
	assert.Contains(t, report.Recommendations, "Add regulatory source references for audit trail completeness")
}

func TestValidateMetadataRules(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	record.Currency = ""
	record.ReportingDate = ""
	record.TemplateID = "C 02.00"

	flags := svc.Validate(record)

	var fields []string
	for _, flag := range flags {
		fields = append(fields, flag.Field)
	}
	assert.Contains(t, fields, "currency")
	assert.Contains(t, fields, "reporting_date")
	assert.Contains(t, fields, "template")
}

func TestGenerateReportRecommendations(t *testing.T) {
	svc := newTestService()

	record := wellFormedRecord()
	record.Tiers[models.TierCET1][models.ComponentRetainedEarnings].Amount = nil
	delete(record.Tiers, models.TierTier2)
	record.Summary = models.Summary{}

	report := svc.GenerateReport(record)
	assert.Equal(t, models.StatusPass, report.Summary.Status)
	assert.Contains(t, report.Recommendations[0], "warning(s) for regulatory compliance")
	assert.Contains(t, report.Recommendations, "Complete all applicable amount fields or confirm they are truly not applicable")
}
