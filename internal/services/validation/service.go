package validation

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/template"
)

// Service validates structured records against the C 01.00 business rules.
// Validate is a pure function of the record; rule groups run in a fixed
// order and flag order is deterministic, so reports are reproducible.
type Service struct {
	template *template.Service
	logger   arbor.ILogger
}

// NewService creates a validation service. The template service supplies the
// independent summary recomputation used by the consistency check.
func NewService(templateService *template.Service, logger arbor.ILogger) *Service {
	return &Service{
		template: templateService,
		logger:   logger,
	}
}

// Validate runs all rule groups against the record and returns the flags in
// rule order.
func (s *Service) Validate(record *models.StructuredRecord) []models.ValidationFlag {
	flags := []models.ValidationFlag{}

	if record == nil || record.Tiers == nil {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityError,
			Message:    "Missing own_funds section in structured output",
			Field:      "own_funds",
			Suggestion: "Ensure the extraction output includes the own_funds structure",
		})
		return flags
	}

	flags = append(flags, s.validateCET1(record)...)
	flags = append(flags, s.validateInstrumentTier(record, models.TierAT1, "AT1")...)
	flags = append(flags, s.validateInstrumentTier(record, models.TierTier2, "Tier 2")...)
	flags = append(flags, s.validateCrossTier(record)...)
	flags = append(flags, s.validateSummary(record)...)
	flags = append(flags, s.validateMetadata(record)...)

	return flags
}

func (s *Service) validateCET1(record *models.StructuredRecord) []models.ValidationFlag {
	var flags []models.ValidationFlag

	cet1, ok := record.Tiers[models.TierCET1]
	if !ok {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityError,
			Message:    "Missing CET1 section",
			Field:      models.TierCET1,
			Suggestion: "Include CET1 capital components in the output",
		})
		return flags
	}

	for _, name := range []string{models.ComponentOrdinaryShareCapital, models.ComponentRetainedEarnings} {
		if _, ok := cet1[name]; !ok {
			flags = append(flags, models.ValidationFlag{
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Missing CET1 component: %s", name),
				Field:      fmt.Sprintf("CET1.%s", name),
				Suggestion: fmt.Sprintf("Include %s if applicable to the bank", name),
			})
		}
	}

	// Deductions are expected to carry a negative sign; a positive value
	// signals sign confusion upstream.
	if deduction, ok := cet1[models.ComponentIntangiblesDeduction]; ok && deduction != nil {
		if deduction.Amount != nil && *deduction.Amount > 0 {
			flags = append(flags, models.ValidationFlag{
				Severity:   models.SeverityWarning,
				Message:    "Intangible assets deduction should be negative (deduction from capital)",
				Field:      "CET1.intangibles_deduction",
				Suggestion: "Ensure intangible assets are recorded as negative amounts",
			})
		}
	}

	// Map iteration order is random, so sort component names for
	// reproducible flag order.
	names := make([]string, 0, len(cet1))
	for name := range cet1 {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		component := cet1[name]
		if component != nil && component.Amount == nil {
			flags = append(flags, models.ValidationFlag{
				Severity:   models.SeverityInfo,
				Message:    fmt.Sprintf("No amount specified for CET1 component: %s", name),
				Field:      fmt.Sprintf("CET1.%s", name),
				Suggestion: "Provide amount or confirm component is not applicable",
			})
		}
	}

	return flags
}

// validateInstrumentTier covers the AT1 and Tier2 rules, which mirror each
// other exactly.
func (s *Service) validateInstrumentTier(record *models.StructuredRecord, tier, displayName string) []models.ValidationFlag {
	var flags []models.ValidationFlag

	components, ok := record.Tiers[tier]
	if !ok {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityInfo,
			Message:    fmt.Sprintf("No %s capital reported", displayName),
			Field:      tier,
			Suggestion: fmt.Sprintf("Confirm if bank has no %s instruments or include them if applicable", displayName),
		})
		return flags
	}

	instruments, ok := components[models.ComponentInstruments]
	if !ok || instruments == nil {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Missing %s instruments section", displayName),
			Field:      fmt.Sprintf("%s.instruments", tier),
			Suggestion: fmt.Sprintf("Include %s instruments if applicable", displayName),
		})
		return flags
	}

	switch {
	case instruments.Amount == nil:
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("%s instruments amount is null", displayName),
			Field:      fmt.Sprintf("%s.instruments", tier),
			Suggestion: fmt.Sprintf("Provide amount or confirm no %s instruments exist", displayName),
		})
	case *instruments.Amount == 0:
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityInfo,
			Message:    fmt.Sprintf("%s instruments reported as zero", displayName),
			Field:      fmt.Sprintf("%s.instruments", tier),
			Suggestion: fmt.Sprintf("Confirm if bank truly has no %s instruments", displayName),
		})
	}

	return flags
}

func (s *Service) validateCrossTier(record *models.StructuredRecord) []models.ValidationFlag {
	var flags []models.ValidationFlag

	hasCET1 := false
	for _, component := range record.Tiers[models.TierCET1] {
		if component != nil && component.Amount != nil && *component.Amount != 0 {
			hasCET1 = true
			break
		}
	}

	populated := func(tier string) bool {
		component := record.Component(tier, models.ComponentInstruments)
		return component != nil && component.Amount != nil && *component.Amount != 0
	}
	hasAT1 := populated(models.TierAT1)
	hasTier2 := populated(models.TierTier2)

	if hasCET1 && !hasAT1 && !hasTier2 {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityInfo,
			Message:    "Only CET1 capital reported - confirm no AT1 or Tier 2 instruments exist",
			Field:      "cross_component",
			Suggestion: "Review if bank should have AT1 or Tier 2 capital instruments",
		})
	}

	// Capital-stack ordering: CET1 must exist before higher tiers.
	if (hasAT1 || hasTier2) && !hasCET1 {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityError,
			Message:    "Higher tier capital reported but no CET1 capital found",
			Field:      "cross_component",
			Suggestion: "CET1 capital is typically required before AT1/Tier 2 instruments",
		})
	}

	return flags
}

func (s *Service) validateSummary(record *models.StructuredRecord) []models.ValidationFlag {
	var flags []models.ValidationFlag

	expected := s.template.CalculateSummary(record)
	checks := []struct {
		name     string
		expected float64
		actual   *float64
	}{
		{"total_cet1", expected.TotalCET1, record.Summary.TotalCET1},
		{"total_at1", expected.TotalAT1, record.Summary.TotalAT1},
		{"total_tier2", expected.TotalTier2, record.Summary.TotalTier2},
		{"total_own_funds", expected.TotalOwnFunds, record.Summary.TotalOwnFunds},
	}

	for _, check := range checks {
		if check.actual == nil || *check.actual != check.expected {
			flags = append(flags, models.ValidationFlag{
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Summary %s mismatch: expected %s, got %s", check.name, formatTotal(&check.expected), formatTotal(check.actual)),
				Field:      fmt.Sprintf("summary.%s", check.name),
				Suggestion: "Verify summary calculations are correct",
			})
		}
	}

	return flags
}

func formatTotal(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (s *Service) validateMetadata(record *models.StructuredRecord) []models.ValidationFlag {
	var flags []models.ValidationFlag

	if record.Currency == "" {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityWarning,
			Message:    "Missing currency specification",
			Field:      "currency",
			Suggestion: "Specify reporting currency (typically GBP for UK banks)",
		})
	}

	if record.ReportingDate == "" {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityInfo,
			Message:    "Missing reporting date",
			Field:      "reporting_date",
			Suggestion: "Include reporting date for the COREP submission",
		})
	}

	if record.TemplateID != models.TemplateOwnFunds {
		flags = append(flags, models.ValidationFlag{
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Unexpected template reference: %s", record.TemplateID),
			Field:      "template",
			Suggestion: "Ensure template is set to 'C 01.00' for Own Funds reporting",
		})
	}

	// Audit trail: every leaf component needs regulatory references. Tiers
	// and components iterate in sorted order for reproducible flag order.
	tiers := make([]string, 0, len(record.Tiers))
	for tier := range record.Tiers {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		names := make([]string, 0, len(record.Tiers[tier]))
		for name := range record.Tiers[tier] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			component := record.Tiers[tier][name]
			if component == nil || len(component.ProvenanceRefs) == 0 {
				flags = append(flags, models.ValidationFlag{
					Severity:   models.SeverityWarning,
					Message:    fmt.Sprintf("Missing regulatory references for %s.%s", tier, name),
					Field:      fmt.Sprintf("%s.%s.justification_refs", tier, name),
					Suggestion: "Include regulatory source references for audit trail",
				})
			}
		}
	}

	return flags
}
