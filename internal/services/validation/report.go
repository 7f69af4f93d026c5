package validation

import (
	"fmt"
	"strings"

	"github.com/ternarybob/refero/internal/models"
)

// GenerateReport validates the record and aggregates the flags into a
// complete validation report: severity-grouped flags, counts, the pass/fail
// verdict, and recommendations.
func (s *Service) GenerateReport(record *models.StructuredRecord) *models.ValidationReport {
	flags := s.Validate(record)

	grouped := models.GroupedFlags{
		Errors:   []models.ValidationFlag{},
		Warnings: []models.ValidationFlag{},
		Info:     []models.ValidationFlag{},
	}
	for _, flag := range flags {
		switch flag.Severity {
		case models.SeverityError:
			grouped.Errors = append(grouped.Errors, flag)
		case models.SeverityWarning:
			grouped.Warnings = append(grouped.Warnings, flag)
		case models.SeverityInfo:
			grouped.Info = append(grouped.Info, flag)
		}
	}

	status := models.StatusPass
	if len(grouped.Errors) > 0 {
		status = models.StatusFail
	}

	report := &models.ValidationReport{
		Summary: models.ValidationSummary{
			TotalFlags: len(flags),
			Errors:     len(grouped.Errors),
			Warnings:   len(grouped.Warnings),
			Info:       len(grouped.Info),
			Status:     status,
		},
		Flags:           grouped,
		Recommendations: buildRecommendations(flags, grouped),
	}

	s.logger.Debug().
		Int("total_flags", len(flags)).
		Int("errors", len(grouped.Errors)).
		Str("status", string(status)).
		Msg("Validation report generated")

	return report
}

func buildRecommendations(flags []models.ValidationFlag, grouped models.GroupedFlags) []string {
	var recommendations []string

	if len(grouped.Errors) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Address %d critical error(s) before submission", len(grouped.Errors)))
	}
	if len(grouped.Warnings) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Review %d warning(s) for regulatory compliance", len(grouped.Warnings)))
	}

	missingRefs := 0
	missingAmounts := 0
	for _, flag := range flags {
		if strings.Contains(flag.Message, "regulatory references") {
			missingRefs++
		}
		if strings.Contains(strings.ToLower(flag.Message), "amount") && flag.Field != "" {
			missingAmounts++
		}
	}
	if missingRefs > 0 {
		recommendations = append(recommendations, "Add regulatory source references for audit trail completeness")
	}
	if missingAmounts > 0 {
		recommendations = append(recommendations, "Complete all applicable amount fields or confirm they are truly not applicable")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Validation passed - review output for accuracy before submission")
	}

	return recommendations
}
