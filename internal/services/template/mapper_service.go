package template

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// rowSpec fixes the emission order and display names of template rows. Rows
// are emitted in ascending row-code order regardless of how the record's
// tier maps iterate.
type rowSpec struct {
	rowCode     string
	description string
	tier        string
	component   string
}

var templateRows = []rowSpec{
	{models.RowOrdinaryShareCapital, "Ordinary Share Capital", models.TierCET1, models.ComponentOrdinaryShareCapital},
	{models.RowRetainedEarnings, "Retained Earnings", models.TierCET1, models.ComponentRetainedEarnings},
	{models.RowAT1Instruments, "AT1 Instruments", models.TierAT1, models.ComponentInstruments},
	{models.RowTier2Instruments, "Tier 2 Instruments", models.TierTier2, models.ComponentInstruments},
	{models.RowIntangiblesDeduction, "Intangible Assets Deduction", models.TierCET1, models.ComponentIntangiblesDeduction},
}

// Service converts structured records into ordered template rows, formats
// currency amounts, and recomputes tier totals.
type Service struct {
	printer *message.Printer
	logger  arbor.ILogger
}

// NewService creates a template mapping service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		printer: message.NewPrinter(language.BritishEnglish),
		logger:  logger,
	}
}

// MapToRows converts a structured record into the ordered row sequence of
// the C 01.00 template. A row is emitted only when its component exists in
// the record; a present component with a nil amount renders as "N/A".
func (s *Service) MapToRows(record *models.StructuredRecord) []models.TemplateRow {
	rows := make([]models.TemplateRow, 0, len(templateRows))
	if record == nil || record.Tiers == nil {
		return rows
	}

	for _, spec := range templateRows {
		components, ok := record.Tiers[spec.tier]
		if !ok {
			continue
		}
		component, ok := components[spec.component]
		if !ok || component == nil {
			continue
		}

		rows = append(rows, models.TemplateRow{
			RowCode:         spec.rowCode,
			Description:     spec.description,
			Amount:          component.Amount,
			FormattedAmount: s.FormatCurrency(component.Amount, record.Currency),
			Currency:        record.Currency,
		})
	}

	return rows
}

// FormatCurrency renders an amount with thousands separators and two decimal
// places. GBP gets the pound prefix; other currencies are suffixed with
// their code. A nil amount renders as "N/A".
func (s *Service) FormatCurrency(amount *float64, currency string) string {
	if amount == nil {
		return "N/A"
	}
	if currency == "GBP" {
		return s.printer.Sprintf("£%.2f", *amount)
	}
	return s.printer.Sprintf("%.2f %s", *amount, currency)
}

// CalculateSummary recomputes tier totals from the record's components.
// Absent or nil amounts contribute zero, so the result always carries
// numbers even when the extractor's own summary left totals absent. The
// validation engine compares the two views.
func (s *Service) CalculateSummary(record *models.StructuredRecord) models.SummaryTotals {
	var totals models.SummaryTotals
	if record == nil || record.Tiers == nil {
		return totals
	}

	if cet1, ok := record.Tiers[models.TierCET1]; ok {
		for _, name := range []string{models.ComponentOrdinaryShareCapital, models.ComponentRetainedEarnings} {
			if component, ok := cet1[name]; ok && component != nil && component.Amount != nil {
				totals.TotalCET1 += *component.Amount
			}
		}
		if component, ok := cet1[models.ComponentIntangiblesDeduction]; ok && component != nil && component.Amount != nil {
			totals.TotalCET1 -= *component.Amount
		}
	}

	if component := record.Component(models.TierAT1, models.ComponentInstruments); component != nil && component.Amount != nil {
		totals.TotalAT1 = *component.Amount
	}
	if component := record.Component(models.TierTier2, models.ComponentInstruments); component != nil && component.Amount != nil {
		totals.TotalTier2 = *component.Amount
	}

	totals.TotalOwnFunds = totals.TotalCET1 + totals.TotalAT1 + totals.TotalTier2

	return totals
}
