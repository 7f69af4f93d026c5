package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// Component amount patterns. Queries are lowercased before matching, so the
// patterns are written in lowercase. Group 1 captures the amount with
// optional thousands separators.
var (
	reOrdinaryShareCapital = regexp.MustCompile(`£?(\d+(?:,\d+)*)\s*(?:million|m|bn|billion)?\s*(?:ordinary|share|capital)`)
	reRetainedEarnings     = regexp.MustCompile(`£?(\d+(?:,\d+)*)\s*(?:million|m|bn|billion)?\s*(?:retained|earnings)`)
	reAT1Instruments       = regexp.MustCompile(`£?(\d+(?:,\d+)*)\s*(?:million|m|bn|billion)?\s*(?:at1|at 1|additional)`)
	reIntangibleAssets     = regexp.MustCompile(`£?(\d+(?:,\d+)*)\s*(?:million|m|bn|billion)?\s*(?:intangible|goodwill|assets)`)
	reTier2Instruments     = regexp.MustCompile(`£?(\d+(?:,\d+)*)\s*(?:million|m|bn|billion)?\s*(?:tier2|tier 2|subordinated)`)
)

// PatternService implements the ExtractionService interface with
// deterministic regex matching against the user query. It needs no model
// access, so it is the default strategy and the fallback when no chat
// provider is configured.
type PatternService struct {
	config *common.ExtractionConfig
	logger arbor.ILogger
}

// NewPatternService creates a pattern-based extraction service
func NewPatternService(config *common.ExtractionConfig, logger arbor.ILogger) *PatternService {
	return &PatternService{
		config: config,
		logger: logger,
	}
}

// Strategy returns the strategy identifier
func (s *PatternService) Strategy() interfaces.ExtractionStrategy {
	return interfaces.StrategyPattern
}

// extractAmount pulls the first monetary amount matching the pattern out of
// the lowercased query. The billion multiplier keys off the WHOLE query, not
// the matched span: "£2bn capital and £30m earnings" scales both amounts.
func extractAmount(loweredQuery string, re *regexp.Regexp) *float64 {
	match := re.FindStringSubmatch(loweredQuery)
	if match == nil {
		return nil
	}

	amountStr := strings.ReplaceAll(match[1], ",", "")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return nil
	}

	if strings.Contains(loweredQuery, "billion") || strings.Contains(loweredQuery, "bn") {
		amount *= 1000
	}

	return &amount
}

// present reports whether a component amount was actually found. A zero
// amount counts as missing for explanations, totals, and data gaps.
func present(v *float64) bool {
	return v != nil && *v != 0
}

func amountOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// explanationFor returns the per-component provenance note
func explanationFor(v *float64) string {
	if present(v) {
		return "Extracted from user query"
	}
	return "Not found in query"
}

// Extract builds a structured own-funds record from regex matches against
// the query. Every component is always emitted, with a nil amount when the
// query holds no match for it.
func (s *PatternService) Extract(ctx context.Context, query string, docs []models.RetrievedMatch) (*models.StructuredRecord, error) {
	lowered := strings.ToLower(query)

	ordinary := extractAmount(lowered, reOrdinaryShareCapital)
	retained := extractAmount(lowered, reRetainedEarnings)
	intangibles := extractAmount(lowered, reIntangibleAssets)
	at1 := extractAmount(lowered, reAT1Instruments)
	tier2 := extractAmount(lowered, reTier2Instruments)

	refs := provenanceRefs(docs)

	component := func(amount *float64, rowCode string) *models.CapitalComponent {
		return &models.CapitalComponent{
			Amount:         amount,
			RowCode:        rowCode,
			ProvenanceRefs: refs,
			Explanation:    explanationFor(amount),
		}
	}

	record := &models.StructuredRecord{
		TemplateID:    models.TemplateOwnFunds,
		Currency:      s.config.DefaultCurrency,
		ReportingDate: s.config.ReportingDate,
		Tiers: map[string]map[string]*models.CapitalComponent{
			models.TierCET1: {
				models.ComponentOrdinaryShareCapital: component(ordinary, models.RowOrdinaryShareCapital),
				models.ComponentRetainedEarnings:     component(retained, models.RowRetainedEarnings),
				models.ComponentIntangiblesDeduction: component(intangibles, models.RowIntangiblesDeduction),
			},
			models.TierAT1: {
				models.ComponentInstruments: component(at1, models.RowAT1Instruments),
			},
			models.TierTier2: {
				models.ComponentInstruments: component(tier2, models.RowTier2Instruments),
			},
		},
		DataGaps: []models.DataGap{},
	}

	// Totals stay nil unless positive; an all-deduction scenario reports no
	// total rather than a negative one.
	totalCET1 := amountOrZero(ordinary) + amountOrZero(retained) - amountOrZero(intangibles)
	totalAT1 := amountOrZero(at1)
	totalTier2 := amountOrZero(tier2)
	totalOwnFunds := totalCET1 + totalAT1 + totalTier2

	record.Summary = models.Summary{
		TotalCET1:     positiveOrNil(totalCET1),
		TotalAT1:      positiveOrNil(totalAT1),
		TotalTier2:    positiveOrNil(totalTier2),
		TotalOwnFunds: positiveOrNil(totalOwnFunds),
	}

	// Only the two mandatory CET1 components raise data gaps.
	if !present(ordinary) {
		record.DataGaps = append(record.DataGaps, models.DataGap{
			Field:      models.ComponentOrdinaryShareCapital,
			Issue:      "Amount not found in user query",
			Suggestion: "Please specify ordinary share capital amount",
		})
	}
	if !present(retained) {
		record.DataGaps = append(record.DataGaps, models.DataGap{
			Field:      models.ComponentRetainedEarnings,
			Issue:      "Amount not found in user query",
			Suggestion: "Please specify retained earnings amount",
		})
	}

	s.logger.Debug().
		Str("strategy", string(interfaces.StrategyPattern)).
		Int("data_gaps", len(record.DataGaps)).
		Msg("Pattern extraction completed")

	return record, nil
}

func positiveOrNil(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}

// provenanceRefs returns the sources of the first two retrieved documents
func provenanceRefs(docs []models.RetrievedMatch) []string {
	refs := make([]string, 0, 2)
	for i, doc := range docs {
		if i >= 2 {
			break
		}
		refs = append(refs, doc.Source)
	}
	return refs
}
