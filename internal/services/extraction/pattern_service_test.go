package extraction

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

func testExtractionConfig() *common.ExtractionConfig {
	return &common.ExtractionConfig{
		Strategy:        "pattern",
		DefaultCurrency: "GBP",
		ReportingDate:   "2026-01-31",
	}
}

func testMatches() []models.RetrievedMatch {
	return []models.RetrievedMatch{
		{Source: "PRA_Own_Funds.txt", Text: "CET1 capital includes ordinary share capital.", FullText: "CET1 capital includes ordinary share capital."},
		{Source: "CRR_Article_26.txt", Text: "Retained earnings count toward CET1.", FullText: "Retained earnings count toward CET1."},
		{Source: "CRR_Article_36.txt", Text: "Intangible assets are deducted.", FullText: "Intangible assets are deducted."},
	}
}

func TestPatternExtractFullScenario(t *testing.T) {
	svc := NewPatternService(testExtractionConfig(), arbor.NewLogger())
	query := "The bank has £120m ordinary share capital, £30m retained earnings, £10m AT1 instruments, and £8m intangible assets."

	record, err := svc.Extract(context.Background(), query, testMatches())
	require.NoError(t, err)

	assert.Equal(t, models.TemplateOwnFunds, record.TemplateID)
	assert.Equal(t, "GBP", record.Currency)
	assert.Equal(t, "2026-01-31", record.ReportingDate)

	ordinary := record.Component(models.TierCET1, models.ComponentOrdinaryShareCapital)
	require.NotNil(t, ordinary)
	require.NotNil(t, ordinary.Amount)
	assert.Equal(t, 120.0, *ordinary.Amount)
	assert.Equal(t, models.RowOrdinaryShareCapital, ordinary.RowCode)
	assert.Equal(t, "Extracted from user query", ordinary.Explanation)
	assert.Equal(t, []string{"PRA_Own_Funds.txt", "CRR_Article_26.txt"}, ordinary.ProvenanceRefs)

	retained := record.Component(models.TierCET1, models.ComponentRetainedEarnings)
	require.NotNil(t, retained.Amount)
	assert.Equal(t, 30.0, *retained.Amount)

	intangibles := record.Component(models.TierCET1, models.ComponentIntangiblesDeduction)
	require.NotNil(t, intangibles.Amount)
	assert.Equal(t, 8.0, *intangibles.Amount)

	at1 := record.Component(models.TierAT1, models.ComponentInstruments)
	require.NotNil(t, at1.Amount)
	assert.Equal(t, 10.0, *at1.Amount)

	tier2 := record.Component(models.TierTier2, models.ComponentInstruments)
	require.NotNil(t, tier2)
	assert.Nil(t, tier2.Amount)
	assert.Equal(t, "Not found in query", tier2.Explanation)

	// total_cet1 = 120 + 30 - 8, tier2 absent so its total stays nil.
	require.NotNil(t, record.Summary.TotalCET1)
	assert.Equal(t, 142.0, *record.Summary.TotalCET1)
	require.NotNil(t, record.Summary.TotalAT1)
	assert.Equal(t, 10.0, *record.Summary.TotalAT1)
	assert.Nil(t, record.Summary.TotalTier2)
	require.NotNil(t, record.Summary.TotalOwnFunds)
	assert.Equal(t, 152.0, *record.Summary.TotalOwnFunds)

	assert.Empty(t, record.DataGaps)
}

func TestPatternExtractBillionScalesWholeQuery(t *testing.T) {
	svc := NewPatternService(testExtractionConfig(), arbor.NewLogger())

	// The billion multiplier applies to every extracted amount once the
	// query mentions billions anywhere, including the £30m figure.
	query := "The bank holds £2 billion ordinary share capital and £30m retained earnings."
	record, err := svc.Extract(context.Background(), query, nil)
	require.NoError(t, err)

	ordinary := record.Component(models.TierCET1, models.ComponentOrdinaryShareCapital)
	require.NotNil(t, ordinary.Amount)
	assert.Equal(t, 2000.0, *ordinary.Amount)

	retained := record.Component(models.TierCET1, models.ComponentRetainedEarnings)
	require.NotNil(t, retained.Amount)
	assert.Equal(t, 30000.0, *retained.Amount)
}

func TestPatternExtractDataGaps(t *testing.T) {
	svc := NewPatternService(testExtractionConfig(), arbor.NewLogger())

	record, err := svc.Extract(context.Background(), "The bank holds £50m Tier 2 subordinated debt.", nil)
	require.NoError(t, err)

	tier2 := record.Component(models.TierTier2, models.ComponentInstruments)
	require.NotNil(t, tier2.Amount)
	assert.Equal(t, 50.0, *tier2.Amount)

	// Gaps are raised only for the two mandatory CET1 components.
	require.Len(t, record.DataGaps, 2)
	assert.Equal(t, models.ComponentOrdinaryShareCapital, record.DataGaps[0].Field)
	assert.Equal(t, "Amount not found in user query", record.DataGaps[0].Issue)
	assert.Equal(t, models.ComponentRetainedEarnings, record.DataGaps[1].Field)

	assert.Nil(t, record.Summary.TotalCET1)
	require.NotNil(t, record.Summary.TotalTier2)
	assert.Equal(t, 50.0, *record.Summary.TotalTier2)
}

func TestPatternExtractThousandsSeparators(t *testing.T) {
	svc := NewPatternService(testExtractionConfig(), arbor.NewLogger())

	record, err := svc.Extract(context.Background(), "The bank has £1,250 million ordinary share capital.", nil)
	require.NoError(t, err)

	ordinary := record.Component(models.TierCET1, models.ComponentOrdinaryShareCapital)
	require.NotNil(t, ordinary.Amount)
	assert.Equal(t, 1250.0, *ordinary.Amount)
}

func TestPatternExtractIsDeterministic(t *testing.T) {
	svc := NewPatternService(testExtractionConfig(), arbor.NewLogger())
	query := "The bank has £120m ordinary share capital and £30m retained earnings."

	first, err := svc.Extract(context.Background(), query, testMatches())
	require.NoError(t, err)
	second, err := svc.Extract(context.Background(), query, testMatches())
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestPatternStrategy(t *testing.T) {
	svc := NewPatternService(testExtractionConfig(), arbor.NewLogger())
	assert.Equal(t, interfaces.StrategyPattern, svc.Strategy())
}
