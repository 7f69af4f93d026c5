package models

// TemplateOwnFunds is the COREP template identifier this system models.
const TemplateOwnFunds = "C 01.00"

// Capital tier names as they appear in the own_funds section.
const (
	TierCET1  = "CET1"
	TierAT1   = "AT1"
	TierTier2 = "Tier2"
)

// Leaf component names within each tier.
const (
	ComponentOrdinaryShareCapital = "ordinary_share_capital"
	ComponentRetainedEarnings     = "retained_earnings"
	ComponentIntangiblesDeduction = "intangibles_deduction"
	ComponentInstruments          = "instruments"
)

// COREP C 01.00 row codes for the modeled components.
const (
	RowOrdinaryShareCapital = "010"
	RowRetainedEarnings     = "020"
	RowAT1Instruments       = "120"
	RowTier2Instruments     = "200"
	RowIntangiblesDeduction = "350"
)

// CapitalComponent is one leaf line item of the own funds composition.
// A nil Amount means the value was not found, which is different from zero.
type CapitalComponent struct {
	Amount         *float64 `json:"amount"`
	RowCode        string   `json:"corep_row,omitempty"`
	ProvenanceRefs []string `json:"justification_refs,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

// DataGap records a structurally expected field that extraction could not
// populate, with a suggestion for the user.
type DataGap struct {
	Field      string `json:"field"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// Summary holds the extractor's own total calculations. Totals are nil when
// the extractor considered them absent (computed value <= 0). The template
// mapper recomputes these independently with an inclusive zero policy; the
// validation engine compares the two.
type Summary struct {
	TotalCET1     *float64 `json:"total_cet1"`
	TotalAT1      *float64 `json:"total_at1"`
	TotalTier2    *float64 `json:"total_tier2"`
	TotalOwnFunds *float64 `json:"total_own_funds"`
}

// StructuredRecord is the central structured output of extraction: the
// capital position of a bank arranged by tier and component, plus extraction
// provenance and gap notes. Records are never mutated after creation;
// downstream stages produce derived views.
type StructuredRecord struct {
	TemplateID    string                                  `json:"template" validate:"required"`
	Currency      string                                  `json:"currency" validate:"required"`
	ReportingDate string                                  `json:"reporting_date,omitempty"`
	Tiers         map[string]map[string]*CapitalComponent `json:"own_funds" validate:"required"`
	DataGaps      []DataGap                               `json:"data_gaps"`
	Summary       Summary                                 `json:"summary"`
}

// Component returns the named component of a tier, or nil when either the
// tier or the component is absent.
func (r *StructuredRecord) Component(tier, name string) *CapitalComponent {
	if r.Tiers == nil {
		return nil
	}
	components, ok := r.Tiers[tier]
	if !ok {
		return nil
	}
	return components[name]
}

// Amount is a convenience for building optional amounts in literals.
func Amount(v float64) *float64 {
	return &v
}
