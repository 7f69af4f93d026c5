package models

// TemplateRow is one formatted row of the rendered C 01.00 template.
type TemplateRow struct {
	RowCode         string   `json:"row_code"`
	Description     string   `json:"description"`
	Amount          *float64 `json:"amount"`
	FormattedAmount string   `json:"formatted_amount"`
	Currency        string   `json:"currency"`
}

// SummaryTotals are the tier totals recomputed by the template mapper from
// the record's tier data. Unlike the extractor's Summary, absent components
// contribute zero, so every field always carries a number.
type SummaryTotals struct {
	TotalCET1     float64 `json:"total_cet1"`
	TotalAT1      float64 `json:"total_at1"`
	TotalTier2    float64 `json:"total_tier2"`
	TotalOwnFunds float64 `json:"total_own_funds"`
}
