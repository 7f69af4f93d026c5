package interfaces

import (
	"context"

	"github.com/ternarybob/refero/internal/models"
)

// ExtractionStrategy identifies which extraction implementation is in use.
type ExtractionStrategy string

const (
	// StrategyPattern uses deterministic regex extraction.
	StrategyPattern ExtractionStrategy = "pattern"

	// StrategyGenerative delegates to an LLM constrained to the record
	// schema.
	StrategyGenerative ExtractionStrategy = "generative"
)

// ExtractionService produces a structured capital-position record from a
// free-text scenario plus the documents retrieved for it. Implementations
// are fail-soft: extraction problems surface as a well-formed record whose
// amounts are absent and whose data gaps describe the failure, never as an
// error crossing this boundary.
type ExtractionService interface {
	Extract(ctx context.Context, query string, docs []models.RetrievedMatch) (*models.StructuredRecord, error)

	// Strategy reports which implementation this is.
	Strategy() ExtractionStrategy
}
