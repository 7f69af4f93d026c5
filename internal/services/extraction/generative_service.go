package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// GenerativeService implements the ExtractionService interface by prompting
// a chat model with the retrieved regulatory context. It is fail-soft: any
// model, parse, or validation failure produces a degraded record carrying a
// data gap instead of an error, so the report pipeline always completes.
type GenerativeService struct {
	llm      interfaces.LLMService
	config   *common.ExtractionConfig
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewGenerativeService creates a model-backed extraction service
func NewGenerativeService(llm interfaces.LLMService, config *common.ExtractionConfig, logger arbor.ILogger) *GenerativeService {
	return &GenerativeService{
		llm:      llm,
		config:   config,
		validate: validator.New(),
		logger:   logger,
	}
}

// Strategy returns the strategy identifier
func (s *GenerativeService) Strategy() interfaces.ExtractionStrategy {
	return interfaces.StrategyGenerative
}

// Extract prompts the chat model and parses its response into a structured
// record. The returned error is always nil; failures degrade to a record
// whose data_gaps explain what went wrong.
func (s *GenerativeService) Extract(ctx context.Context, query string, docs []models.RetrievedMatch) (*models.StructuredRecord, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(query, docs)},
	}

	response, err := s.llm.Chat(ctx, messages)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Generative extraction failed, returning degraded record")
		return s.degradedRecord(fmt.Sprintf("LLM processing error: %s", err), "Check API key and try again"), nil
	}

	record, err := s.parseResponse(response)
	if err != nil {
		s.logger.Warn().Err(err).Int("response_length", len(response)).Msg("Could not parse model response, returning degraded record")
		return s.degradedRecord(fmt.Sprintf("LLM processing error: %s", err), "Check API key and try again"), nil
	}

	s.logger.Debug().
		Str("strategy", string(interfaces.StrategyGenerative)).
		Int("data_gaps", len(record.DataGaps)).
		Msg("Generative extraction completed")

	return record, nil
}

// parseResponse decodes the model output into a validated record. Models
// often wrap JSON in prose or code fences, so a failed direct parse retries
// on the substring from the first '{' to the last '}'.
func (s *GenerativeService) parseResponse(response string) (*models.StructuredRecord, error) {
	var record models.StructuredRecord
	if err := json.Unmarshal([]byte(response), &record); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start == -1 || end == -1 || end < start {
			return nil, fmt.Errorf("could not parse JSON from LLM response")
		}
		record = models.StructuredRecord{}
		if err := json.Unmarshal([]byte(response[start:end+1]), &record); err != nil {
			return nil, fmt.Errorf("could not parse JSON from LLM response: %w", err)
		}
	}

	// Backfill the fields models most often omit before schema validation.
	if record.TemplateID == "" {
		record.TemplateID = models.TemplateOwnFunds
	}
	if record.Currency == "" {
		record.Currency = s.config.DefaultCurrency
	}
	if record.DataGaps == nil {
		record.DataGaps = []models.DataGap{}
	}

	if err := s.validate.Struct(&record); err != nil {
		return nil, fmt.Errorf("model response failed schema validation: %w", err)
	}

	return &record, nil
}

// degradedRecord builds the record returned when extraction cannot produce
// real output: every component present with a nil amount, a single data gap
// describing the failure, and no summary totals.
func (s *GenerativeService) degradedRecord(issue, suggestion string) *models.StructuredRecord {
	return &models.StructuredRecord{
		TemplateID: models.TemplateOwnFunds,
		Currency:   s.config.DefaultCurrency,
		Tiers: map[string]map[string]*models.CapitalComponent{
			models.TierCET1: {
				models.ComponentOrdinaryShareCapital: {},
				models.ComponentRetainedEarnings:     {},
				models.ComponentIntangiblesDeduction: {},
			},
			models.TierAT1: {
				models.ComponentInstruments: {},
			},
			models.TierTier2: {
				models.ComponentInstruments: {},
			},
		},
		DataGaps: []models.DataGap{
			{Field: "all", Issue: issue, Suggestion: suggestion},
		},
	}
}
