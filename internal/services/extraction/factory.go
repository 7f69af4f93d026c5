package extraction

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
)

// NewService creates the extraction service for the configured strategy.
// The generative strategy requires a chat-capable LLM service; llm may be
// nil for the pattern strategy.
func NewService(config *common.ExtractionConfig, llm interfaces.LLMService, logger arbor.ILogger) (interfaces.ExtractionService, error) {
	switch interfaces.ExtractionStrategy(config.Strategy) {
	case interfaces.StrategyPattern:
		return NewPatternService(config, logger), nil
	case interfaces.StrategyGenerative:
		if llm == nil {
			return nil, fmt.Errorf("generative extraction strategy requires a configured LLM provider")
		}
		return NewGenerativeService(llm, config, logger), nil
	default:
		return nil, fmt.Errorf("unsupported extraction strategy: %s", config.Strategy)
	}
}
