package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
)

// NewChatService creates the chat-capable LLM service for the configured
// provider. The generative extractor talks to whichever provider this
// returns; embeddings always go through NewEmbeddingService because Claude
// has no embedding endpoint.
func NewChatService(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeService(&config.Claude, logger)
	case common.LLMProviderGemini:
		return NewGeminiService(ctx, &config.Gemini, config.Retrieval.EmbedDimension, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.LLM.DefaultProvider)
	}
}

// NewEmbeddingService creates the LLM service used for embedding generation.
// Only Gemini exposes an embedding model, so the retrieval index uses it
// regardless of the chat provider.
func NewEmbeddingService(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	return NewGeminiService(ctx, &config.Gemini, config.Retrieval.EmbedDimension, logger)
}
