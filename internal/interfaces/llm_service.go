package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeOffline indicates the service uses local/offline LLM models
	LLMModeOffline LLMMode = "offline"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations: embedding
// generation (the Embedder capability used by the retrieval index) and chat
// completions (the TextCompletion capability used by the generative
// extractor). The core never assumes a specific model or call convention,
// only this contract.
type LLMService interface {
	// Embed generates a fixed-dimension embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response for the conversation history.
	// The messages slice should contain the full context in chronological
	// order, including system prompts.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is operational and can handle
	// requests.
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode of the service.
	GetMode() LLMMode

	// Close releases resources and performs cleanup operations.
	Close() error
}
