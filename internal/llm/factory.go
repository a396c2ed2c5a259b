package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name or a placeholder key returns nil: reasoning disabled.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "gemini", "google":
		if !model.IsKeyConfigured(config.APIKey) {
			return nil, nil
		}
		return NewGeminiProvider(config)

	case "openai":
		if !model.IsKeyConfigured(config.APIKey) {
			return nil, nil
		}
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		if !model.IsKeyConfigured(config.APIKey) {
			return nil, nil
		}
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (LLM disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}
