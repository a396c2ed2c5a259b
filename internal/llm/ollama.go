package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OllamaProvider talks to a local Ollama server
type OllamaProvider struct {
	api    *jsonAPI
	config Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

// NewOllamaProvider creates a new Ollama provider. Local models are slow
// to load, so the default timeout is longer than for hosted APIs.
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	api := newJSONAPI(config, "http://localhost:11434", 60*time.Second, nil)
	api.errorMessage = func(body []byte) string {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil {
			return ""
		}
		return e.Error
	}
	return &OllamaProvider{api: api, config: config}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if the Ollama server answers
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	return p.api.ping(ctx, "/api/tags")
}

// Complete generates a non-streamed response
func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.config.model(req, "")
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	apiReq := ollamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.System,
		Options: ollamaOptions{
			Temperature: p.config.temperature(req),
			NumPredict:  p.config.maxTokens(req),
		},
	}
	if req.JSON {
		apiReq.Format = "json"
	}

	var resp ollamaResponse
	if err := p.api.post(ctx, "/api/generate", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}
	text := strings.TrimSpace(resp.Response)

	// Some models report zero counts; estimate at 4 characters per token
	tokensUsed := resp.PromptEvalCount + resp.EvalCount
	if tokensUsed == 0 {
		tokensUsed = (len(req.Prompt) + len(text)) / 4
	}

	return &CompletionResponse{
		Text:       text,
		Model:      resp.Model,
		TokensUsed: tokensUsed,
	}, nil
}
