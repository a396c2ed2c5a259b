package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
	anthropicVersion      = "2023-06-01"
)

// AnthropicProvider talks to the Anthropic Messages API
type AnthropicProvider struct {
	api    *jsonAPI
	config Config
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float32            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	api := newJSONAPI(config, "https://api.anthropic.com", 30*time.Second, map[string]string{
		"x-api-key":         config.APIKey,
		"anthropic-version": anthropicVersion,
	})
	api.errorMessage = func(body []byte) string {
		var e struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil || e.Error.Message == "" {
			return ""
		}
		return e.Error.Type + " - " + e.Error.Message
	}

	return &AnthropicProvider{api: api, config: config}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable checks that the key can list models
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	return p.api.ping(ctx, "/v1/models")
}

// Complete sends the prompt as a single user message. Claude has no JSON
// mode; callers parse the text themselves.
func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiReq := anthropicRequest{
		Model:       p.config.model(req, anthropicDefaultModel),
		MaxTokens:   p.config.maxTokens(req),
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		Temperature: p.config.temperature(req),
	}

	var resp anthropicResponse
	if err := p.api.post(ctx, "/v1/messages", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("no content in Anthropic response")
	}

	return &CompletionResponse{
		Text:       strings.TrimSpace(text.String()),
		Model:      resp.Model,
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}
