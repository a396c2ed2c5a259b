package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.System != "sys" || req.MaxTokens != 1000 {
			t.Errorf("Unexpected request: %+v", req)
		}

		_, _ = w.Write([]byte(`{
			"id": "msg_123", "type": "message", "role": "assistant",
			"content": [{"type": "text", "text": "CONFIDENCE_SCORE: 0.8"}],
			"model": "claude-3-5-sonnet-20241022",
			"usage": {"input_tokens": 50, "output_tokens": 50}
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{System: "sys", Prompt: "Check"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "CONFIDENCE_SCORE: 0.8" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens too large"}}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "max_tokens too large") {
		t.Errorf("Expected API message in error, got %v", err)
	}
}

func TestAnthropicProvider_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestAnthropicProvider_Complete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg","content":[]}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("Expected error for empty content")
	}
}

func TestAnthropicProvider_Complete_JoinsTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[
			{"type":"text","text":"VERIFICATION_STATUS: TRUE\n"},
			{"type":"tool_use","text":"ignored"},
			{"type":"text","text":"CONFIDENCE_SCORE: 0.9"}
		],"model":"m"}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "VERIFICATION_STATUS: TRUE\nCONFIDENCE_SCORE: 0.9" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" && r.Header.Get("x-api-key") == "test-key" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	good, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if !good.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	bad, _ := NewAnthropicProvider(Config{APIKey: "wrong", BaseURL: server.URL})
	if bad.IsAvailable(context.Background()) {
		t.Error("Expected rejected key to be unavailable")
	}
}
