package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-1.5-flash:generateContent") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "VERIFICATION_STATUS: FALSE\nCONFIDENCE_SCORE: 0.85"}]}}],
			"usageMetadata": {"totalTokenCount": 42}
		}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "Check"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "VERIFICATION_STATUS: FALSE\nCONFIDENCE_SCORE: 0.85" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens, got %d", resp.TokensUsed)
	}
}

func TestGeminiProvider_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "Check"}); err == nil {
		t.Error("Expected error for server failure")
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}
