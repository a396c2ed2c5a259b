package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/util"
)

// maxResponseBytes bounds how much of a provider response is read
const maxResponseBytes = 4 << 20

// jsonAPI is a small JSON-over-HTTP client for providers without an SDK
type jsonAPI struct {
	baseURL string
	headers map[string]string
	client  *http.Client

	// errorMessage extracts the provider's error text from a non-200 body
	errorMessage func(body []byte) string
}

func newJSONAPI(config Config, defaultURL string, defaultTimeout time.Duration, headers map[string]string) *jsonAPI {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &jsonAPI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: headers,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)},
		},
	}
}

// post sends in as JSON to path and decodes a 200 response into out
func (a *jsonAPI) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := a.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// ping issues a GET and reports whether it returned 200
func (a *jsonAPI) ping(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return false
	}
	_, err = a.do(req)
	return err == nil
}

func (a *jsonAPI) do(req *http.Request) ([]byte, error) {
	for k, v := range a.headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if a.errorMessage != nil {
			msg = a.errorMessage(body)
		}
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, msg)
	}
	return body, nil
}
