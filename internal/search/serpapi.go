package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/veritas/internal/model"
)

const defaultSerpAPIURL = "https://serpapi.com/search"

// SerpAPI queries Google results through serpapi.com
type SerpAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSerpAPI creates a SerpAPI provider. An empty baseURL uses the public endpoint.
func NewSerpAPI(apiKey, baseURL string, httpClient *http.Client) *SerpAPI {
	if baseURL == "" {
		baseURL = defaultSerpAPIURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SerpAPI{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Name returns the provider name
func (s *SerpAPI) Name() string {
	return "serpapi"
}

// Configured reports whether a usable key is set
func (s *SerpAPI) Configured() bool {
	return model.IsKeyConfigured(s.apiKey)
}

// Search performs a Google search through SerpAPI
func (s *SerpAPI) Search(ctx context.Context, q Query) ([]model.EvidenceItem, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q.Text)
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(q.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("serpapi returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Source  string `json:"source"`
		} `json:"organic_results"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}
	if searchResp.Error != "" {
		return nil, fmt.Errorf("serpapi error: %s", searchResp.Error)
	}

	items := make([]model.EvidenceItem, 0, len(searchResp.OrganicResults))
	for _, r := range searchResp.OrganicResults {
		items = append(items, model.EvidenceItem{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.Link,
		})
	}
	return items, nil
}
