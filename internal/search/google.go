package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/ppiankov/veritas/internal/model"
)

// GoogleCSE queries a Google Programmable Search Engine
type GoogleCSE struct {
	apiKey string
	cx     string
	opts   []option.ClientOption
}

// NewGoogleCSE creates a Custom Search provider. Extra client options are
// appended after the API key, which lets callers point it at another endpoint.
func NewGoogleCSE(apiKey, cx string, opts ...option.ClientOption) *GoogleCSE {
	return &GoogleCSE{
		apiKey: apiKey,
		cx:     cx,
		opts:   opts,
	}
}

// Name returns the provider name
func (g *GoogleCSE) Name() string {
	return "google_cse"
}

// Configured reports whether both key and engine ID are set
func (g *GoogleCSE) Configured() bool {
	return model.IsKeyConfigured(g.apiKey) && g.cx != ""
}

// Search runs a Custom Search query
func (g *GoogleCSE) Search(ctx context.Context, q Query) ([]model.EvidenceItem, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}

	// The API rejects num outside 1..10
	num := int64(q.Limit)
	if num < 1 || num > 10 {
		num = 10
	}

	res, err := svc.Cse.List().Cx(g.cx).Q(q.Text).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch: %w", err)
	}

	items := make([]model.EvidenceItem, 0, len(res.Items))
	for _, r := range res.Items {
		items = append(items, model.EvidenceItem{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.Link,
		})
	}
	return items, nil
}
