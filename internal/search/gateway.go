package search

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/authority"
	"github.com/ppiankov/veritas/internal/metrics"
	"github.com/ppiankov/veritas/internal/model"
)

// Pacer enforces a minimum interval between calls to one provider
type Pacer interface {
	Wait(ctx context.Context, provider string) error
}

// Gateway resolves a claim to evidence using the first configured provider.
// It never returns an error: failures degrade to an empty result.
type Gateway struct {
	providers  []Provider
	fallback   Provider
	builder    *QueryBuilder
	classifier *authority.Classifier
	pacer      Pacer
	timeout    time.Duration
	maxResults int
	policy     *bluemonday.Policy
	logger     *zap.Logger
}

// GatewayOption customizes a Gateway
type GatewayOption func(*Gateway)

// WithPacer paces external provider calls
func WithPacer(p Pacer) GatewayOption {
	return func(g *Gateway) { g.pacer = p }
}

// WithQueryBuilder replaces the default query builder
func WithQueryBuilder(b *QueryBuilder) GatewayOption {
	return func(g *Gateway) { g.builder = b }
}

// WithAuthority sets the authority classifier used to tier evidence
func WithAuthority(c *authority.Classifier) GatewayOption {
	return func(g *Gateway) { g.classifier = c }
}

// WithTimeout bounds each provider call
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// WithMaxResults caps the evidence items kept per claim
func WithMaxResults(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.maxResults = n
		}
	}
}

// NewGateway creates a gateway over providers tried in order. The simulated
// placeholder is used when none is configured.
func NewGateway(providers []Provider, logger *zap.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		providers:  providers,
		fallback:   Simulated{},
		builder:    NewQueryBuilder(nil, nil),
		classifier: authority.New(nil),
		timeout:    10 * time.Second,
		maxResults: model.MaxEvidenceItems,
		policy:     bluemonday.StrictPolicy(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Active returns the provider that would serve the next search
func (g *Gateway) Active() Provider {
	for _, p := range g.providers {
		if p.Configured() {
			return p
		}
	}
	return g.fallback
}

// Configured reports whether any real provider has credentials
func (g *Gateway) Configured() bool {
	return g.Active() != g.fallback
}

// Search returns evidence for a claim, at most maxResults items
func (g *Gateway) Search(ctx context.Context, claim string) []model.EvidenceItem {
	return g.SearchQuery(ctx, claim, g.builder.Build(claim))
}

// SearchQuery runs an explicit query on behalf of a claim
func (g *Gateway) SearchQuery(ctx context.Context, claim, text string) []model.EvidenceItem {
	provider := g.Active()
	name := provider.Name()

	if strings.TrimSpace(text) == "" {
		text = claim
	}
	q := Query{Claim: claim, Text: text, Limit: g.maxResults}

	if provider != g.fallback && g.pacer != nil {
		if err := g.pacer.Wait(ctx, name); err != nil {
			g.logger.Warn("search pacing interrupted", zap.String("provider", name), zap.Error(err))
			return nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	items, err := provider.Search(callCtx, q)
	metrics.ProviderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCalls.WithLabelValues(name, "error").Inc()
		g.logger.Warn("search provider failed",
			zap.String("provider", name),
			zap.String("claim_fingerprint", model.Fingerprint(claim)),
			zap.String("query", text),
			zap.Error(err))
		return nil
	}
	metrics.ProviderCalls.WithLabelValues(name, "ok").Inc()

	if len(items) > g.maxResults {
		items = items[:g.maxResults]
	}
	for i := range items {
		items[i] = g.normalize(items[i], name)
	}

	g.logger.Debug("search completed",
		zap.String("provider", name),
		zap.String("query", text),
		zap.Int("results", len(items)))

	return items
}

// normalize strips markup from result text and fills derived fields
func (g *Gateway) normalize(item model.EvidenceItem, provider string) model.EvidenceItem {
	item.Title = g.clean(item.Title)
	item.Snippet = g.clean(item.Snippet)
	if item.Domain == "" {
		item.Domain = model.DomainOf(item.URL)
	}
	item.Authority = g.classifier.Classify(item.Domain)
	item.Provider = provider
	return item
}

func (g *Gateway) clean(s string) string {
	return model.CollapseWhitespace(html.UnescapeString(g.policy.Sanitize(s)))
}
