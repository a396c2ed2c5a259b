package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/metrics"
)

// Pacer enforces a minimum interval between calls to one provider
type Pacer interface {
	Wait(ctx context.Context, provider string) error
}

// Client wraps an optional Provider with pacing, metrics and logging.
// A Client without a provider is valid and reports itself disabled.
type Client struct {
	provider Provider
	pacer    Pacer
	logger   *zap.Logger
}

// NewClient builds the configured provider. A disabled configuration
// yields a disabled client, not an error.
func NewClient(config Config, pacer Pacer, logger *zap.Logger) (*Client, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return NewClientWithProvider(provider, pacer, logger), nil
}

// NewClientWithProvider wraps an existing provider, which may be nil
func NewClientWithProvider(provider Provider, pacer Pacer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		provider: provider,
		pacer:    pacer,
		logger:   logger,
	}
}

// IsEnabled reports whether a provider is configured
func (c *Client) IsEnabled() bool {
	return c != nil && c.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (c *Client) ProviderName() string {
	if !c.IsEnabled() {
		return ""
	}
	return c.provider.Name()
}

// Complete paces and sends one prompt
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !c.IsEnabled() {
		return nil, ErrNotConfigured
	}
	name := c.provider.Name()

	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, name); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.provider.Complete(ctx, req)
	metrics.ProviderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCalls.WithLabelValues(name, "error").Inc()
		c.logger.Warn("llm request failed", zap.String("provider", name), zap.Error(err))
		return nil, err
	}
	metrics.ProviderCalls.WithLabelValues(name, "ok").Inc()

	c.logger.Debug("llm request completed",
		zap.String("provider", name),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed))

	return resp, nil
}
