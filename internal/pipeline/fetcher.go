package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
)

const (
	maxFetchAttempts = 3
	maxRedirects     = 3
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

// Fetcher fetches article HTML from URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	extractor  *extract.ArticleExtractor
	logger     *zap.Logger
}

// NewFetcher creates a fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		extractor:  extract.NewArticleExtractor(),
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client)
	}
	return f
}

// FetchResult contains the fetched HTML
type FetchResult struct {
	HTML        string
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves HTML content from the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, connection errors)
// with linear backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == maxFetchAttempts {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.logger.Debug("fetch failed, retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err))
		fetchSleepFunc(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

// FetchArticle fetches a URL and extracts its title and body text
func (f *Fetcher) FetchArticle(ctx context.Context, rawURL string) (*extract.Article, string, error) {
	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, "", err
		}
		if !allowed {
			return nil, "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}

	article, err := f.extractor.Extract(result.HTML)
	if err != nil {
		return nil, "", fmt.Errorf("extract article: %w", err)
	}
	return article, result.FinalURL, nil
}

// isRetryableFetchError reports whether an error from Fetch is transient
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if strings.HasPrefix(msg, "unexpected status: ") {
		code := strings.TrimPrefix(msg, "unexpected status: ")
		return strings.HasPrefix(code, "5") || strings.HasPrefix(code, "429")
	}
	return strings.HasPrefix(msg, "fetch: ")
}
