package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/ppiankov/veritas/internal/authority"
	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/classify"
	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/narrative"
	"github.com/ppiankov/veritas/internal/policy"
	"github.com/ppiankov/veritas/internal/quality"
	"github.com/ppiankov/veritas/internal/score"
	"github.com/ppiankov/veritas/internal/search"
	"github.com/ppiankov/veritas/internal/sources"
	"github.com/ppiankov/veritas/internal/util"
	"github.com/ppiankov/veritas/internal/verify"
	"github.com/ppiankov/veritas/internal/worker"
)

// Capabilities reports which external capabilities are configured
type Capabilities struct {
	Reasoner     string `json:"reasoner,omitempty"` // Provider name, empty when disabled
	SearchEngine string `json:"search_engine"`      // Active search provider
	SerpAPI      bool   `json:"serpapi"`
	GoogleSearch bool   `json:"google_search"`
	AnySearch    bool   `json:"any_search"`
	Classifier   bool   `json:"classifier"`
	Redis        bool   `json:"redis"`
}

// Built is an engine assembled from configuration together with the
// resources it owns
type Built struct {
	Engine       *Engine
	Capabilities Capabilities
	redis        *cache.RedisStore
}

// Close releases the shared cache connection, if any
func (b *Built) Close() error {
	if b.redis == nil {
		return nil
	}
	return b.redis.Close()
}

// Build wires an engine from configuration. Missing credentials disable the
// matching capability; only an invalid configuration is an error.
func Build(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Built, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pol, err := policy.Load(cfg.Policy.Path)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	pacer := worker.NewLimiter(cfg.Engine.Pacing, 1)
	auth := authority.New(&cfg.Authority)
	built := &Built{}

	reasoner, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM, cfg.HTTP), pacer, logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("create reasoner: %w", err)
	}
	built.Capabilities.Reasoner = reasoner.ProviderName()

	searchClient := &http.Client{
		Timeout: cfg.Search.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		},
	}
	serp := search.NewSerpAPI(cfg.Search.SerpAPIKey, cfg.Search.SerpAPIBaseURL, searchClient)
	var googleOpts []option.ClientOption
	if cfg.Search.GoogleEndpoint != "" {
		googleOpts = append(googleOpts, option.WithEndpoint(cfg.Search.GoogleEndpoint))
	}
	google := search.NewGoogleCSE(cfg.Search.GoogleAPIKey, cfg.Search.GoogleCSEID, googleOpts...)

	var entities search.EntityRecognizer
	if cfg.Search.EntityEnrichment {
		entities = search.ProseRecognizer{}
	}
	gateway := search.NewGateway([]search.Provider{serp, google}, logger.Named("search"),
		search.WithPacer(pacer),
		search.WithAuthority(auth),
		search.WithTimeout(cfg.Search.Timeout),
		search.WithMaxResults(cfg.Search.MaxResults),
		search.WithQueryBuilder(search.NewQueryBuilder(time.Now, entities)),
	)
	built.Capabilities.SearchEngine = gateway.Active().Name()
	built.Capabilities.SerpAPI = serp.Configured()
	built.Capabilities.GoogleSearch = google.Configured()
	built.Capabilities.AnySearch = gateway.Configured()

	store, redisStore, err := buildStore(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	built.redis = redisStore
	built.Capabilities.Redis = redisStore != nil

	var classifier classify.Classifier = classify.Neutral{}
	if cfg.Classifier.URL != "" {
		classifier = classify.NewRemoteClassifier(cfg.Classifier.URL, cfg.Classifier.Timeout, nil)
		built.Capabilities.Classifier = true
	}

	built.Engine = New(Deps{
		Fetcher:    NewFetcher(cfg.HTTP, logger.Named("fetch")),
		Claims:     extract.NewClaimExtractor(),
		Search:     gateway,
		Verifier:   verify.NewAIVerifier(reasoner, verify.NewHeuristicVerifier(pol), time.Now, logger.Named("verify")),
		Cache:      cache.NewVerdictCache(store, cfg.Cache.KeyPrefix, logger.Named("cache")),
		Classifier: classify.NewStage(classifier, logger.Named("classify")),
		Quality:    quality.NewAnalyzer(quality.NewReadability(cfg.Quality.Readability)),
		Narrative:  narrative.NewAnalyzer(reasoner, logger.Named("narrative")),
		Scorer:     score.NewScorer(pol, logger.Named("score")),
		Sources:    sources.NewFinder(gateway, auth, entities, logger.Named("sources")),
	}, cfg.Engine, logger)

	logger.Info("engine ready",
		zap.String("reasoner", built.Capabilities.Reasoner),
		zap.String("search", built.Capabilities.SearchEngine),
		zap.Bool("classifier", built.Capabilities.Classifier),
		zap.Bool("redis", built.Capabilities.Redis))
	if built.Capabilities.Reasoner == "" || !built.Capabilities.AnySearch {
		logger.Info("running with simulated search or heuristic verification until provider keys are configured")
	}

	return built, nil
}

// buildStore selects the verdict store. An unreachable Redis degrades to
// the in-memory store; a reachable one is returned for closing.
func buildStore(ctx context.Context, cfg model.CacheConfig, logger *zap.Logger) (cache.Store, *cache.RedisStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewMemoryStore(), nil, nil
	case "redis":
		if !model.IsKeyConfigured(cfg.RedisURL) {
			logger.Warn("redis cache selected without a URL, using memory")
			return cache.NewMemoryStore(), nil, nil
		}
		rs, err := cache.NewRedisStore(cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("create redis store: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, using memory", zap.Error(err))
			_ = rs.Close()
			return cache.NewMemoryStore(), nil, nil
		}
		return cache.NewLayeredStore(rs), rs, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend: %s (supported: memory, redis)", cfg.Backend)
	}
}
