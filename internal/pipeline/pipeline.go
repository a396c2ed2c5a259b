package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/classify"
	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/metrics"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/narrative"
	"github.com/ppiankov/veritas/internal/quality"
	"github.com/ppiankov/veritas/internal/score"
	"github.com/ppiankov/veritas/internal/search"
	"github.com/ppiankov/veritas/internal/sources"
	"github.com/ppiankov/veritas/internal/verify"
)

// fallbackMessage is reported when real-time verification failed unexpectedly
const fallbackMessage = "Real-time verification unavailable. Basic analysis performed."

// ErrFetchFailed is returned when a URL yields no analyzable text
var ErrFetchFailed = errors.New("could not extract text from URL")

// Request selects the input and the optional stages of one assessment
type Request struct {
	Text        string
	URL         string // Fetched and used instead of Text when set
	AIAnalysis  bool
	FindSources bool
	RealTime    bool
}

// EvidenceSearcher resolves a claim to evidence. It never fails.
type EvidenceSearcher interface {
	Search(ctx context.Context, claim string) []model.EvidenceItem
}

// Deps are the collaborators of an Engine. Nil fields get offline defaults:
// simulated search, heuristic verification, neutral classifier and readability,
// fallback narrative and a private in-memory verdict cache.
type Deps struct {
	Fetcher    *Fetcher
	Claims     *extract.ClaimExtractor
	Search     EvidenceSearcher
	Verifier   verify.Verifier
	Cache      *cache.VerdictCache
	Classifier *classify.Stage
	Quality    *quality.Analyzer
	Narrative  *narrative.Analyzer
	Scorer     *score.Scorer
	Sources    *sources.Finder
	Now        func() time.Time
}

// Engine assesses the credibility of documents
type Engine struct {
	fetcher    *Fetcher
	claims     *extract.ClaimExtractor
	search     EvidenceSearcher
	verifier   verify.Verifier
	cache      *cache.VerdictCache
	classifier *classify.Stage
	quality    *quality.Analyzer
	narrative  *narrative.Analyzer
	scorer     *score.Scorer
	sources    *sources.Finder
	now        func() time.Time
	config     model.EngineConfig
	logger     *zap.Logger
}

// New creates an engine from its collaborators
func New(deps Deps, config model.EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Fetcher == nil {
		deps.Fetcher = NewFetcher(model.DefaultConfig().HTTP, logger)
	}
	if deps.Claims == nil {
		deps.Claims = extract.NewClaimExtractor()
	}
	if deps.Search == nil {
		deps.Search = search.NewGateway(nil, logger)
	}
	if deps.Scorer == nil {
		deps.Scorer = score.NewScorer(nil, logger)
	}
	if deps.Verifier == nil {
		deps.Verifier = verify.NewAIVerifier(nil, nil, deps.Now, logger)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewVerdictCache(nil, "", logger)
	}
	if deps.Classifier == nil {
		deps.Classifier = classify.NewStage(classify.Neutral{}, logger)
	}
	if deps.Quality == nil {
		deps.Quality = quality.NewAnalyzer(quality.Neutral{})
	}
	if deps.Narrative == nil {
		deps.Narrative = narrative.NewAnalyzer(nil, logger)
	}
	if deps.Sources == nil {
		deps.Sources = sources.NewFinder(nil, nil, nil, logger)
	}
	if config.ClaimQuota <= 0 {
		config.ClaimQuota = model.DefaultConfig().Engine.ClaimQuota
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	return &Engine{
		fetcher:    deps.Fetcher,
		claims:     deps.Claims,
		search:     deps.Search,
		verifier:   deps.Verifier,
		cache:      deps.Cache,
		classifier: deps.Classifier,
		quality:    deps.Quality,
		narrative:  deps.Narrative,
		scorer:     deps.Scorer,
		sources:    deps.Sources,
		now:        deps.Now,
		config:     config,
		logger:     logger,
	}
}

// Assess runs every requested stage over one document. Input that is empty
// or shorter than the configured minimum yields model.ErrInputTooShort, an
// unusable URL yields ErrFetchFailed and cancellation between claims yields
// the context error. Every other failure degrades inside the report.
func (e *Engine) Assess(ctx context.Context, req Request) (report *model.Report, err error) {
	start := time.Now()

	report = &model.Report{
		ID:         uuid.NewString(),
		Input:      "text",
		AnalyzedAt: e.now().UTC(),
	}

	text := strings.TrimSpace(req.Text)
	if u := strings.TrimSpace(req.URL); u != "" {
		article, finalURL, err := e.fetcher.FetchArticle(ctx, u)
		if err != nil {
			metrics.Assessments.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		if strings.TrimSpace(article.Text) == "" {
			metrics.Assessments.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: %s", ErrFetchFailed, u)
		}
		text = strings.TrimSpace(article.Title + " " + article.Text)
		report.Input = "url"
		report.SourceURL = finalURL
		report.Title = article.Title
	}

	if n := utf8.RuneCountInString(text); n == 0 || n < e.config.MinTextLength {
		metrics.Assessments.WithLabelValues("rejected").Inc()
		return nil, model.ErrInputTooShort
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("assessment panicked, returning fallback analysis",
				zap.String("id", report.ID),
				zap.Any("panic", r))
			report = e.fallbackReport(report, text, fmt.Sprint(r))
			err = nil
			metrics.Assessments.WithLabelValues("fallback").Inc()
		}
	}()

	report.Classifier = e.classifier.Run(ctx, text)
	report.Quality = e.quality.Analyze(text)
	if req.AIAnalysis {
		report.Narrative = e.narrative.Analyze(ctx, text)
	}

	if req.RealTime {
		rt, fallback, err := e.realTime(ctx, text)
		if err != nil {
			metrics.Assessments.WithLabelValues("cancelled").Inc()
			return nil, err
		}
		report.RealTime = rt
		report.Fallback = fallback
	}

	report.Fused = e.scorer.Fuse(score.Inputs{
		Classifier: report.Classifier,
		Quality:    report.Quality,
		Narrative:  report.Narrative,
		RealTime:   report.RealTime,
	})
	report.Final = score.FinalAssessment(report.Fused.Score, report.RealTime)

	if req.FindSources {
		report.Sources, report.SearchTerms = e.sources.Find(ctx, text)
	}

	report.Features = model.Features{
		Classifier:         e.classifier.Configured(),
		AIAnalysis:         report.Narrative != nil,
		RealTime:           req.RealTime,
		ContentQuality:     true,
		EntityExtraction:   len(report.SearchTerms) > 0,
		SourceVerification: report.Sources != nil,
	}

	outcome := "ok"
	if report.Fallback != nil {
		outcome = "fallback"
	}
	metrics.Assessments.WithLabelValues(outcome).Inc()
	metrics.FusedScore.Observe(report.Fused.Score)

	e.logger.Info("document assessed",
		zap.String("id", report.ID),
		zap.String("input", report.Input),
		zap.Float64("score", report.Fused.Score),
		zap.String("label", report.Fused.Label),
		zap.Duration("elapsed", time.Since(start)))

	return report, nil
}

// VerifyClaims extracts claims from text and verifies at most the claim
// quota of them, in document order. Text without claims yields no verdicts.
func (e *Engine) VerifyClaims(ctx context.Context, text string) ([]*model.Verdict, error) {
	claims := e.claims.Extract(text)
	return e.verifyAll(ctx, claims)
}

// realTime verifies the claims of a document and aggregates the verdicts.
// A failure other than cancellation becomes a fallback analysis.
func (e *Engine) realTime(ctx context.Context, text string) (*model.DocumentAssessment, *model.FallbackAnalysis, error) {
	claims := e.claims.Extract(text)

	verdicts, err := e.verifyAll(ctx, claims)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		e.logger.Error("real-time verification failed", zap.Error(err))
		return nil, &model.FallbackAnalysis{
			Message:         fallbackMessage,
			Error:           err.Error(),
			WordCount:       len(strings.Fields(text)),
			Sentences:       quality.CountSentences(text),
			PotentialClaims: len(claims),
		}, nil
	}

	return e.scorer.Assess(verdicts, len(claims), e.now().UTC()), nil, nil
}

// verifyAll verifies up to the claim quota. With concurrency above one the
// claims are dispatched in parallel; verdicts keep document order either way.
func (e *Engine) verifyAll(ctx context.Context, claims []model.Claim) ([]*model.Verdict, error) {
	if len(claims) > e.config.ClaimQuota {
		claims = claims[:e.config.ClaimQuota]
	}
	verdicts := make([]*model.Verdict, len(claims))

	if e.config.Concurrency <= 1 {
		for i, claim := range claims {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := e.verifyClaim(ctx, claim)
			if err != nil {
				return nil, err
			}
			verdicts[i] = v
		}
		return verdicts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Concurrency)
	for i, claim := range claims {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := e.verifyClaim(gctx, claim)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// verifyClaim returns the cached verdict for a claim or searches and
// verifies it once. A panic in a collaborator or a cancelled context is
// returned as an error and nothing is cached for the claim.
func (e *Engine) verifyClaim(ctx context.Context, claim model.Claim) (*model.Verdict, error) {
	verdict, hit, err := e.cache.GetOrCompute(ctx, claim.Text, func(ctx context.Context) (v *model.Verdict, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("verify claim %s: %v", claim.Fingerprint, r)
			}
		}()

		evidence := e.search.Search(ctx, claim.Text)
		v = e.verifier.Verify(ctx, claim.Text, evidence)
		// Evidence gathered under a cancelled context is incomplete
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		metrics.Verdicts.WithLabelValues(string(v.Status), v.Method).Inc()
		return v, nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("claim verified",
		zap.String("claim_fingerprint", claim.Fingerprint),
		zap.String("status", string(verdict.Status)),
		zap.Float64("confidence", verdict.Confidence),
		zap.Bool("cached", hit))

	return verdict, nil
}

// fallbackReport replaces a half-built report with neutral scores and a
// fallback analysis
func (e *Engine) fallbackReport(partial *model.Report, text, cause string) *model.Report {
	neutral := score.NeutralScore
	return &model.Report{
		ID:         partial.ID,
		Input:      partial.Input,
		SourceURL:  partial.SourceURL,
		Title:      partial.Title,
		AnalyzedAt: partial.AnalyzedAt,
		Classifier: model.ClassifierResult{
			Label:           classify.LabelUnknown,
			Confidence:      neutral,
			FakeProbability: neutral,
			RealProbability: neutral,
		},
		Quality: model.QualityMetrics{
			WordCount:     len(strings.Fields(text)),
			SentenceCount: quality.CountSentences(text),
		},
		Fused: model.FusedScore{
			Score:       neutral,
			Label:       score.Label(neutral, false),
			Preliminary: neutral,
		},
		Final: score.FinalAssessment(neutral, nil),
		Fallback: &model.FallbackAnalysis{
			Message:   fallbackMessage,
			Error:     cause,
			WordCount: len(strings.Fields(text)),
			Sentences: quality.CountSentences(text),
		},
		Features: model.Features{ContentQuality: true},
	}
}
