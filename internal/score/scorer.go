package score

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/policy"
)

// Fusion weights
const (
	WeightClassifier = 0.40
	WeightContent    = 0.35
	WeightNarrative  = 0.25

	WeightRealTime    = 0.6
	WeightPreliminary = 0.4

	FactualStatementBonus = 0.3
	FactBoostShare        = 0.5
)

// Narrative scores
const (
	NarrativeDisabled  = 0.7
	NarrativeTrue      = 0.9
	NarrativeFalse     = 0.2
	NarrativeMixed     = 0.5
	NarrativeUnmatched = 0.6
)

// NeutralScore is reported when nothing could be verified
const NeutralScore = 0.5

// Inputs are the per-document signals combined by the scorer
type Inputs struct {
	Classifier model.ClassifierResult
	Quality    model.QualityMetrics
	Narrative  *model.Narrative          // nil when narrative analysis did not run
	RealTime   *model.DocumentAssessment // nil when real-time verification did not run
}

// Scorer fuses document signals into one credibility score
type Scorer struct {
	policy *policy.Policy
	logger *zap.Logger
}

// NewScorer creates a scorer. A nil policy uses the built-in one.
func NewScorer(p *policy.Policy, logger *zap.Logger) *Scorer {
	if p == nil {
		p = policy.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{policy: p, logger: logger}
}

// Fuse combines the classifier, content quality, narrative and real-time
// signals. Every component and the result lie in [0,1].
func (s *Scorer) Fuse(in Inputs) model.FusedScore {
	var signals []model.Signal

	classifier := clamp01(in.Classifier.Credibility())
	signals = append(signals, classifierSignal(in.Classifier, classifier))

	content := ContentQuality(in.Quality)
	signals = append(signals, contentSignal(in.Quality, content))

	narrative := NarrativeScore(in.Narrative)
	signals = append(signals, narrativeSignal(in.Narrative, narrative))

	preliminary := classifier*WeightClassifier + content*WeightContent + narrative*WeightNarrative

	boost := 0.0
	if in.Classifier.FactBoosted {
		boost = in.Classifier.FactBoost * FactBoostShare
		signals = append(signals, model.Signal{
			Type:        model.SignalFactBoost,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("Factual phrasing boost: +%.3f", boost),
			Data: map[string]interface{}{
				"fact_boost": in.Classifier.FactBoost,
				"applied":    boost,
				"formula":    "fact_boost * 0.5",
			},
		})
	}
	preliminary = clamp01(preliminary + boost)

	fused := model.FusedScore{
		Preliminary:           preliminary,
		ClassifierCredibility: classifier,
		ContentQuality:        content,
		NarrativeScore:        narrative,
		FactualBoost:          boost,
		IsFactualStatement:    in.Quality.IsFactualStatement,
	}

	final := preliminary
	if in.RealTime != nil {
		rt := clamp01(in.RealTime.OverallScore)
		final = clamp01(rt*WeightRealTime + preliminary*WeightPreliminary)
		fused.RealTimeScore = &rt
		fused.AdjustedByRealTime = true
		signals = append(signals, realTimeSignal(in.RealTime, rt, final))
	}

	fused.Score = final
	fused.Label = Label(final, in.Quality.IsFactualStatement)
	fused.Signals = signals

	s.logger.Info("credibility fused",
		zap.Float64("classifier", classifier),
		zap.Float64("content", content),
		zap.Float64("narrative", narrative),
		zap.Float64("preliminary", preliminary),
		zap.Float64("final", final),
		zap.String("label", fused.Label))

	return fused
}

// ContentQuality is the weighted lexical quality composite in [0,1]
func ContentQuality(q model.QualityMetrics) float64 {
	score := math.Min(1, float64(q.WordCount)/300)*0.25 +
		math.Min(1, float64(q.FactualIndicators)/5)*0.35 +
		math.Min(1, float64(q.AuthoritativePhrases)/3)*0.15 +
		(q.Readability/100)*0.10
	if q.HasQuotes() {
		score += 0.15
	}
	score = clamp01(score)

	if q.IsFactualStatement {
		score = clamp01(score + FactualStatementBonus)
	}
	return score
}

// NarrativeScore maps the narrative credibility assessment onto [0,1]
func NarrativeScore(n *model.Narrative) float64 {
	if n == nil {
		return NarrativeDisabled
	}
	a := strings.ToLower(n.CredibilityAssessment)
	switch {
	case strings.Contains(a, "true"):
		return NarrativeTrue
	case strings.Contains(a, "false"):
		return NarrativeFalse
	case strings.Contains(a, "mixed"):
		return NarrativeMixed
	default:
		return NarrativeUnmatched
	}
}

// Label maps a score to its category. Short factual statements scoring at
// least 0.7 use the lenient factual scale.
func Label(score float64, factual bool) string {
	if factual && score >= 0.7 {
		switch {
		case score >= 0.9:
			return "Highly Credible (Factual)"
		case score >= 0.8:
			return "Very Credible (Factual)"
		default:
			return "Credible (Factual)"
		}
	}

	switch {
	case score >= 0.85:
		return "Highly Credible"
	case score >= 0.70:
		return "Very Credible"
	case score >= 0.55:
		return "Likely Credible"
	case score >= 0.40:
		return "Uncertain"
	case score >= 0.25:
		return "Likely Fake"
	default:
		return "Highly Suspicious"
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func classifierSignal(r model.ClassifierResult, credibility float64) model.Signal {
	severity := model.SeverityInfo
	if credibility < 0.4 {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalClassifier,
		Severity:    severity,
		Description: fmt.Sprintf("Classifier: %s (%.0f%% confidence)", r.Label, r.Confidence*100),
		Data: map[string]interface{}{
			"label":       r.Label,
			"confidence":  r.Confidence,
			"credibility": credibility,
			"weight":      WeightClassifier,
			"formula":     "confidence if label == Real else 1 - confidence",
		},
	}
}

func contentSignal(q model.QualityMetrics, content float64) model.Signal {
	severity := model.SeverityInfo
	if content < 0.3 {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalContentQuality,
		Severity:    severity,
		Description: fmt.Sprintf("Content quality: %.2f", content),
		Data: map[string]interface{}{
			"word_count":            q.WordCount,
			"factual_indicators":    q.FactualIndicators,
			"quotes":                q.QuoteCount,
			"authoritative_phrases": q.AuthoritativePhrases,
			"readability":           q.Readability,
			"factual_statement":     q.IsFactualStatement,
			"score":                 content,
			"weight":                WeightContent,
			"formula":               "min(words/300,1)*.25 + min(factual/5,1)*.35 + quotes*.15 + min(authoritative/3,1)*.15 + readability/100*.10 (+.3 if factual statement)",
		},
	}
}

func narrativeSignal(n *model.Narrative, score float64) model.Signal {
	assessment := "not requested"
	if n != nil {
		assessment = n.CredibilityAssessment
	}
	severity := model.SeverityInfo
	if score <= NarrativeFalse {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalNarrative,
		Severity:    severity,
		Description: fmt.Sprintf("AI narrative assessment: %s", assessment),
		Data: map[string]interface{}{
			"assessment": assessment,
			"score":      score,
			"weight":     WeightNarrative,
		},
	}
}

func realTimeSignal(rt *model.DocumentAssessment, score, final float64) model.Signal {
	severity := model.SeverityInfo
	switch rt.Level {
	case model.LevelLow:
		severity = model.SeverityWarning
	case model.LevelVeryLow:
		severity = model.SeverityCritical
	}
	return model.Signal{
		Type:        model.SignalRealTime,
		Severity:    severity,
		Description: fmt.Sprintf("Real-time verification: %d claims checked, score %.2f", rt.ClaimsChecked, score),
		Data: map[string]interface{}{
			"claims_checked": rt.ClaimsChecked,
			"score":          score,
			"final":          final,
			"formula":        "real_time * 0.6 + preliminary * 0.4",
		},
	}
}
