package classify

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
)

// Labels reported by a classifier
const (
	LabelReal    = "Real"
	LabelFake    = "Fake"
	LabelUnknown = "Unknown"
)

// maxBoostedReal caps the real probability after the fact boost
const maxBoostedReal = 0.95

// Prediction is the raw output of a text classifier
type Prediction struct {
	Label           string  `json:"label"`
	FakeProbability float64 `json:"fake_probability"`
	RealProbability float64 `json:"real_probability"`
}

// Classifier is a pre-trained fake/real text classifier
type Classifier interface {
	Name() string
	Predict(ctx context.Context, text string) (Prediction, error)
}

// Neutral is used when no classifier is configured
type Neutral struct{}

func (Neutral) Name() string { return "neutral" }

// Predict returns an even split
func (Neutral) Predict(context.Context, string) (Prediction, error) {
	return Prediction{Label: LabelUnknown, FakeProbability: 0.5, RealProbability: 0.5}, nil
}

// Stage runs the classifier and applies the fact boost
type Stage struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewStage creates a classifier stage. A nil classifier uses Neutral.
func NewStage(c Classifier, logger *zap.Logger) *Stage {
	if c == nil {
		c = Neutral{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stage{classifier: c, logger: logger}
}

// Name returns the underlying classifier name
func (s *Stage) Name() string {
	return s.classifier.Name()
}

// Configured reports whether a real classifier is behind the stage
func (s *Stage) Configured() bool {
	_, neutral := s.classifier.(Neutral)
	return !neutral
}

// Run classifies text. Classifier errors degrade to an Unknown result at 0.5.
func (s *Stage) Run(ctx context.Context, text string) model.ClassifierResult {
	p, err := s.classifier.Predict(ctx, text)
	if err != nil {
		s.logger.Warn("classifier failed, using neutral result",
			zap.String("classifier", s.classifier.Name()),
			zap.Error(err))
		return model.ClassifierResult{Label: LabelUnknown, Confidence: 0.5, FakeProbability: 0.5, RealProbability: 0.5}
	}

	pFake, pReal := normalize(p.FakeProbability, p.RealProbability)
	label := resolveLabel(p.Label, pReal)

	boost := FactBoost(text)
	if boost > 0 {
		pReal = math.Min(maxBoostedReal, pReal+boost)
		pFake = 1 - pReal
		label = labelFor(pReal)
		s.logger.Debug("fact boost applied", zap.Float64("boost", boost))
	}

	return model.ClassifierResult{
		Label:           label,
		Confidence:      math.Max(pFake, pReal),
		FakeProbability: pFake,
		RealProbability: pReal,
		FactBoost:       boost,
		FactBoosted:     boost > 0,
	}
}

// resolveLabel derives the label from the normalized real probability. The
// reported label only breaks an exact tie.
func resolveLabel(reported string, pReal float64) string {
	if pReal == 0.5 {
		for _, l := range []string{LabelReal, LabelFake, LabelUnknown} {
			if strings.EqualFold(strings.TrimSpace(reported), l) {
				return l
			}
		}
		return LabelUnknown
	}
	return labelFor(pReal)
}

func labelFor(pReal float64) string {
	if pReal > 0.5 {
		return LabelReal
	}
	return LabelFake
}

// normalize clamps both probabilities to [0,1] and rescales them to sum to one
func normalize(pFake, pReal float64) (float64, float64) {
	pFake = clamp01(pFake)
	pReal = clamp01(pReal)
	sum := pFake + pReal
	if sum == 0 {
		return 0.5, 0.5
	}
	return pFake / sum, pReal / sum
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
