package score

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
)

// RealTimeScore is the confidence-weighted average of the verdict status
// values. Unresolved verdicts on common factual phrasing are upgraded by the
// policy first. Verdicts themselves are not modified.
func (s *Scorer) RealTimeScore(verdicts []*model.Verdict) float64 {
	if len(verdicts) == 0 {
		return NeutralScore
	}

	total, weight := 0.0, 0.0
	for _, v := range verdicts {
		status, confidence, upgraded := s.policy.Upgrade(v.Claim, v.Status, v.Confidence)
		if upgraded {
			s.logger.Debug("unresolved claim upgraded",
				zap.String("claim_fingerprint", v.Fingerprint),
				zap.String("status", string(status)),
				zap.Float64("confidence", confidence))
		}
		total += status.Value() * confidence
		weight += confidence
	}

	if weight == 0 {
		return NeutralScore
	}
	return clamp01(total / weight)
}

// Level maps a real-time score onto a credibility level
func Level(score float64) model.CredibilityLevel {
	switch {
	case score >= 0.8:
		return model.LevelHigh
	case score >= 0.6:
		return model.LevelModerate
	case score >= 0.4:
		return model.LevelLow
	default:
		return model.LevelVeryLow
	}
}

// StatusCounts tallies verdicts by status
type StatusCounts struct {
	True, False, Partial, Insufficient int
}

// Count tallies verdicts by status
func Count(verdicts []*model.Verdict) StatusCounts {
	var c StatusCounts
	for _, v := range verdicts {
		switch v.Status {
		case model.StatusTrue:
			c.True++
		case model.StatusFalse:
			c.False++
		case model.StatusPartiallyTrue:
			c.Partial++
		default:
			c.Insufficient++
		}
	}
	return c
}

// Summary describes the verdicts in one sentence plus an optional note
func Summary(verdicts []*model.Verdict) string {
	if len(verdicts) == 0 {
		return "No verifiable claims found."
	}

	c := Count(verdicts)
	summary := fmt.Sprintf("Fact-checked %d claims: %d verified true, %d verified false, %d partially true, %d insufficient information.",
		len(verdicts), c.True, c.False, c.Partial, c.Insufficient)

	switch {
	case c.False > 0:
		summary += " Contains false information."
	case c.Insufficient == len(verdicts):
		summary += " Requires additional verification."
	case c.True == len(verdicts):
		summary += " All verifiable claims appear accurate."
	}
	return summary
}

// Assess aggregates verdicts into a document assessment
func (s *Scorer) Assess(verdicts []*model.Verdict, claimsExtracted int, at time.Time) *model.DocumentAssessment {
	overall := s.RealTimeScore(verdicts)
	return &model.DocumentAssessment{
		ClaimsExtracted: claimsExtracted,
		ClaimsChecked:   len(verdicts),
		Verdicts:        verdicts,
		OverallScore:    overall,
		Level:           Level(overall),
		Summary:         Summary(verdicts),
		Timestamp:       at,
	}
}
