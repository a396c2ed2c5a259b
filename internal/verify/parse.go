package verify

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// ErrNoFields is returned when a reasoner response contains none of the expected labels
var ErrNoFields = errors.New("response contains no labelled fields")

// Response field labels
const (
	LabelStatus           = "VERIFICATION_STATUS"
	LabelConfidence       = "CONFIDENCE_SCORE"
	LabelExplanation      = "EXPLANATION"
	LabelCurrentFacts     = "CURRENT_FACTS"
	LabelContradictions   = "CONTRADICTIONS"
	LabelReliabilityNotes = "RELIABILITY_NOTES"
)

const defaultConfidence = 0.5

// ParseResponse converts a labelled reasoner response into a Verdict.
// Every field has a default: status INSUFFICIENT_INFO, confidence 0.5 and
// empty text. A confidence that is not a number in [0,1] becomes 0.5.
// Lines are matched on their leading label; the first occurrence wins.
func ParseResponse(text, claim string, evidenceCount int) (*model.Verdict, error) {
	v := &model.Verdict{
		Claim:         claim,
		Fingerprint:   model.Fingerprint(claim),
		Status:        model.StatusInsufficientInfo,
		Confidence:    defaultConfidence,
		EvidenceCount: evidenceCount,
		AIResponse:    text,
	}

	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := splitLabel(line)
		if !ok || seen[label] {
			continue
		}

		switch label {
		case LabelStatus:
			v.Status, _ = model.ParseStatus(value)
		case LabelConfidence:
			v.Confidence = parseConfidence(value)
		case LabelExplanation:
			v.Explanation = value
		case LabelCurrentFacts:
			v.CurrentFacts = value
		case LabelContradictions:
			v.Contradictions = value
		case LabelReliabilityNotes:
			v.ReliabilityNotes = value
		default:
			continue
		}
		seen[label] = true
	}

	if len(seen) == 0 {
		return nil, ErrNoFields
	}
	return v, nil
}

// splitLabel splits "LABEL: value", tolerating markdown emphasis and
// bullets around the label
func splitLabel(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*#> ")
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}

	label := strings.ToUpper(strings.Trim(line[:idx], "* "))
	label = strings.ReplaceAll(label, " ", "_")
	value := strings.TrimSpace(strings.Trim(strings.TrimSpace(line[idx+1:]), "*"))
	return label, strings.TrimSpace(value), true
}

func parseConfidence(raw string) float64 {
	s := strings.Trim(strings.TrimSpace(raw), "[]")
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return defaultConfidence
	}
	if percent {
		f /= 100
	}
	if f < 0 || f > 1 {
		return defaultConfidence
	}
	return f
}
