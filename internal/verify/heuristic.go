package verify

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/policy"
)

const (
	MethodKnownEntity = "known_entity"
	MethodHeuristic   = "heuristic"
)

// maxHeuristicConfidence caps every confidence the heuristic path produces
const maxHeuristicConfidence = 0.9

// Words too common to count as support when they appear in a search result
var supportStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"has": true, "have": true, "had": true, "it": true, "its": true, "this": true, "that": true,
}

// HeuristicVerifier produces verdicts without an external reasoner
type HeuristicVerifier struct {
	policy *policy.Policy
}

// NewHeuristicVerifier creates a heuristic verifier. A nil policy uses the built-in one.
func NewHeuristicVerifier(p *policy.Policy) *HeuristicVerifier {
	if p == nil {
		p = policy.Default()
	}
	return &HeuristicVerifier{policy: p}
}

// Verify checks the known-entity table first and otherwise weighs
// supporting against contradicting search results
func (h *HeuristicVerifier) Verify(claim string, evidence []model.EvidenceItem) *model.Verdict {
	total := len(evidence)

	if m, ok := h.policy.MatchEntity(claim); ok {
		return &model.Verdict{
			Claim:            claim,
			Fingerprint:      model.Fingerprint(claim),
			Status:           model.StatusTrue,
			Confidence:       math.Min(maxHeuristicConfidence, m.Confidence),
			Explanation:      m.Explanation,
			CurrentFacts:     fmt.Sprintf("Search found %d results supporting this claim", total),
			ReliabilityNotes: m.ReliabilityNotes,
			EvidenceCount:    total,
			FallbackUsed:     true,
			Method:           MethodKnownEntity,
		}
	}

	claimTokens := tokens(claim)
	support, contradictions := 0, 0
	for _, item := range evidence {
		combined := strings.ToLower(item.Title + " " + item.Snippet)
		if overlaps(claimTokens, tokens(combined)) {
			support++
		}
		if h.policy.IsContradiction(combined) {
			contradictions++
		}
	}

	status := model.StatusInsufficientInfo
	confidence := 0.5
	switch {
	case total == 0:
	case contradictions > support:
		status = model.StatusFalse
		confidence = 0.2 + float64(support)/float64(total)*0.3
	case support > contradictions:
		status = model.StatusTrue
		confidence = 0.6 + float64(support)/float64(total)*0.3
	}

	return &model.Verdict{
		Claim:            claim,
		Fingerprint:      model.Fingerprint(claim),
		Status:           status,
		Confidence:       math.Min(maxHeuristicConfidence, confidence),
		Explanation:      fmt.Sprintf("Based on %d supporting and %d contradicting search results", support, contradictions),
		CurrentFacts:     fmt.Sprintf("Analysis of %d search results", total),
		Contradictions:   fmt.Sprintf("Found %d potential contradictions", contradictions),
		ReliabilityNotes: "Analysis based on search result patterns",
		EvidenceCount:    total,
		FallbackUsed:     true,
		Method:           MethodHeuristic,
	}
}

// tokens returns the lowercase content words of s
func tokens(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if !supportStopWords[w] {
			set[w] = true
		}
	}
	return set
}

func overlaps(a, b map[string]bool) bool {
	for w := range a {
		if b[w] {
			return true
		}
	}
	return false
}
