package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

// maxPromptEvidence is the number of search results shown to the reasoner
const maxPromptEvidence = 3

// Reasoner is the external reasoning capability used to judge claims
type Reasoner interface {
	IsEnabled() bool
	ProviderName() string
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Verifier decides a claim given its evidence
type Verifier interface {
	Verify(ctx context.Context, claim string, evidence []model.EvidenceItem) *model.Verdict
}

// AIVerifier asks a reasoner for a labelled judgement and falls back to
// the heuristic verifier when the reasoner is missing, fails or answers
// outside the expected grammar
type AIVerifier struct {
	reasoner  Reasoner
	heuristic *HeuristicVerifier
	now       func() time.Time
	logger    *zap.Logger
}

// NewAIVerifier creates an AI verifier. A nil or disabled reasoner makes
// every call go straight to the heuristic verifier.
func NewAIVerifier(reasoner Reasoner, heuristic *HeuristicVerifier, now func() time.Time, logger *zap.Logger) *AIVerifier {
	if heuristic == nil {
		heuristic = NewHeuristicVerifier(nil)
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIVerifier{
		reasoner:  reasoner,
		heuristic: heuristic,
		now:       now,
		logger:    logger,
	}
}

// Enabled reports whether a reasoner is configured
func (v *AIVerifier) Enabled() bool {
	return v.reasoner != nil && v.reasoner.IsEnabled()
}

// Verify returns a verdict; it never fails
func (v *AIVerifier) Verify(ctx context.Context, claim string, evidence []model.EvidenceItem) *model.Verdict {
	if !v.Enabled() {
		return v.heuristic.Verify(claim, evidence)
	}

	resp, err := v.reasoner.Complete(ctx, llm.CompletionRequest{
		System: "You are a professional fact-checker.",
		Prompt: BuildPrompt(claim, evidence, v.now()),
	})
	if err != nil {
		v.logger.Warn("ai verification failed, using heuristic",
			zap.String("claim", claim),
			zap.Error(err))
		return v.heuristic.Verify(claim, evidence)
	}

	verdict, err := ParseResponse(resp.Text, claim, len(evidence))
	if err != nil {
		v.logger.Warn("ai response unparseable, using heuristic",
			zap.String("claim", claim),
			zap.Error(err))
		return v.heuristic.Verify(claim, evidence)
	}

	verdict.Method = "ai:" + v.reasoner.ProviderName()
	return verdict
}

// BuildPrompt renders the verification prompt for one claim
func BuildPrompt(claim string, evidence []model.EvidenceItem, asOf time.Time) string {
	var b strings.Builder

	date := asOf.Format("January 2, 2006")
	month := asOf.Format("January 2006")

	fmt.Fprintf(&b, "Today's date is %s.\n\n", date)
	fmt.Fprintf(&b, "CLAIM TO VERIFY: %q\n\n", claim)

	if len(evidence) > 0 {
		b.WriteString("SEARCH RESULTS:\n")
		for i, item := range evidence {
			if i >= maxPromptEvidence {
				break
			}
			source := item.Domain
			if source == "" {
				source = model.DomainOf(item.URL)
			}
			fmt.Fprintf(&b, "%d. %s\n   %s\n   Source: %s\n\n", i+1, item.Title, item.Snippet, source)
		}
	}

	b.WriteString("Fact-check this claim and respond in this EXACT format, one field per line:\n\n")
	fmt.Fprintf(&b, "%s: [TRUE/FALSE/PARTIALLY_TRUE/INSUFFICIENT_INFO]\n", LabelStatus)
	fmt.Fprintf(&b, "%s: [0.0 to 1.0]\n", LabelConfidence)
	fmt.Fprintf(&b, "%s: [2-3 sentence explanation of your assessment]\n", LabelExplanation)
	fmt.Fprintf(&b, "%s: [What are the verified facts as of %s?]\n", LabelCurrentFacts, month)
	fmt.Fprintf(&b, "%s: [Any contradictions found in the search results or your knowledge]\n", LabelContradictions)
	fmt.Fprintf(&b, "%s: [Assessment of source reliability if applicable]\n\n", LabelReliabilityNotes)

	b.WriteString("Important considerations:\n")
	fmt.Fprintf(&b, "- Focus on information that is current as of %s\n", month)
	b.WriteString("- If the claim is about someone being alive or dead, verify their current status carefully\n")
	b.WriteString("- Weigh the reliability of the sources above\n")
	b.WriteString("- Distinguish verified facts from speculation\n")
	b.WriteString("- If information is insufficient, say so rather than guessing\n")

	return b.String()
}
