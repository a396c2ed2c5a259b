package quality

import (
	"regexp"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// FactualStatementMaxWords is the length limit for the short factual statement flag
const FactualStatementMaxWords = 20

var factualWords = []string{
	// research and sources
	"according", "research", "study", "report", "data", "statistics",
	"survey", "analysis", "findings", "evidence", "documented",
	// official bodies
	"government", "official", "ministry", "department", "agency",
	"authority", "commission", "parliament", "congress",
	// academic
	"university", "institute", "published", "journal", "peer-reviewed",
	"professor", "doctor", "phd", "researcher",
	// reference facts
	"established", "founded", "located", "situated", "population",
	"capital", "currency", "area", "distance", "height", "depth",
}

var factualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}`),
	regexp.MustCompile(`\d+(?:,\d{3})*`),
	regexp.MustCompile(`\d+\s*(?:million|billion|thousand|percent|km|miles|meters)`),
	regexp.MustCompile(`(born|died|established|founded) (?:in|on) \d{4}`),
	regexp.MustCompile(`(prime minister|president|capital|currency) (?:of|is)`),
	regexp.MustCompile(`(located|situated) in \w+`),
}

var authoritativePhrases = []string{
	"according to", "official statement", "government announced",
	"research shows", "study reveals", "data indicates",
	"confirmed by", "verified by", "reported by",
}

var (
	quotePattern    = regexp.MustCompile(`"[^"]+"`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Analyzer computes lexical quality features of a document
type Analyzer struct {
	readability Readability
}

// NewAnalyzer creates an analyzer. A nil readability scorer uses the neutral constant.
func NewAnalyzer(r Readability) *Analyzer {
	if r == nil {
		r = Neutral{}
	}
	return &Analyzer{readability: r}
}

// Analyze returns the quality metrics of text
func (a *Analyzer) Analyze(text string) model.QualityMetrics {
	lower := strings.ToLower(text)
	words := len(strings.Fields(text))

	factual := 0
	for _, w := range factualWords {
		factual += strings.Count(lower, w)
	}

	patterns := 0
	for _, p := range factualPatterns {
		patterns += len(p.FindAllStringIndex(lower, -1))
	}

	authoritative := 0
	for _, phrase := range authoritativePhrases {
		if strings.Contains(lower, phrase) {
			authoritative++
		}
	}

	return model.QualityMetrics{
		WordCount:            words,
		SentenceCount:        CountSentences(text),
		Readability:          a.readability.Score(text),
		FactualIndicators:    factual + patterns,
		PatternMatches:       patterns,
		QuoteCount:           len(quotePattern.FindAllStringIndex(text, -1)),
		AuthoritativePhrases: authoritative,
		IsFactualStatement: words <= FactualStatementMaxWords &&
			(factual > 0 || patterns > 0 || authoritative > 0),
	}
}

// CountSentences counts the non-blank pieces between sentence terminators
func CountSentences(text string) int {
	n := 0
	for _, s := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
