package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

const (
	maxPromptChars   = 2000
	maxSummaryChars  = 200
	maxReasonChars   = 300
	fallbackSentence = 20
	fallbackEntities = 5
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	namePattern   = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// Reasoner is the language model used for narrative analysis
type Reasoner interface {
	IsEnabled() bool
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Analyzer produces a narrative reading of a whole article
type Analyzer struct {
	reasoner Reasoner
	logger   *zap.Logger
}

// NewAnalyzer creates a narrative analyzer. Without an enabled reasoner it
// always returns the deterministic fallback.
func NewAnalyzer(reasoner Reasoner, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{reasoner: reasoner, logger: logger}
}

// Enabled reports whether a reasoner backs the analyzer
func (a *Analyzer) Enabled() bool {
	return a.reasoner != nil && a.reasoner.IsEnabled()
}

// Analyze returns the narrative for text. It never fails.
func (a *Analyzer) Analyze(ctx context.Context, text string) *model.Narrative {
	if !a.Enabled() {
		return Fallback(text)
	}

	resp, err := a.reasoner.Complete(ctx, llm.CompletionRequest{
		Prompt: buildPrompt(text),
		JSON:   true,
	})
	if err != nil {
		a.logger.Warn("narrative analysis failed, using fallback", zap.Error(err))
		return Fallback(text)
	}
	return Parse(resp.Text)
}

func buildPrompt(text string) string {
	excerpt := text
	if r := []rune(text); len(r) > maxPromptChars {
		excerpt = string(r[:maxPromptChars]) + "..."
	}

	var b strings.Builder
	b.WriteString("Analyze this news article comprehensively:\n\n")
	b.WriteString(excerpt)
	b.WriteString("\n\nRespond with a JSON object with these fields:\n")
	b.WriteString("1. summary: brief 2-3 sentence summary\n")
	b.WriteString("2. credibility_assessment: True/False/Mixed/Unverifiable\n")
	b.WriteString("3. key_points: array of 3-5 main points\n")
	b.WriteString("4. entities: important people, places and organizations mentioned\n")
	b.WriteString("5. fact_check_reasoning: why this seems credible or suspicious\n")
	b.WriteString("6. related_topics: what to search for to verify this story\n")
	return b.String()
}

// response mirrors the JSON object requested from the model
type response struct {
	Summary               string     `json:"summary"`
	CredibilityAssessment string     `json:"credibility_assessment"`
	KeyPoints             stringList `json:"key_points"`
	Entities              stringList `json:"entities"`
	FactCheckReasoning    string     `json:"fact_check_reasoning"`
	RelatedTopics         stringList `json:"related_topics"`
}

// Parse extracts the outermost JSON object from a model response. When no
// object decodes, the raw text becomes the summary.
func Parse(text string) *model.Narrative {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var r response
		if err := json.Unmarshal([]byte(text[start:end+1]), &r); err == nil {
			return &model.Narrative{
				Summary:               r.Summary,
				CredibilityAssessment: r.CredibilityAssessment,
				KeyPoints:             r.KeyPoints,
				Entities:              r.Entities,
				FactCheckReasoning:    r.FactCheckReasoning,
				RelatedTopics:         r.RelatedTopics,
			}
		}
	}

	return &model.Narrative{
		Summary:               truncate(text, maxSummaryChars),
		CredibilityAssessment: "Analysis completed",
		KeyPoints:             []string{"AI analysis performed"},
		Entities:              []string{"Various entities detected"},
		FactCheckReasoning:    truncate(text, maxReasonChars),
		RelatedTopics:         []string{"Further investigation recommended"},
	}
}

// Fallback builds a narrative without a model: the first long sentences,
// capitalised name pairs and a request for manual verification
func Fallback(text string) *model.Narrative {
	var key []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len([]rune(s)) > fallbackSentence {
			key = append(key, s)
			if len(key) == 3 {
				break
			}
		}
	}

	var entities []string
	seen := make(map[string]bool)
	for _, name := range namePattern.FindAllString(text, fallbackEntities) {
		if !seen[name] {
			seen[name] = true
			entities = append(entities, name)
		}
	}

	return &model.Narrative{
		Summary:               strings.Join(key, ". ") + ".",
		CredibilityAssessment: "Requires verification",
		KeyPoints:             key,
		Entities:              entities,
		FactCheckReasoning:    "Automated analysis completed. Manual verification recommended.",
		RelatedTopics:         []string{"Fact-checking", "Source verification"},
		Fallback:              true,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// stringList accepts a string, an array or an object of strings.
// Models return entities in all three shapes.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = flatten(raw)
	return nil
}

func flatten(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flatten(t[k])...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
