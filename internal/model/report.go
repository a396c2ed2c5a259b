package model

import "time"

// Report represents the complete credibility analysis of one document
type Report struct {
	ID         string    `json:"id"`
	Input      string    `json:"input_source"`         // "text" or "url"
	SourceURL  string    `json:"source_url,omitempty"` // URL that was fetched, if any
	Title      string    `json:"title,omitempty"`      // Article title when fetched from a URL
	AnalyzedAt time.Time `json:"analyzed_at"`

	Classifier ClassifierResult `json:"classifier"`
	Quality    QualityMetrics   `json:"content_quality"`
	Narrative  *Narrative       `json:"ai_insights,omitempty"`

	RealTime *DocumentAssessment `json:"real_time_verification,omitempty"`
	Fused    FusedScore          `json:"analysis"`
	Final    FinalAssessment     `json:"final_assessment"`

	Sources     []RelatedSource   `json:"related_sources,omitempty"`
	SearchTerms []string          `json:"search_terms,omitempty"`
	Fallback    *FallbackAnalysis `json:"fallback_analysis,omitempty"` // Present when real-time verification failed
	Features    Features          `json:"features_enabled"`
}

// ClassifierResult is the output of the pre-trained text classifier stage
type ClassifierResult struct {
	Label           string  `json:"prediction"` // "Real", "Fake" or "Unknown"
	Confidence      float64 `json:"confidence"`
	FakeProbability float64 `json:"fake_probability"`
	RealProbability float64 `json:"real_probability"`
	FactBoost       float64 `json:"fact_boost_amount"`
	FactBoosted     bool    `json:"fact_boost_applied"`
}

// Credibility converts the classifier output into a credibility in [0,1]
func (c ClassifierResult) Credibility() float64 {
	if c.Label == "Real" {
		return c.Confidence
	}
	return 1 - c.Confidence
}

// QualityMetrics are the lexical features of a whole document
type QualityMetrics struct {
	WordCount            int     `json:"word_count"`
	SentenceCount        int     `json:"sentence_count"`
	Readability          float64 `json:"readability_score"`
	FactualIndicators    int     `json:"factual_indicators"`
	PatternMatches       int     `json:"pattern_matches"`
	QuoteCount           int     `json:"quote_count"`
	AuthoritativePhrases int     `json:"authoritative_phrases"`
	IsFactualStatement   bool    `json:"is_factual_statement"`
}

// HasQuotes reports whether the document contains at least one quotation
func (q QualityMetrics) HasQuotes() bool {
	return q.QuoteCount > 0
}

// Narrative is the AI reading of a whole article
type Narrative struct {
	Summary               string   `json:"summary"`
	CredibilityAssessment string   `json:"credibility_assessment"`
	KeyPoints             []string `json:"key_points"`
	Entities              []string `json:"entities"`
	FactCheckReasoning    string   `json:"fact_check_reasoning"`
	RelatedTopics         []string `json:"related_topics"`
	Fallback              bool     `json:"fallback,omitempty"`
}

// FusedScore is the final document score with its transparent breakdown
type FusedScore struct {
	Score                 float64  `json:"credibility_score"`
	Label                 string   `json:"final_assessment"`
	Preliminary           float64  `json:"preliminary_score"`
	ClassifierCredibility float64  `json:"ml_credibility"`
	ContentQuality        float64  `json:"content_quality"`
	NarrativeScore        float64  `json:"ai_contribution"`
	FactualBoost          float64  `json:"factual_boost"`
	IsFactualStatement    bool     `json:"is_factual_statement"`
	RealTimeScore         *float64 `json:"real_time_score,omitempty"`
	AdjustedByRealTime    bool     `json:"adjusted_by_real_time"`
	Signals               []Signal `json:"signals"`
}

// FinalAssessment is the user-facing verdict of the whole analysis
type FinalAssessment struct {
	Score        float64 `json:"credibility_score"`
	Level        string  `json:"credibility_level"` // HIGH, MODERATE, LOW, VERY_LOW
	Message      string  `json:"message"`
	Color        string  `json:"color"`
	Warning      string  `json:"warning,omitempty"`
	Note         string  `json:"note,omitempty"`
	Confirmation string  `json:"confirmation,omitempty"`
}

// Signal represents one transparent scoring input
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Inputs, weights and formula
}

// SignalType classifies a scoring signal
type SignalType string

const (
	SignalClassifier     SignalType = "classifier"
	SignalContentQuality SignalType = "content_quality"
	SignalNarrative      SignalType = "ai_narrative"
	SignalFactBoost      SignalType = "fact_boost"
	SignalRealTime       SignalType = "real_time_verification"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// RelatedSource is a trusted outlet suggested for manual verification
type RelatedSource struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Domain      string  `json:"domain"`
	Snippet     string  `json:"snippet"`
	Credibility float64 `json:"credibility_score"`
	Trusted     bool    `json:"is_trusted"`
	Origin      string  `json:"search_engine"`
}

// FallbackAnalysis is the reduced result returned when verification failed unexpectedly
type FallbackAnalysis struct {
	Message         string `json:"message"`
	Error           string `json:"error,omitempty"`
	WordCount       int    `json:"word_count"`
	Sentences       int    `json:"sentences"`
	PotentialClaims int    `json:"potential_claims"`
}

// Features records which stages actually ran
type Features struct {
	Classifier         bool `json:"ml_classification"`
	AIAnalysis         bool `json:"ai_analysis"`
	RealTime           bool `json:"real_time_verification"`
	ContentQuality     bool `json:"content_quality"`
	EntityExtraction   bool `json:"entity_extraction"`
	SourceVerification bool `json:"source_verification"`
}
