package model

import (
	"strings"
	"time"
)

// VerificationStatus is the outcome class of verifying one claim
type VerificationStatus string

const (
	StatusTrue             VerificationStatus = "TRUE"
	StatusFalse            VerificationStatus = "FALSE"
	StatusPartiallyTrue    VerificationStatus = "PARTIALLY_TRUE"
	StatusInsufficientInfo VerificationStatus = "INSUFFICIENT_INFO"
)

// ParseStatus maps free text onto a status. UNCLEAR is an alias of
// INSUFFICIENT_INFO. The boolean reports whether the text was recognised.
func ParseStatus(raw string) (VerificationStatus, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.Trim(s, "[]*`\"' .")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")

	switch s {
	case "TRUE":
		return StatusTrue, true
	case "FALSE":
		return StatusFalse, true
	case "PARTIALLY_TRUE", "PARTLY_TRUE", "PARTIAL":
		return StatusPartiallyTrue, true
	case "INSUFFICIENT_INFO", "INSUFFICIENT_INFORMATION", "UNCLEAR", "UNVERIFIABLE":
		return StatusInsufficientInfo, true
	default:
		return StatusInsufficientInfo, false
	}
}

// Value is the numeric credibility of a status used by score aggregation
func (s VerificationStatus) Value() float64 {
	switch s {
	case StatusTrue:
		return 1.0
	case StatusPartiallyTrue:
		return 0.7
	case StatusFalse:
		return 0.0
	default:
		return 0.5
	}
}

// Verdict is the structured outcome of verifying one claim
type Verdict struct {
	Claim            string             `json:"claim"`
	Fingerprint      string             `json:"fingerprint"`
	Status           VerificationStatus `json:"verification_status"`
	Confidence       float64            `json:"confidence_score"`
	Explanation      string             `json:"explanation"`
	CurrentFacts     string             `json:"current_facts"`
	Contradictions   string             `json:"contradictions"`
	ReliabilityNotes string             `json:"reliability_notes"`
	EvidenceCount    int                `json:"search_results_count"`
	FallbackUsed     bool               `json:"fallback_used"`
	Method           string             `json:"method"`                // e.g. "ai:gemini", "heuristic", "known_entity"
	AIResponse       string             `json:"ai_response,omitempty"` // Raw reasoner output when the AI path succeeded
}

// CredibilityLevel is the categorical label of a real-time credibility score
type CredibilityLevel string

const (
	LevelHigh     CredibilityLevel = "HIGH_CREDIBILITY"
	LevelModerate CredibilityLevel = "MODERATE_CREDIBILITY"
	LevelLow      CredibilityLevel = "LOW_CREDIBILITY"
	LevelVeryLow  CredibilityLevel = "VERY_LOW_CREDIBILITY"
)

// DocumentAssessment aggregates the verdicts of one document
type DocumentAssessment struct {
	ClaimsExtracted int              `json:"claims_extracted"`
	ClaimsChecked   int              `json:"claims_checked"`
	Verdicts        []*Verdict       `json:"verifications"`
	OverallScore    float64          `json:"overall_credibility_score"`
	Level           CredibilityLevel `json:"credibility_level"`
	Summary         string           `json:"summary"`
	Timestamp       time.Time        `json:"timestamp"`
}
