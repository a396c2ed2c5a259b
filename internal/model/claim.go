package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FingerprintLength is the number of hex characters kept from the claim hash
const FingerprintLength = 16

// Claim represents a short, checkable factual assertion extracted from a document
type Claim struct {
	Text        string `json:"text"`                // The claim text, whitespace-normalized
	Fingerprint string `json:"fingerprint"`         // Truncated hash of the normalized text
	Heuristic   string `json:"heuristic,omitempty"` // Which extraction rule matched (e.g., "pattern:status")
}

// NewClaim builds a claim and computes its fingerprint
func NewClaim(text, heuristic string) Claim {
	text = CollapseWhitespace(text)
	return Claim{
		Text:        text,
		Fingerprint: Fingerprint(text),
		Heuristic:   heuristic,
	}
}

// Fingerprint returns the cache key prefix for a claim text.
// Case and whitespace differences map to the same fingerprint.
func Fingerprint(text string) string {
	normalized := strings.ToLower(CollapseWhitespace(text))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])[:FingerprintLength]
}

// CollapseWhitespace trims the text and folds runs of whitespace into one space
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
