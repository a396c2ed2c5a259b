package search

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// MaxQueryTerms caps the number of words in a generated query
const MaxQueryTerms = 8

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
}

var signalWords = map[string]bool{
	"died": true, "dead": true, "killed": true, "president": true, "minister": true, "announced": true,
}

var recencyTerms = []string{"recently", "today", "yesterday", "this year"}

// EntityRecognizer finds named entities in text
type EntityRecognizer interface {
	Entities(text string) []string
}

// ProseRecognizer finds entities with the prose NER model
type ProseRecognizer struct{}

// Entities returns the text of every entity prose tags in the input
func (ProseRecognizer) Entities(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(true),
		prose.WithExtraction(true))
	if err != nil {
		return nil
	}
	var out []string
	for _, ent := range doc.Entities() {
		out = append(out, ent.Text)
	}
	return out
}

// QueryBuilder turns a claim into a short keyword query
type QueryBuilder struct {
	now      func() time.Time
	entities EntityRecognizer
}

// NewQueryBuilder creates a query builder. A nil clock uses time.Now and a
// nil recognizer disables entity enrichment.
func NewQueryBuilder(now func() time.Time, entities EntityRecognizer) *QueryBuilder {
	if now == nil {
		now = time.Now
	}
	return &QueryBuilder{now: now, entities: entities}
}

// Build keeps capitalized, numeric and high-signal words, drops stop words,
// and appends the current year to claims about recent events
func (b *QueryBuilder) Build(claim string) string {
	entityWords := make(map[string]bool)
	if b.entities != nil {
		for _, ent := range b.entities.Entities(claim) {
			for _, w := range strings.Fields(ent) {
				entityWords[w] = true
			}
		}
	}

	var important []string
	for _, word := range strings.Fields(claim) {
		lower := strings.ToLower(word)
		if stopWords[lower] {
			continue
		}
		if startsUpper(word) || isDigits(word) || signalWords[lower] || entityWords[word] {
			important = append(important, word)
		}
	}
	if len(important) > MaxQueryTerms {
		important = important[:MaxQueryTerms]
	}

	query := strings.Join(important, " ")

	lowerClaim := strings.ToLower(claim)
	for _, term := range recencyTerms {
		if strings.Contains(lowerClaim, term) {
			query = strings.TrimSpace(query + " " + strconv.Itoa(b.now().Year()))
			break
		}
	}

	return query
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func isDigits(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
