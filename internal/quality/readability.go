package quality

import (
	"strings"
	"unicode"
)

// NeutralReadability is reported when no readability scorer is available
const NeutralReadability = 50.0

// Readability scores how easy a text is to read on a 0-100 scale
type Readability interface {
	Name() string
	Score(text string) float64
}

// Neutral always returns the neutral constant
type Neutral struct{}

func (Neutral) Name() string         { return "neutral" }
func (Neutral) Score(string) float64 { return NeutralReadability }

// Flesch computes the Flesch reading ease with a vowel-group syllable estimate
type Flesch struct{}

func (Flesch) Name() string { return "flesch" }

// Score returns the Flesch reading ease clamped to [0,100]. Empty text is neutral.
func (Flesch) Score(text string) float64 {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) == 0 {
		return NeutralReadability
	}

	sentences := CountSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wps := float64(len(words)) / float64(sentences)
	spw := float64(syllables) / float64(len(words))
	score := 206.835 - 1.015*wps - 84.6*spw

	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

// NewReadability returns the scorer named by name, defaulting to neutral
func NewReadability(name string) Readability {
	if strings.EqualFold(name, "flesch") {
		return Flesch{}
	}
	return Neutral{}
}

func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
