package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/veritas/internal/model"
)

// MaxClaims caps the claims returned for a single document
const MaxClaims = 10

// DuplicateThreshold is the word-set Jaccard similarity above which two
// claims are considered the same
const DuplicateThreshold = 0.8

type claimPattern struct {
	name string
	re   *regexp.Regexp
}

// Pattern templates. Each ends in a lazy wildcard so a match stops at the
// trigger phrase rather than running to the end of the document.
var claimPatterns = []claimPattern{
	{"status", regexp.MustCompile(`(?is)([A-Z][a-zA-Z\s]+(?:is dead|died|passed away|was killed|is alive|is living).*?)`)},
	{"position", regexp.MustCompile(`(?is)([A-Z][a-zA-Z\s]+(?:is the|is a|serves as|became).*?(?:Prime Minister|President|CEO|Minister|Chief|Director|Leader).*?)`)},
	{"dated_event", regexp.MustCompile(`(?is)((?:yesterday|today|last week|this month|recently).*?(?:announced|declared|happened|occurred|died|was elected).*?)`)},
	{"statistic", regexp.MustCompile(`(?is)((?:killed|affected|saved|earned|lost|spent).*?\d+.*?(?:people|dollars|lives|years).*?)`)},
	{"organization", regexp.MustCompile(`(?is)([A-Z][a-zA-Z\s]+(?:Company|Corporation|Inc\.|Ltd\.).*?(?:announced|reported|filed|launched).*?)`)},
	{"location_event", regexp.MustCompile(`(?is)((?:in|at)\s+[A-Z][a-zA-Z\s]+.*?(?:earthquake|fire|explosion|attack|election|protest).*?)`)},
	{"biographical", regexp.MustCompile(`(?is)([A-Z][a-zA-Z\s]+(?:age|aged|years old|born in).*?\d+.*?)`)},
	{"research", regexp.MustCompile(`(?is)((?:scientists|researchers|doctors|studies).*?(?:discovered|found|proved|showed|revealed).*?)`)},
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// ClaimExtractor pulls candidate verifiable statements out of plain text
type ClaimExtractor struct {
	patterns []claimPattern
	keywords []string
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		patterns: claimPatterns,
		keywords: []string{
			"prime minister", "president", "died", "killed", "announced", "elected",
			"discovered", "research shows", "study found", "experts say", "according to",
		},
	}
}

// Extract returns up to MaxClaims deduplicated claims in discovery order.
// Empty text yields no claims.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var candidates []model.Claim

	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			cleaned := model.CollapseWhitespace(m[1])
			if n := utf8.RuneCountInString(cleaned); n > 10 && n < 200 {
				candidates = append(candidates, model.NewClaim(cleaned, "pattern:"+p.name))
			}
		}
	}

	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if n := utf8.RuneCountInString(sentence); n <= 20 || n >= 150 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, keyword := range e.keywords {
			if strings.Contains(lower, keyword) {
				candidates = append(candidates, model.NewClaim(sentence, "keyword:"+keyword))
				break
			}
		}
	}

	return dedupeClaims(candidates, MaxClaims)
}

// dedupeClaims keeps the first of any group of near-identical claims
func dedupeClaims(claims []model.Claim, limit int) []model.Claim {
	var unique []model.Claim
	for _, claim := range claims {
		duplicate := false
		for _, existing := range unique {
			if Similarity(claim.Text, existing.Text) > DuplicateThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, claim)
		}
	}

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// Similarity is the Jaccard index of the lowercase word sets of a and b
func Similarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if wb[w] {
			shared++
		}
	}
	union := len(wa) + len(wb) - shared
	return float64(shared) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

// SplitSentences splits text on terminal punctuation and drops empty pieces
func SplitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
