package sources

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/authority"
	"github.com/ppiankov/veritas/internal/model"
)

// MaxSources is the number of related sources returned
const MaxSources = 3

const (
	maxTitle        = 150
	maxSnippet      = 200
	topWords        = 5
	topQuoted       = 2
	topEntities     = 3
	queryTerms      = 4
	entityTextLimit = 500
)

var (
	wordPattern  = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
	quotePattern = regexp.MustCompile(`"([^"]*)"`)
)

var termStopWords = map[string]bool{
	"news": true, "article": true, "report": true, "says": true, "said": true, "according": true,
	"sources": true, "breaking": true, "update": true, "latest": true, "today": true,
	"yesterday": true, "this": true, "that": true, "with": true, "from": true, "they": true,
	"have": true, "been": true, "will": true, "were": true, "their": true,
}

var blockedURLTerms = []string{
	"newsletter", "subscribe", "signup", "register", "login", "homepage",
	"category", "section", "rss", "feed", "index.html", "sitemap",
}

var blockedTitleTerms = []string{
	"newsletter", "subscribe", "sign up", "home page", "homepage",
	"latest news", "breaking news", "news home", "news section",
	"news category", "all news", "top stories",
}

var articlePathTerms = []string{
	"article", "story", "/news/", "/world/", "/politics/",
	"/science/", "/technology/", "/health/", "/business/",
}

// Searcher runs a free-text search
type Searcher interface {
	Configured() bool
	SearchQuery(ctx context.Context, claim, text string) []model.EvidenceItem
}

// EntityRecognizer finds named entities in text
type EntityRecognizer interface {
	Entities(text string) []string
}

// Finder suggests trusted outlets where a reader can check a document
type Finder struct {
	searcher  Searcher
	authority *authority.Classifier
	entities  EntityRecognizer
	logger    *zap.Logger
}

// NewFinder creates a source finder. A nil authority uses the defaults and a
// nil recognizer skips entity terms.
func NewFinder(searcher Searcher, auth *authority.Classifier, entities EntityRecognizer, logger *zap.Logger) *Finder {
	if auth == nil {
		auth = authority.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{
		searcher:  searcher,
		authority: auth,
		entities:  entities,
		logger:    logger,
	}
}

// Find returns at most MaxSources related sources, falling back to a fixed
// list of trusted outlets when search is unavailable or nothing survives
// filtering
func (f *Finder) Find(ctx context.Context, text string) ([]model.RelatedSource, []string) {
	terms := f.SearchTerms(text)
	if len(terms) == 0 || f.searcher == nil || !f.searcher.Configured() {
		return Fallback(), terms
	}

	n := queryTerms
	if len(terms) < n {
		n = len(terms)
	}
	query := strings.Join(terms[:n], " ")

	items := f.searcher.SearchQuery(ctx, text, query)
	ranked := f.Rank(items)
	f.logger.Debug("related sources ranked",
		zap.String("query", query),
		zap.Int("results", len(items)),
		zap.Int("kept", len(ranked)))

	if len(ranked) == 0 {
		return Fallback(), terms
	}
	if len(ranked) > MaxSources {
		ranked = ranked[:MaxSources]
	}
	return ranked, terms
}

// SearchTerms returns the most frequent content words, quoted phrases and
// named entities of text
func (f *Finder) SearchTerms(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 3 || termStopWords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topWords {
		order = order[:topWords]
	}

	terms := order
	quoted := 0
	for _, m := range quotePattern.FindAllStringSubmatch(text, -1) {
		if quoted == topQuoted {
			break
		}
		if phrase := strings.TrimSpace(m[1]); phrase != "" {
			terms = append(terms, phrase)
			quoted++
		}
	}

	if f.entities != nil {
		excerpt := text
		if r := []rune(text); len(r) > entityTextLimit {
			excerpt = string(r[:entityTextLimit])
		}
		added := 0
		for _, e := range f.entities.Entities(excerpt) {
			if added == topEntities {
				break
			}
			if len(e) > 2 {
				terms = append(terms, strings.ToLower(e))
				added++
			}
		}
	}
	return terms
}

// Rank filters out navigation pages, removes duplicate URLs and orders the
// remaining results by outlet credibility
func (f *Finder) Rank(items []model.EvidenceItem) []model.RelatedSource {
	seen := make(map[string]bool)
	var out []model.RelatedSource

	for _, item := range items {
		link := strings.TrimSpace(item.URL)
		if link == "" || seen[link] || blocked(link, item.Title) {
			continue
		}
		seen[link] = true

		domain := strings.TrimPrefix(model.DomainOf(link), "www.")
		credibility, name, trusted := f.credibility(domain)

		lowerURL := strings.ToLower(link)
		for _, term := range articlePathTerms {
			if strings.Contains(lowerURL, term) {
				credibility += 0.1
				break
			}
		}
		if credibility > 1 {
			credibility = 1
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Article from " + name
		}

		out = append(out, model.RelatedSource{
			Title:       truncate(title, maxTitle),
			URL:         link,
			Source:      name,
			Domain:      domain,
			Snippet:     truncate(item.Snippet, maxSnippet),
			Credibility: credibility,
			Trusted:     trusted,
			Origin:      item.Provider,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Credibility > out[j].Credibility
	})
	return out
}

func (f *Finder) credibility(domain string) (float64, string, bool) {
	if src, ok := f.authority.Trusted(domain); ok {
		return src.Credibility, src.Name, true
	}

	name := displayName(domain)
	switch {
	case containsAny(domain, "gov", "edu"):
		return 0.8, name, false
	case containsAny(domain, "news", "times", "post", "herald", "journal"):
		return 0.7, name, false
	case containsAny(domain, "blog", "wordpress", "medium"):
		return 0.4, name, false
	default:
		return 0.5, name, false
	}
}

func blocked(link, title string) bool {
	lowerURL := strings.ToLower(link)
	for _, term := range blockedURLTerms {
		if strings.Contains(lowerURL, term) {
			return true
		}
	}
	if u, err := url.Parse(lowerURL); err == nil && (u.Path == "/news" || u.Path == "/news/") {
		return true
	}

	lowerTitle := strings.ToLower(title)
	for _, term := range blockedTitleTerms {
		if strings.Contains(lowerTitle, term) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// displayName turns "example-news.com" into "Example-News"
func displayName(domain string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(domain, ".com"), ".org")
	r := []rune(name)
	upper := true
	for i, c := range r {
		if upper {
			r[i] = unicode.ToUpper(c)
		}
		upper = !unicode.IsLetter(c)
	}
	return string(r)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Fallback is the fixed list of trusted outlets returned when no search
// result qualifies
func Fallback() []model.RelatedSource {
	return []model.RelatedSource{
		{
			Title:       "Reuters - Trusted Global News",
			URL:         "https://www.reuters.com/",
			Source:      "Reuters",
			Domain:      "reuters.com",
			Snippet:     "Reuters brings you the latest business, finance and breaking news.",
			Credibility: 0.95,
			Trusted:     true,
			Origin:      "fallback",
		},
		{
			Title:       "FactCheck.org - Fact Verification",
			URL:         "https://www.factcheck.org/",
			Source:      "FactCheck.org",
			Domain:      "factcheck.org",
			Snippet:     "Independent fact-checking of political claims and news.",
			Credibility: 0.92,
			Trusted:     true,
			Origin:      "fallback",
		},
		{
			Title:       "BBC News - Global Coverage",
			URL:         "https://www.bbc.com/news",
			Source:      "BBC News",
			Domain:      "bbc.com",
			Snippet:     "BBC News provides trusted global news coverage.",
			Credibility: 0.93,
			Trusted:     true,
			Origin:      "fallback",
		},
	}
}
