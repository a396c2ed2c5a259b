package authority

import (
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Classifier assigns evidence domains to authority tiers and knows the
// credibility of trusted news outlets
type Classifier struct {
	primary   map[string]bool
	secondary map[string]bool
	trusted   map[string]model.TrustedSource
}

// New creates a classifier. A nil config uses the built-in tables.
func New(config *model.AuthorityConfig) *Classifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	c := &Classifier{
		primary:   make(map[string]bool, len(config.PrimaryDomains)),
		secondary: make(map[string]bool, len(config.SecondaryDomains)),
		trusted:   make(map[string]model.TrustedSource, len(config.TrustedSources)),
	}
	for _, d := range config.PrimaryDomains {
		c.primary[strings.ToLower(d)] = true
	}
	for _, d := range config.SecondaryDomains {
		c.secondary[strings.ToLower(d)] = true
	}
	for d, src := range config.TrustedSources {
		c.trusted[strings.ToLower(d)] = src
	}
	return c
}

// Classify returns the tier for a bare domain such as "www.reuters.com"
func (c *Classifier) Classify(domain string) model.AuthorityTier {
	host := normalize(domain)
	if host == "" || host == "unknown" {
		return model.TierUnknown
	}

	if matchSuffix(host, c.primary) {
		return model.TierPrimary
	}
	if matchSuffix(host, c.secondary) {
		return model.TierSecondary
	}

	// Government and academic TLDs
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// ClassifyURL classifies the host of a URL
func (c *Classifier) ClassifyURL(rawURL string) model.AuthorityTier {
	return c.Classify(model.DomainOf(rawURL))
}

// Trusted looks up a known outlet for the domain. Subdomains match their parent.
func (c *Classifier) Trusted(domain string) (model.TrustedSource, bool) {
	host := normalize(domain)
	for host != "" {
		if src, ok := c.trusted[host]; ok {
			return src, true
		}
		idx := strings.Index(host, ".")
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return model.TrustedSource{}, false
}

// Credibility returns the outlet credibility for a domain, or def when unknown
func (c *Classifier) Credibility(domain string, def float64) float64 {
	if src, ok := c.Trusted(domain); ok {
		return src.Credibility
	}
	return def
}

// TrustedDomains lists all known outlet domains
func (c *Classifier) TrustedDomains() []string {
	out := make([]string, 0, len(c.trusted))
	for d := range c.trusted {
		out = append(out, d)
	}
	return out
}

func matchSuffix(host string, set map[string]bool) bool {
	if set[host] {
		return true
	}
	for d := range set {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalize(domain string) string {
	host := strings.ToLower(strings.TrimSpace(domain))
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.TrimSuffix(host, ".")
}
