package model

import (
	"net/url"
	"strings"
)

// MaxEvidenceItems bounds the search results retained per claim
const MaxEvidenceItems = 5

// EvidenceItem is one search result used as context for verifying a claim
type EvidenceItem struct {
	Title     string        `json:"title"`
	Snippet   string        `json:"snippet"`
	URL       string        `json:"url"`
	Domain    string        `json:"domain"`
	Authority AuthorityTier `json:"authority,omitempty"`
	Provider  string        `json:"provider,omitempty"` // Search provider that returned the item
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Government, academic, wire services, fact-checkers
	TierSecondary AuthorityTier = 2 // Major publishers, reputable media
	TierTertiary  AuthorityTier = 3 // Blogs, personal websites, unknown hosts
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// DomainOf extracts the lowercase host of a URL, or "unknown"
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	host := strings.ToLower(parsed.Host)
	if idx := strings.LastIndex(host, ":"); idx > 0 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}
	return host
}
