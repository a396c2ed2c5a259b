package search

import (
	"context"

	"github.com/ppiankov/veritas/internal/model"
)

// Provider is one evidence source in the gateway chain
type Provider interface {
	// Name identifies the provider in logs, metrics and pacing
	Name() string

	// Configured reports whether credentials are present
	Configured() bool

	// Search runs a query and returns ranked results
	Search(ctx context.Context, q Query) ([]model.EvidenceItem, error)
}

// Query is a search request derived from one claim
type Query struct {
	Claim string // Original claim text
	Text  string // Keyword query sent to the provider
	Limit int
}
