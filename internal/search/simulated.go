package search

import (
	"context"

	"github.com/ppiankov/veritas/internal/model"
)

// Simulated returns a single deterministic placeholder so downstream code
// never has to distinguish "no provider" from "no evidence"
type Simulated struct{}

// Name returns the provider name
func (Simulated) Name() string {
	return "simulated"
}

// Configured is always true
func (Simulated) Configured() bool {
	return true
}

// Search returns the placeholder for the claim
func (Simulated) Search(_ context.Context, q Query) ([]model.EvidenceItem, error) {
	return []model.EvidenceItem{SimulatedResult(q.Claim)}, nil
}

// SimulatedResult builds the placeholder item for a claim
func SimulatedResult(claim string) model.EvidenceItem {
	r := []rune(claim)
	if len(r) > 50 {
		r = r[:50]
	}
	return model.EvidenceItem{
		Title:   "Search result for: " + string(r) + "...",
		Snippet: "No real search API configured. This is a simulated result.",
		URL:     "https://example.com",
		Domain:  "example.com",
	}
}
