package policy

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Policy is the data-driven part of verification: known entities,
// contradiction vocabulary and optimistic upgrade rules
type Policy struct {
	KnownEntities         []EntityRule  `yaml:"known_entities"`
	KnownEntityConfidence float64       `yaml:"known_entity_confidence"`
	ContradictionTerms    []string      `yaml:"contradiction_terms"`
	Upgrades              []UpgradeRule `yaml:"upgrades"`
	UpgradeMaxConfidence  float64       `yaml:"upgrade_max_confidence"`

	compiled []compiledEntity
}

// Defaults for thresholds a policy file leaves out
const (
	DefaultKnownEntityConfidence = 0.9
	DefaultUpgradeMaxConfidence  = 0.5
)

// EntityRule matches claims about people whose status is known
type EntityRule struct {
	Names            []string `yaml:"names"`
	StatusPattern    string   `yaml:"status_pattern"`
	Explanation      string   `yaml:"explanation"`
	ReliabilityNotes string   `yaml:"reliability_notes"`
}

// UpgradeRule raises unresolved verdicts for claims containing common factual phrasing
type UpgradeRule struct {
	Phrases    []string                 `yaml:"phrases"`
	Status     model.VerificationStatus `yaml:"status"`
	Confidence float64                  `yaml:"confidence"`
}

type compiledEntity struct {
	rule   EntityRule
	name   *regexp.Regexp
	status *regexp.Regexp
}

// EntityMatch is a known-entity hit
type EntityMatch struct {
	Explanation      string
	ReliabilityNotes string
	Confidence       float64
}

// Default returns the built-in policy
func Default() *Policy {
	p, err := Parse(defaultPolicy)
	if err != nil {
		panic(fmt.Sprintf("embedded policy: %v", err))
	}
	return p
}

// Load reads a policy file. An empty path returns the built-in policy.
func Load(path string) (*Policy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML policy. Thresholds missing from the
// document keep their defaults.
func Parse(data []byte) (*Policy, error) {
	p := Policy{
		KnownEntityConfidence: DefaultKnownEntityConfidence,
		UpgradeMaxConfidence:  DefaultUpgradeMaxConfidence,
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Policy) compile() error {
	if p.KnownEntityConfidence < 0 || p.KnownEntityConfidence > 1 {
		return fmt.Errorf("known_entity_confidence %v outside [0,1]", p.KnownEntityConfidence)
	}
	if p.UpgradeMaxConfidence < 0 || p.UpgradeMaxConfidence > 1 {
		return fmt.Errorf("upgrade_max_confidence %v outside [0,1]", p.UpgradeMaxConfidence)
	}
	p.compiled = p.compiled[:0]
	for i, rule := range p.KnownEntities {
		if len(rule.Names) == 0 {
			return fmt.Errorf("known_entities[%d]: no names", i)
		}
		names := make([]string, len(rule.Names))
		for j, n := range rule.Names {
			names[j] = regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(n)))
		}
		name, err := regexp.Compile(`\b(` + strings.Join(names, "|") + `)\b`)
		if err != nil {
			return fmt.Errorf("known_entities[%d]: %w", i, err)
		}
		status, err := regexp.Compile(rule.StatusPattern)
		if err != nil {
			return fmt.Errorf("known_entities[%d] status_pattern: %w", i, err)
		}
		p.compiled = append(p.compiled, compiledEntity{rule: rule, name: name, status: status})
	}

	for i, up := range p.Upgrades {
		if _, ok := model.ParseStatus(string(up.Status)); !ok {
			return fmt.Errorf("upgrades[%d]: unknown status %q", i, up.Status)
		}
		if up.Confidence < 0 || up.Confidence > 1 {
			return fmt.Errorf("upgrades[%d]: confidence %v outside [0,1]", i, up.Confidence)
		}
	}
	return nil
}

// MatchEntity reports whether a claim names a known entity together with
// its matching status phrase. Matching is case-insensitive.
func (p *Policy) MatchEntity(claim string) (EntityMatch, bool) {
	lower := strings.ToLower(claim)
	for _, ce := range p.compiled {
		if ce.name.MatchString(lower) && ce.status.MatchString(lower) {
			return EntityMatch{
				Explanation:      ce.rule.Explanation,
				ReliabilityNotes: ce.rule.ReliabilityNotes,
				Confidence:       p.KnownEntityConfidence,
			}, true
		}
	}
	return EntityMatch{}, false
}

// IsContradiction reports whether lowercase text contains a contradiction term
func (p *Policy) IsContradiction(text string) bool {
	for _, term := range p.ContradictionTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Upgrade applies the optimistic upgrade rules to an unresolved verdict.
// It returns the possibly-changed status and confidence.
func (p *Policy) Upgrade(claim string, status model.VerificationStatus, confidence float64) (model.VerificationStatus, float64, bool) {
	if status != model.StatusInsufficientInfo || confidence > p.UpgradeMaxConfidence {
		return status, confidence, false
	}
	lower := strings.ToLower(claim)
	for _, up := range p.Upgrades {
		for _, phrase := range up.Phrases {
			if strings.Contains(lower, phrase) {
				s, _ := model.ParseStatus(string(up.Status))
				return s, up.Confidence, true
			}
		}
	}
	return status, confidence, false
}
