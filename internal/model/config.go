package model

import (
	"strings"
	"time"
)

// Config holds the complete runtime configuration
type Config struct {
	Engine     EngineConfig     `yaml:"engine" mapstructure:"engine"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Quality    QualityConfig    `yaml:"quality" mapstructure:"quality"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Authority  AuthorityConfig  `yaml:"authority" mapstructure:"authority"`
	Policy     PolicyConfig     `yaml:"policy" mapstructure:"policy"`
}

// EngineConfig controls the verification pipeline
type EngineConfig struct {
	ClaimQuota    int           `yaml:"claim_quota" mapstructure:"claim_quota"`         // Max claims verified per document
	Pacing        time.Duration `yaml:"pacing" mapstructure:"pacing"`                   // Min interval between calls to one provider
	Concurrency   int           `yaml:"concurrency" mapstructure:"concurrency"`         // Claims verified in parallel (1 = sequential)
	MinTextLength int           `yaml:"min_text_length" mapstructure:"min_text_length"` // Shorter input is rejected
	RealTime      bool          `yaml:"real_time" mapstructure:"real_time"`             // Default for real-time verification
	AIAnalysis    bool          `yaml:"ai_analysis" mapstructure:"ai_analysis"`         // Default for narrative analysis
	FindSources   bool          `yaml:"find_sources" mapstructure:"find_sources"`       // Default for related source search
}

// SearchConfig configures the evidence providers
type SearchConfig struct {
	SerpAPIKey       string        `yaml:"-" mapstructure:"serpapi_key"`
	SerpAPIBaseURL   string        `yaml:"serpapi_base_url,omitempty" mapstructure:"serpapi_base_url"`
	GoogleAPIKey     string        `yaml:"-" mapstructure:"google_api_key"`
	GoogleCSEID      string        `yaml:"-" mapstructure:"google_cse_id"`
	GoogleEndpoint   string        `yaml:"google_endpoint,omitempty" mapstructure:"google_endpoint"`
	MaxResults       int           `yaml:"max_results" mapstructure:"max_results"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
	EntityEnrichment bool          `yaml:"entity_enrichment" mapstructure:"entity_enrichment"`
}

// LLMConfig configures the reasoning capability
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama, ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ClassifierConfig points at an external classifier model server
type ClassifierConfig struct {
	URL     string        `yaml:"url,omitempty" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig selects the verdict store
type CacheConfig struct {
	Backend   string `yaml:"backend" mapstructure:"backend"` // memory or redis
	RedisURL  string `yaml:"-" mapstructure:"redis_url"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// QualityConfig configures the content quality analyzer
type QualityConfig struct {
	Readability string `yaml:"readability" mapstructure:"readability"` // neutral or flesch
}

// HTTPConfig configures URL fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowOrigins   []string      `yaml:"allow_origins" mapstructure:"allow_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// AuthorityConfig configures source authority classification
type AuthorityConfig struct {
	PrimaryDomains   []string                 `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string                 `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	TrustedSources   map[string]TrustedSource `yaml:"trusted_sources" mapstructure:"trusted_sources"`
}

// TrustedSource is a known outlet with a fixed credibility
type TrustedSource struct {
	Name        string  `yaml:"name" mapstructure:"name"`
	Credibility float64 `yaml:"credibility" mapstructure:"credibility"`
}

// PolicyConfig points at an optional policy table overriding the built-in one
type PolicyConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			ClaimQuota:    5,
			Pacing:        500 * time.Millisecond,
			Concurrency:   1,
			MinTextLength: 10,
			RealTime:      true,
			AIAnalysis:    true,
			FindSources:   true,
		},
		Search: SearchConfig{
			MaxResults: MaxEvidenceItems,
			Timeout:    10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Classifier: ClassifierConfig{
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			KeyPrefix: "veritas:v1:",
		},
		Quality: QualityConfig{
			Readability: "neutral",
		},
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "Veritas/0.1 (+https://github.com/ppiankov/veritas)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Server: ServerConfig{
			Addr:           ":5000",
			AllowOrigins:   []string{"http://localhost:3000", "http://localhost:5000"},
			RequestTimeout: 2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"gov", "gov.uk", "gov.in", "europa.eu", "who.int", "un.org",
				"reuters.com", "apnews.com", "factcheck.org", "snopes.com",
			},
			SecondaryDomains: []string{
				"bbc.com", "bbc.co.uk", "npr.org", "nytimes.com", "wsj.com",
				"theguardian.com", "bloomberg.com", "washingtonpost.com", "cnn.com",
				"wikipedia.org", "britannica.com",
			},
			TrustedSources: map[string]TrustedSource{
				"reuters.com":        {Name: "Reuters", Credibility: 0.95},
				"bbc.com":            {Name: "BBC News", Credibility: 0.93},
				"cnn.com":            {Name: "CNN", Credibility: 0.85},
				"npr.org":            {Name: "NPR", Credibility: 0.90},
				"apnews.com":         {Name: "Associated Press", Credibility: 0.95},
				"wsj.com":            {Name: "Wall Street Journal", Credibility: 0.88},
				"nytimes.com":        {Name: "New York Times", Credibility: 0.87},
				"theguardian.com":    {Name: "The Guardian", Credibility: 0.85},
				"bloomberg.com":      {Name: "Bloomberg", Credibility: 0.86},
				"washingtonpost.com": {Name: "Washington Post", Credibility: 0.84},
				"abcnews.go.com":     {Name: "ABC News", Credibility: 0.82},
				"cbsnews.com":        {Name: "CBS News", Credibility: 0.82},
				"nbcnews.com":        {Name: "NBC News", Credibility: 0.82},
				"politico.com":       {Name: "Politico", Credibility: 0.80},
				"factcheck.org":      {Name: "FactCheck.org", Credibility: 0.92},
				"snopes.com":         {Name: "Snopes", Credibility: 0.90},
			},
		},
	}
}

// IsKeyConfigured reports whether a credential is real rather than an
// empty value, a "YOUR_..." placeholder or a demo key
func IsKeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "YOUR_") {
		return false
	}
	if strings.HasPrefix(strings.ToLower(key), "demo") || strings.Contains(strings.ToLower(key), "demo_") {
		return false
	}
	return true
}
