package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ppiankov/veritas/internal/model"
)

// loadConfig merges defaults, the config file, VERITAS_* variables and the
// provider credential variables
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyCredentials(cfg, os.Getenv)
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// applyCredentials fills provider credentials from their conventional
// environment variables. Values already present in the config win. Without
// an explicit reasoner the first provider with a usable key is selected,
// Gemini first.
func applyCredentials(cfg *model.Config, getenv func(string) string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(getenv(key))
		}
	}

	fill(&cfg.Search.SerpAPIKey, "SERPAPI_KEY")
	fill(&cfg.Search.GoogleAPIKey, "GOOGLE_SEARCH_API_KEY")
	fill(&cfg.Search.GoogleCSEID, "GOOGLE_CSE_ID")
	fill(&cfg.Cache.RedisURL, "REDIS_URL")

	keyVars := map[string]string{
		"gemini":    "GEMINI_API_KEY",
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
	}

	provider := strings.ToLower(cfg.LLM.Provider)
	if provider == "" {
		for _, name := range []string{"gemini", "openai", "anthropic"} {
			if model.IsKeyConfigured(getenv(keyVars[name])) {
				provider = name
				break
			}
		}
		cfg.LLM.Provider = provider
	}

	switch provider {
	case "gemini", "google":
		fill(&cfg.LLM.APIKey, keyVars["gemini"])
	case "openai":
		fill(&cfg.LLM.APIKey, keyVars["openai"])
	case "anthropic", "claude":
		fill(&cfg.LLM.APIKey, keyVars["anthropic"])
	case "ollama":
		fill(&cfg.LLM.BaseURL, "OLLAMA_BASE_URL")
	}
}
