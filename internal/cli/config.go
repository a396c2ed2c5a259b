package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Veritas configuration",
	Long: `Manage Veritas configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (VERITAS_*, plus provider keys such as GEMINI_API_KEY)
3. Config file (~/.veritas/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, environment variables and flags. Credentials are never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(yamlData))
		fmt.Fprintln(out, "Credentials:")
		for _, c := range credentialStatus(cfg) {
			fmt.Fprintf(out, "  %-16s %s\n", c.name, c.state)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.veritas/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".veritas")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'veritas config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		content := "# Veritas configuration\n" +
			"#\n" +
			"# Credentials are read from the environment:\n" +
			"#   GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OLLAMA_BASE_URL\n" +
			"#   SERPAPI_KEY, GOOGLE_SEARCH_API_KEY, GOOGLE_CSE_ID, REDIS_URL\n\n" +
			string(yamlData)

		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", configPath)
		return nil
	},
}

type credential struct {
	name  string
	state string
}

// credentialStatus reports which credentials are set without revealing them
func credentialStatus(cfg *model.Config) []credential {
	state := func(v string) string {
		if model.IsKeyConfigured(v) {
			return "configured"
		}
		return "not set"
	}
	provider := cfg.LLM.Provider
	if provider == "" {
		provider = "reasoner"
	}
	return []credential{
		{provider, state(cfg.LLM.APIKey)},
		{"serpapi", state(cfg.Search.SerpAPIKey)},
		{"google search", state(cfg.Search.GoogleAPIKey)},
		{"google cse id", state(cfg.Search.GoogleCSEID)},
		{"redis", state(cfg.Cache.RedisURL)},
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
