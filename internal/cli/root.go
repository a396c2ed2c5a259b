package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logFormat string
)

// envKeys are the config keys that can be overridden with VERITAS_* variables
var envKeys = []string{
	"engine.claim_quota", "engine.pacing", "engine.concurrency", "engine.min_text_length",
	"engine.real_time", "engine.ai_analysis", "engine.find_sources",
	"search.serpapi_key", "search.google_api_key", "search.google_cse_id",
	"search.max_results", "search.timeout", "search.entity_enrichment",
	"llm.provider", "llm.model", "llm.api_key", "llm.base_url", "llm.timeout",
	"classifier.url", "classifier.timeout",
	"cache.backend", "cache.redis_url", "cache.key_prefix",
	"quality.readability",
	"http.timeout", "http.user_agent", "http.respect_robots",
	"http.http_proxy", "http.https_proxy", "http.no_proxy",
	"server.addr", "server.request_timeout",
	"logging.level", "logging.format",
	"policy.path",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - credibility assessment for news text",
	Long: `Veritas estimates the credibility of a news article or short statement.

It extracts checkable claims, verifies them against live search results with
an AI reasoner (or a transparent heuristic when none is configured), and fuses
a text classifier, content-quality features, an AI narrative reading and the
real-time verdicts into one explainable score.

Every score comes with the signals and formulas that produced it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Veritas.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "veritas %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veritas/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".veritas"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// VERITAS_LLM_PROVIDER overrides llm.provider, and so on
	viper.SetEnvPrefix("VERITAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
