package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/pipeline"
)

var (
	assessURL     string
	jsonOut       string
	noAI          bool
	noSources     bool
	noRealTime    bool
	assessTimeout time.Duration
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess [text]",
	Short: "Assess the credibility of a text or article",
	Long: `Assess runs the full credibility analysis on one document:
- Fetch and extract the article when --url is given
- Classify the text and measure content quality
- Verify up to five claims against live search results
- Fuse everything into one explainable score

Text is read from the argument, or from stdin when the argument is "-".

Example:
  veritas assess "The president visited Ohio on Monday."
  veritas assess --url https://example.com/story
  cat article.txt | veritas assess - --json report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVar(&assessURL, "url", "", "fetch and assess an article URL")
	assessCmd.Flags().StringVar(&jsonOut, "json", "", "write the JSON report to a file (- for stdout)")
	assessCmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the AI narrative analysis")
	assessCmd.Flags().BoolVar(&noSources, "no-sources", false, "skip the related source search")
	assessCmd.Flags().BoolVar(&noRealTime, "no-realtime", false, "skip real-time claim verification")
	assessCmd.Flags().DurationVar(&assessTimeout, "timeout", 2*time.Minute, "timeout for the whole assessment")
}

func runAssess(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if text == "" && assessURL == "" {
		return fmt.Errorf("either text or --url must be provided")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), assessTimeout)
	defer cancel()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	engineCfg := env.config.Engine
	report, err := env.built.Engine.Assess(ctx, pipeline.Request{
		Text:        text,
		URL:         assessURL,
		AIAnalysis:  engineCfg.AIAnalysis && !noAI,
		FindSources: engineCfg.FindSources && !noSources,
		RealTime:    engineCfg.RealTime && !noRealTime,
	})
	if err != nil {
		return fmt.Errorf("assess: %w", err)
	}

	if jsonOut != "" {
		if err := writeJSON(cmd.OutOrStdout(), jsonOut, report); err != nil {
			return err
		}
		if jsonOut == "-" {
			return nil
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", jsonOut)
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

// readText returns the argument text, reading stdin for "-"
func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	if args[0] != "-" {
		return strings.TrimSpace(args[0]), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
