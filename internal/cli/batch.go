package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Assess many documents from a file in parallel",
	Long: `Batch assesses many documents concurrently:
- Read inputs from a file, one per line (# starts a comment)
- Lines starting with http:// or https:// are fetched, others are text
- Assess inputs in parallel with a configurable worker count
- Write one JSON report per input

Example:
  veritas batch inputs.txt
  veritas batch inputs.txt --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veritas-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the AI narrative analysis")
	batchCmd.Flags().BoolVar(&noSources, "no-sources", false, "skip the related source search")
	batchCmd.Flags().BoolVar(&noRealTime, "no-realtime", false, "skip real-time claim verification")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	engine := env.built.Engine
	engineCfg := env.config.Engine
	assess := func(ctx context.Context, in worker.Input) (*model.Report, error) {
		return engine.Assess(ctx, pipeline.Request{
			Text:        in.Text,
			URL:         in.URL,
			AIAnalysis:  engineCfg.AIAnalysis && !noAI,
			FindSources: engineCfg.FindSources && !noSources,
			RealTime:    engineCfg.RealTime && !noRealTime,
		})
	}

	processor := worker.NewBatchProcessor(assess, concurrency, env.logger.Named("batch"))
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	out := cmd.OutOrStdout()
	failures := 0
	for _, result := range results {
		name := fmt.Sprintf("line-%04d", result.Input.Line)
		if result.Error != nil {
			failures++
			fmt.Fprintf(out, "✗ %s: %v\n", name, result.Error)
			continue
		}

		path := filepath.Join(outputDir, name+".json")
		if err := writeJSON(out, path, result.Report); err != nil {
			failures++
			fmt.Fprintf(out, "✗ %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s  %.2f %s\n", name, result.Report.Fused.Score, result.Report.Final.Level)
	}

	fmt.Fprintf(out, "\nTotal: %d  Success: %d  Failures: %d  Output: %s\n",
		len(results), len(results)-failures, failures, outputDir)
	return nil
}
