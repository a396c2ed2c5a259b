package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var verifyTimeout time.Duration

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <text>",
	Short: "Verify the individual claims in a text",
	Long: `Verify extracts the checkable claims from a text and prints the verdict
for each one, without the document-level scoring.

Example:
  veritas verify "Narendra Modi is alive. Officials announced new rules."`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&jsonOut, "json", "", "write the verdicts as JSON to a file (- for stdout)")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "timeout for all verifications")
}

func runVerify(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	verdicts, err := env.built.Engine.VerifyClaims(ctx, text)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if jsonOut != "" {
		return writeJSON(cmd.OutOrStdout(), jsonOut, verdicts)
	}
	if len(verdicts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No verifiable claims found.")
		return nil
	}
	printVerdicts(cmd.OutOrStdout(), verdicts)
	return nil
}
