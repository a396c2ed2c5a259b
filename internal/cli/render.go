package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// writeJSON writes v as indented JSON to path, or to w when path is "-"
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printReport writes a human-readable summary of a report
func printReport(w io.Writer, r *model.Report) {
	rule := strings.Repeat("═", 59)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Credibility: %.2f  %s\n", r.Fused.Score, r.Fused.Label)
	fmt.Fprintf(w, "  Level:       %s (%s)\n", r.Final.Level, r.Final.Message)
	fmt.Fprintln(w, rule)

	if r.Title != "" {
		fmt.Fprintf(w, "\nTitle:  %s\nSource: %s\n", r.Title, r.SourceURL)
	}

	fmt.Fprintf(w, "\nSignals:\n")
	for _, s := range r.Fused.Signals {
		fmt.Fprintf(w, "  [%s] %s\n", s.Severity, s.Description)
	}

	if rt := r.RealTime; rt != nil {
		fmt.Fprintf(w, "\nReal-time verification: %.2f %s\n", rt.OverallScore, rt.Level)
		fmt.Fprintf(w, "  %s\n", rt.Summary)
		printVerdicts(w, rt.Verdicts)
	}
	if r.Fallback != nil {
		fmt.Fprintf(w, "\n%s (%d words, %d potential claims)\n",
			r.Fallback.Message, r.Fallback.WordCount, r.Fallback.PotentialClaims)
	}

	for _, note := range []string{r.Final.Warning, r.Final.Note, r.Final.Confirmation} {
		if note != "" {
			fmt.Fprintf(w, "\n%s\n", note)
		}
	}

	if n := r.Narrative; n != nil {
		fmt.Fprintf(w, "\nAI reading: %s\n  %s\n", n.CredibilityAssessment, n.Summary)
	}

	if len(r.Sources) > 0 {
		fmt.Fprintf(w, "\nCheck with:\n")
		for _, s := range r.Sources {
			fmt.Fprintf(w, "  %s  %s\n", s.Source, s.URL)
		}
	}
}

func printVerdicts(w io.Writer, verdicts []*model.Verdict) {
	for i, v := range verdicts {
		fmt.Fprintf(w, "  %d. %-17s %.2f  %s\n", i+1, v.Status, v.Confidence, v.Claim)
		if v.Explanation != "" {
			fmt.Fprintf(w, "     %s\n", v.Explanation)
		}
	}
}
