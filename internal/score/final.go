package score

import "github.com/ppiankov/veritas/internal/model"

// FinalAssessment builds the user-facing verdict for a fused score. The
// real-time assessment, when present, adds a warning, note or confirmation.
func FinalAssessment(score float64, rt *model.DocumentAssessment) model.FinalAssessment {
	a := model.FinalAssessment{Score: score}

	switch {
	case score >= 0.8:
		a.Level = "HIGH"
		a.Message = "Content appears highly credible based on verification"
		a.Color = "green"
	case score >= 0.6:
		a.Level = "MODERATE"
		a.Message = "Content has moderate credibility, some verification needed"
		a.Color = "yellow"
	case score >= 0.4:
		a.Level = "LOW"
		a.Message = "Content has low credibility, significant concerns found"
		a.Color = "orange"
	default:
		a.Level = "VERY_LOW"
		a.Message = "Content appears highly questionable or false"
		a.Color = "red"
	}

	if rt == nil || len(rt.Verdicts) == 0 {
		return a
	}

	c := Count(rt.Verdicts)
	switch {
	case c.False > 0:
		a.Warning = "Real-time verification found false information"
	case c.Insufficient > 0:
		a.Note = "Some claims could not be verified due to insufficient information"
	case c.True > 0:
		a.Confirmation = "Key claims verified through real-time fact-checking"
	}
	return a
}
