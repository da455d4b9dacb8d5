package chef

import (
	"strings"

	"github.com/spigell/career-chef/internal/ai"
)

// Fallback strings for free-text decoders. Absence of elaboration is a valid
// model outcome, so empty free text substitutes a fallback instead of
// failing.
const (
	researchFallback    = "No additional information about this company could be gathered."
	coverLetterFallback = "A cover letter could not be generated this time. Please try again."
	jobExtractFallback  = "No job posting text could be read from the image."
)

// DecodeMatchAnalysis turns raw model output into a MatchAnalysis. The score
// is clamped into [0, 100]; absent list fields become empty lists; an absent
// company name becomes the UnknownCompany sentinel.
func DecodeMatchAnalysis(raw string) (*MatchAnalysis, error) {
	var analysis MatchAnalysis
	if err := ai.DecodeStructured(raw, matchAnalysisSchema(), &analysis, "match analysis"); err != nil {
		return nil, err
	}

	analysis.Score = clampScore(analysis.Score)

	if analysis.MissingRequirements == nil {
		analysis.MissingRequirements = []string{}
	}
	if analysis.ImprovementTips == nil {
		analysis.ImprovementTips = []string{}
	}

	analysis.CompanyName = strings.TrimSpace(analysis.CompanyName)
	if analysis.CompanyName == "" {
		analysis.CompanyName = UnknownCompany
	}

	return &analysis, nil
}

// DecodeRefinement turns raw model output into the list of alternative
// phrasings. The contract asks for exactly three, but a successfully parsed
// list with a different count is passed through as-is; only an empty list is
// a decode failure.
func DecodeRefinement(raw string) ([]string, error) {
	var payload struct {
		Variations []string `mapstructure:"variations"`
	}
	if err := ai.DecodeStructured(raw, refinementSchema(), &payload, "refinement"); err != nil {
		return nil, err
	}

	variations := make([]string, 0, len(payload.Variations))
	for _, v := range payload.Variations {
		if v = strings.TrimSpace(v); v != "" {
			variations = append(variations, v)
		}
	}

	if len(variations) == 0 {
		return nil, ai.NewDecodeError("The refinement response contained no variations. Please try again.", nil)
	}

	return variations, nil
}

// DecodeFreeText applies the soft presence contract of free-text workflows:
// trimmed output, with the fallback substituted when the model returned
// nothing.
func DecodeFreeText(raw, fallback string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return fallback
	}
	return text
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
