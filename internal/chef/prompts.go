package chef

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ingredients"
)

//go:embed prompts/parse_resume.md
var parseResumeTemplate string

//go:embed prompts/extract_job.md
var extractJobTemplate string

//go:embed prompts/match_analysis.md
var matchAnalysisTemplate string

//go:embed prompts/company_research.md
var companyResearchTemplate string

//go:embed prompts/cover_letter.md
var coverLetterTemplate string

//go:embed prompts/refine.md
var refineTemplate string

// BuildResumePrompt builds the resume-ingestion request: the parsing
// instruction plus the opaque document attachment and the ingredient-batch
// schema as a hard output constraint.
func BuildResumePrompt(att *ai.Attachment) ai.Request {
	return ai.Request{
		Instruction: parseResumeTemplate,
		Attachment:  att,
		Schema:      ingredientBatchSchema(),
	}
}

// BuildJobExtractionPrompt builds the job-posting OCR request. Format is
// constrained by the instruction text alone; no schema is declared.
func BuildJobExtractionPrompt(att *ai.Attachment) ai.Request {
	return ai.Request{
		Instruction: extractJobTemplate,
		Attachment:  att,
	}
}

// BuildMatchAnalysisPrompt builds the structured match-analysis request.
func BuildMatchAnalysisPrompt(list []ingredients.Ingredient, jobText string) ai.Request {
	instruction := strings.ReplaceAll(matchAnalysisTemplate, "{{INGREDIENTS}}", FormatIngredients(list))
	instruction = strings.ReplaceAll(instruction, "{{JOB_TEXT}}", strings.TrimSpace(jobText))

	return ai.Request{
		Instruction: instruction,
		Schema:      matchAnalysisSchema(),
	}
}

// BuildCompanyResearchPrompt builds the free-text company-research request.
func BuildCompanyResearchPrompt(company string, list []ingredients.Ingredient) ai.Request {
	instruction := strings.ReplaceAll(companyResearchTemplate, "{{COMPANY}}", strings.TrimSpace(company))
	instruction = strings.ReplaceAll(instruction, "{{INGREDIENTS}}", FormatIngredients(list))

	return ai.Request{Instruction: instruction}
}

// BuildCoverLetterPrompt builds the free-text cover-letter request.
func BuildCoverLetterPrompt(list []ingredients.Ingredient, jobText, company string) ai.Request {
	company = strings.TrimSpace(company)
	if company == "" {
		company = UnknownCompany
	}

	instruction := strings.ReplaceAll(coverLetterTemplate, "{{INGREDIENTS}}", FormatIngredients(list))
	instruction = strings.ReplaceAll(instruction, "{{JOB_TEXT}}", strings.TrimSpace(jobText))
	instruction = strings.ReplaceAll(instruction, "{{COMPANY}}", company)

	return ai.Request{Instruction: instruction}
}

// BuildRefinementPrompt builds the structured text-refinement request.
func BuildRefinementPrompt(text string) ai.Request {
	instruction := strings.ReplaceAll(refineTemplate, "{{TEXT}}", strings.TrimSpace(text))

	return ai.Request{
		Instruction: instruction,
		Schema:      refinementSchema(),
	}
}

// FormatIngredients serializes the ingredient list into a stable,
// human-readable enumeration. Two calls with the same list yield
// byte-identical output.
func FormatIngredients(list []ingredients.Ingredient) string {
	if len(list) == 0 {
		return "(no career facts provided)"
	}

	var builder strings.Builder
	for i, ing := range list {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("- [%s] %s", ing.Category, ing.Name))
		if ing.Details != "" {
			builder.WriteString(": " + ing.Details)
		}
	}

	return builder.String()
}

func ingredientBatchSchema() *ai.Schema {
	return &ai.Schema{
		Type: ai.TypeArray,
		Items: &ai.Schema{
			Type: ai.TypeObject,
			Properties: map[string]*ai.Schema{
				"name":     {Type: ai.TypeString, Description: "short display name for the career fact"},
				"category": {Type: ai.TypeString, Enum: []string{"skill", "experience", "education", "certification", "project"}},
				"details":  {Type: ai.TypeString, Description: "one-sentence elaboration, may be empty"},
			},
			Required: []string{"name", "category"},
		},
	}
}

func matchAnalysisSchema() *ai.Schema {
	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"matchScore":          {Type: ai.TypeNumber, Description: "0-100 match score"},
			"missingRequirements": {Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}},
			"fitSummary":          {Type: ai.TypeString},
			"improvementTips":     {Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}},
			"companyName":         {Type: ai.TypeString, Description: `hiring company name, or "Unknown Company"`},
		},
		Required: []string{"matchScore"},
	}
}

func refinementSchema() *ai.Schema {
	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"variations": {
				Type:        ai.TypeArray,
				Items:       &ai.Schema{Type: ai.TypeString},
				Description: "exactly three alternative phrasings",
			},
		},
		Required: []string{"variations"},
	}
}
