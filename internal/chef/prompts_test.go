package chef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ingredients"
)

func sampleIngredients() []ingredients.Ingredient {
	return []ingredients.Ingredient{
		{ID: "a", Name: "Go", Category: ingredients.CategorySkill, Details: "5 years"},
		{ID: "b", Name: "Acme Corp", Category: ingredients.CategoryExperience},
	}
}

func TestFormatIngredientsIsDeterministic(t *testing.T) {
	list := sampleIngredients()

	first := FormatIngredients(list)
	second := FormatIngredients(list)

	assert.Equal(t, first, second)
	assert.Equal(t, "- [skill] Go: 5 years\n- [experience] Acme Corp", first)
}

func TestFormatIngredientsEmptyList(t *testing.T) {
	assert.Equal(t, "(no career facts provided)", FormatIngredients(nil))
}

func TestBuildMatchAnalysisPromptIsDeterministic(t *testing.T) {
	list := sampleIngredients()

	first := BuildMatchAnalysisPrompt(list, "Backend engineer at Acme")
	second := BuildMatchAnalysisPrompt(list, "Backend engineer at Acme")

	assert.Equal(t, first.Instruction, second.Instruction)
	assert.Contains(t, first.Instruction, "- [skill] Go: 5 years")
	assert.Contains(t, first.Instruction, "Backend engineer at Acme")
	require.NotNil(t, first.Schema)
	assert.Contains(t, first.Schema.Required, "matchScore")
	assert.Nil(t, first.Attachment)
}

func TestBuildResumePromptCarriesAttachmentAndSchema(t *testing.T) {
	att := &ai.Attachment{Data: []byte("pdf"), MIMEType: "application/pdf"}

	req := BuildResumePrompt(att)

	assert.Same(t, att, req.Attachment)
	require.NotNil(t, req.Schema)
	assert.Equal(t, ai.TypeArray, req.Schema.Type)
	assert.Contains(t, req.Schema.Items.Properties["category"].Enum, "certification")
}

func TestBuildJobExtractionPromptOmitsSchema(t *testing.T) {
	req := BuildJobExtractionPrompt(&ai.Attachment{Data: []byte("png"), MIMEType: "image/png"})

	assert.Nil(t, req.Schema)
	assert.NotNil(t, req.Attachment)
	assert.Contains(t, req.Instruction, "plain text")
}

func TestBuildCompanyResearchPromptSubstitutesCompany(t *testing.T) {
	req := BuildCompanyResearchPrompt("  Acme Corp ", sampleIngredients())

	assert.Nil(t, req.Schema)
	assert.Contains(t, req.Instruction, "Acme Corp")
	assert.False(t, strings.Contains(req.Instruction, "{{COMPANY}}"))
	assert.False(t, strings.Contains(req.Instruction, "{{INGREDIENTS}}"))
}

func TestBuildCoverLetterPromptDefaultsCompany(t *testing.T) {
	req := BuildCoverLetterPrompt(sampleIngredients(), "job text", "")

	assert.Contains(t, req.Instruction, UnknownCompany)
	assert.Contains(t, req.Instruction, "Do not use cooking or food metaphors")
	assert.Nil(t, req.Schema)
}

func TestBuildRefinementPromptDeclaresSchema(t *testing.T) {
	req := BuildRefinementPrompt("my bullet point")

	require.NotNil(t, req.Schema)
	assert.Contains(t, req.Schema.Required, "variations")
	assert.Contains(t, req.Instruction, "my bullet point")
	assert.Contains(t, req.Instruction, "exactly three")
}
