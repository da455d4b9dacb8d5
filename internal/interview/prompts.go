package interview

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/chef"
	"github.com/spigell/career-chef/internal/ingredients"
)

//go:embed prompts/question.md
var questionTemplate string

//go:embed prompts/evaluate_text.md
var evaluateTextTemplate string

//go:embed prompts/evaluate_audio.md
var evaluateAudioTemplate string

const questionFallback = "Tell me about yourself and why you are interested in this role."

// BuildQuestionPrompt builds the free-text request for the next interviewer
// question from the full prior history.
func BuildQuestionPrompt(list []ingredients.Ingredient, jobText string, history []Turn) ai.Request {
	instruction := strings.ReplaceAll(questionTemplate, "{{INGREDIENTS}}", chef.FormatIngredients(list))
	instruction = strings.ReplaceAll(instruction, "{{JOB_TEXT}}", strings.TrimSpace(jobText))
	instruction = strings.ReplaceAll(instruction, "{{HISTORY}}", FormatHistory(history))

	return ai.Request{Instruction: instruction}
}

// BuildTextEvaluationPrompt builds the structured request scoring a typed
// answer to the given question.
func BuildTextEvaluationPrompt(question, answer string) ai.Request {
	instruction := strings.ReplaceAll(evaluateTextTemplate, "{{QUESTION}}", strings.TrimSpace(question))
	instruction = strings.ReplaceAll(instruction, "{{ANSWER}}", strings.TrimSpace(answer))

	return ai.Request{
		Instruction: instruction,
		Schema:      evaluationSchema(false),
	}
}

// BuildAudioEvaluationPrompt builds the structured request transcribing and
// scoring a spoken answer. The audio payload is passed through opaque.
func BuildAudioEvaluationPrompt(question string, audio *ai.Attachment) ai.Request {
	instruction := strings.ReplaceAll(evaluateAudioTemplate, "{{QUESTION}}", strings.TrimSpace(question))

	return ai.Request{
		Instruction: instruction,
		Attachment:  audio,
		Schema:      evaluationSchema(true),
	}
}

// FormatHistory serializes the interview history into a stable enumeration.
// Two calls with the same history yield byte-identical output.
func FormatHistory(history []Turn) string {
	if len(history) == 0 {
		return "(no questions asked yet)"
	}

	var builder strings.Builder
	for i, turn := range history {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}

	return builder.String()
}

func evaluationSchema(withTranscription bool) *ai.Schema {
	schema := &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"score":    {Type: ai.TypeInteger, Description: "1-10 answer score"},
			"feedback": {Type: ai.TypeString, Description: "constructive feedback on the answer"},
		},
		Required: []string{"score", "feedback"},
	}

	if withTranscription {
		schema.Properties["transcription"] = &ai.Schema{
			Type:        ai.TypeString,
			Description: "word-for-word transcription of the recorded answer",
		}
		schema.Required = append(schema.Required, "transcription")
	}

	return schema
}
