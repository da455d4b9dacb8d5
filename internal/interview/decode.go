package interview

import (
	"strings"

	"github.com/spigell/career-chef/internal/ai"
)

// DecodeQuestion applies the soft presence contract: an empty question is a
// disappointing but valid model outcome and yields the fallback opener.
func DecodeQuestion(raw string) string {
	question := strings.TrimSpace(raw)
	if question == "" {
		return questionFallback
	}
	return question
}

// DecodeEvaluation turns raw model output into an Evaluation. The score is
// clamped into [1, 10]. For the audio variant the schema additionally
// requires a transcription.
func DecodeEvaluation(raw string, withTranscription bool) (*Evaluation, error) {
	var eval Evaluation
	if err := ai.DecodeStructured(raw, evaluationSchema(withTranscription), &eval, "answer evaluation"); err != nil {
		return nil, err
	}

	if eval.Score < 1 {
		eval.Score = 1
	}
	if eval.Score > 10 {
		eval.Score = 10
	}

	eval.Feedback = strings.TrimSpace(eval.Feedback)
	eval.Transcription = strings.TrimSpace(eval.Transcription)

	return &eval, nil
}
