// Package interview implements the practice-interview state machine: an
// append-only interviewer/candidate history, question fetching, and answer
// evaluation for text and audio responses.
package interview

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies who a turn belongs to.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// State is the session's position in the interview cycle.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingQuestion State = "awaiting-question"
	StateQuestionPosted   State = "question-posted"
	StateAwaitingAnswer   State = "awaiting-answer"
	StateEvaluating       State = "evaluating"
)

// placeholderContent fills a candidate turn between submission and
// evaluation, so the history's last turn always reflects the latest user
// action.
const placeholderContent = "(answer submitted, awaiting evaluation)"

// Turn is one entry in the interview history. Only candidate turns ever
// carry feedback and a score, and only after evaluation completes.
type Turn struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	Feedback string `json:"feedback,omitempty"`
	Score    *int   `json:"score,omitempty"`
}

func newTurn(role Role, content string) Turn {
	return Turn{
		ID:      uuid.NewString(),
		Role:    role,
		Content: strings.TrimSpace(content),
	}
}

// Evaluation is the outcome of scoring one candidate answer.
type Evaluation struct {
	Score         int    `json:"score" mapstructure:"score"`
	Feedback      string `json:"feedback" mapstructure:"feedback"`
	Transcription string `json:"transcription,omitempty" mapstructure:"transcription"`
}
