package interview

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ingredients"
	"github.com/spigell/career-chef/internal/logger"
	"github.com/spigell/career-chef/internal/notify"
)

// Session owns one practice interview: the append-only history and the
// state machine driving question/answer cycles. History mutations are
// strictly sequential behind one mutex; a turn, once appended, is only ever
// amended in place with evaluation results, never reordered or deleted.
type Session struct {
	mu       sync.Mutex
	state    State
	history  []Turn
	inFlight bool
	// epoch invalidates in-flight results when the session restarts.
	epoch int

	list    []ingredients.Ingredient
	jobText string

	generator ai.Generator
	notifier  notify.Notifier
	logger    *zap.Logger
}

// NewSession builds an idle interview session. A nil notifier or logger
// falls back to no-op implementations.
func NewSession(generator ai.Generator, notifier notify.Notifier, log *zap.Logger) *Session {
	if notifier == nil {
		notifier = notify.NewZapNotifier(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		state:     StateIdle,
		generator: generator,
		notifier:  notifier,
		logger:    logger.WithWorkflow(log, "interview"),
	}
}

// State returns the machine's current position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the interview history in order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Restart atomically replaces the history with an empty one and returns the
// machine to Idle, from any state. Results of calls still in flight are
// discarded.
func (s *Session) Restart() {
	s.mu.Lock()
	s.epoch++
	s.history = nil
	s.state = StateIdle
	s.inFlight = false
	s.mu.Unlock()

	s.notifier.Notify(notify.Info("Interview restarted."))
}

// Start begins a new interview: the history is cleared and the opening
// question is requested with the given ingredient context and job text.
func (s *Session) Start(ctx context.Context, list []ingredients.Ingredient, jobText string) (*Turn, error) {
	if len(list) == 0 {
		return nil, s.fail(ai.NewValidationError("Add at least one career fact before starting an interview."))
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, s.fail(ai.NewValidationError("Another interview call is still in progress."))
	}

	s.history = nil
	s.state = StateAwaitingQuestion
	s.list = make([]ingredients.Ingredient, len(list))
	copy(s.list, list)
	s.jobText = jobText
	s.inFlight = true
	epoch := s.epoch
	s.mu.Unlock()

	s.logger.Info("interview started", zap.Int("ingredients", len(list)))

	question, err := s.fetchQuestion(ctx, epoch)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Success("Interview started. Good luck!"))
	return question, nil
}

// SubmitAnswer evaluates a typed answer to the most recent question, then
// requests the next question from the full updated history.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) (*Evaluation, error) {
	if answer == "" {
		return nil, s.fail(ai.NewValidationError("An answer is required."))
	}
	return s.submit(ctx, answer, nil)
}

// SubmitAudioAnswer evaluates a spoken answer. The transcription backfills
// the candidate turn's placeholder content.
func (s *Session) SubmitAudioAnswer(ctx context.Context, audio *ai.Attachment) (*Evaluation, error) {
	if audio.Empty() {
		return nil, s.fail(ai.NewValidationError("An audio recording is required."))
	}
	return s.submit(ctx, "", audio)
}

// NextQuestion retries the question fetch after a failure that left the
// machine in Evaluating with an already-evaluated answer.
func (s *Session) NextQuestion(ctx context.Context) (*Turn, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, s.fail(ai.NewValidationError("Another interview call is still in progress."))
	}
	if s.state != StateEvaluating {
		s.mu.Unlock()
		return nil, s.fail(ai.NewValidationError("There is no pending question to fetch."))
	}
	s.inFlight = true
	epoch := s.epoch
	s.mu.Unlock()

	return s.fetchQuestion(ctx, epoch)
}

func (s *Session) submit(ctx context.Context, answer string, audio *ai.Attachment) (*Evaluation, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, s.fail(ai.NewValidationError("An evaluation is already in progress."))
	}
	if s.state != StateQuestionPosted && s.state != StateAwaitingAnswer {
		s.mu.Unlock()
		return nil, s.fail(ai.NewValidationError("There is no question to answer right now."))
	}

	question := s.lastQuestionLocked()
	if question == "" {
		s.mu.Unlock()
		return nil, s.fail(ai.NewValidationError("There is no question to answer right now."))
	}

	content := answer
	if audio != nil {
		content = placeholderContent
	}

	// The provisional turn is appended immediately so the history's last
	// entry reflects the submission even before evaluation completes. A
	// retry from AwaitingAnswer amends the provisional turn instead.
	if s.state == StateQuestionPosted {
		s.history = append(s.history, newTurn(RoleCandidate, content))
	} else {
		s.history[len(s.history)-1].Content = content
	}
	turnIndex := len(s.history) - 1

	s.state = StateAwaitingAnswer
	s.inFlight = true
	epoch := s.epoch
	s.mu.Unlock()

	var req ai.Request
	if audio != nil {
		req = BuildAudioEvaluationPrompt(question, audio)
	} else {
		req = BuildTextEvaluationPrompt(question, answer)
	}

	resp, err := s.generator.Generate(ctx, req)
	if err == nil {
		var eval *Evaluation
		eval, err = DecodeEvaluation(resp.Text, audio != nil)
		if err == nil {
			return s.finishEvaluation(ctx, epoch, turnIndex, eval, audio != nil)
		}
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return nil, errRestarted()
	}
	s.inFlight = false
	s.state = StateAwaitingAnswer
	s.mu.Unlock()

	return nil, s.fail(err)
}

// finishEvaluation amends the provisional candidate turn in place and chains
// the next question fetch strictly after it.
func (s *Session) finishEvaluation(ctx context.Context, epoch, turnIndex int, eval *Evaluation, audio bool) (*Evaluation, error) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return nil, errRestarted()
	}

	turn := &s.history[turnIndex]
	if audio && eval.Transcription != "" {
		turn.Content = eval.Transcription
	}
	score := eval.Score
	turn.Feedback = eval.Feedback
	turn.Score = &score

	s.state = StateEvaluating
	s.mu.Unlock()

	s.notifier.Notify(notify.Success(fmt.Sprintf("Answer scored %d/10.", eval.Score)))

	if _, err := s.fetchQuestion(ctx, epoch); err != nil {
		return nil, err
	}

	return eval, nil
}

// fetchQuestion requests the next interviewer question from the full
// current history and appends it. On failure the machine stays in its
// pre-failure state with inFlight cleared, permitting a manual retry.
func (s *Session) fetchQuestion(ctx context.Context, epoch int) (*Turn, error) {
	s.mu.Lock()
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	list := s.list
	jobText := s.jobText
	s.mu.Unlock()

	resp, err := s.generator.Generate(ctx, BuildQuestionPrompt(list, jobText, history))

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return nil, errRestarted()
	}

	if err != nil {
		s.inFlight = false
		s.mu.Unlock()
		return nil, s.fail(err)
	}

	question := newTurn(RoleInterviewer, DecodeQuestion(resp.Text))
	s.history = append(s.history, question)
	s.state = StateQuestionPosted
	s.inFlight = false
	s.mu.Unlock()

	s.logger.Debug("question posted", zap.Int("history_length", len(history)+1))
	return &question, nil
}

// lastQuestionLocked returns the content of the most recent interviewer
// turn. Callers must hold s.mu.
func (s *Session) lastQuestionLocked() string {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role == RoleInterviewer {
			return s.history[i].Content
		}
	}
	return ""
}

func (s *Session) fail(err error) error {
	s.notifier.Notify(notify.Error(ai.Normalize(err).Message))
	return err
}

// errRestarted marks a result discarded because the session was restarted
// while the call was in flight. It is not notified: the caller explicitly
// abandoned interest.
func errRestarted() error {
	return ai.NewValidationError("The interview was restarted.")
}
