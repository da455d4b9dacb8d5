package chef

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ingredients"
	"github.com/spigell/career-chef/internal/notify"
)

type scripted struct {
	text string
	err  error
}

type scriptedGenerator struct {
	mu       sync.Mutex
	requests []ai.Request
	queue    []scripted
}

func (g *scriptedGenerator) Generate(_ context.Context, req ai.Request) (*ai.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, req)
	if len(g.queue) == 0 {
		return nil, errors.New("unexpected generate call")
	}

	next := g.queue[0]
	g.queue = g.queue[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &ai.Response{Text: next.text}, nil
}

func (g *scriptedGenerator) Model() string { return "stub-model" }

func (g *scriptedGenerator) enqueue(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, scripted{text: text})
}

func (g *scriptedGenerator) enqueueErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, scripted{err: err})
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func newTestSession(gen *scriptedGenerator, rec *notify.Recorder) *Session {
	s := NewSession(gen, rec, zap.NewNop())
	s.ReplaceIngredients(sampleIngredients())
	return s
}

func eventsOfKind(events []notify.Event, kind notify.Kind) []notify.Event {
	var out []notify.Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestAnalyzeMatchChainsCompanyResearch(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue(`{"matchScore": 80, "companyName": "Acme Corp"}`)
	gen.enqueue("Acme Corp builds rockets.")

	rec := &notify.Recorder{}
	report, err := newTestSession(gen, rec).AnalyzeMatch(context.Background(), "job text")
	require.NoError(t, err)

	require.Equal(t, 2, gen.callCount())
	assert.Contains(t, gen.requests[1].Instruction, "Acme Corp")
	assert.Nil(t, gen.requests[1].Schema)

	require.NotNil(t, report.Research)
	assert.Equal(t, "Acme Corp builds rockets.", report.Research.Summary)
	assert.Equal(t, "Acme Corp", report.Research.CompanyName)
	assert.Empty(t, report.Research.Sources)
	assert.NoError(t, report.ResearchErr)

	events := rec.Events()
	require.Len(t, eventsOfKind(events, notify.KindSuccess), 1)
	require.Len(t, eventsOfKind(events, notify.KindInfo), 1)
}

func TestAnalyzeMatchSkipsResearchForUnknownCompany(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue(`{"matchScore": 55, "companyName": "Unknown Company"}`)

	report, err := newTestSession(gen, &notify.Recorder{}).AnalyzeMatch(context.Background(), "job text")
	require.NoError(t, err)

	assert.Equal(t, 1, gen.callCount())
	assert.Nil(t, report.Research)
	assert.NoError(t, report.ResearchErr)
}

func TestAnalyzeMatchResearchFailureIsBestEffort(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue(`{"matchScore": 92, "companyName": "Acme Corp"}`)
	gen.enqueueErr(errors.New("research backend down"))

	rec := &notify.Recorder{}
	report, err := newTestSession(gen, rec).AnalyzeMatch(context.Background(), "job text")
	require.NoError(t, err)

	require.NotNil(t, report.Analysis)
	assert.Equal(t, 92.0, report.Analysis.Score)
	assert.Nil(t, report.Research)
	assert.Error(t, report.ResearchErr)

	events := rec.Events()
	require.Len(t, eventsOfKind(events, notify.KindSuccess), 1)
	require.Len(t, eventsOfKind(events, notify.KindInfo), 1)
	assert.Empty(t, eventsOfKind(events, notify.KindError))
}

func TestAnalyzeMatchRequiresJobText(t *testing.T) {
	gen := &scriptedGenerator{}
	rec := &notify.Recorder{}

	_, err := newTestSession(gen, rec).AnalyzeMatch(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, ai.IsKind(err, ai.KindValidation))
	assert.Equal(t, 0, gen.callCount())
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, notify.KindError, rec.Events()[0].Kind)
}

func TestAnalyzeMatchRequiresIngredients(t *testing.T) {
	gen := &scriptedGenerator{}
	s := NewSession(gen, &notify.Recorder{}, zap.NewNop())

	_, err := s.AnalyzeMatch(context.Background(), "job text")
	require.Error(t, err)
	assert.True(t, ai.IsKind(err, ai.KindValidation))
	assert.Equal(t, 0, gen.callCount())
}

func TestParseResumeReplacesIngredients(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue(`[{"name": "Go", "category": "skill"}, {"name": "Acme", "category": "work"}]`)

	rec := &notify.Recorder{}
	s := newTestSession(gen, rec)

	att := &ai.Attachment{Data: []byte("%PDF"), MIMEType: "application/pdf"}
	list, err := s.ParseResume(context.Background(), att)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, list, s.Ingredients())
	assert.Equal(t, ingredients.CategoryExperience, list[1].Category)

	req := gen.requests[0]
	assert.Same(t, att, req.Attachment)
	require.NotNil(t, req.Schema)
}

func TestParseResumeRequiresAttachment(t *testing.T) {
	gen := &scriptedGenerator{}
	s := newTestSession(gen, &notify.Recorder{})

	_, err := s.ParseResume(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, ai.IsKind(err, ai.KindValidation))
	assert.Equal(t, 0, gen.callCount())

	// The previous list stays untouched on failure.
	assert.Len(t, s.Ingredients(), 2)
}

func TestParseResumeEmptyResultClearsList(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue("[]")

	s := newTestSession(gen, &notify.Recorder{})
	list, err := s.ParseResume(context.Background(), &ai.Attachment{Data: []byte("x"), MIMEType: "application/pdf"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, s.Ingredients())
}

func TestGenerateCoverLetterUsesFallbackOnEmptyOutput(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue("")

	letter, err := newTestSession(gen, &notify.Recorder{}).GenerateCoverLetter(context.Background(), "job text", "Acme")
	require.NoError(t, err)
	assert.Equal(t, coverLetterFallback, letter)
}

func TestRefineTextPassesThroughVariations(t *testing.T) {
	gen := &scriptedGenerator{}
	gen.enqueue(`{"variations": ["one", "two", "three"]}`)

	variations, err := newTestSession(gen, &notify.Recorder{}).RefineText(context.Background(), "draft")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, variations)
}

func TestRefineTextsReportsPartialFailures(t *testing.T) {
	gen := &scriptedGenerator{}
	// Concurrent workers may interleave, so both queued results must be
	// identical to keep the assertion order-independent.
	gen.enqueue(`{"variations": ["a", "b", "c"]}`)
	gen.enqueue(`{"variations": ["a", "b", "c"]}`)

	rec := &notify.Recorder{}
	results, err := newTestSession(gen, rec).RefineTexts(context.Background(), []string{"one", "", "two"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"a", "b", "c"}, results[0])
	assert.Nil(t, results[1])
	assert.Equal(t, []string{"a", "b", "c"}, results[2])

	events := rec.Events()
	require.Len(t, eventsOfKind(events, notify.KindInfo), 1)
	require.Len(t, eventsOfKind(events, notify.KindSuccess), 1)
	assert.Contains(t, eventsOfKind(events, notify.KindSuccess)[0].Message, "2 of 3")
}

func TestIngredientMutationOperations(t *testing.T) {
	s := NewSession(&scriptedGenerator{}, &notify.Recorder{}, zap.NewNop())

	added := s.AddIngredient("Go", ingredients.CategorySkill, "")
	require.Len(t, s.Ingredients(), 1)

	require.NoError(t, s.UpdateIngredient(added.ID, "Golang", ingredients.CategorySkill, "10 years"))
	updated := s.Ingredients()[0]
	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, "Golang", updated.Name)
	assert.Equal(t, "10 years", updated.Details)

	require.NoError(t, s.RemoveIngredient(added.ID))
	assert.Empty(t, s.Ingredients())

	assert.Error(t, s.RemoveIngredient("missing"))
	assert.Error(t, s.UpdateIngredient("missing", "x", ingredients.CategorySkill, ""))
}
