package chef

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ingredients"
	"github.com/spigell/career-chef/internal/notify"
)

// Session is the single-owner aggregate for one applicant: the ingredient
// list plus the collaborators every workflow needs. All ingredient mutation
// goes through named operations; the internal mutex keeps them serialized
// even if a collaborator misbehaves.
type Session struct {
	mu   sync.Mutex
	list []ingredients.Ingredient

	generator ai.Generator
	notifier  notify.Notifier
	logger    *zap.Logger
}

// NewSession builds a session around the given generator. A nil notifier or
// logger falls back to no-op implementations.
func NewSession(generator ai.Generator, notifier notify.Notifier, logger *zap.Logger) *Session {
	if notifier == nil {
		notifier = notify.NewZapNotifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		generator: generator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Ingredients returns a copy of the current ingredient list.
func (s *Session) Ingredients() []ingredients.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ingredients.Ingredient, len(s.list))
	copy(out, s.list)
	return out
}

// AddIngredient creates an ingredient from manual entry and appends it.
func (s *Session) AddIngredient(name string, category ingredients.Category, details string) ingredients.Ingredient {
	ing := ingredients.New(name, category, details)

	s.mu.Lock()
	s.list = append(s.list, ing)
	s.mu.Unlock()

	return ing
}

// UpdateIngredient mutates an existing ingredient in place.
func (s *Session) UpdateIngredient(id, name string, category ingredients.Category, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			updated := ingredients.New(name, category, details)
			updated.ID = id
			s.list[i] = updated
			return nil
		}
	}

	return fmt.Errorf("ingredient %s not found", id)
}

// RemoveIngredient deletes an ingredient explicitly.
func (s *Session) RemoveIngredient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list {
		if s.list[i].ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("ingredient %s not found", id)
}

// ReplaceIngredients atomically swaps the whole list, e.g. after resume
// ingestion or a restore from storage.
func (s *Session) ReplaceIngredients(list []ingredients.Ingredient) {
	copied := make([]ingredients.Ingredient, len(list))
	copy(copied, list)

	s.mu.Lock()
	s.list = copied
	s.mu.Unlock()
}

// fail emits the single failure notification for a workflow outcome and
// passes the error through.
func (s *Session) fail(err error) error {
	s.notifier.Notify(notify.Error(userMessage(err)))
	return err
}

// userMessage extracts the short human-readable message from a normalized
// error, falling back to the raw error text.
func userMessage(err error) string {
	if aiErr := ai.Normalize(err); aiErr != nil {
		return aiErr.Message
	}
	return err.Error()
}
