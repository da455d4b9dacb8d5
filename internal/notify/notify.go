// Package notify carries workflow outcomes to whatever surface the
// collaborator renders them on. Delivery, timing and dismissal are the
// collaborator's concern; the core only emits discrete typed events.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Kind is the event category.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Event is one user-visible outcome. Every workflow emits exactly one event
// per outcome.
type Event struct {
	Kind    Kind
	Message string
}

// Notifier delivers events to the collaborator.
type Notifier interface {
	Notify(event Event)
}

// Success builds a success event.
func Success(message string) Event {
	return Event{Kind: KindSuccess, Message: message}
}

// Error builds an error event.
func Error(message string) Event {
	return Event{Kind: KindError, Message: message}
}

// Info builds an info event.
func Info(message string) Event {
	return Event{Kind: KindInfo, Message: message}
}

// ZapNotifier renders events through a zap logger. It is the delivery
// mechanism for the CLI collaborator.
type ZapNotifier struct {
	logger *zap.Logger
}

// NewZapNotifier wraps the given logger. A nil logger falls back to no-op.
func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapNotifier{logger: logger}
}

func (n *ZapNotifier) Notify(event Event) {
	field := zap.String("kind", string(event.Kind))
	switch event.Kind {
	case KindError:
		n.logger.Error(event.Message, field)
	case KindInfo:
		n.logger.Info(event.Message, field)
	default:
		n.logger.Info(event.Message, field)
	}
}

// Recorder collects events for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
