package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-chef/internal/utils"
)

const (
	defaultMaxAttempts  = 5
	defaultInitialDelay = 3000 * time.Millisecond
	defaultMultiplier   = 1.5
)

// Operation is a single attempt against the generation backend.
type Operation func(ctx context.Context) (*Response, error)

// Retrier wraps generation calls with classification-driven retry and
// backoff. Only Overloaded failures are retried; every other failure is
// normalized and surfaced immediately. Zero-valued fields fall back to the
// defaults: 5 attempts, 3s initial delay, 1.5x growth.
type Retrier struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	Logger       *zap.Logger

	// Wait pauses between attempts. Tests replace it to avoid sleeping.
	Wait func(ctx context.Context, d time.Duration) error
}

// NewRetrier builds a Retrier with the default budget and the given logger.
// maxAttempts <= 0 keeps the default.
func NewRetrier(logger *zap.Logger, maxAttempts int) *Retrier {
	return &Retrier{
		MaxAttempts: maxAttempts,
		Logger:      logger,
	}
}

// Do runs the operation until it succeeds, fails with a non-retryable error,
// or exhausts the attempt budget while the backend stays overloaded. The
// same logical request is reissued on every attempt; the only state kept
// between attempts is the local counter and current delay.
func (r *Retrier) Do(ctx context.Context, op Operation) (*Response, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	delay := r.InitialDelay
	if delay <= 0 {
		delay = defaultInitialDelay
	}

	multiplier := r.Multiplier
	if multiplier <= 1 {
		multiplier = defaultMultiplier
	}

	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	wait := r.Wait
	if wait == nil {
		wait = utils.WaitFor
	}

	var last *Error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}

		normalized := Normalize(err)
		if normalized.Kind != KindOverloaded {
			return nil, normalized
		}

		last = normalized
		if attempt == attempts {
			break
		}

		log.Warn("generation backend overloaded, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
		)

		if err := wait(ctx, delay); err != nil {
			return nil, Normalize(err)
		}

		delay = time.Duration(float64(delay) * multiplier)
	}

	return nil, &Error{
		Kind:    KindRetryExhausted,
		Message: exhaustedMessage,
		Status:  last.Status,
		Err:     last,
	}
}
