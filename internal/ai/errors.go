package ai

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

// Kind classifies a failure for retry and presentation decisions.
type Kind int

const (
	// KindOther covers failures with no special handling. Never retried.
	KindOther Kind = iota
	// KindAuth marks credential problems. Never retried.
	KindAuth
	// KindSafetyBlocked marks requests rejected by the content safety
	// filter. Never retried.
	KindSafetyBlocked
	// KindOverloaded marks transient backend capacity failures. Retried
	// with backoff by the retry envelope.
	KindOverloaded
	// KindRetryExhausted marks an Overloaded failure that survived the
	// whole retry budget.
	KindRetryExhausted
	// KindDecode marks well-received backend output that failed
	// validation or parsing. Never retried: the call itself succeeded.
	KindDecode
	// KindValidation marks a precondition failure detected before any
	// backend call was made.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindSafetyBlocked:
		return "safety-blocked"
	case KindOverloaded:
		return "overloaded"
	case KindRetryExhausted:
		return "retry-exhausted"
	case KindDecode:
		return "decode"
	case KindValidation:
		return "validation"
	default:
		return "other"
	}
}

// Error is the single normalized failure shape surfaced to collaborators.
// Message is short and suitable for direct display to the end user.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err normalizes to the given kind.
func IsKind(err error, kind Kind) bool {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind == kind
	}
	return false
}

// NewValidationError builds a precondition failure with the given message.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewDecodeError builds a decode failure with the given message and cause.
func NewDecodeError(message string, err error) *Error {
	return &Error{Kind: KindDecode, Message: message, Err: err}
}

const (
	authMessage       = "The API key was rejected. Check your Gemini credentials and try again."
	safetyMessage     = "The request was blocked by the content safety filter. Please adjust the content and try again."
	overloadedMessage = "The AI service is overloaded right now."
	exhaustedMessage  = "The AI service is overloaded and did not recover after several retries. Please try again later."
	genericMessage    = "The AI service is temporarily unavailable. Please try again later."

	// Raw diagnostics longer than this are replaced with genericMessage so
	// backend internals are not shown to the end user.
	maxVerbatimMessage = 100
)

// Normalize converts any failure returned by the generation backend into a
// classified *Error. Error shapes are probed in one fixed priority order: an
// already normalized *Error is returned unchanged, then the structured
// genai.APIError fields (HTTP code, status name, message), then the plain
// error text.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr
	}

	status := 0
	statusName := ""
	message := err.Error()

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Code
		statusName = apiErr.Status
		if strings.TrimSpace(apiErr.Message) != "" {
			message = apiErr.Message
		}
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusForbidden ||
		containsAnyFold(message, "api key", "api_key"):
		return &Error{Kind: KindAuth, Message: authMessage, Status: status, Err: err}
	case containsAnyFold(message, "safety"):
		return &Error{Kind: KindSafetyBlocked, Message: safetyMessage, Status: status, Err: err}
	case status == http.StatusServiceUnavailable || statusName == "UNAVAILABLE" ||
		containsAnyFold(message, "overloaded", "503"):
		return &Error{Kind: KindOverloaded, Message: overloadedMessage, Status: status, Err: err}
	default:
		short := strings.TrimSpace(message)
		if short == "" || utf8.RuneCountInString(short) >= maxVerbatimMessage {
			short = genericMessage
		}
		return &Error{Kind: KindOther, Message: short, Status: status, Err: err}
	}
}

func containsAnyFold(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
