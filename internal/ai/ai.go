// Package ai defines the contract between workflow orchestrators and the
// generation backend: request and response types, the schema descriptor for
// structured output, the error taxonomy, and the retry envelope.
package ai

import (
	"context"
	"strings"
)

// Attachment is an opaque binary payload supplied by a collaborator, such as
// a resume document, a job-posting screenshot, or recorded interview audio.
// The core never inspects the bytes; they are forwarded to the backend as-is.
type Attachment struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the attachment carries no usable payload.
func (a *Attachment) Empty() bool {
	return a == nil || len(a.Data) == 0
}

// Request is a single generation request produced by a prompt builder.
// Builders are pure: identical domain input yields byte-identical
// instruction text.
type Request struct {
	Instruction string
	Attachment  *Attachment
	Schema      *Schema
}

// Response is the raw textual output of a generation call.
type Response struct {
	Text string
}

// Generator issues a single generation request against the backend.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Model() string
}

// ExtractJSON strips markdown code fences the model sometimes wraps around
// JSON output, even when a response schema was declared.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
