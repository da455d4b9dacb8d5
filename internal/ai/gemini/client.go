// Package gemini implements the ai.Generator contract on top of the Google
// GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/logger"
	"github.com/spigell/career-chef/internal/utils"
)

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxLogLen = 200

	jsonMIMEType = "application/json"
)

// modelCaller is the slice of the GenAI SDK the generator needs. The real
// client's Models service satisfies it.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client behind the ai.Generator contract.
// Every call goes through the retry envelope.
type Generator struct {
	models    modelCaller
	model     string
	retrier   *ai.Retrier
	logger    *zap.Logger
	maxLogLen int
}

// Config tunes a Generator.
type Config struct {
	APIKey string
	Model  string
	// MaxRetries caps the retry envelope's attempt budget. <= 0 keeps
	// the default.
	MaxRetries int
	// MaxLogLength caps prompt/response previews in debug logs.
	MaxLogLength int
}

// New creates a Generator configured for the Gemini API backend.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLen
	}

	log = logger.WithCommonFields(log, "gemini", model)

	return &Generator{
		models:    client.Models,
		model:     model,
		retrier:   ai.NewRetrier(log, cfg.MaxRetries),
		logger:    log,
		maxLogLen: maxLogLen,
	}, nil
}

// Generate sends one request to Gemini and returns the joined textual
// output. The text may legitimately be empty; deciding what an empty
// response means is the decoder's job.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini generator is not initialized")
	}

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return nil, ai.NewValidationError("instruction text must not be empty")
	}

	parts := []*genai.Part{{Text: instruction}}
	if !req.Attachment.Empty() {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			Data:     req.Attachment.Data,
			MIMEType: req.Attachment.MIMEType,
		}})
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	var config *genai.GenerateContentConfig
	if req.Schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: jsonMIMEType,
			ResponseSchema:   toGenAISchema(req.Schema),
		}
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("instruction_length", len(instruction)),
		zap.String("instruction_preview", utils.TruncateForLog(instruction, g.maxLogLen)),
		zap.Bool("has_attachment", !req.Attachment.Empty()),
		zap.Bool("has_schema", req.Schema != nil),
	)

	resp, err := g.retrier.Do(ctx, func(ctx context.Context) (*ai.Response, error) {
		raw, err := g.models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("generate content: %w", err)
		}
		return &ai.Response{Text: joinCandidateText(raw)}, nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", len(resp.Text)),
		zap.String("response_preview", utils.TruncateForLog(resp.Text, g.maxLogLen)),
	)

	return resp, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func joinCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

func toGenAISchema(s *ai.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        toGenAIType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenAISchema(s.Items),
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
	}

	return out
}

func toGenAIType(t string) genai.Type {
	switch t {
	case ai.TypeString:
		return genai.TypeString
	case ai.TypeNumber:
		return genai.TypeNumber
	case ai.TypeInteger:
		return genai.TypeInteger
	case ai.TypeBoolean:
		return genai.TypeBoolean
	case ai.TypeArray:
		return genai.TypeArray
	case ai.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
