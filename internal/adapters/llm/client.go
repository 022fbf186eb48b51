package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/normalize"
	"github.com/okian/resumerank/internal/domain/scoring"
	"github.com/okian/resumerank/pkg/logger"
	"github.com/okian/resumerank/pkg/metrics"
)

// Sampling temperatures per operation.
const (
	temperatureExtract   float32 = 0
	temperatureRank      float32 = 0.1
	temperatureQuestions float32 = 0.3
)

const (
	// MaxQuestions caps the screening questions kept from one answer.
	MaxQuestions   = 5
	questionSkills = 10
)

// Operation names used in metrics and spans.
const (
	OpExtract   = "extract"
	OpRank      = "rank"
	OpQuestions = "questions"
)

var tracer = otel.Tracer("github.com/okian/resumerank/internal/adapters/llm")

// Client runs the resume operations on top of a Generator.
type Client struct {
	gen    Generator
	logger logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient wraps gen. A nil gen behaves as Disabled.
func NewClient(gen Generator, opts ...Option) *Client {
	if gen == nil {
		gen = Disabled{}
	}
	c := &Client{gen: gen}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("llm")
	}
	return c
}

// Configured reports whether calls can reach a model.
func (c *Client) Configured() bool {
	_, disabled := c.gen.(Disabled)
	return !disabled
}

// ExtractResume structures raw resume text. It fails with ErrNoResume when
// the model answers with an empty object or only an "error" key.
func (c *Client) ExtractResume(ctx context.Context, text string) (model.Resume, error) {
	obj, err := c.object(ctx, OpExtract, extractionPrompt(text), temperatureExtract)
	if err != nil {
		return model.Resume{}, err
	}
	if len(obj) == 0 {
		return model.Resume{}, fmt.Errorf("%w: empty object", ErrNoResume)
	}
	if reason, ok := obj["error"]; ok && len(obj) == 1 {
		return model.Resume{}, fmt.Errorf("%w: %v", ErrNoResume, reason)
	}
	c.check(ctx, SchemaResume, obj)
	return normalize.FromMap(obj), nil
}

// RankResume scores resumeText against jobDescription. Scores are clamped
// to 0..100; missing ones read as 0.
func (c *Client) RankResume(ctx context.Context, resumeText, jobDescription string) (model.RankingResult, error) {
	obj, err := c.object(ctx, OpRank, rankingPrompt(resumeText, jobDescription), temperatureRank)
	if err != nil {
		return model.RankingResult{}, err
	}
	c.check(ctx, SchemaRanking, obj)

	criteria, _ := cast.ToStringMapE(obj["criteria_scores"])
	return model.RankingResult{
		OverallScore: percent(obj["overall_score"]),
		CriteriaScores: model.CriteriaScores{
			SkillsMatch:              percent(criteria["skills_match"]),
			ExperienceRelevance:      percent(criteria["experience_relevance"]),
			EducationFit:             percent(criteria["education_fit"]),
			AdditionalQualifications: percent(criteria["additional_qualifications"]),
		},
		Analysis: strings.TrimSpace(cast.ToString(obj["analysis"])),
	}, nil
}

// ScreeningQuestions returns up to MaxQuestions non-blank questions.
func (c *Client) ScreeningQuestions(ctx context.Context, r model.Resume, jobDescription string) ([]string, error) {
	obj, err := c.object(ctx, OpQuestions, questionsPrompt(r, jobDescription), temperatureQuestions)
	if err != nil {
		return nil, err
	}
	raw, err := cast.ToSliceE(obj["questions"])
	if err != nil {
		return nil, fmt.Errorf("%w: questions is %T", ErrNoQuestions, obj["questions"])
	}
	out := make([]string, 0, MaxQuestions)
	for _, item := range raw {
		q, ok := item.(string)
		if !ok {
			continue
		}
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
		if len(out) == MaxQuestions {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// object runs one traced, measured model call and parses the answer.
func (c *Client) object(ctx context.Context, op, prompt string, temperature float32) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "llm."+op, trace.WithAttributes(
		attribute.String("llm.operation", op),
		attribute.Float64("llm.temperature", float64(temperature)),
		attribute.Int("llm.prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	text, err := c.gen.Generate(ctx, prompt, temperature)
	var obj map[string]any
	if err == nil {
		obj, err = ParseObject(text)
	}
	metrics.RecordLLMCall(op, outcome(err), float64(time.Since(start).Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
		c.logger.Warn(ctx, "model call failed", logger.String("operation", op), logger.Error(err))
		return nil, err
	}
	return obj, nil
}

func (c *Client) check(ctx context.Context, schema string, obj map[string]any) {
	problems := Violations(schema, obj)
	if len(problems) == 0 {
		return
	}
	metrics.RecordSchemaWarning(schema)
	c.logger.Warn(ctx, "model output does not match schema",
		logger.String("schema", schema), logger.Any("violations", problems))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	}
	return "error"
}

func percent(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return scoring.ClampPercent(f)
}
