// Package llm is the boundary with the hosted language model: it sends
// prompts, strips and parses the JSON the model answers with, and turns it
// into typed results or sentinel errors.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Disabled is the Generator used when no API key is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, float32) (string, error) {
	return "", ErrNotConfigured
}

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// GeminiOption configures a Gemini generator.
type GeminiOption func(*Gemini)

// WithModel sets the model name.
func WithModel(name string) GeminiOption {
	return func(g *Gemini) {
		if name != "" {
			g.model = name
		}
	}
}

// WithTimeout bounds every call on top of the caller's context. Zero
// removes the bound; negative values are ignored.
func WithTimeout(d time.Duration) GeminiOption {
	return func(g *Gemini) {
		if d >= 0 {
			g.timeout = d
		}
	}
}

// WithRateLimit allows perSec calls per second with the given burst. A
// non-positive rate disables limiting.
func WithRateLimit(perSec float64, burst int) GeminiOption {
	return func(g *Gemini) {
		if perSec <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSec), max(burst, 1))
	}
}

// NewGemini creates a generator for the Gemini developer API.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g := &Gemini{
		client:  client,
		model:   "gemini-2.0-flash-lite",
		timeout: 90 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate sends prompt as a single user turn.
func (g *Gemini) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limit: %w", ErrUpstream, err)
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
