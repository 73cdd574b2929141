package llm

import (
	"context"
	"errors"
)

var (
	// ErrGeneration wraps transport and non-success responses from the
	// generation endpoint.
	ErrGeneration = errors.New("generation failed")
	// ErrEmptyCompletion is returned when the endpoint answers without a
	// candidate text.
	ErrEmptyCompletion = errors.New("empty completion")
)

type Provider interface {
	// Generate sends prompt with the fixed system instruction and returns
	// the first candidate's text.
	Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	System      string
	// JSON asks the provider for a JSON-only answer where it supports it.
	JSON bool
}

// WithModel overrides the configured model for one call.
func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

// WithJSON asks for a JSON-only completion.
func WithJSON() Option {
	return func(o *Options) { o.JSON = true }
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}
