package llm

import (
	"context"
	"fmt"

	"github.com/sozercan/palestine-timeline/internal/config"
	"github.com/sozercan/palestine-timeline/internal/prompt"
)

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "azure":
		return NewOpenAI(cfg)
	case "gemini":
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newOptions(cfg *config.LLMConfig, opts []Option) *Options {
	options := &Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		System:      prompt.SystemInstruction,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
