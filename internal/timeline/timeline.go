// Package timeline drives the generation calls behind a form submission:
// the narrative and historical context pair, the analytics widget and the
// travel itinerary.
package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/sozercan/palestine-timeline/apimodels"
	"github.com/sozercan/palestine-timeline/internal/analytics"
	"github.com/sozercan/palestine-timeline/internal/interpret"
	"github.com/sozercan/palestine-timeline/internal/llm"
	"github.com/sozercan/palestine-timeline/internal/prompt"
)

type Service struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Service {
	return &Service{
		provider: provider,
	}
}

// Narrate validates the submission and generates the narrative and the
// historical context concurrently. Both calls must succeed; the first
// failure cancels the other.
func (s *Service) Narrate(ctx context.Context, req apimodels.TimelineRequest) (*apimodels.TimelineResponse, error) {
	lang, err := prompt.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	if err := prompt.Validate(req.FormInput, lang); err != nil {
		return nil, err
	}

	slog.Info("Starting timeline generation", "city", req.City, "year", req.Year, "language", lang)
	startTime := time.Now()
	prompts := prompt.Build(req.FormInput, lang)

	var narrative, historical *llm.Response
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.provider.Generate(gctx, prompts.Narrative, llm.WithModel(req.Options.Model))
		if err != nil {
			return fmt.Errorf("generate narrative: %w", err)
		}
		narrative = resp
		return nil
	})
	g.Go(func() error {
		resp, err := s.provider.Generate(gctx, prompts.Context, llm.WithModel(req.Options.Model))
		if err != nil {
			return fmt.Errorf("generate historical context: %w", err)
		}
		historical = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.Error("Timeline generation failed", "error", err)
		return nil, err
	}

	slog.Debug("Timeline generation completed", "duration", time.Since(startTime))
	return &apimodels.TimelineResponse{
		Narrative: narrative.Content,
		Context:   historical.Content,
		Metadata: apimodels.GenerationMetadata{
			Duration:   time.Since(startTime).String(),
			Model:      narrative.Model,
			TokensUsed: narrative.Usage.TotalTokens + historical.Usage.TotalTokens,
			Calls:      2,
		},
	}, nil
}

// Analytics asks the model for a snapshot of (year, city). A failed call or
// an unparseable answer degrades to the formula; the response's Source says
// which happened. Only invalid input is an error.
func (s *Service) Analytics(ctx context.Context, year int, city string, language string) (*apimodels.AnalyticsResponse, error) {
	lang, err := prompt.ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	if err := prompt.ValidateYear(year); err != nil {
		return nil, err
	}
	if !prompt.IsCity(city, lang) {
		return nil, fmt.Errorf("%w: unknown city %q for language %q", prompt.ErrInvalidInput, city, lang)
	}

	startTime := time.Now()
	meta := apimodels.GenerationMetadata{Calls: 1}

	var text string
	resp, err := s.provider.Generate(ctx, prompt.Analytics(year, city, lang), llm.WithJSON())
	if err != nil {
		slog.Warn("Analytics generation failed, using formula", "city", city, "year", year, "error", err)
	} else {
		text = resp.Content
		meta.Model = resp.Model
		meta.TokensUsed = resp.Usage.TotalTokens
	}

	res := analytics.Interpret(text, year, city)
	if !res.Source.Genuine() {
		slog.Info("Analytics synthesized from formula", "city", city, "year", year)
	}

	meta.Duration = time.Since(startTime).String()
	return &apimodels.AnalyticsResponse{
		Year:     year,
		City:     city,
		Snapshot: res.Value,
		Source:   res.Source,
		Warnings: analytics.Check(res.Value),
		Metadata: meta,
	}, nil
}

// Itinerary generates a JSON travel itinerary for city on date
// (YYYY-MM-DD). There is no synthetic fallback: an answer without a JSON
// object is an error.
func (s *Service) Itinerary(ctx context.Context, req apimodels.ItineraryRequest) (*apimodels.ItineraryResponse, error) {
	lang, err := prompt.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	if !prompt.IsCity(req.City, lang) {
		return nil, fmt.Errorf("%w: unknown city %q for language %q", prompt.ErrInvalidInput, req.City, lang)
	}
	date := strings.TrimSpace(req.Date)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", prompt.ErrInvalidInput, req.Date)
	}

	startTime := time.Now()
	resp, err := s.provider.Generate(ctx, prompt.Itinerary(req.City, date, lang), llm.WithJSON())
	if err != nil {
		slog.Error("Itinerary generation failed", "error", err)
		return nil, fmt.Errorf("generate itinerary: %w", err)
	}

	raw, src, err := interpret.Object(resp.Content)
	if err != nil {
		slog.Error("Itinerary response is not a JSON object", "content", truncateString(resp.Content, 200))
		return nil, fmt.Errorf("itinerary: %w", interpret.ErrNoStructuredData)
	}

	return &apimodels.ItineraryResponse{
		City:      req.City,
		Date:      date,
		Itinerary: raw,
		Source:    src,
		Metadata: apimodels.GenerationMetadata{
			Duration:   time.Since(startTime).String(),
			Model:      resp.Model,
			TokensUsed: resp.Usage.TotalTokens,
			Calls:      1,
		},
	}, nil
}

// truncateString cuts s to at most maxLen bytes without splitting a rune.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n[truncated]"
}
