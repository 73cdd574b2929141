package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sozercan/palestine-timeline/internal/config"
	"github.com/sozercan/palestine-timeline/internal/llm"
)

type closingProvider struct {
	closed int
	err    error
}

func (p *closingProvider) Generate(context.Context, string, ...llm.Option) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func (p *closingProvider) Close() error {
	p.closed++
	return p.err
}

type plainProvider struct{}

func (plainProvider) Generate(context.Context, string, ...llm.Option) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func TestCloseProvider(t *testing.T) {
	p := &closingProvider{}
	closeProvider(p)
	assert.Equal(t, 1, p.closed)

	failing := &closingProvider{err: errors.New("already closed")}
	assert.NotPanics(t, func() { closeProvider(failing) })
	assert.Equal(t, 1, failing.closed)

	assert.NotPanics(t, func() { closeProvider(plainProvider{}) })
}

func TestRunFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	err = run()
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	setupLogger(config.LogConfig{Level: "debug", Format: "json"})
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	setupLogger(config.LogConfig{Level: "warn", Format: "text"})
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
}
