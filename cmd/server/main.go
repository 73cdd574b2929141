// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sozercan/palestine-timeline/internal/config"
	"github.com/sozercan/palestine-timeline/internal/llm"
	"github.com/sozercan/palestine-timeline/internal/server"
	"github.com/sozercan/palestine-timeline/internal/timeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.Log)

	llmProvider, err := llm.New(context.Background(), &cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	defer closeProvider(llmProvider)

	srv := server.New(*cfg, timeline.New(llmProvider))
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "provider", cfg.LLM.Provider)
	return srv.Run()
}

// closeProvider releases providers that hold a client connection.
func closeProvider(p llm.Provider) {
	c, ok := p.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("closing LLM provider failed", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
