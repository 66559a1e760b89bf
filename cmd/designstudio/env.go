package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/config"
)

// CompleterFactory builds the model client from the resolved config.
type CompleterFactory func(cfg *config.Config, logger *slog.Logger) (designstudio.Completer, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the model client.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	NewCompleter CompleterFactory
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		NewCompleter: openAICompleter,
	}
}

// openAICompleter reads OPENAI_API_KEY and applies the model section.
func openAICompleter(cfg *config.Config, logger *slog.Logger) (designstudio.Completer, error) {
	return designstudio.NewOpenAICompleter(designstudio.OpenAIConfig{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
	}, cfg.Model.RequestsPerSecond, cfg.Model.Burst, logger)
}
