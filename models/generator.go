package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrModelUnavailable is returned when no text generation backend could be
// initialized at startup.
var ErrModelUnavailable = errors.New("text generation model not loaded")

type GenerateOptions struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// DefaultGenerateOptions are tuned for a full five-pair interview.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxTokens:   1200,
		Temperature: 0.7,
		TopP:        0.9,
	}
}

// Generator produces free-form text for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	Close() error
}

// Loader initializes one backend. A loader that cannot reach its model
// returns an error and the next loader is tried.
type Loader struct {
	Name string
	Load func(ctx context.Context) (Generator, error)
}

// LoadFirst returns the first generator that loads successfully. When every
// loader fails it returns ErrModelUnavailable joined with the causes.
func LoadFirst(ctx context.Context, logger *slog.Logger, loaders ...Loader) (Generator, error) {
	errs := []error{ErrModelUnavailable}
	for _, l := range loaders {
		logger.Info("loading text generation model", slog.String("provider", l.Name))
		gen, err := l.Load(ctx)
		if err != nil {
			logger.Warn("text generation model failed to load",
				slog.String("provider", l.Name), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", l.Name, err))
			continue
		}
		logger.Info("text generation model loaded",
			slog.String("provider", l.Name), slog.String("model", gen.Name()))
		return gen, nil
	}
	return nil, errors.Join(errs...)
}
