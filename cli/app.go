package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	speech "cloud.google.com/go/speech/apiv1"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"google.golang.org/api/option"

	"github.com/srgchrksv/ieltspodcaster/config"
	"github.com/srgchrksv/ieltspodcaster/models"
	"github.com/srgchrksv/ieltspodcaster/services"
	"github.com/srgchrksv/ieltspodcaster/storage"
	"github.com/srgchrksv/ieltspodcaster/telemetry"
)

// app owns everything the commands share and closes it in reverse order.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	services *services.Services
	closers  []func() error
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	metrics, err := telemetry.New()
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	store, err := storage.NewStorage(cfg.Storage.AudioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare audio directory: %w", err)
	}

	svc := services.NewServices(store, metrics, logger)
	svc.Voices = services.Voices{
		Examiner:  cfg.TTS.Voices.Examiner,
		Candidate: cfg.TTS.Voices.Candidate,
		Pause:     cfg.TTS.Voices.Pause,
		PauseText: cfg.TTS.Voices.PauseText,
	}

	a := &app{cfg: cfg, logger: logger, metrics: metrics, services: svc}
	a.closers = append(a.closers, func() error { return metrics.Shutdown(context.Background()) })
	return a, nil
}

// loadGenerator tries the configured providers in order. Failing every one
// is not fatal: dialogue requests then answer 503.
func (a *app) loadGenerator(ctx context.Context) error {
	loaders, err := generatorLoaders(a.cfg.Generation)
	if err != nil {
		return err
	}
	gen, err := models.LoadFirst(ctx, a.logger, loaders...)
	if err != nil {
		a.logger.Error("no text generation model available", slog.String("error", err.Error()))
		return err
	}
	a.services.Generator = gen
	a.closers = append(a.closers, gen.Close)
	return nil
}

// connectSpeech creates the Google TTS and STT clients. A client that cannot
// be created leaves its endpoints answering 503.
func (a *app) connectSpeech(ctx context.Context) {
	var opts []option.ClientOption
	if a.cfg.TTS.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(a.cfg.TTS.CredentialsFile))
	}

	ttsClient, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		a.logger.Error("text-to-speech client unavailable", slog.String("error", err.Error()))
	} else {
		a.services.Synthesizer = services.NewGoogleTTS(ttsClient)
		a.closers = append(a.closers, ttsClient.Close)
	}

	if !a.cfg.STT.Enabled {
		return
	}
	sttClient, err := speech.NewClient(ctx, opts...)
	if err != nil {
		a.logger.Error("speech-to-text client unavailable", slog.String("error", err.Error()))
		return
	}
	a.services.Transcriber = services.NewGoogleSpeech(sttClient, a.cfg.STT.LanguageCode)
	a.closers = append(a.closers, sttClient.Close)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func generatorLoaders(cfg config.GenerationConfig) ([]models.Loader, error) {
	loaders := make([]models.Loader, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		switch p {
		case "gemini":
			loaders = append(loaders, models.GeminiLoader(cfg.Gemini.APIKey, cfg.Gemini.Model))
		case "ollama":
			loaders = append(loaders, models.OllamaLoader(cfg.Ollama.URL, cfg.Ollama.Model))
		case "openai":
			loaders = append(loaders, models.OpenAILoader(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model))
		default:
			return nil, fmt.Errorf("unknown generation provider %q", p)
		}
	}
	return loaders, nil
}
