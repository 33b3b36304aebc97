package models

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Ollama runs generation against a locally served model such as
// qwen2.5:1.5b-instruct.
type Ollama struct {
	client *api.Client
	model  string
}

func NewOllama(baseURL, model string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama url %q: %w", baseURL, err)
	}
	httpClient := &http.Client{
		Timeout: 5 * time.Minute, // local inference on CPU is slow
	}
	return &Ollama{
		client: api.NewClient(parsed, httpClient),
		model:  model,
	}, nil
}

// OllamaLoader checks that the server is up and the model has been pulled.
func OllamaLoader(baseURL, model string) Loader {
	return Loader{
		Name: "ollama",
		Load: func(ctx context.Context) (Generator, error) {
			o, err := NewOllama(baseURL, model)
			if err != nil {
				return nil, err
			}
			if err := o.client.Heartbeat(ctx); err != nil {
				return nil, fmt.Errorf("ollama heartbeat: %w", err)
			}
			if _, err := o.client.Show(ctx, &api.ShowRequest{Model: model}); err != nil {
				return nil, fmt.Errorf("ollama model %s: %w", model, err)
			}
			return o, nil
		},
	}
}

func (o *Ollama) Name() string { return o.model }

func (o *Ollama) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature":    opts.Temperature,
			"top_p":          opts.TopP,
			"num_predict":    opts.MaxTokens,
			"repeat_penalty": 1.1,
		},
	}

	var sb strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return sb.String(), nil
}

func (o *Ollama) Close() error { return nil }
