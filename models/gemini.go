package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Gemini struct {
	client    *genai.Client
	modelName string
}

func NewGemini(client *genai.Client, modelName string) *Gemini {
	return &Gemini{client: client, modelName: modelName}
}

// GeminiLoader creates the genai client from an API key.
func GeminiLoader(apiKey, modelName string) Loader {
	return Loader{
		Name: "gemini",
		Load: func(ctx context.Context) (Generator, error) {
			if apiKey == "" {
				return nil, errors.New("GEMINI_API_KEY is not set")
			}
			client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
			if err != nil {
				return nil, fmt.Errorf("creating genai client: %w", err)
			}
			return NewGemini(client, modelName), nil
		},
	}
}

func (g *Gemini) Name() string { return g.modelName }

func (g *Gemini) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	// model handles are cheap and not safe to reconfigure concurrently
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(opts.Temperature)
	model.SetTopP(opts.TopP)
	model.SetMaxOutputTokens(int32(opts.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
