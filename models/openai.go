package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAI talks to the OpenAI API or any server speaking its chat
// completions protocol (vLLM, llama.cpp server, LM Studio).
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func OpenAILoader(apiKey, baseURL, model string) Loader {
	return Loader{
		Name: "openai",
		Load: func(ctx context.Context) (Generator, error) {
			if apiKey == "" && baseURL == "" {
				return nil, errors.New("OPENAI_API_KEY is not set")
			}
			o := NewOpenAI(apiKey, baseURL, model)
			if _, err := o.client.ListModels(ctx); err != nil {
				return nil, fmt.Errorf("failed to connect to openai: %w", err)
			}
			return o, nil
		},
	}
}

func (o *OpenAI) Name() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Close() error { return nil }
