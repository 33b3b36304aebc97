package models

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct{ name string }

func (s stubGenerator) Name() string { return s.name }
func (s stubGenerator) Generate(context.Context, string, GenerateOptions) (string, error) {
	return "", nil
}
func (s stubGenerator) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func failing(name string) Loader {
	return Loader{Name: name, Load: func(context.Context) (Generator, error) {
		return nil, errors.New(name + " offline")
	}}
}

func succeeding(name string) Loader {
	return Loader{Name: name, Load: func(context.Context) (Generator, error) {
		return stubGenerator{name: name + "-model"}, nil
	}}
}

func TestLoadFirstFallsThrough(t *testing.T) {
	gen, err := LoadFirst(context.Background(), discardLogger(),
		failing("gemini"), succeeding("ollama"), succeeding("openai"))
	require.NoError(t, err)
	assert.Equal(t, "ollama-model", gen.Name())
}

func TestLoadFirstAllFail(t *testing.T) {
	gen, err := LoadFirst(context.Background(), discardLogger(), failing("gemini"), failing("ollama"))
	assert.Nil(t, gen)
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "ollama offline")
}

func TestLoadFirstNoLoaders(t *testing.T) {
	_, err := LoadFirst(context.Background(), discardLogger())
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGeminiLoaderRequiresKey(t *testing.T) {
	_, err := GeminiLoader("", "gemini-1.5-flash").Load(context.Background())
	require.Error(t, err)
}

func TestOpenAILoaderRequiresKeyOrURL(t *testing.T) {
	_, err := OpenAILoader("", "", "gpt-4o-mini").Load(context.Background())
	require.Error(t, err)
}

func TestNormalizeDifficulty(t *testing.T) {
	assert.Equal(t, Advanced, NormalizeDifficulty(" Advanced "))
	assert.Equal(t, Beginner, NormalizeDifficulty("beginner"))
	assert.Equal(t, Intermediate, NormalizeDifficulty(""))
	assert.Equal(t, Intermediate, NormalizeDifficulty("expert"))
}

func TestParseSpeaker(t *testing.T) {
	s, ok := ParseSpeaker("candidate")
	assert.True(t, ok)
	assert.Equal(t, Candidate, s)

	_, ok = ParseSpeaker("host")
	assert.False(t, ok)
}

func TestNewDialogueResponseSplitsBySpeaker(t *testing.T) {
	lines := []DialogueLine{
		{Speaker: Examiner, Text: "Q1"},
		{Speaker: Candidate, Text: "A1"},
		{Speaker: Examiner, Text: "Q2"},
	}
	resp := NewDialogueResponse(lines)
	assert.Equal(t, []string{"Q1", "Q2"}, resp.ExaminerLines)
	assert.Equal(t, []string{"A1"}, resp.CandidateLines)
	assert.Len(t, resp.FullDialogue, len(resp.ExaminerLines)+len(resp.CandidateLines))
}
