package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgchrksv/ieltspodcaster/models"
)

func TestParseLabelledLines(t *testing.T) {
	text := `Here is the interview:
EXAMINER: Tell me about technology.
CANDIDATE: I use my phone every day.
  EXAMINER:   Do you think it helps you?
CANDIDATE: Yes, it saves time.
Some trailing commentary.`

	lines := Parse(text, "technology")
	require.Len(t, lines, 4)
	assert.Equal(t, models.DialogueLine{Speaker: models.Examiner, Text: "Tell me about technology."}, lines[0])
	assert.Equal(t, models.DialogueLine{Speaker: models.Candidate, Text: "I use my phone every day."}, lines[1])
	assert.Equal(t, models.DialogueLine{Speaker: models.Examiner, Text: "Do you think it helps you?"}, lines[2])
	assert.Equal(t, models.DialogueLine{Speaker: models.Candidate, Text: "Yes, it saves time."}, lines[3])
}

func TestParseLabelledOnePerPrefixedLine(t *testing.T) {
	text := "EXAMINER: one\nnoise\nEXAMINER: two\nEXAMINER: three"
	lines := Parse(text, "x")
	require.Len(t, lines, 3)
	for i, want := range []string{"one", "two", "three"} {
		assert.Equal(t, models.Examiner, lines[i].Speaker)
		assert.Equal(t, want, lines[i].Text)
	}
}

func TestParseLabelsAreCaseInsensitive(t *testing.T) {
	lines := Parse("Examiner: Where do you live?\ncandidate: In a small town.", "home")
	require.Len(t, lines, 2)
	assert.Equal(t, models.Examiner, lines[0].Speaker)
	assert.Equal(t, models.Candidate, lines[1].Speaker)
	assert.Equal(t, "In a small town.", lines[1].Text)
}

func TestParseDropsEmptyLabelledLines(t *testing.T) {
	lines := Parse("EXAMINER:\nCANDIDATE:   \nEXAMINER: Hello there examiner here", "x")
	require.Len(t, lines, 1)
	assert.Equal(t, "Hello there examiner here", lines[0].Text)
}

func TestParseSentencesAlternateStartingWithExaminer(t *testing.T) {
	text := "What do you think about cities today. I think cities are crowded but exciting. Ok. Why do people move to cities so often. Mostly for work and better schools"
	lines := Parse(text, "cities")
	require.Len(t, lines, 4)
	assert.Equal(t, models.Examiner, lines[0].Speaker)
	assert.Equal(t, models.Candidate, lines[1].Speaker)
	assert.Equal(t, models.Examiner, lines[2].Speaker)
	assert.Equal(t, models.Candidate, lines[3].Speaker)
	assert.Equal(t, "What do you think about cities today.", lines[0].Text)
	assert.Equal(t, "Mostly for work and better schools.", lines[3].Text)
}

func TestParseSentencesCapped(t *testing.T) {
	text := strings.Repeat("This sentence is long enough. ", 20)
	lines := Parse(text, "x")
	assert.Len(t, lines, maxFragments)
}

func TestParseFallsBackToPlaceholder(t *testing.T) {
	for _, text := range []string{"", "   ", "ok. no. yes.", "\n\n"} {
		lines := Parse(text, "music")
		require.Len(t, lines, 2, "input %q", text)
		assert.Equal(t, models.Examiner, lines[0].Speaker)
		assert.Equal(t, "Please tell me about music.", lines[0].Text)
		assert.Equal(t, models.Candidate, lines[1].Speaker)
	}
}

func TestPromptPerDifficulty(t *testing.T) {
	adv := Prompt("technology", models.Advanced)
	assert.Contains(t, adv, "ADVANCED")
	assert.Contains(t, adv, "7.0-8.5")
	assert.Contains(t, adv, "analyze technology")
	assert.Equal(t, 5, strings.Count(adv, "Examiner:"))
	assert.Equal(t, 5, strings.Count(adv, "Candidate:"))

	beg := Prompt("food", models.Beginner)
	assert.Contains(t, beg, "BEGINNER")
	assert.Contains(t, beg, "describe food")

	unknown := Prompt("travel", models.Difficulty("expert"))
	assert.Contains(t, unknown, "INTERMEDIATE")
}

func TestParseMarkdownLabels(t *testing.T) {
	text := "**Examiner:** Tell me about your hometown please.\n" +
		"**Candidate**: It is a small coastal town.\n" +
		"_Examiner:_ What do you like most about it?"

	lines := Parse(text, "hometown")
	require.Len(t, lines, 3)
	assert.Equal(t, models.DialogueLine{Speaker: models.Examiner, Text: "Tell me about your hometown please."}, lines[0])
	assert.Equal(t, models.DialogueLine{Speaker: models.Candidate, Text: "It is a small coastal town."}, lines[1])
	assert.Equal(t, models.DialogueLine{Speaker: models.Examiner, Text: "What do you like most about it?"}, lines[2])
}
