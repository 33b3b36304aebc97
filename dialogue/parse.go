// Package dialogue turns raw model output into an examiner/candidate
// transcript and builds the prompts that ask for one.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/srgchrksv/ieltspodcaster/models"
)

const (
	// fragments at or below this length are dropped when splitting sentences
	minFragmentLen = 10
	maxFragments   = 12
)

// Parse converts generated text into dialogue lines. It never returns an
// empty slice: text that yields nothing usable becomes a two-line
// placeholder about the topic.
//
// Lines labelled "EXAMINER:" or "CANDIDATE:" (any case) are used as-is in
// source order. Without labels the text is split into sentences that
// alternate between the two roles, starting with the examiner.
func Parse(text, topic string) []models.DialogueLine {
	lines := parseLabelled(text)
	if len(lines) == 0 {
		lines = parseSentences(text)
	}
	if len(lines) == 0 {
		lines = Placeholder(topic)
	}
	return lines
}

// Placeholder is the transcript used when the model produced nothing usable.
func Placeholder(topic string) []models.DialogueLine {
	return []models.DialogueLine{
		{Speaker: models.Examiner, Text: fmt.Sprintf("Please tell me about %s.", topic)},
		{Speaker: models.Candidate, Text: "I'd like to discuss this topic with you."},
	}
}

func parseLabelled(text string) []models.DialogueLine {
	var lines []models.DialogueLine
	for _, raw := range strings.Split(text, "\n") {
		speaker, rest, ok := cutLabel(strings.TrimSpace(raw))
		if !ok {
			continue
		}
		if rest = strings.TrimSpace(rest); rest == "" {
			continue
		}
		lines = append(lines, models.DialogueLine{Speaker: speaker, Text: rest})
	}
	return lines
}

// markdownMarks wrap labels in model output such as "**Examiner:**".
const markdownMarks = "*_ "

func cutLabel(line string) (models.Speaker, string, bool) {
	line = strings.TrimLeft(line, markdownMarks)
	for _, s := range []models.Speaker{models.Examiner, models.Candidate} {
		label := string(s) + ":"
		if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
			return s, strings.TrimLeft(line[len(label):], markdownMarks), true
		}
		// "**Examiner**: ..."
		if rest, ok := cutBoldLabel(line, string(s)); ok {
			return s, rest, true
		}
	}
	return "", "", false
}

func cutBoldLabel(line, name string) (string, bool) {
	if len(line) < len(name) || !strings.EqualFold(line[:len(name)], name) {
		return "", false
	}
	rest := strings.TrimLeft(line[len(name):], "*_")
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return strings.TrimLeft(rest[1:], markdownMarks), true
}

func parseSentences(text string) []models.DialogueLine {
	var lines []models.DialogueLine
	for _, frag := range strings.Split(strings.TrimSpace(text), ".") {
		frag = strings.TrimSpace(frag)
		if len(frag) <= minFragmentLen {
			continue
		}
		speaker := models.Examiner
		if len(lines)%2 == 1 {
			speaker = models.Candidate
		}
		lines = append(lines, models.DialogueLine{Speaker: speaker, Text: frag + "."})
		if len(lines) == maxFragments {
			break
		}
	}
	return lines
}
