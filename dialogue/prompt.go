package dialogue

import (
	"fmt"
	"strings"

	"github.com/srgchrksv/ieltspodcaster/models"
)

type level struct {
	label    string
	band     string
	style    string
	opening  string
	answers  string
	followUp []string
}

var levels = map[models.Difficulty]level{
	models.Beginner: {
		label:   "BEGINNER",
		band:    "4.0-5.5",
		style:   "Use simple vocabulary and clear sentences. The candidate gives basic but complete answers.",
		opening: "I'd like you to describe %s. Please tell me about it.",
		answers: "Simple 2-3 sentence answer using basic vocabulary",
		followUp: []string{
			"Simple question about personal experience",
			"Easy question about good points",
			"Basic question about problems",
			"Easy question about the future",
		},
	},
	models.Intermediate: {
		label:   "INTERMEDIATE",
		band:    "6.0-6.5",
		style:   "Use good vocabulary and clear explanations. The candidate gives detailed but accessible answers.",
		opening: "I'd like you to describe %s. You have one minute to prepare and speak for up to two minutes.",
		answers: "2-3 sentence detailed answer with personal examples",
		followUp: []string{
			"Follow-up question about personal experience",
			"Question about advantages or benefits",
			"Question about challenges or disadvantages",
			"Question about the future or recommendations",
		},
	},
	models.Advanced: {
		label:   "ADVANCED",
		band:    "7.0-8.5",
		style:   "Use complex vocabulary and analytical thinking. The candidate gives detailed, nuanced answers.",
		opening: "I'd like you to analyze %s. Please discuss its significance and implications.",
		answers: "Sophisticated 3-4 sentence answer with analysis and multiple perspectives",
		followUp: []string{
			"Complex question requiring critical thinking",
			"Question about broader implications",
			"Question about challenges and solutions",
			"Question about future trends and predictions",
		},
	},
}

// Prompt builds the generation prompt for a five-pair speaking interview.
func Prompt(topic string, difficulty models.Difficulty) string {
	lv, ok := levels[difficulty]
	if !ok {
		lv = levels[models.Intermediate]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate an IELTS Speaking interview about %s for %s level (IELTS Band %s).\n\n", topic, lv.label, lv.band)
	sb.WriteString(lv.style)
	sb.WriteString("\n\nCreate exactly 5 question-answer pairs and label every line with the speaker role.\n\n")
	fmt.Fprintf(&sb, "Examiner: "+lv.opening+"\n\n", topic)
	fmt.Fprintf(&sb, "Candidate: [%s]\n\n", lv.answers)
	for _, q := range lv.followUp {
		fmt.Fprintf(&sb, "Examiner: [%s]\n\n", q)
		fmt.Fprintf(&sb, "Candidate: [%s]\n\n", lv.answers)
	}
	sb.WriteString("Generate the interview:")
	return sb.String()
}
