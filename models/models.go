package models

import "strings"

type Speaker string

const (
	Examiner  Speaker = "EXAMINER"
	Candidate Speaker = "CANDIDATE"
)

// ParseSpeaker maps a role name in any case onto a Speaker. Unknown roles
// are reported with ok == false.
func ParseSpeaker(s string) (Speaker, bool) {
	switch Speaker(strings.ToUpper(strings.TrimSpace(s))) {
	case Examiner:
		return Examiner, true
	case Candidate:
		return Candidate, true
	}
	return "", false
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// NormalizeDifficulty falls back to Intermediate for empty or unknown levels.
func NormalizeDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Beginner, Intermediate, Advanced:
		return d
	}
	return Intermediate
}

type DialogueLine struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

type Dialogue struct {
	Dialogue []DialogueLine `json:"dialogue"`
}

type DialogueRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
}

type DialogueResponse struct {
	ExaminerLines  []string       `json:"examiner_lines"`
	CandidateLines []string       `json:"candidate_lines"`
	FullDialogue   []DialogueLine `json:"full_dialogue"`
}

// NewDialogueResponse splits lines by speaker while keeping the full
// transcript in playback order.
func NewDialogueResponse(lines []DialogueLine) DialogueResponse {
	resp := DialogueResponse{
		ExaminerLines:  []string{},
		CandidateLines: []string{},
		FullDialogue:   lines,
	}
	for _, line := range lines {
		if line.Speaker == Candidate {
			resp.CandidateLines = append(resp.CandidateLines, line.Text)
			continue
		}
		resp.ExaminerLines = append(resp.ExaminerLines, line.Text)
	}
	return resp
}

type TTSRequest struct {
	Text      string `json:"text" binding:"required"`
	VoiceType string `json:"voice_type"`
}

type VoiceProfile struct {
	LanguageCode string  `json:"language_code" yaml:"language_code"`
	Name         string  `json:"name,omitempty" yaml:"name"`
	Gender       string  `json:"gender,omitempty" yaml:"gender"`
	SpeakingRate float64 `json:"speaking_rate" yaml:"speaking_rate"`
}

type TTSResponse struct {
	AudioID   string       `json:"audio_id"`
	AudioURL  string       `json:"audio_url"`
	VoiceType string       `json:"voice_type"`
	Config    VoiceProfile `json:"config"`
	Text      string       `json:"text"`
}

type PodcastResponse struct {
	PodcastID        string  `json:"podcast_id"`
	PodcastURL       string  `json:"podcast_url"`
	Duration         float64 `json:"duration"`
	MeasuredDuration float64 `json:"measured_duration"`
	Segments         int     `json:"segments"`
	Message          string  `json:"message"`
}

type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}
