package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/srgchrksv/ieltspodcaster/audio"
	"github.com/srgchrksv/ieltspodcaster/dialogue"
	"github.com/srgchrksv/ieltspodcaster/models"
	"github.com/srgchrksv/ieltspodcaster/storage"
	"github.com/srgchrksv/ieltspodcaster/telemetry"
)

var (
	ErrSynthesizerUnavailable = errors.New("speech synthesis not available")
	ErrTranscriberUnavailable = errors.New("speech recognition not available")
	ErrNoSegments             = errors.New("no audio files were generated")
)

const (
	// lines shorter than this after cleanup are not worth a TTS call
	minSegmentLen = 3
	// rough speaking rate used for the reported podcast duration
	secondsPerChar = 0.1
)

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice models.VoiceProfile) ([]byte, error)
}

// Transcriber turns recorded speech into text. filename is used to infer
// the audio encoding.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type Voices struct {
	Examiner  models.VoiceProfile
	Candidate models.VoiceProfile
	Pause     models.VoiceProfile
	// PauseText is spoken between lines; empty disables pauses.
	PauseText string
}

// For picks the profile for a speaker role, defaulting to the examiner.
func (v Voices) For(role string) models.VoiceProfile {
	if speaker, ok := models.ParseSpeaker(role); ok && speaker == models.Candidate {
		return v.Candidate
	}
	return v.Examiner
}

type Services struct {
	Generator   models.Generator
	Synthesizer Synthesizer
	Transcriber Transcriber
	Voices      Voices
	storage     *storage.Storage
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

func NewServices(storage *storage.Storage, metrics *telemetry.Metrics, logger *slog.Logger) *Services {
	return &Services{
		storage: storage,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Services) Storage() *storage.Storage { return s.storage }

// GenerateDialogue asks the loaded model for an interview transcript.
// Unusable model output degrades to placeholder lines, never to an error.
func (s *Services) GenerateDialogue(ctx context.Context, topic, difficulty string) ([]models.DialogueLine, error) {
	level := models.NormalizeDifficulty(difficulty)
	if s.Generator == nil {
		return nil, models.ErrModelUnavailable
	}

	s.logger.Info("generating dialogue",
		slog.String("topic", topic), slog.String("difficulty", string(level)), slog.String("model", s.Generator.Name()))

	text, err := s.Generator.Generate(ctx, dialogue.Prompt(topic, level), models.DefaultGenerateOptions())
	s.metrics.Dialogue(ctx, string(level), err)
	if err != nil {
		return nil, fmt.Errorf("dialogue generation failed: %w", err)
	}

	lines := dialogue.Parse(text, topic)
	s.logger.Info("dialogue generated",
		slog.Int("generated_chars", len(text)), slog.Int("lines", len(lines)))
	return lines, nil
}

// TextToSpeech synthesizes a single line and stores it as <id>.mp3.
func (s *Services) TextToSpeech(ctx context.Context, text, voiceType string) (models.TTSResponse, error) {
	if s.Synthesizer == nil {
		return models.TTSResponse{}, ErrSynthesizerUnavailable
	}
	voice := s.Voices.For(voiceType)
	id := storage.NewID()
	name := storage.SpeechName(id)

	if err := s.synthesizeTo(ctx, name, text, voice, voiceType); err != nil {
		return models.TTSResponse{}, fmt.Errorf("TTS generation failed: %w", err)
	}
	return models.TTSResponse{
		AudioID:   id,
		AudioURL:  "/audio/" + name,
		VoiceType: voiceType,
		Config:    voice,
		Text:      text,
	}, nil
}

// GeneratePodcast synthesizes every line into a temporary segment, with an
// optional spoken pause after each, and merges them into one MP3. Lines
// that fail to synthesize are skipped; only when none succeed is
// ErrNoSegments returned.
func (s *Services) GeneratePodcast(ctx context.Context, lines []models.DialogueLine) (resp models.PodcastResponse, err error) {
	defer func() { s.metrics.Podcast(ctx, err) }()

	texts := make([]string, len(lines))
	speakable := 0
	for i, line := range lines {
		if texts[i] = segmentText(line.Text); texts[i] != "" {
			speakable++
		}
	}
	if speakable == 0 {
		return resp, ErrNoSegments
	}
	if s.Synthesizer == nil {
		return resp, ErrSynthesizerUnavailable
	}

	podcastID := storage.NewID()
	var parts []string
	defer func() { s.storage.Remove(parts...) }()

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		text := texts[i]
		if text == "" {
			continue
		}

		name := storage.SegmentName(podcastID, i)
		if err := s.synthesizeTo(ctx, name, text, s.Voices.For(string(line.Speaker)), string(line.Speaker)); err != nil {
			s.logger.Warn("skipping segment", slog.Int("index", i),
				slog.String("speaker", string(line.Speaker)), slog.String("error", err.Error()))
			continue
		}
		parts = append(parts, name)

		if s.Voices.PauseText == "" || i == len(lines)-1 {
			continue
		}
		pause := storage.PauseName(podcastID, i)
		if err := s.synthesizeTo(ctx, pause, s.Voices.PauseText, s.Voices.Pause, "PAUSE"); err != nil {
			s.logger.Warn("pause generation failed", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		parts = append(parts, pause)
	}

	if len(parts) == 0 {
		return resp, ErrNoSegments
	}

	name := storage.PodcastName(podcastID)
	res, err := s.merge(name, parts)
	if err != nil {
		s.storage.Remove(name)
		return resp, fmt.Errorf("podcast generation failed: %w", err)
	}
	s.logger.Info("podcast created", slog.String("file", name), slog.Int("parts", len(parts)),
		slog.Int("frames", res.Frames), slog.Int64("bytes", res.Bytes), slog.Duration("duration", res.Duration))

	totalChars := 0
	for _, line := range lines {
		totalChars += len(line.Text)
	}
	return models.PodcastResponse{
		PodcastID:        name,
		PodcastURL:       "/audio/" + name,
		Duration:         float64(totalChars) * secondsPerChar,
		MeasuredDuration: res.Duration.Seconds(),
		Segments:         len(lines),
		Message:          "Podcast generated successfully",
	}, nil
}

// segmentText cleans a line for synthesis. It returns "" for lines too
// short to be worth a TTS call.
func segmentText(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "...", ""))
	if len(text) < minSegmentLen {
		return ""
	}
	return text
}

func (s *Services) merge(name string, parts []string) (audio.Result, error) {
	readers, closeAll, err := s.storage.OpenAll(parts)
	if err != nil {
		return audio.Result{}, err
	}
	defer closeAll()

	out, err := s.storage.Create(name)
	if err != nil {
		return audio.Result{}, err
	}
	res, err := audio.Join(out, readers...)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing %s: %w", name, closeErr)
	}
	return res, err
}

// OpenAudio opens a stored file for serving. The caller closes it.
func (s *Services) OpenAudio(name string) (*os.File, os.FileInfo, error) {
	info, err := s.storage.Stat(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.storage.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

// AudioPath resolves a stored file on disk.
func (s *Services) AudioPath(name string) (string, error) {
	if _, err := s.storage.Stat(name); err != nil {
		return "", err
	}
	return s.storage.Path(name)
}

// Transcribe converts a recorded answer into text.
func (s *Services) Transcribe(ctx context.Context, data []byte, filename string) (string, error) {
	if s.Transcriber == nil {
		return "", ErrTranscriberUnavailable
	}
	text, err := s.Transcriber.Transcribe(ctx, data, filename)
	if err != nil {
		return "", fmt.Errorf("error processing audio: %w", err)
	}
	return text, nil
}

// Prune trims the audio directory to the newest keep artifacts.
func (s *Services) Prune(keep int) ([]string, error) {
	removed, err := s.storage.Prune(keep)
	if err != nil {
		return removed, err
	}
	if len(removed) > 0 {
		s.logger.Info("pruned audio files", slog.Int("removed", len(removed)), slog.Int("kept", keep))
	}
	return removed, nil
}

func (s *Services) synthesize(ctx context.Context, text string, voice models.VoiceProfile, speaker string) ([]byte, error) {
	data, err := s.Synthesizer.Synthesize(ctx, text, voice)
	s.metrics.Segment(ctx, speaker, err)
	return data, err
}

func (s *Services) synthesizeTo(ctx context.Context, name, text string, voice models.VoiceProfile, speaker string) error {
	data, err := s.synthesize(ctx, text, voice, speaker)
	if err != nil {
		return err
	}
	return s.storage.Write(name, data)
}
