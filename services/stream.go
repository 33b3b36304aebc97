package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/srgchrksv/ieltspodcaster/models"
)

// StreamPodcast plays a dialogue over a websocket: each line is sent as a
// "SPEAKER: text" text frame followed by its audio as a binary frame.
// Lines that fail to synthesize keep their text frame and lose the audio.
func (s *Services) StreamPodcast(ctx context.Context, conn *websocket.Conn, lines []models.DialogueLine) error {
	if s.Synthesizer == nil {
		return ErrSynthesizerUnavailable
	}
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := segmentText(line.Text)
		if text == "" {
			continue
		}

		err := conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("%s: %s", line.Speaker, text)))
		if err != nil {
			return fmt.Errorf("error writing ws message: %w", err)
		}

		audio, err := s.synthesize(ctx, text, s.Voices.For(string(line.Speaker)), string(line.Speaker))
		if err != nil {
			s.logger.Warn("stream segment failed", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
			return fmt.Errorf("error writing ws binary message: %w", err)
		}
	}
	return nil
}
