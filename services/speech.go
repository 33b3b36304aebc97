package services

import (
	"context"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleSpeech transcribes candidate recordings with Cloud Speech-to-Text.
type GoogleSpeech struct {
	client       *speech.Client
	languageCode string
}

func NewGoogleSpeech(client *speech.Client, languageCode string) *GoogleSpeech {
	return &GoogleSpeech{client: client, languageCode: languageCode}
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	encoding, sampleRate := recognitionEncoding(filename)
	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            sampleRate,
			LanguageCode:               g.languageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", err
	}

	// keep the top alternative of each result
	var transcriptions []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcriptions = append(transcriptions, result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(transcriptions, " ")), nil
}

// recognitionEncoding maps a file extension to the recognizer encoding.
// WAV and FLAC carry their sample rate in the header, so it is left unset.
func recognitionEncoding(filename string) (speechpb.RecognitionConfig_AudioEncoding, int32) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return speechpb.RecognitionConfig_MP3, 16000
	case ".webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, 48000
	case ".ogg", ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS, 48000
	case ".wav":
		return speechpb.RecognitionConfig_LINEAR16, 0
	case ".flac":
		return speechpb.RecognitionConfig_FLAC, 0
	}
	return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0
}
