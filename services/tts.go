package services

import (
	"context"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/srgchrksv/ieltspodcaster/models"
)

// GoogleTTS synthesizes MP3 speech with Cloud Text-to-Speech.
type GoogleTTS struct {
	client *texttospeech.Client
}

func NewGoogleTTS(client *texttospeech.Client) *GoogleTTS {
	return &GoogleTTS{client: client}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text string, voice models.VoiceProfile) ([]byte, error) {
	req := texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		// the language code carries the accent: en-GB for the examiner,
		// en-US for the candidate
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			SsmlGender:   ssmlGender(voice.Gender),
			Name:         voice.Name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  voice.SpeakingRate,
		},
	}

	resp, err := g.client.SynthesizeSpeech(ctx, &req)
	if err != nil {
		return nil, err
	}
	return resp.AudioContent, nil
}

func ssmlGender(g string) texttospeechpb.SsmlVoiceGender {
	switch strings.ToLower(g) {
	case "male":
		return texttospeechpb.SsmlVoiceGender_MALE
	case "female":
		return texttospeechpb.SsmlVoiceGender_FEMALE
	case "neutral":
		return texttospeechpb.SsmlVoiceGender_NEUTRAL
	}
	return texttospeechpb.SsmlVoiceGender_SSML_VOICE_GENDER_UNSPECIFIED
}
