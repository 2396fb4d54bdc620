package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/obiente/translate/govoice/internal/lang"
)

// Google is Cloud Text-to-Speech producing MP3.
type Google struct {
	client *texttospeech.Client
}

func NewGoogle(ctx context.Context, credentialsFile string) (*Google, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google tts client: %w", err)
	}
	return &Google{client: c}, nil
}

func (g *Google) Synthesize(ctx context.Context, text string, code lang.Code) (Audio, error) {
	if strings.TrimSpace(text) == "" {
		return Audio{}, fmt.Errorf("synthesize: empty text")
	}
	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: voiceLocale(code),
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return Audio{}, fmt.Errorf("google synthesize: %w", err)
	}
	return Audio{Data: resp.GetAudioContent(), MimeType: "audio/mpeg"}, nil
}

func (g *Google) Close() error {
	return g.client.Close()
}

// voiceLocale maps to the locales Cloud TTS publishes voices for; Mandarin
// voices live under cmn-CN.
func voiceLocale(code lang.Code) string {
	if code == lang.Chinese {
		return "cmn-CN"
	}
	return lang.Locale(code)
}
