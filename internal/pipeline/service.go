// Package pipeline is the service object behind every front end: it owns the
// recognizer chain, translator and synthesizer and runs
// audio -> text -> translation -> speech.
package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/models"
	"github.com/obiente/translate/govoice/internal/speech"
	"github.com/obiente/translate/govoice/internal/translation"
	"github.com/obiente/translate/govoice/internal/tts"
)

// Service is built once at startup and shared by all connections.
type Service struct {
	recognizer  speech.Recognizer
	translator  translation.Translator
	synthesizer tts.Synthesizer

	speechBackends      []string
	translationBackends []string
	modelPaths          map[string]string
	ttsEnabled          bool
	closers             []func() error
}

// Options wires a Service. Nil fields fall back to disabled implementations.
type Options struct {
	Recognizer  speech.Recognizer
	Translator  translation.Translator
	Synthesizer tts.Synthesizer
	// ModelPaths maps catalog ids (vosk-en, vosk-zh, whisper) to configured paths.
	ModelPaths map[string]string
	Closers    []func() error
}

func New(opts Options) *Service {
	s := &Service{
		recognizer:  opts.Recognizer,
		translator:  opts.Translator,
		synthesizer: opts.Synthesizer,
		modelPaths:  opts.ModelPaths,
		closers:     opts.Closers,
	}
	if s.recognizer == nil {
		s.recognizer = speech.NewChain(0)
	}
	if s.translator == nil {
		s.translator = translation.NewChain(0)
	}
	if s.synthesizer == nil {
		s.synthesizer = tts.Disabled{}
	} else if _, off := s.synthesizer.(tts.Disabled); !off {
		s.ttsEnabled = true
	}
	if s.modelPaths == nil {
		s.modelPaths = map[string]string{}
	}
	s.speechBackends = backendNames(s.recognizer)
	s.translationBackends = backendNames(s.translator)
	return s
}

type named interface {
	Name() string
}

func backendNames(v named) []string {
	if b, ok := v.(interface{ Backends() []string }); ok {
		return b.Backends()
	}
	return []string{v.Name()}
}

func (s *Service) TranslationReady() bool {
	if c, ok := s.translator.(interface{ Len() int }); ok {
		return c.Len() > 0
	}
	return true
}

func (s *Service) SpeechReady() bool {
	if c, ok := s.recognizer.(interface{ Len() int }); ok {
		return c.Len() > 0
	}
	return true
}

// TranslateText translates req.Text; an empty text is reported as an error
// result, never sent to a backend.
func (s *Service) TranslateText(ctx context.Context, req TextRequest) Result {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{Error: ErrNoText}
	}
	src, tgt := req.languages()
	translated := s.translate(ctx, text, src, tgt)
	res := Result{
		Original:   text,
		Translated: translated,
		SourceLang: src,
		TargetLang: tgt,
	}
	if req.Speak {
		s.attachSpeech(ctx, &res)
	}
	return res
}

// RecognizeSpeech transcribes a base64 (optionally data-URL) audio payload.
func (s *Service) RecognizeSpeech(ctx context.Context, req SpeechRequest) Recognition {
	code := req.Language
	if code == "" {
		code = lang.English
	}
	clip, msg := decodeAudio(req.Audio)
	if msg != "" {
		return Recognition{Error: msg}
	}
	text, err := s.recognizer.Recognize(ctx, clip, code)
	if err != nil {
		return Recognition{Error: recognitionMessage(err), Language: code}
	}
	return Recognition{Text: text, Language: code}
}

// TranslateAudio recognizes req.Audio in the source language and translates it.
func (s *Service) TranslateAudio(ctx context.Context, req AudioRequest) Result {
	src, tgt := req.languages()
	clip, msg := decodeAudio(req.Audio)
	if msg != "" {
		return Result{Error: msg}
	}
	log.Debug().Dur("duration", clip.Duration()).Str("source", string(src)).Str("target", string(tgt)).Msg("translating audio")

	text, err := s.recognizer.Recognize(ctx, clip, src)
	if err != nil && !errors.Is(err, speech.ErrNotUnderstood) {
		return Result{Error: recognitionMessage(err)}
	}
	text = strings.TrimSpace(text)
	if text == "" || translation.IsPlaceholder(text) {
		return Result{Error: ErrNotRecognized, Original: text}
	}

	res := Result{
		Original:   text,
		Translated: s.translate(ctx, text, src, tgt),
		SourceLang: src,
		TargetLang: tgt,
	}
	if req.Speak {
		s.attachSpeech(ctx, &res)
	}
	return res
}

// Translate runs the translator for callers that already hold text (CLI, listener).
func (s *Service) Translate(ctx context.Context, text string, d lang.Direction) string {
	return s.translate(ctx, text, d.Source(), d.Target())
}

// Recognize runs the recognizer chain on a decoded clip.
func (s *Service) Recognize(ctx context.Context, clip *audio.Clip, code lang.Code) (string, error) {
	return s.recognizer.Recognize(ctx, clip, code)
}

// Speak synthesizes text in code.
func (s *Service) Speak(ctx context.Context, text string, code lang.Code) (tts.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return tts.Audio{}, errors.New(ErrNoText)
	}
	return s.synthesizer.Synthesize(ctx, text, code)
}

func (s *Service) translate(ctx context.Context, text string, src, tgt lang.Code) string {
	out, err := s.translator.Translate(ctx, text, string(src), string(tgt))
	if err != nil {
		log.Warn().Err(err).Msg("translation failed")
		return translation.Unavailable
	}
	if strings.TrimSpace(out) == "" {
		return translation.Unavailable
	}
	return out
}

func (s *Service) attachSpeech(ctx context.Context, res *Result) {
	if translation.IsPlaceholder(res.Translated) {
		return
	}
	a, err := s.synthesizer.Synthesize(ctx, res.Translated, res.TargetLang)
	if err != nil {
		if !errors.Is(err, tts.ErrUnavailable) {
			log.Warn().Err(err).Msg("speech synthesis failed")
		}
		return
	}
	res.Audio = base64.StdEncoding.EncodeToString(a.Data)
	res.MimeType = a.MimeType
}

// Health reports readiness and, for every configured model, whether it exists on disk.
func (s *Service) Health() Health {
	h := Health{
		Status:            "healthy",
		VoskEN:            models.Installed(s.modelPaths["vosk-en"]),
		VoskZH:            models.Installed(s.modelPaths["vosk-zh"]),
		Whisper:           models.Installed(s.modelPaths["whisper"]),
		Translation:       s.TranslationReady(),
		SpeechRecognition: s.SpeechReady(),
		TTS:               s.ttsEnabled,
		Backends: Backends{
			Translation: s.translationBackends,
			Speech:      s.speechBackends,
		},
	}
	return h
}

func (s *Service) Status() Status {
	h := s.Health()
	return Status{
		TranslationReady: h.Translation,
		SpeechReady:      h.SpeechRecognition,
		TTSReady:         h.TTS,
		Models: ModelStatus{
			SpeechEN: h.VoskEN,
			SpeechZH: h.VoskZH,
			Whisper:  h.Whisper,
		},
	}
}

// Close releases engine handles in reverse construction order.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func decodeAudio(payload string) (*audio.Clip, string) {
	if strings.TrimSpace(payload) == "" {
		return nil, ErrNoAudio
	}
	raw, err := audio.DecodeBase64(payload)
	if err != nil {
		if errors.Is(err, audio.ErrEmpty) {
			return nil, ErrNoAudio
		}
		return nil, ErrBadEncoding
	}
	clip, err := audio.Decode(raw)
	if err != nil {
		log.Warn().Err(err).Int("bytes", len(raw)).Msg("audio decode failed")
		return nil, ErrBadAudio
	}
	return clip, ""
}

func recognitionMessage(err error) string {
	switch {
	case errors.Is(err, speech.ErrNotUnderstood):
		return ErrNotUnderstood
	case errors.Is(err, speech.ErrNoRecognizer):
		return ErrNoModel
	default:
		return "Recognition service error: " + err.Error()
	}
}
