package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/config"
	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/speech"
	"github.com/obiente/translate/govoice/internal/translation"
	"github.com/obiente/translate/govoice/internal/tts"
)

// Build constructs every configured backend. A backend that fails to
// initialize is logged and left out; Build itself only fails on a broken cache.
func Build(ctx context.Context, cfg config.Config) (*Service, error) {
	var closers []func() error

	var translators []translation.Translator
	for _, name := range cfg.TranslationBackends {
		t, closer, err := newTranslator(ctx, cfg, name)
		if err != nil {
			skipped(err, name, "translation backend unavailable")
			continue
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		translators = append(translators, t)
	}
	var translator translation.Translator = translation.NewChain(cfg.TranslationTimeout, translators...)
	if cfg.CacheDir != "" {
		cache, err := translation.NewCache(translator, translation.CacheOptions{Dir: cfg.CacheDir})
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		closers = append(closers, cache.Close)
		translator = cache
	}

	var recognizers []speech.Recognizer
	for _, name := range cfg.RecognitionBackends {
		r, err := newRecognizer(ctx, cfg, name)
		if err != nil {
			skipped(err, name, "speech backend unavailable")
			continue
		}
		if c, ok := r.(speech.Closer); ok {
			closers = append(closers, c.Close)
		}
		recognizers = append(recognizers, r)
	}

	var synth tts.Synthesizer
	if cfg.TTSEnabled {
		g, err := newSynthesizer(ctx, cfg)
		if err != nil {
			skipped(err, "google", "speech synthesis unavailable")
		} else {
			closers = append(closers, g.Close)
			synth = g
		}
	}

	s := New(Options{
		Recognizer:  speech.NewChain(cfg.RecognitionTimeout, recognizers...),
		Translator:  translator,
		Synthesizer: synth,
		ModelPaths:  cfg.ModelPaths(),
		Closers:     closers,
	})
	log.Info().
		Strs("translation", s.translationBackends).
		Strs("speech", s.speechBackends).
		Bool("tts", s.ttsEnabled).
		Bool("cache", cfg.CacheDir != "").
		Msg("pipeline ready")
	return s, nil
}

func newTranslator(ctx context.Context, cfg config.Config, name string) (translation.Translator, func() error, error) {
	switch name {
	case "mymemory":
		return translation.NewMyMemory(cfg.MyMemoryEmail, cfg.TranslationTimeout), nil, nil
	case "libretranslate":
		return translation.NewLibreTranslate(cfg.LibreTranslateURL, cfg.LibreTranslateAPIKey, cfg.TranslationTimeout), nil, nil
	case "googletrans":
		return translation.NewGoogleWeb(cfg.HTTPProxy), nil, nil
	case "google":
		if cfg.GoogleCredentials == "" {
			return nil, nil, errNotConfigured
		}
		g, err := translation.NewGoogleCloud(ctx, cfg.GoogleCredentials)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "aws":
		if cfg.AWSRegion == "" {
			return nil, nil, errNotConfigured
		}
		a, err := translation.NewAmazon(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		return a, nil, nil
	}
	return nil, nil, &unknownBackendError{name}
}

func newRecognizer(ctx context.Context, cfg config.Config, name string) (speech.Recognizer, error) {
	switch name {
	case "vosk":
		return speech.NewVosk(map[lang.Code]string{
			lang.English: cfg.VoskModelEN,
			lang.Chinese: cfg.VoskModelZH,
		})
	case "whisper":
		return speech.NewWhisper(cfg.WhisperModelPath, cfg.WhisperThreads)
	case "google":
		if cfg.GoogleCredentials == "" {
			return nil, errNotConfigured
		}
		return speech.NewGoogle(ctx, cfg.GoogleCredentials)
	}
	return nil, &unknownBackendError{name}
}

func newSynthesizer(ctx context.Context, cfg config.Config) (*tts.Google, error) {
	if cfg.GoogleCredentials == "" {
		return nil, errNotConfigured
	}
	return tts.NewGoogle(ctx, cfg.GoogleCredentials)
}

// errNotConfigured marks a cloud backend whose credentials or region are unset.
var errNotConfigured = errors.New("not configured")

func skipped(err error, backend, msg string) {
	ev := log.Warn()
	if errors.Is(err, errNotConfigured) {
		ev = log.Debug()
	}
	ev.Err(err).Str("backend", backend).Msg(msg)
}

type unknownBackendError struct{ name string }

func (e *unknownBackendError) Error() string { return "unknown backend " + e.name }

func closeAll(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]()
	}
}
