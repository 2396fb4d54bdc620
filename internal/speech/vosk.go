//go:build vosk

package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	vosk "github.com/alphacep/vosk-api/go"
	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

// Vosk runs offline Kaldi models, one per language.
type Vosk struct {
	models map[lang.Code]*vosk.VoskModel
}

// NewVosk loads every model whose directory exists. It fails only when none load.
func NewVosk(paths map[lang.Code]string) (*Vosk, error) {
	vosk.SetLogLevel(-1)
	v := &Vosk{models: make(map[lang.Code]*vosk.VoskModel)}
	var errs []error
	for code, path := range paths {
		if path == "" {
			continue
		}
		m, err := vosk.NewModel(path)
		if err != nil {
			log.Warn().Err(err).Str("language", string(code)).Str("path", path).Msg("vosk: model not loaded")
			errs = append(errs, fmt.Errorf("%s: %w", code, err))
			continue
		}
		log.Info().Str("language", string(code)).Str("path", path).Msg("vosk: model loaded")
		v.models[code] = m
	}
	if len(v.models) == 0 {
		return nil, fmt.Errorf("vosk: no models loaded: %w", errors.Join(append(errs, ErrModelNotLoaded)...))
	}
	return v, nil
}

func (v *Vosk) Name() string { return "vosk" }

func (v *Vosk) Recognize(ctx context.Context, clip *audio.Clip, code lang.Code) (string, error) {
	m, ok := v.models[code]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModelNotLoaded, code)
	}
	rec, err := vosk.NewRecognizer(m, float64(clip.SampleRate))
	if err != nil {
		return "", fmt.Errorf("vosk recognizer: %w", err)
	}
	defer rec.Free()

	pcm := clip.PCM16()
	const chunk = 8000 // 250ms of PCM16 at 16 kHz
	for off := 0; off < len(pcm); off += chunk {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		end := min(off+chunk, len(pcm))
		rec.AcceptWaveform(pcm[off:end])
	}

	var res struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(rec.FinalResult(), &res); err != nil {
		return "", fmt.Errorf("vosk result: %w", err)
	}
	return res.Text, nil
}

func (v *Vosk) Close() error {
	for _, m := range v.models {
		m.Free()
	}
	return nil
}
