//go:build !vosk

package speech

import (
	"context"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

// Vosk needs the vosk build tag (and libvosk); this build only reports that.
type Vosk struct{}

func NewVosk(paths map[lang.Code]string) (*Vosk, error) {
	return nil, ErrNotCompiled
}

func (v *Vosk) Name() string { return "vosk" }

func (v *Vosk) Recognize(context.Context, *audio.Clip, lang.Code) (string, error) {
	return "", ErrNotCompiled
}

func (v *Vosk) Close() error { return nil }
