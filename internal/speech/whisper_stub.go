//go:build !whisper_cpp

package speech

import (
	"context"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

// Whisper needs the whisper_cpp build tag; this build only reports that.
type Whisper struct{}

func NewWhisper(modelPath string, threads int) (*Whisper, error) {
	return nil, ErrNotCompiled
}

func (w *Whisper) Name() string { return "whisper" }

func (w *Whisper) Recognize(context.Context, *audio.Clip, lang.Code) (string, error) {
	return "", ErrNotCompiled
}

func (w *Whisper) Close() error { return nil }
