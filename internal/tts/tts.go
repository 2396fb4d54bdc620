// Package tts speaks translations through an external text-to-speech engine.
package tts

import (
	"context"
	"errors"

	"github.com/obiente/translate/govoice/internal/lang"
)

// ErrUnavailable is returned when synthesis is disabled or not configured.
var ErrUnavailable = errors.New("speech synthesis unavailable")

// Audio is an encoded utterance.
type Audio struct {
	Data     []byte
	MimeType string
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, code lang.Code) (Audio, error)
}

// Disabled is the Synthesizer used when no engine is configured.
type Disabled struct{}

func (Disabled) Synthesize(context.Context, string, lang.Code) (Audio, error) {
	return Audio{}, ErrUnavailable
}
