// Package speech wraps external speech recognizers, offline and cloud, and
// chains them in a fixed priority order.
package speech

import (
	"context"
	"errors"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

var (
	// ErrNoRecognizer is returned when no backend is configured or loaded.
	ErrNoRecognizer = errors.New("no speech recognizer available")
	// ErrNotUnderstood is returned when every backend produced empty text.
	ErrNotUnderstood = errors.New("could not understand audio")
	// ErrModelNotLoaded is returned by offline engines lacking a model for the language.
	ErrModelNotLoaded = errors.New("speech model not loaded")
	// ErrNotCompiled is returned by constructors of cgo engines built without their tag.
	ErrNotCompiled = errors.New("engine not compiled in")
)

// Recognizer transcribes a 16 kHz mono clip spoken in lang.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, clip *audio.Clip, lang lang.Code) (string, error)
}

// Closer is implemented by recognizers holding native or network resources.
type Closer interface {
	Close() error
}
