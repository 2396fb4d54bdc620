//go:build !portaudio

package listener

import (
	"context"
	"errors"
	"time"

	"github.com/obiente/translate/govoice/internal/audio"
)

// ErrNoMicrophone is returned when the binary was built without the portaudio tag.
var ErrNoMicrophone = errors.New("microphone support not compiled in (build with -tags portaudio)")

type Microphone struct{}

func OpenMicrophone() (*Microphone, error) {
	return nil, ErrNoMicrophone
}

func (m *Microphone) Read(context.Context, time.Duration) (*audio.Clip, error) {
	return nil, ErrNoMicrophone
}

func (m *Microphone) Close() error { return nil }
