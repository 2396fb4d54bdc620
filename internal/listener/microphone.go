//go:build portaudio

package listener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/obiente/translate/govoice/internal/audio"
)

const framesPerBuffer = 1024

// Microphone reads the default input device at 16 kHz mono.
type Microphone struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buf    []float32
}

func OpenMicrophone() (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	m := &Microphone{buf: make([]float32, framesPerBuffer)}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(audio.TargetSampleRate), framesPerBuffer, m.buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	m.stream = stream
	return m, nil
}

func (m *Microphone) Read(ctx context.Context, d time.Duration) (*audio.Clip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := int(d.Seconds() * audio.TargetSampleRate)
	out := make([]float32, 0, want)
	for len(out) < want {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.stream.Read(); err != nil {
			return nil, err
		}
		out = append(out, m.buf...)
	}
	return &audio.Clip{Samples: out, SampleRate: audio.TargetSampleRate}, nil
}

func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.stream.Stop()
	if cerr := m.stream.Close(); err == nil {
		err = cerr
	}
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
