// Package listener runs the terminal listen-loop: read a phrase from the
// microphone, recognize it, translate it, hand both to a callback.
package listener

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/speech"
)

// Placeholders delivered in place of a translation.
const (
	NotUnderstood = "[Could not understand audio]"
	ErrorFormat   = "[Recognition service error: %v]"
	MicFormat     = "[Microphone error: %v]"
)

var ErrRunning = errors.New("listener already running")

// Source yields mono 16 kHz clips of the requested length.
type Source interface {
	Read(ctx context.Context, d time.Duration) (*audio.Clip, error)
}

// Engine is the part of the pipeline the loop drives.
type Engine interface {
	Recognize(ctx context.Context, clip *audio.Clip, code lang.Code) (string, error)
	Translate(ctx context.Context, text string, d lang.Direction) string
}

// Callback receives each phrase. original is empty when translated is a placeholder.
type Callback func(original, translated string)

type Options struct {
	Direction lang.Direction
	// Calibration is read once before the loop to measure ambient noise.
	Calibration time.Duration
	// Phrase is the length of each read.
	Phrase time.Duration
	// Floor is the minimum RMS threshold.
	Floor float64
}

type Listener struct {
	src    Source
	engine Engine
	opts   Options

	running   atomic.Bool
	done      chan struct{}
	mu        sync.Mutex
	threshold float64
}

func New(src Source, engine Engine, opts Options) *Listener {
	if opts.Direction == "" {
		opts.Direction = lang.DefaultDirection
	}
	if opts.Calibration <= 0 {
		opts.Calibration = time.Second
	}
	if opts.Phrase <= 0 {
		opts.Phrase = 5 * time.Second
	}
	if opts.Floor <= 0 {
		opts.Floor = 0.01
	}
	return &Listener{src: src, engine: engine, opts: opts}
}

// Start launches the loop. It returns ErrRunning while a previous loop,
// stopped or not, has yet to exit.
func (l *Listener) Start(ctx context.Context, cb Callback) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		select {
		case <-l.done:
		default:
			return ErrRunning
		}
	}
	l.running.Store(true)
	done := make(chan struct{})
	l.done = done
	go func() {
		defer close(done)
		defer l.running.Store(false)
		l.run(ctx, cb)
	}()
	return nil
}

// Stop clears the keep-listening flag; the loop exits after the current phrase.
// Wait on Done before starting again.
func (l *Listener) Stop() {
	l.running.Store(false)
}

func (l *Listener) Running() bool {
	return l.running.Load()
}

// Done is closed when the most recently started loop has exited.
func (l *Listener) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return l.done
}

// Threshold is the RMS level below which phrases are skipped.
func (l *Listener) Threshold() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.threshold
}

func (l *Listener) run(ctx context.Context, cb Callback) {
	ambient, err := l.src.Read(ctx, l.opts.Calibration)
	if err != nil {
		if ctx.Err() == nil {
			cb("", fmt.Sprintf(MicFormat, err))
		}
		return
	}
	th := math.Max(ambient.RMS()*1.5, l.opts.Floor)
	l.mu.Lock()
	l.threshold = th
	l.mu.Unlock()
	log.Info().Float64("ambient", ambient.RMS()).Float64("threshold", th).Str("direction", l.opts.Direction.Label()).Msg("listening")

	src := l.opts.Direction.Source()
	for l.running.Load() && ctx.Err() == nil {
		clip, err := l.src.Read(ctx, l.opts.Phrase)
		if err != nil {
			if ctx.Err() == nil {
				cb("", fmt.Sprintf(MicFormat, err))
			}
			return
		}
		if clip.RMS() < th {
			continue
		}
		text, err := l.engine.Recognize(ctx, clip, src)
		switch {
		case errors.Is(err, speech.ErrNotUnderstood) || (err == nil && text == ""):
			cb("", NotUnderstood)
			continue
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			cb("", fmt.Sprintf(ErrorFormat, err))
			continue
		}
		cb(text, l.engine.Translate(ctx, text, l.opts.Direction))
	}
}
