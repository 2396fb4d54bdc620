//go:build whisper_cpp

package speech

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

// Whisper is the whisper.cpp-backed offline recognizer. One multilingual
// model serves both languages.
type Whisper struct {
	model   whisperpkg.Model
	threads uint
	mu      sync.Mutex // whisper.cpp contexts must not run concurrently on one model
}

func NewWhisper(modelPath string, threads int) (*Whisper, error) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	m, err := whisperpkg.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model: %w", err)
	}
	log.Info().Str("model", modelPath).Int("threads", threads).Msg("whisper: model loaded")
	return &Whisper{model: m, threads: uint(threads)}, nil
}

func (w *Whisper) Name() string { return "whisper" }

func (w *Whisper) Recognize(ctx context.Context, clip *audio.Clip, code lang.Code) (string, error) {
	samples := clip.Samples
	// shorter than 100ms is noise
	if len(samples) < audio.TargetSampleRate/10 {
		return "", nil
	}
	const maxSamples = 30 * audio.TargetSampleRate
	if len(samples) > maxSamples {
		log.Warn().Int("samples", len(samples)).Int("max", maxSamples).Msg("whisper: truncating long audio")
		samples = samples[len(samples)-maxSamples:]
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}
	wctx.SetThreads(w.threads)
	if err := wctx.SetLanguage(string(code)); err != nil {
		return "", fmt.Errorf("set language %s: %w", code, err)
	}
	wctx.SetTranslate(false)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var segments []string
	for {
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("whisper: error reading segment")
			break
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			segments = append(segments, text)
		}
	}
	sep := " "
	if code == lang.Chinese {
		sep = ""
	}
	return strings.Join(segments, sep), nil
}

func (w *Whisper) Close() error {
	if w.model != nil {
		return w.model.Close()
	}
	return nil
}
