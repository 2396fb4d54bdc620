// Package audio turns browser and microphone payloads into 16 kHz mono clips
// the speech engines accept.
package audio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// TargetSampleRate is the rate every recognizer is fed.
const TargetSampleRate = 16000

// ErrEmpty is returned when a payload carries no audio.
var ErrEmpty = errors.New("no audio provided")

// Clip is mono float32 PCM in [-1, 1].
type Clip struct {
	Samples    []float32
	SampleRate int
}

// DecodeBase64 decodes standard base64, dropping a data URL prefix
// ("data:audio/wav;base64,") when present.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return nil, ErrEmpty
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 audio: %w", err)
	}
	return b, nil
}

// Decode inflates a WAV blob, or raw PCM16LE at 16 kHz when no RIFF header is
// present, and resamples the result to TargetSampleRate.
func Decode(raw []byte) (*Clip, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	var (
		pcm []float32
		sr  int
		err error
	)
	if IsWAV(raw) {
		pcm, sr, err = DecodeWAV(raw)
	} else {
		pcm, sr, err = DecodePCM16LEToFloat32(raw, TargetSampleRate)
	}
	if err != nil {
		return nil, err
	}
	if sr != TargetSampleRate {
		pcm = ResampleLinear(pcm, sr, TargetSampleRate)
	}
	return &Clip{Samples: pcm, SampleRate: TargetSampleRate}, nil
}

// IsWAV reports whether b starts with a RIFF/WAVE header.
func IsWAV(b []byte) bool {
	return len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE"))
}

// PCM16 returns the clip as little-endian signed 16-bit samples.
func (c *Clip) PCM16() []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		v := uint16(toInt16(s))
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

func (c *Clip) Duration() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// RMS is the root-mean-square energy of the clip.
func (c *Clip) RMS() float64 {
	if c == nil || len(c.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range c.Samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(c.Samples)))
}
