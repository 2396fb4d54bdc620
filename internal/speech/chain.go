package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

// Chain asks each recognizer in order and returns the first non-empty transcript.
type Chain struct {
	recognizers []Recognizer
	timeout     time.Duration
}

func NewChain(timeout time.Duration, recognizers ...Recognizer) *Chain {
	return &Chain{recognizers: recognizers, timeout: timeout}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Len() int { return len(c.recognizers) }

func (c *Chain) Backends() []string {
	names := make([]string, len(c.recognizers))
	for i, r := range c.recognizers {
		names[i] = r.Name()
	}
	return names
}

func (c *Chain) Recognize(ctx context.Context, clip *audio.Clip, code lang.Code) (string, error) {
	if len(c.recognizers) == 0 {
		return "", ErrNoRecognizer
	}
	var (
		lastErr error
		heard   bool
	)
	for _, r := range c.recognizers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := c.try(ctx, r, clip, code)
		if err != nil {
			log.Warn().Err(err).Str("backend", r.Name()).Str("language", string(code)).Msg("speech backend failed")
			lastErr = fmt.Errorf("%s: %w", r.Name(), err)
			continue
		}
		if text == "" {
			heard = true
			log.Debug().Str("backend", r.Name()).Msg("speech backend returned no text")
			continue
		}
		log.Debug().Str("backend", r.Name()).Str("text", text).Msg("speech recognized")
		return text, nil
	}
	if heard {
		return "", ErrNotUnderstood
	}
	return "", lastErr
}

func (c *Chain) try(ctx context.Context, r Recognizer, clip *audio.Clip, code lang.Code) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	text, err = r.Recognize(ctx, clip, code)
	return strings.TrimSpace(text), err
}

// Close releases every recognizer that holds resources.
func (c *Chain) Close() error {
	var errs []error
	for _, r := range c.recognizers {
		if cl, ok := r.(Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
