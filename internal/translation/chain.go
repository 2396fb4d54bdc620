package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Result describes one chain run.
type Result struct {
	Text    string
	Backend string // empty when every backend failed
	Errors  []error
}

// Chain tries its backends in order until one returns a usable translation.
type Chain struct {
	backends []Translator
	timeout  time.Duration
}

// NewChain keeps the given order. timeout bounds each backend call; zero
// means only the caller's context applies.
func NewChain(timeout time.Duration, backends ...Translator) *Chain {
	return &Chain{backends: backends, timeout: timeout}
}

func (c *Chain) Name() string { return "chain" }

// Backends returns backend names in priority order.
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

func (c *Chain) Len() int { return len(c.backends) }

// Translate never returns an error: empty input yields "" and total failure
// yields Unavailable.
func (c *Chain) Translate(ctx context.Context, text, source, target string) (string, error) {
	return c.Detailed(ctx, text, source, target).Text, nil
}

func (c *Chain) Detailed(ctx context.Context, text, source, target string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}
	var res Result
	for _, b := range c.backends {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, ctx.Err())
			break
		}
		out, err := c.try(ctx, b, text, source, target)
		if err != nil {
			log.Warn().Err(err).Str("backend", b.Name()).Str("source", source).Str("target", target).Msg("translation backend failed")
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		res.Text = out
		res.Backend = b.Name()
		log.Debug().Str("backend", b.Name()).Int("chars", len(text)).Msg("translated")
		return res
	}
	res.Text = Unavailable
	return res
}

var errUnusable = errors.New("empty or placeholder result")

func (c *Chain) try(ctx context.Context, b Translator, text, source, target string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	out, err = b.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" || IsPlaceholder(out) {
		return "", errUnusable
	}
	return out, nil
}
