package translation

import (
	"context"
	"fmt"

	googletrans "github.com/Conight/go-googletrans"
)

// GoogleWeb uses the unofficial translate.google.com endpoint. It needs no
// credentials but may be rate limited.
type GoogleWeb struct {
	t *googletrans.Translator
}

func NewGoogleWeb(proxy string) *GoogleWeb {
	return &GoogleWeb{t: googletrans.New(googletrans.Config{Proxy: proxy})}
}

func (g *GoogleWeb) Name() string { return "googletrans" }

func (g *GoogleWeb) Translate(ctx context.Context, text, source, target string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		r, err := g.t.Translate(text, webCode(source), webCode(target))
		if err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{text: r.Text}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("googletrans: %w", r.err)
		}
		return r.text, nil
	}
}

// webCode maps ISO codes to the ones the web endpoint expects.
func webCode(c string) string {
	if c == "zh" {
		return "zh-cn"
	}
	if c == "" {
		return "auto"
	}
	return c
}
