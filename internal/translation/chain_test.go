package translation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTranslator struct {
	name  string
	out   string
	err   error
	calls atomic.Int32
	fn    func(ctx context.Context) (string, error)
}

func (f *fakeTranslator) Name() string { return f.name }

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(ctx)
	}
	return f.out, f.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	a := &fakeTranslator{name: "a", out: "hello"}
	b := &fakeTranslator{name: "b", out: "other"}
	c := NewChain(time.Second, a, b)

	res := c.Detailed(context.Background(), "你好", "zh", "en")
	if res.Text != "hello" || res.Backend != "a" {
		t.Fatalf("got %+v", res)
	}
	if b.calls.Load() != 0 {
		t.Error("second backend should not be called")
	}
}

func TestChain_FallsThroughErrorsAndPlaceholders(t *testing.T) {
	a := &fakeTranslator{name: "a", err: errors.New("down")}
	b := &fakeTranslator{name: "b", out: "[No translation path available]"}
	c := &fakeTranslator{name: "c", out: "  "}
	d := &fakeTranslator{name: "d", out: "你好"}
	chain := NewChain(0, a, b, c, d)

	res := chain.Detailed(context.Background(), "hello", "en", "zh")
	if res.Text != "你好" || res.Backend != "d" {
		t.Fatalf("got %+v", res)
	}
	if len(res.Errors) != 3 {
		t.Errorf("got %d errors, want 3", len(res.Errors))
	}
}

func TestChain_AllFailYieldsPlaceholder(t *testing.T) {
	chain := NewChain(0,
		&fakeTranslator{name: "a", err: errors.New("down")},
		&fakeTranslator{name: "b", fn: func(context.Context) (string, error) { panic("boom") }},
	)
	got, err := chain.Translate(context.Background(), "hello", "en", "zh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Unavailable {
		t.Errorf("got %q, want %q", got, Unavailable)
	}
	if Unavailable != "[Translation unavailable]" {
		t.Errorf("placeholder changed: %q", Unavailable)
	}
}

func TestChain_EmptyTextSkipsBackends(t *testing.T) {
	a := &fakeTranslator{name: "a", out: "x"}
	got, _ := NewChain(0, a).Translate(context.Background(), "   ", "zh", "en")
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if a.calls.Load() != 0 {
		t.Error("backend called for empty text")
	}
}

func TestChain_NoBackends(t *testing.T) {
	got, _ := NewChain(0).Translate(context.Background(), "hi", "en", "zh")
	if got != Unavailable {
		t.Errorf("got %q", got)
	}
}

func TestChain_PerBackendTimeout(t *testing.T) {
	slow := &fakeTranslator{name: "slow", fn: func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	fast := &fakeTranslator{name: "fast", out: "ok"}
	res := NewChain(20*time.Millisecond, slow, fast).Detailed(context.Background(), "hi", "en", "zh")
	if res.Backend != "fast" {
		t.Fatalf("got %+v", res)
	}
	if !errors.Is(res.Errors[0], context.DeadlineExceeded) {
		t.Errorf("first error = %v, want deadline exceeded", res.Errors[0])
	}
}

func TestChain_Backends(t *testing.T) {
	c := NewChain(0, &fakeTranslator{name: "mymemory"}, &fakeTranslator{name: "libretranslate"})
	names := c.Backends()
	if len(names) != 2 || names[0] != "mymemory" || names[1] != "libretranslate" {
		t.Errorf("Backends() = %v", names)
	}
}
