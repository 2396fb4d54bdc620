package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
)

type fakeRecognizer struct {
	name   string
	text   string
	err    error
	calls  int
	gotLng lang.Code
	closed bool
}

func (f *fakeRecognizer) Name() string { return f.name }

func (f *fakeRecognizer) Recognize(ctx context.Context, clip *audio.Clip, code lang.Code) (string, error) {
	f.calls++
	f.gotLng = code
	return f.text, f.err
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

var silence = &audio.Clip{Samples: make([]float32, audio.TargetSampleRate), SampleRate: audio.TargetSampleRate}

func TestChain_FirstTranscriptWins(t *testing.T) {
	a := &fakeRecognizer{name: "vosk", err: ErrModelNotLoaded}
	b := &fakeRecognizer{name: "whisper", text: "  你好 "}
	c := &fakeRecognizer{name: "google", text: "unused"}

	got, err := NewChain(time.Second, a, b, c).Recognize(context.Background(), silence, lang.Chinese)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "你好" {
		t.Errorf("got %q", got)
	}
	if b.gotLng != lang.Chinese {
		t.Errorf("language passed = %q", b.gotLng)
	}
	if c.calls != 0 {
		t.Error("later recognizer should not run")
	}
}

func TestChain_EmptyTranscripts(t *testing.T) {
	chain := NewChain(0,
		&fakeRecognizer{name: "a", err: errors.New("network down")},
		&fakeRecognizer{name: "b", text: ""},
	)
	if _, err := chain.Recognize(context.Background(), silence, lang.English); !errors.Is(err, ErrNotUnderstood) {
		t.Errorf("got %v, want ErrNotUnderstood", err)
	}
}

func TestChain_AllErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	chain := NewChain(0, &fakeRecognizer{name: "google", err: boom})
	_, err := chain.Recognize(context.Background(), silence, lang.English)
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped backend error", err)
	}
}

func TestChain_Empty(t *testing.T) {
	if _, err := NewChain(0).Recognize(context.Background(), silence, lang.English); !errors.Is(err, ErrNoRecognizer) {
		t.Errorf("got %v, want ErrNoRecognizer", err)
	}
}

func TestChain_Close(t *testing.T) {
	a := &fakeRecognizer{name: "a"}
	b := &fakeRecognizer{name: "b"}
	chain := NewChain(0, a, b)
	if err := chain.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.closed || !b.closed {
		t.Error("recognizers not closed")
	}
	if names := chain.Backends(); len(names) != 2 || names[0] != "a" {
		t.Errorf("Backends() = %v", names)
	}
}

func TestOfflineStubs(t *testing.T) {
	// Default builds carry no cgo engines.
	if _, err := NewVosk(map[lang.Code]string{lang.English: "/nonexistent"}); err == nil {
		t.Skip("built with vosk tag")
	} else if !errors.Is(err, ErrNotCompiled) && !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("NewVosk error = %v", err)
	}
}
