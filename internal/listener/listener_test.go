package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/obiente/translate/govoice/internal/audio"
	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/speech"
)

func level(v float32) *audio.Clip {
	s := make([]float32, 1600)
	for i := range s {
		s[i] = v
	}
	return &audio.Clip{Samples: s, SampleRate: audio.TargetSampleRate}
}

type fakeSource struct {
	mu    sync.Mutex
	clips []*audio.Clip
	// forever repeats the last clip instead of failing once clips run out.
	forever bool
	block   bool
}

func (f *fakeSource) Read(ctx context.Context, _ time.Duration) (*audio.Clip, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clips) == 0 {
		return nil, errors.New("device gone")
	}
	c := f.clips[0]
	if len(f.clips) > 1 || !f.forever {
		f.clips = f.clips[1:]
	}
	return c, nil
}

type step struct {
	text string
	err  error
}

type fakeEngine struct {
	mu    sync.Mutex
	steps []step
	calls int
	langs []lang.Code
}

func (f *fakeEngine) Recognize(_ context.Context, _ *audio.Clip, code lang.Code) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.langs = append(f.langs, code)
	if len(f.steps) == 0 {
		return "again", nil
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	return s.text, s.err
}

func (f *fakeEngine) Translate(_ context.Context, text string, d lang.Direction) string {
	return d.String() + ":" + text
}

type recorder struct {
	mu  sync.Mutex
	got [][2]string
}

func (r *recorder) cb(original, translated string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, [2]string{original, translated})
}

func wait(t *testing.T, l *Listener) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestListener_Placeholders(t *testing.T) {
	src := &fakeSource{clips: []*audio.Clip{level(0.01), level(0.5), level(0.005), level(0.5), level(0.5)}}
	eng := &fakeEngine{steps: []step{
		{text: "你好"},
		{err: speech.ErrNotUnderstood},
		{err: errors.New("quota")},
	}}
	var rec recorder
	l := New(src, eng, Options{Direction: lang.ZhToEn})

	if err := l.Start(context.Background(), rec.cb); err != nil {
		t.Fatal(err)
	}
	wait(t, l)

	want := [][2]string{
		{"你好", "zh-en:你好"},
		{"", NotUnderstood},
		{"", "[Recognition service error: quota]"},
		{"", "[Microphone error: device gone]"},
	}
	if len(rec.got) != len(want) {
		t.Fatalf("got %q, want %q", rec.got, want)
	}
	for i := range want {
		if rec.got[i] != want[i] {
			t.Errorf("callback %d = %q, want %q", i, rec.got[i], want[i])
		}
	}
	if eng.calls != 3 {
		t.Errorf("recognizer calls = %d, quiet phrase should be skipped", eng.calls)
	}
	if eng.langs[0] != lang.Chinese {
		t.Errorf("recognized in %q", eng.langs[0])
	}
	if th := l.Threshold(); th < 0.0149 || th > 0.0151 {
		t.Errorf("threshold = %v, want ambient*1.5", th)
	}
	if l.Running() {
		t.Error("flag should be cleared after exit")
	}
}

func TestListener_ThresholdFloor(t *testing.T) {
	src := &fakeSource{clips: []*audio.Clip{level(0)}}
	l := New(src, &fakeEngine{}, Options{Floor: 0.02})
	var rec recorder
	if err := l.Start(context.Background(), rec.cb); err != nil {
		t.Fatal(err)
	}
	wait(t, l)
	if l.Threshold() != 0.02 {
		t.Errorf("threshold = %v", l.Threshold())
	}
}

func TestListener_Stop(t *testing.T) {
	src := &fakeSource{clips: []*audio.Clip{level(0), level(0.5)}, forever: true}
	eng := &fakeEngine{}
	l := New(src, eng, Options{})

	var rec recorder
	err := l.Start(context.Background(), func(o, tr string) {
		rec.cb(o, tr)
		l.Stop()
	})
	if err != nil {
		t.Fatal(err)
	}
	wait(t, l)

	if len(rec.got) != 1 || rec.got[0][0] != "again" {
		t.Errorf("got %q", rec.got)
	}
	if l.Running() {
		t.Error("still running after Stop")
	}
}

func TestListener_StartTwice(t *testing.T) {
	l := New(&fakeSource{block: true}, &fakeEngine{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	var rec recorder
	if err := l.Start(ctx, rec.cb); err != nil {
		t.Fatal(err)
	}
	if !l.Running() {
		t.Error("Running should report true")
	}
	if err := l.Start(ctx, rec.cb); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start = %v", err)
	}
	cancel()
	wait(t, l)
	if len(rec.got) != 0 {
		t.Errorf("cancellation should not produce placeholders, got %q", rec.got)
	}
}

func TestListener_RestartWaitsForExit(t *testing.T) {
	l := New(&fakeSource{block: true}, &fakeEngine{}, Options{})
	first, cancelFirst := context.WithCancel(context.Background())
	second, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()

	var rec recorder
	if err := l.Start(first, rec.cb); err != nil {
		t.Fatal(err)
	}
	l.Stop()
	if err := l.Start(second, rec.cb); !errors.Is(err, ErrRunning) {
		t.Fatalf("Start before the old loop exited = %v, want ErrRunning", err)
	}

	cancelFirst()
	wait(t, l)
	if err := l.Start(second, rec.cb); err != nil {
		t.Fatalf("Start after exit: %v", err)
	}
	if !l.Running() {
		t.Error("restarted loop should be running")
	}
	cancelSecond()
	wait(t, l)
	if l.Running() {
		t.Error("still running after cancel")
	}
}

func TestListener_CalibrationFailure(t *testing.T) {
	l := New(&fakeSource{}, &fakeEngine{}, Options{})
	var rec recorder
	if err := l.Start(context.Background(), rec.cb); err != nil {
		t.Fatal(err)
	}
	wait(t, l)
	if len(rec.got) != 1 || rec.got[0][1] != "[Microphone error: device gone]" {
		t.Errorf("got %q", rec.got)
	}
}
