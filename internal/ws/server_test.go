package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/pipeline"
	"github.com/obiente/translate/govoice/internal/tts"
)

type fakePipeline struct {
	mu        sync.Mutex
	lastText  pipeline.TextRequest
	lastAudio pipeline.AudioRequest
	speakErr  error
}

func (f *fakePipeline) TranslateText(_ context.Context, req pipeline.TextRequest) pipeline.Result {
	f.mu.Lock()
	f.lastText = req
	f.mu.Unlock()
	if req.Text == "" {
		return pipeline.Result{Error: pipeline.ErrNoText}
	}
	return pipeline.Result{Original: req.Text, Translated: "T:" + req.Text, SourceLang: req.SourceLang, TargetLang: req.TargetLang}
}

func (f *fakePipeline) RecognizeSpeech(_ context.Context, req pipeline.SpeechRequest) pipeline.Recognition {
	return pipeline.Recognition{Text: "heard", Language: req.Language}
}

func (f *fakePipeline) TranslateAudio(_ context.Context, req pipeline.AudioRequest) pipeline.Result {
	f.mu.Lock()
	f.lastAudio = req
	f.mu.Unlock()
	return pipeline.Result{Error: pipeline.ErrNotRecognized}
}

func (f *fakePipeline) Speak(_ context.Context, text string, code lang.Code) (tts.Audio, error) {
	if f.speakErr != nil {
		return tts.Audio{}, f.speakErr
	}
	return tts.Audio{Data: []byte("abc"), MimeType: "audio/mpeg"}, nil
}

func (f *fakePipeline) TranslationReady() bool { return true }
func (f *fakePipeline) SpeechReady() bool      { return false }

func dial(t *testing.T, p Pipeline) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(NewServer(p).Handle))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	status := read(t, conn)
	if status["type"] != "status" {
		t.Fatalf("first message = %v", status)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	var m map[string]any
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg any) map[string]any {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	return read(t, conn)
}

func TestConnectStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(NewServer(&fakePipeline{}).Handle))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	m := read(t, conn)
	if m["type"] != "status" || m["translation_ready"] != true || m["speech_ready"] != false {
		t.Errorf("status = %v", m)
	}
	if id, _ := m["session_id"].(string); len(id) != 36 {
		t.Errorf("session_id = %v", m["session_id"])
	}
}

func TestTranslateText(t *testing.T) {
	p := &fakePipeline{}
	conn := dial(t, p)

	m := roundTrip(t, conn, map[string]any{"type": "translate_text", "text": "hello", "source_lang": "en", "target_lang": "zh"})
	if m["type"] != "translation_result" || m["translated"] != "T:hello" {
		t.Errorf("reply = %v", m)
	}
	if m["source_lang"] != "en" || m["target_lang"] != "zh" {
		t.Errorf("languages = %v -> %v", m["source_lang"], m["target_lang"])
	}
}

func TestTranslateText_Empty(t *testing.T) {
	conn := dial(t, &fakePipeline{})
	m := roundTrip(t, conn, map[string]any{"type": "translate_text", "text": ""})
	if m["type"] != "translation_result" || m["error"] != pipeline.ErrNoText {
		t.Errorf("reply = %v", m)
	}
}

func TestInvalidLanguage(t *testing.T) {
	p := &fakePipeline{}
	conn := dial(t, p)
	m := roundTrip(t, conn, map[string]any{"type": "translate_text", "text": "hi", "source_lang": "fr"})
	if m["type"] != "translation_result" {
		t.Fatalf("reply = %v", m)
	}
	if e, _ := m["error"].(string); !strings.Contains(e, "source_lang") {
		t.Errorf("error = %q", e)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastText.Text != "" {
		t.Error("pipeline should not be called with an invalid language")
	}
}

func TestSetDirectionSuppliesDefaults(t *testing.T) {
	p := &fakePipeline{}
	conn := dial(t, p)

	m := roundTrip(t, conn, map[string]any{"type": "set_direction", "direction": "en-zh"})
	if m["type"] != "direction" || m["direction"] != "en-zh" || m["source_lang"] != "en" || m["target_lang"] != "zh" {
		t.Fatalf("reply = %v", m)
	}

	roundTrip(t, conn, map[string]any{"type": "translate_audio", "audio": "AAAA"})
	p.mu.Lock()
	got := p.lastAudio
	p.mu.Unlock()
	if got.SourceLang != lang.English || got.TargetLang != lang.Chinese {
		t.Errorf("audio languages = %s -> %s", got.SourceLang, got.TargetLang)
	}

	m = roundTrip(t, conn, map[string]any{"type": "set_direction", "direction": "fr-de"})
	if m["type"] != "direction" || m["error"] == nil {
		t.Errorf("bad direction reply = %v", m)
	}
}

func TestTranslateAudio_NotRecognized(t *testing.T) {
	conn := dial(t, &fakePipeline{})
	m := roundTrip(t, conn, map[string]any{"type": "translate_audio", "audio": "AAAA", "source_lang": "zh"})
	if m["type"] != "full_translation_result" || m["error"] != pipeline.ErrNotRecognized {
		t.Errorf("reply = %v", m)
	}
}

func TestRecognizeSpeech(t *testing.T) {
	conn := dial(t, &fakePipeline{})
	m := roundTrip(t, conn, map[string]any{"type": "recognize_speech", "audio": "AAAA", "language": "zh"})
	if m["type"] != "recognition_result" || m["text"] != "heard" || m["language"] != "zh" {
		t.Errorf("reply = %v", m)
	}
}

func TestSpeakText(t *testing.T) {
	conn := dial(t, &fakePipeline{})
	m := roundTrip(t, conn, map[string]any{"type": "speak_text", "text": "你好", "language": "zh"})
	if m["type"] != "speech_audio" || m["audio"] != "YWJj" || m["mime_type"] != "audio/mpeg" || m["language"] != "zh" {
		t.Errorf("reply = %v", m)
	}

	conn = dial(t, &fakePipeline{speakErr: tts.ErrUnavailable})
	m = roundTrip(t, conn, map[string]any{"type": "speak_text", "text": "hi"})
	if m["type"] != "speech_audio" || m["error"] == nil {
		t.Errorf("disabled reply = %v", m)
	}
}

func TestPingAndErrors(t *testing.T) {
	conn := dial(t, &fakePipeline{})

	m := roundTrip(t, conn, map[string]any{"type": "ping", "ts": 42})
	if m["type"] != "pong" || m["ts"] != float64(42) {
		t.Errorf("pong = %v", m)
	}

	m = roundTrip(t, conn, map[string]any{"type": "nope"})
	if m["type"] != "error" || m["detail"] != "unknown message type" {
		t.Errorf("unknown = %v", m)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	m = read(t, conn)
	if m["type"] != "error" || m["detail"] != "invalid json" {
		t.Errorf("invalid json = %v", m)
	}
}
