package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/obiente/translate/govoice/internal/pipeline"
	"github.com/obiente/translate/govoice/internal/translation"
)

type echo struct{}

func (echo) Name() string { return "echo" }

func (echo) Translate(_ context.Context, text, _, _ string) (string, error) {
	return "<" + text + ">", nil
}

func newService(t *testing.T) (*pipeline.Service, string) {
	t.Helper()
	dir := t.TempDir()
	en := filepath.Join(dir, "vosk-en")
	if err := os.Mkdir(en, 0o755); err != nil {
		t.Fatal(err)
	}
	svc := pipeline.New(pipeline.Options{
		Translator: translation.NewChain(0, echo{}),
		ModelPaths: map[string]string{
			"vosk-en": en,
			"vosk-zh": filepath.Join(dir, "missing"),
			"whisper": filepath.Join(dir, "ggml-base.bin"),
		},
	})
	return svc, dir
}

func TestIndex(t *testing.T) {
	svc, _ := newService(t)
	rec := httptest.NewRecorder()
	NewRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "/ws") {
		t.Error("page does not open the socket")
	}
}

func TestHealth(t *testing.T) {
	svc, dir := newService(t)
	h := NewRouter(svc)

	get := func() map[string]any {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		return body
	}

	body := get()
	if body["status"] != "healthy" || body["vosk_en"] != true || body["vosk_zh"] != false || body["whisper"] != false {
		t.Errorf("health = %v", body)
	}
	if body["translation"] != true || body["speech_recognition"] != false || body["tts"] != false {
		t.Errorf("readiness = %v", body)
	}

	// Model flags follow the filesystem, not startup state.
	if err := os.WriteFile(filepath.Join(dir, "ggml-base.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if body = get(); body["whisper"] != true {
		t.Errorf("whisper flag not refreshed: %v", body)
	}
}

func TestStatus(t *testing.T) {
	svc, _ := newService(t)
	rec := httptest.NewRecorder()
	NewRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var body pipeline.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.TranslationReady || body.SpeechReady || !body.Models.SpeechEN || body.Models.SpeechZH {
		t.Errorf("status = %+v", body)
	}
}

func TestWebSocketRoute(t *testing.T) {
	svc, _ := newService(t)
	srv := httptest.NewServer(NewRouter(svc))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var status map[string]any
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "translate_text", "text": "你好"}); err != nil {
		t.Fatal(err)
	}
	var res map[string]any
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatal(err)
	}
	if res["type"] != "translation_result" || res["translated"] != "<你好>" || res["target_lang"] != "en" {
		t.Errorf("reply = %v", res)
	}
}
