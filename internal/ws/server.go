package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/pipeline"
	"github.com/obiente/translate/govoice/internal/tts"
)

const readTimeout = 60 * time.Second

// Pipeline is the subset of *pipeline.Service the socket needs.
type Pipeline interface {
	TranslateText(ctx context.Context, req pipeline.TextRequest) pipeline.Result
	RecognizeSpeech(ctx context.Context, req pipeline.SpeechRequest) pipeline.Recognition
	TranslateAudio(ctx context.Context, req pipeline.AudioRequest) pipeline.Result
	Speak(ctx context.Context, text string, code lang.Code) (tts.Audio, error)
	TranslationReady() bool
	SpeechReady() bool
}

type Server struct {
	pipeline Pipeline
	upgrader websocket.Upgrader
	validate *validator.Validate
}

func NewServer(p Pipeline) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Server{
		pipeline: p,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024 * 16,
			WriteBufferSize: 1024 * 16,
		},
		validate: v,
	}
}

// message is every field any inbound event may carry.
type message struct {
	Type       string          `json:"type"`
	Text       string          `json:"text"`
	Audio      string          `json:"audio"`
	Language   string          `json:"language" validate:"omitempty,oneof=zh en"`
	SourceLang string          `json:"source_lang" validate:"omitempty,oneof=zh en"`
	TargetLang string          `json:"target_lang" validate:"omitempty,oneof=zh en"`
	Direction  string          `json:"direction"`
	Speak      bool            `json:"speak"`
	Ts         json.RawMessage `json:"ts,omitempty"`
}

// session is per-connection state; only the read loop touches it.
type session struct {
	id        string
	direction lang.Direction
}

func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(readTimeout)); return nil })

	sess := &session{id: uuid.NewString(), direction: lang.DefaultDirection}
	logger := log.With().Str("session", sess.id).Logger()
	logger.Info().Str("remote", r.RemoteAddr).Msg("client connected")
	defer logger.Info().Msg("client disconnected")

	_ = conn.WriteJSON(map[string]any{
		"type":              "status",
		"message":           "Connected to translation server",
		"session_id":        sess.id,
		"translation_ready": s.pipeline.TranslationReady(),
		"speech_ready":      s.pipeline.SpeechReady(),
	})

	ctx := r.Context()
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Msg("ws read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		if mt != websocket.TextMessage {
			continue
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = conn.WriteJSON(map[string]any{"type": "error", "detail": "invalid json"})
			continue
		}
		reply := s.dispatch(ctx, sess, &msg)
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Str("event", msg.Type).Msg("failed to send reply")
			return
		}
	}
}

// dispatch handles one inbound event to completion and returns the reply.
func (s *Server) dispatch(ctx context.Context, sess *session, msg *message) map[string]any {
	replyType, ok := replyTypes[msg.Type]
	if !ok {
		return map[string]any{"type": "error", "detail": "unknown message type"}
	}
	if err := s.validate.Struct(msg); err != nil {
		return map[string]any{"type": replyType, "error": validationMessage(err)}
	}

	switch msg.Type {
	case "ping":
		return map[string]any{"type": "pong", "ts": msg.Ts}

	case "set_direction":
		d, err := lang.ParseDirection(msg.Direction)
		if err != nil {
			return map[string]any{"type": replyType, "error": "Unsupported direction: " + msg.Direction}
		}
		sess.direction = d
		log.Debug().Str("session", sess.id).Str("direction", d.String()).Msg("direction changed")
		return map[string]any{
			"type":        replyType,
			"direction":   d.String(),
			"source_lang": d.Source(),
			"target_lang": d.Target(),
		}

	case "translate_text":
		src, tgt := sess.languages(msg)
		res := s.pipeline.TranslateText(ctx, pipeline.TextRequest{
			Text:       msg.Text,
			SourceLang: src,
			TargetLang: tgt,
			Speak:      msg.Speak,
		})
		return withType(replyType, res)

	case "recognize_speech":
		code := lang.Code(msg.Language)
		if code == "" {
			code = sess.direction.Source()
		}
		res := s.pipeline.RecognizeSpeech(ctx, pipeline.SpeechRequest{Audio: msg.Audio, Language: code})
		return withType(replyType, res)

	case "translate_audio":
		src, tgt := sess.languages(msg)
		res := s.pipeline.TranslateAudio(ctx, pipeline.AudioRequest{
			Audio:      msg.Audio,
			SourceLang: src,
			TargetLang: tgt,
			Speak:      msg.Speak,
		})
		return withType(replyType, res)

	case "speak_text":
		code := lang.Code(msg.Language)
		if code == "" {
			code = sess.direction.Target()
		}
		a, err := s.pipeline.Speak(ctx, msg.Text, code)
		if err != nil {
			return map[string]any{"type": replyType, "error": speakMessage(err)}
		}
		return map[string]any{
			"type":      replyType,
			"audio":     base64.StdEncoding.EncodeToString(a.Data),
			"mime_type": a.MimeType,
			"language":  code,
		}
	}
	return map[string]any{"type": "error", "detail": "unknown message type"}
}

var replyTypes = map[string]string{
	"ping":             "pong",
	"set_direction":    "direction",
	"translate_text":   "translation_result",
	"recognize_speech": "recognition_result",
	"translate_audio":  "full_translation_result",
	"speak_text":       "speech_audio",
}

// languages fills omitted languages from the session direction.
func (sess *session) languages(msg *message) (lang.Code, lang.Code) {
	src, tgt := lang.Code(msg.SourceLang), lang.Code(msg.TargetLang)
	switch {
	case src == "" && tgt == "":
		return sess.direction.Source(), sess.direction.Target()
	case src == "":
		return lang.Other(tgt), tgt
	case tgt == "":
		return src, lang.Other(src)
	}
	return src, tgt
}

// withType flattens a result struct into a reply carrying the event type.
func withType(t string, v any) map[string]any {
	out := map[string]any{}
	b, err := json.Marshal(v)
	if err == nil {
		_ = json.Unmarshal(b, &out)
	}
	out["type"] = t
	return out
}

func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Unsupported language in %s: %v", fe.Field(), fe.Value())
	}
	return err.Error()
}

func speakMessage(err error) string {
	if errors.Is(err, tts.ErrUnavailable) {
		return "Text-to-speech not available"
	}
	return err.Error()
}
