package pipeline

import "github.com/obiente/translate/govoice/internal/lang"

// Messages returned to clients in the error field.
const (
	ErrNoText        = "No text provided"
	ErrNoAudio       = "No audio provided"
	ErrBadEncoding   = "Invalid audio data encoding"
	ErrBadAudio      = "Failed to decode audio"
	ErrNotRecognized = "Could not recognize speech"
	ErrNotUnderstood = "Could not understand audio"
	ErrNoModel       = "Speech recognition not available"
)

type TextRequest struct {
	Text       string
	SourceLang lang.Code
	TargetLang lang.Code
	Speak      bool
}

func (r TextRequest) languages() (lang.Code, lang.Code) {
	return resolve(r.SourceLang, r.TargetLang)
}

type SpeechRequest struct {
	Audio    string
	Language lang.Code
}

type AudioRequest struct {
	Audio      string
	SourceLang lang.Code
	TargetLang lang.Code
	Speak      bool
}

func (r AudioRequest) languages() (lang.Code, lang.Code) {
	return resolve(r.SourceLang, r.TargetLang)
}

// resolve fills a missing side from the other one, defaulting to zh -> en.
func resolve(src, tgt lang.Code) (lang.Code, lang.Code) {
	switch {
	case src == "" && tgt == "":
		return lang.DefaultDirection.Source(), lang.DefaultDirection.Target()
	case src == "":
		return lang.Other(tgt), tgt
	case tgt == "":
		return src, lang.Other(src)
	}
	return src, tgt
}

// Result is the payload of translation_result and full_translation_result.
type Result struct {
	Original   string    `json:"original,omitempty"`
	Translated string    `json:"translated,omitempty"`
	SourceLang lang.Code `json:"source_lang,omitempty"`
	TargetLang lang.Code `json:"target_lang,omitempty"`
	Audio      string    `json:"audio,omitempty"`
	MimeType   string    `json:"mime_type,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type Recognition struct {
	Text     string    `json:"text,omitempty"`
	Language lang.Code `json:"language,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type Health struct {
	Status            string   `json:"status"`
	VoskEN            bool     `json:"vosk_en"`
	VoskZH            bool     `json:"vosk_zh"`
	Whisper           bool     `json:"whisper"`
	Translation       bool     `json:"translation"`
	SpeechRecognition bool     `json:"speech_recognition"`
	TTS               bool     `json:"tts"`
	Backends          Backends `json:"backends"`
}

// Backends lists the active backends of each chain in priority order.
type Backends struct {
	Translation []string `json:"translation"`
	Speech      []string `json:"speech"`
}

type ModelStatus struct {
	SpeechEN bool `json:"speech_en"`
	SpeechZH bool `json:"speech_zh"`
	Whisper  bool `json:"whisper"`
}

type Status struct {
	TranslationReady bool        `json:"translation_ready"`
	SpeechReady      bool        `json:"speech_ready"`
	TTSReady         bool        `json:"tts_ready"`
	Models           ModelStatus `json:"models"`
}
