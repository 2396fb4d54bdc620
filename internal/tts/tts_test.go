package tts

import (
	"context"
	"errors"
	"testing"

	"github.com/obiente/translate/govoice/internal/lang"
)

func TestDisabled(t *testing.T) {
	var s Synthesizer = Disabled{}
	if _, err := s.Synthesize(context.Background(), "hello", lang.English); !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}

func TestVoiceLocale(t *testing.T) {
	if got := voiceLocale(lang.Chinese); got != "cmn-CN" {
		t.Errorf("zh -> %q", got)
	}
	if got := voiceLocale(lang.English); got != "en-US" {
		t.Errorf("en -> %q", got)
	}
}
