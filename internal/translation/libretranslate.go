package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LibreTranslate talks to a LibreTranslate compatible endpoint. A
// self-hosted instance runs Argos models and needs no internet access.
type LibreTranslate struct {
	base   string
	apiKey string
	http   *http.Client
}

func NewLibreTranslate(base, apiKey string, timeout time.Duration) *LibreTranslate {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LibreTranslate{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *LibreTranslate) Name() string { return "libretranslate" }

// Translate posts the LibreTranslate payload (q, source, target, format, api_key)
// and returns translatedText.
func (c *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	if c.base == "" {
		return "", fmt.Errorf("libretranslate: base url not configured")
	}
	src := strings.TrimSpace(source)
	if src == "" {
		src = "auto"
	}
	payload := map[string]any{
		"q":      text,
		"source": src,
		"target": target,
		"format": "text",
	}
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/translate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("libretranslate http %d for %s->%s", resp.StatusCode, src, target)
	}

	var lr struct {
		TranslatedText string `json:"translatedText"`
		Error          string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("libretranslate: decode response: %w", err)
	}
	if lr.Error != "" {
		return "", fmt.Errorf("libretranslate: %s", lr.Error)
	}
	return strings.TrimSpace(lr.TranslatedText), nil
}
