package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const myMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemory is the free MyMemory API; no key is required. An email raises the
// daily quota.
type MyMemory struct {
	endpoint string
	email    string
	client   *http.Client
}

func NewMyMemory(email string, timeout time.Duration) *MyMemory {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MyMemory{
		endpoint: myMemoryURL,
		email:    email,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *MyMemory) Name() string { return "mymemory" }

func (s *MyMemory) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", source+"|"+target)
	if s.email != "" {
		q.Set("de", s.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var mr struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		// MyMemory reports responseStatus as a number on success and
		// sometimes as a string on quota errors.
		ResponseStatus  json.Number `json:"responseStatus"`
		ResponseDetails string      `json:"responseDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("mymemory: decode response: %w", err)
	}
	if mr.ResponseStatus.String() != "200" {
		return "", fmt.Errorf("mymemory: %s (%s)", mr.ResponseDetails, mr.ResponseStatus)
	}
	return mr.ResponseData.TranslatedText, nil
}
