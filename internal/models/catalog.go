// Package models downloads and verifies the offline model files the speech
// engines load. The application never produces these files itself.
package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind describes how an archive is laid out on the server.
type Kind int

const (
	// Zip archives unpack into a directory named after the model.
	Zip Kind = iota
	// File downloads are stored as-is.
	File
)

// Entry is one downloadable model.
type Entry struct {
	ID          string
	Name        string // directory or file name under the model dir
	URL         string
	Kind        Kind
	Description string
	Size        string
}

// Catalog lists the models the offline engines know how to load.
var Catalog = []Entry{
	{
		ID:          "vosk-en",
		Name:        "vosk-model-small-en-us-0.15",
		URL:         "https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip",
		Kind:        Zip,
		Description: "English speech model (Vosk)",
		Size:        "40 MB",
	},
	{
		ID:          "vosk-zh",
		Name:        "vosk-model-small-cn-0.22",
		URL:         "https://alphacephei.com/vosk/models/vosk-model-small-cn-0.22.zip",
		Kind:        Zip,
		Description: "Chinese speech model (Vosk)",
		Size:        "42 MB",
	},
	{
		ID:          "whisper",
		Name:        "ggml-base.bin",
		URL:         "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin",
		Kind:        File,
		Description: "Multilingual speech model (whisper.cpp)",
		Size:        "142 MB",
	},
}

// Lookup finds catalog entries by id. An empty list selects the whole catalog.
func Lookup(ids []string) ([]Entry, error) {
	if len(ids) == 0 {
		return Catalog, nil
	}
	var out []Entry
	for _, id := range ids {
		id = strings.TrimSpace(id)
		found := false
		for _, e := range Catalog {
			if e.ID == id {
				out = append(out, e)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown model %q", id)
		}
	}
	return out, nil
}

// Path is where the entry lives under dir.
func (e Entry) Path(dir string) string {
	return filepath.Join(dir, e.Name)
}
