// Package translation wraps external machine-translation services behind a
// single Translator interface and chains them in a fixed priority order.
package translation

import (
	"context"
	"strings"
)

// Unavailable is shown when every backend failed.
const Unavailable = "[Translation unavailable]"

// Translator translates text between two ISO 639-1 codes.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// IsPlaceholder reports whether s is a bracketed status message rather than
// a translation.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "[")
}
