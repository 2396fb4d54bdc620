// Package lang holds the two languages the translator speaks and the codes
// each external engine expects for them.
package lang

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Code is an ISO 639-1 language code. Only Chinese and English are supported.
type Code string

const (
	Chinese Code = "zh"
	English Code = "en"
)

// ErrUnsupported is returned for codes and directions outside the supported set.
var ErrUnsupported = errors.New("unsupported language")

// Valid reports whether s is one of the supported codes.
func Valid(s string) bool {
	switch Code(s) {
	case Chinese, English:
		return true
	}
	return false
}

// Parse normalizes s (case, surrounding space, region suffix) and validates it.
func Parse(s string) (Code, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(v, "-_"); i > 0 {
		v = v[:i]
	}
	if !Valid(v) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
	}
	return Code(v), nil
}

// Other returns the opposite language.
func Other(c Code) Code {
	if c == Chinese {
		return English
	}
	return Chinese
}

// Locale returns the BCP-47 locale used by speech engines ("zh-CN", "en-US").
func Locale(c Code) string {
	if c == Chinese {
		return "zh-CN"
	}
	return "en-US"
}

// Tag returns the x/text language tag for c.
func Tag(c Code) language.Tag {
	if c == Chinese {
		return language.SimplifiedChinese
	}
	return language.English
}

// Name is the human readable name shown in logs and the CLI.
func Name(c Code) string {
	if c == Chinese {
		return "Chinese"
	}
	return "English"
}
