package lang

import (
	"fmt"
	"strings"
)

// Direction is a translation direction written "source-target".
type Direction string

const (
	ZhToEn Direction = "zh-en"
	EnToZh Direction = "en-zh"

	DefaultDirection = ZhToEn
)

// ParseDirection accepts "zh-en" and "en-zh" (case-insensitive, "_" or ">" also accepted as separator).
func ParseDirection(s string) (Direction, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("_", "-", ">", "-", "|", "-").Replace(v)
	switch Direction(v) {
	case ZhToEn:
		return ZhToEn, nil
	case EnToZh:
		return EnToZh, nil
	}
	return "", fmt.Errorf("%w direction: %q", ErrUnsupported, s)
}

// DirectionOf builds the direction for a source/target pair.
func DirectionOf(source, target Code) (Direction, error) {
	return ParseDirection(string(source) + "-" + string(target))
}

func (d Direction) Source() Code {
	if d == EnToZh {
		return English
	}
	return Chinese
}

func (d Direction) Target() Code {
	return Other(d.Source())
}

// Reverse flips the direction.
func (d Direction) Reverse() Direction {
	if d == EnToZh {
		return ZhToEn
	}
	return EnToZh
}

func (d Direction) String() string {
	return string(d)
}

// Label is the human-readable form, e.g. "Chinese→English".
func (d Direction) Label() string {
	return fmt.Sprintf("%s→%s", Name(d.Source()), Name(d.Target()))
}
