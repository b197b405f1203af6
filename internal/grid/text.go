package grid

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxTextRunes bounds text input, matching the input field of the device app.
const MaxTextRunes = 20

// Size selects the font size relative to the grid row count.
type Size int

const (
	SizeSmall Size = iota + 1
	SizeMedium
	SizeLarge
)

// Scale returns the size factor applied to the row count.
func (s Size) Scale() float64 {
	switch s {
	case SizeSmall:
		return 0.8
	case SizeLarge:
		return 1.2
	default:
		return 1.0
	}
}

func (s Size) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeLarge:
		return "large"
	default:
		return "medium"
	}
}

// ParseSize accepts small, medium, large or their initials.
func ParseSize(s string) (Size, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "small":
		return SizeSmall, true
	case "m", "medium", "":
		return SizeMedium, true
	case "l", "large":
		return SizeLarge, true
	}
	return SizeMedium, false
}

// Rasterizer converts text into a binary matrix.
type Rasterizer interface {
	// Measure returns the rendered width of text in pixels.
	Measure(text string, fontSize float64) (float64, error)
	// TextToBitmap renders text into a matrix of exactly rows x cols.
	TextToBitmap(text string, fontSize float64, rows, cols int) (Matrix, error)
}

// NormalizeText trims, NFC-normalises and truncates text input.
func NormalizeText(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	runes := []rune(text)
	if len(runes) > MaxTextRunes {
		runes = runes[:MaxTextRunes]
	}
	return string(runes)
}
