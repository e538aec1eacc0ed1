package graph

import (
	"fmt"
	"strings"
)

// Color is a palette index. The zero value means "uncolored".
type Color int

const (
	None Color = iota
	Red
	Green
	Blue
	Yellow
	Gray
	Pink
	Cyan
	Magenta
)

// PaletteSize is the number of real colors in the palette.
const PaletteSize = int(Magenta)

var colorNames = [...]string{
	None:    "none",
	Red:     "red",
	Green:   "green",
	Blue:    "blue",
	Yellow:  "yellow",
	Gray:    "gray",
	Pink:    "pink",
	Cyan:    "cyan",
	Magenta: "magenta",
}

// String returns the lowercase palette name of c.
func (c Color) String() string {
	if c < None || int(c) > PaletteSize {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c is a real palette color (not None).
func (c Color) Valid() bool {
	return c > None && int(c) <= PaletteSize
}

// Index returns the 1-based color index used by the variable scheme.
func (c Color) Index() int {
	return int(c)
}

// FromIndex maps a 1-based color index back onto the palette.
func FromIndex(i int) (Color, error) {
	c := Color(i)
	if !c.Valid() {
		return None, fmt.Errorf("color index %d outside palette 1..%d", i, PaletteSize)
	}
	return c, nil
}

// ParseColor parses a palette name case-insensitively. The empty string and
// "none" both yield None.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return None, nil
	}
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return None, fmt.Errorf("unknown color %q", s)
}
