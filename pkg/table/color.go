package table

import (
	"fmt"
	"strings"
)

// Color is the ANSI SGR sequence that opens a colored span. The zero value
// means "no color".
type Color string

// Reset closes a colored span.
const Reset Color = "\x1b[0m"

// Palette of the controller client.
const (
	NoColor    Color = ""
	Black      Color = "\x1b[30m"
	DarkRed    Color = "\x1b[31m"
	DarkGreen  Color = "\x1b[32m"
	Brown      Color = "\x1b[33m"
	DarkBlue   Color = "\x1b[34m"
	DarkPink   Color = "\x1b[35m"
	Teal       Color = "\x1b[36m"
	Gray       Color = "\x1b[37m"
	DarkGray   Color = "\x1b[90m"
	Red        Color = "\x1b[91m"
	Green      Color = "\x1b[92m"
	Yellow     Color = "\x1b[93m"
	Blue       Color = "\x1b[94m"
	Pink       Color = "\x1b[95m"
	Turquoise  Color = "\x1b[96m"
	White      Color = "\x1b[97m"
	BoldRed    Color = "\x1b[1;31m"
	BoldYellow Color = "\x1b[1;33m"
)

var colorNames = map[string]Color{
	"none":       NoColor,
	"black":      Black,
	"darkred":    DarkRed,
	"darkgreen":  DarkGreen,
	"brown":      Brown,
	"darkyellow": Brown,
	"darkblue":   DarkBlue,
	"darkpink":   DarkPink,
	"magenta":    DarkPink,
	"teal":       Teal,
	"cyan":       Teal,
	"gray":       Gray,
	"grey":       Gray,
	"darkgray":   DarkGray,
	"darkgrey":   DarkGray,
	"red":        Red,
	"green":      Green,
	"yellow":     Yellow,
	"blue":       Blue,
	"pink":       Pink,
	"turquoise":  Turquoise,
	"white":      White,
	"boldred":    BoldRed,
	"boldyellow": BoldYellow,
}

// ParseColor resolves a palette name ("darkgreen", "dark_green", "Dark-Green")
// or a raw SGR parameter list ("31", "1;33") to a Color.
func ParseColor(name string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return NoColor, nil
	}
	if isSGRParams(s) {
		return Color("\x1b[" + s + "m"), nil
	}
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	return NoColor, fmt.Errorf("unknown color %q", name)
}

func isSGRParams(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != ';' {
			return false
		}
	}
	return true
}

// wrap surrounds s with c and Reset. A NoColor wrap returns s unchanged.
func (c Color) wrap(s string) string {
	if c == NoColor {
		return s
	}
	return string(c) + s + string(Reset)
}
