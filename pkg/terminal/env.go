package terminal

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode selects when colored output is produced.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode converts a config or flag value to a ColorMode.
// Empty input means ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorAuto, "":
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (expected auto|always|never)", s)
	}
}

// IsTerminal reports whether f is attached to a terminal (including Cygwin/MSYS ptys).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled resolves mode against the environment. In auto mode colors
// are used only when NO_COLOR is unset and out is a terminal.
func ColorEnabled(mode ColorMode, out *os.File, getenv func(string) string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if getenv != nil && getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(out)
}

// LocaleIsUTF8 reports whether the effective character-type locale uses
// UTF-8. LC_ALL takes precedence over LC_CTYPE, which takes precedence over LANG.
func LocaleIsUTF8(getenv func(string) string) bool {
	if getenv == nil {
		return false
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
	}
	return false
}

// UnicodeCapable decides whether box-drawing glyphs may be written to out.
// The caller's preference is honored only when out is a terminal whose
// locale is UTF-8; any doubt falls back to ASCII.
func UnicodeCapable(requested bool, out *os.File, getenv func(string) string) bool {
	if !requested {
		return false
	}
	return IsTerminal(out) && LocaleIsUTF8(getenv)
}
