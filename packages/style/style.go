package style

import (
	"github.com/fatih/color"
)

// Styler renders the status glyph of an assertion and decorates its text
// according to whether it passed.
type Styler interface {
	Glyph(passed bool) string
	Apply(text string, passed bool) string
}

type colorStyler struct {
	green *color.Color
	red   *color.Color
}

// Color returns a Styler emitting ANSI colors. The colors are forced on, so
// callers that want terminal detection should use Default or New instead.
func Color() Styler {
	green := color.New(color.FgGreen)
	green.EnableColor()
	red := color.New(color.FgRed)
	red.EnableColor()
	return &colorStyler{green: green, red: red}
}

func (s *colorStyler) Glyph(passed bool) string {
	if passed {
		return s.green.Sprint("✔")
	}
	return s.red.Sprint("✖")
}

func (s *colorStyler) Apply(text string, passed bool) string {
	if passed {
		return s.green.Sprint(text)
	}
	return s.red.Sprint(text)
}

type plainStyler struct{}

// Plain returns a Styler that never emits escape sequences.
func Plain() Styler {
	return plainStyler{}
}

func (plainStyler) Glyph(passed bool) string {
	if passed {
		return "+"
	}
	return "x"
}

func (plainStyler) Apply(text string, _ bool) string {
	return text
}

// New returns Plain when noColor is set and Color otherwise.
func New(noColor bool) Styler {
	if noColor {
		return Plain()
	}
	return Color()
}

// Default follows fatih/color's global detection (NO_COLOR, TTY checks).
func Default() Styler {
	return New(color.NoColor)
}
