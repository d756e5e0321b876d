// Package style provides the text styling strategies used when rendering
// assertions.
//
// Two strategies are available:
//   - Color: green ✔ for passed checks, red ✖ for failed ones (via fatih/color)
//   - Plain: ASCII "+" and "x" glyphs with no ANSI escape sequences
//
// Default picks Color unless color output has been disabled, either through
// the NO_COLOR environment variable, a non-terminal stdout, or color.NoColor.
package style
