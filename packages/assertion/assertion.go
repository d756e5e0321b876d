package assertion

import (
	"io"
	"strings"

	"github.com/abdul-hamid-achik/clueassert/packages/style"
)

// Assertion is the finalized record of one check. Its name, location and
// outcome never change; clues may still be appended with WithClue.
type Assertion struct {
	name  string
	at    *Location
	value Value
	clues []Clue
}

// New builds an Assertion directly, for callers restoring a recorded result.
// It panics with a *MisuseError when name is empty or v is the zero Value.
func New(name string, at *Location, v Value, clues ...Clue) *Assertion {
	if name == "" {
		panic(&MisuseError{Reason: "assertion without a name"})
	}
	if v.kind == 0 {
		panic(&MisuseError{Reason: "assertion without an outcome"})
	}
	a := &Assertion{name: name, value: v}
	if at != nil {
		loc := *at
		a.at = &loc
	}
	if len(clues) > 0 {
		a.clues = append([]Clue(nil), clues...)
	}
	return a
}

func (a *Assertion) Name() string {
	return a.name
}

// At returns the call site and whether one was recorded.
func (a *Assertion) At() (Location, bool) {
	if a.at == nil {
		return Location{}, false
	}
	return *a.at, true
}

func (a *Assertion) Value() Value {
	return a.value
}

// Clues returns a copy of the clue list in insertion order.
func (a *Assertion) Clues() []Clue {
	return append([]Clue(nil), a.clues...)
}

// Passed reports whether the outcome is Passed. Errored assertions have not
// passed.
func (a *Assertion) Passed() bool {
	return a.value.kind == Passed
}

// WithClue appends a clue after the outcome is known, formatted exactly like
// Asserting.WithClue.
func (a *Assertion) WithClue(value any, label string) *Assertion {
	a.clues = append(a.clues, NewClue(value, label))
	return a
}

// Render writes the report for a using s. Passed assertions produce a single
// line; the others add the location, the error if any, and every clue, each
// indented by two spaces.
func (a *Assertion) Render(w io.Writer, s style.Styler) error {
	passed := a.Passed()
	lines := []string{s.Glyph(passed) + " " + s.Apply(a.name, passed)}

	if !passed {
		if a.at != nil {
			lines = append(lines, "  "+s.Apply(a.at.String(), passed))
		}
		if err := a.value.Err(); err != nil {
			lines = append(lines, "  "+s.Apply("error = "+err.Error(), passed))
		}
		for _, c := range a.clues {
			lines = append(lines, "  "+s.Apply(string(c), passed))
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// Format returns the report rendered with s.
func (a *Assertion) Format(s style.Styler) string {
	var sb strings.Builder
	_ = a.Render(&sb, s)
	return sb.String()
}

// String renders with style.Default.
func (a *Assertion) String() string {
	return a.Format(style.Default())
}
