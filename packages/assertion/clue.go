package assertion

import "fmt"

// Clue is a "<label> = <value>" line attached to an assertion for diagnostics.
type Clue string

// NewClue formats value with its Go-syntax representation (%#v), so types
// implementing fmt.GoStringer control how they appear.
func NewClue(value any, label string) Clue {
	return Clue(fmt.Sprintf("%s = %#v", label, value))
}

func (c Clue) String() string {
	return string(c)
}
