package assertion

import "fmt"

// Location is the source position of a checked expression.
type Location struct {
	File string `json:"file"`
	Line uint32 `json:"line"`
}

// String renders the location as "at <file>:<line>", the form most editors
// recognise for jump-to-source.
func (l Location) String() string {
	return fmt.Sprintf("at %s:%d", l.File, l.Line)
}
