// Package position implements a data structure for storing source code positions.
package position

import "fmt"

// A Position is the location in the source text that a token or syntax tree
// node appears.  Lines and columns are 1-based, counting from the start of
// the input; a column counts runes from the start of the line.
type Position struct {
	Filename string // Source filename in which this position appears.
	Line     int    // Line in the source for this position.
	Column   int    // Column in the source for this position.
}

// String formats a position to be useful for printing messages associated
// with this position, e.g. compiler errors.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
