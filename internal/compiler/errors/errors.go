// Package errors implements the positioned diagnostic list shared by the
// compiler stages.
package errors

import (
	"fmt"

	"github.com/c2en/c2en/internal/compiler/position"
)

// A compileError is a single diagnostic at a position in the source.  The
// two renderings match the formats emitted by the front end on stderr:
// lexical and syntax errors carry a column, semantic errors only a line.
type compileError struct {
	pos      position.Position
	msg      string
	semantic bool
}

func (e compileError) Error() string {
	if e.semantic {
		return fmt.Sprintf("[SEMANTIC ERROR] %s:%d: %s", e.pos.Filename, e.pos.Line, e.msg)
	}
	return fmt.Sprintf("[ERROR] %s: %s", e.pos, e.msg)
}

// ErrorList contains a list of compile errors.
type ErrorList []*compileError

// Add appends a lexical or syntax error at a position to the list of errors.
func (p *ErrorList) Add(pos *position.Position, msg string) {
	*p = append(*p, &compileError{*pos, msg, false})
}

// AddSemantic appends a semantic error at a position to the list of errors.
func (p *ErrorList) AddSemantic(pos *position.Position, msg string) {
	*p = append(*p, &compileError{*pos, msg, true})
}

// Append puts an ErrorList on the end of this ErrorList.
func (p *ErrorList) Append(l ErrorList) {
	*p = append(*p, l...)
}

// ErrorList implements the error interface.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var r string
	for _, e := range p {
		r += fmt.Sprintf("%s\n", e)
	}
	return r[:len(r)-1]
}
