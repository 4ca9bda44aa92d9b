package errors

import (
	"testing"

	"github.com/c2en/c2en/internal/compiler/position"
)

func TestSyntaxErrorFormat(t *testing.T) {
	var e ErrorList
	e.Add(&position.Position{Filename: "prog.c", Line: 1, Column: 11}, "Expected ')' after parameters")
	if want, got := "[ERROR] prog.c:1:11: Expected ')' after parameters", e.Error(); want != got {
		t.Errorf("Error() got %q, want %q", got, want)
	}
}

func TestSemanticErrorFormat(t *testing.T) {
	var e ErrorList
	e.AddSemantic(&position.Position{Filename: "prog.c", Line: 3, Column: 5}, "Undeclared variable 'x'")
	if want, got := "[SEMANTIC ERROR] prog.c:3: Undeclared variable 'x'", e.Error(); want != got {
		t.Errorf("Error() got %q, want %q", got, want)
	}
}

func TestErrorListAccumulates(t *testing.T) {
	var e ErrorList
	e.Add(&position.Position{Filename: "prog.c", Line: 1, Column: 1}, "first")
	e.Add(&position.Position{Filename: "prog.c", Line: 2, Column: 1}, "second")

	var all ErrorList
	all.Append(e)
	all.Add(&position.Position{Filename: "prog.c", Line: 3, Column: 1}, "third")

	want := "[ERROR] prog.c:1:1: first\n[ERROR] prog.c:2:1: second\n[ERROR] prog.c:3:1: third"
	if got := all.Error(); want != got {
		t.Errorf("Error() got %q, want %q", got, want)
	}
}

func TestEmptyErrorList(t *testing.T) {
	var e ErrorList
	if want, got := "no errors", e.Error(); want != got {
		t.Errorf("Error() got %q, want %q", got, want)
	}
}
