package parser

import (
	"strings"
	"testing"

	"github.com/c2en/c2en/internal/testutil"
)

var parserTests = []struct {
	name    string
	program string
	dump    string
}{
	{"multiplication binds tighter than addition",
		"int main() { return 1 + 2 * 3; }",
		`PROGRAM (1 functions)
  FUNCTION main: int
    BLOCK (1 statements)
      RETURN
        BINARY_OP +
          LITERAL 1 (number)
          BINARY_OP *
            LITERAL 2 (number)
            LITERAL 3 (number)
`},

	{"addition folds left to right",
		"int main() { return 1 - 2 - 3; }",
		`PROGRAM (1 functions)
  FUNCTION main: int
    BLOCK (1 statements)
      RETURN
        BINARY_OP -
          BINARY_OP -
            LITERAL 1 (number)
            LITERAL 2 (number)
          LITERAL 3 (number)
`},

	{"assignment is right associative",
		"void f() { a = b = c; }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (1 statements)
      ASSIGNMENT
        IDENTIFIER a
        ASSIGNMENT
          IDENTIFIER b
          IDENTIFIER c
`},

	{"ternary is right associative",
		"int f() { return a ? b : c ? d : e; }",
		`PROGRAM (1 functions)
  FUNCTION f: int
    BLOCK (1 statements)
      RETURN
        TERNARY
          IDENTIFIER a
          IDENTIFIER b
          TERNARY
            IDENTIFIER c
            IDENTIFIER d
            IDENTIFIER e
`},

	{"prefix and postfix operators",
		"void f() { x = -y++; }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (1 statements)
      ASSIGNMENT
        IDENTIFIER x
        UNARY_OP -
          UNARY_OP ++ (postfix)
            IDENTIFIER y
`},

	{"parentheses override precedence",
		"int f() { return (1 + 2) * 3; }",
		`PROGRAM (1 functions)
  FUNCTION f: int
    BLOCK (1 statements)
      RETURN
        BINARY_OP *
          BINARY_OP +
            LITERAL 1 (number)
            LITERAL 2 (number)
          LITERAL 3 (number)
`},

	{"compound assignment",
		"void f() { x += 2; }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (1 statements)
      COMPOUND_ASSIGNMENT +=
        IDENTIFIER x
        LITERAL 2 (number)
`},

	{"declarations and arrays",
		"int main() { int a = 1; int b[10]; b[0] = a; return b[0]; }",
		`PROGRAM (1 functions)
  FUNCTION main: int
    BLOCK (4 statements)
      DECLARATION a: int
        LITERAL 1 (number)
      DECLARATION b: int[]
        LITERAL 10 (number)
      ASSIGNMENT
        ARRAY_ACCESS b
          LITERAL 0 (number)
        IDENTIFIER a
      RETURN
        ARRAY_ACCESS b
          LITERAL 0 (number)
`},

	{"if else and while",
		"void f() { if (a < b) { c = 1; } else c = 2; while (c) c--; }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (2 statements)
      IF
        BINARY_OP <
          IDENTIFIER a
          IDENTIFIER b
        BLOCK (1 statements)
          ASSIGNMENT
            IDENTIFIER c
            LITERAL 1 (number)
        ASSIGNMENT
          IDENTIFIER c
          LITERAL 2 (number)
      WHILE
        IDENTIFIER c
        UNARY_OP -- (postfix)
          IDENTIFIER c
`},

	{"for and do while",
		"void f() { for (i = 0; i < 10; i++) total += i; do total--; while (total); }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (2 statements)
      FOR
        ASSIGNMENT
          IDENTIFIER i
          LITERAL 0 (number)
        BINARY_OP <
          IDENTIFIER i
          LITERAL 10 (number)
        UNARY_OP ++ (postfix)
          IDENTIFIER i
        COMPOUND_ASSIGNMENT +=
          IDENTIFIER total
          IDENTIFIER i
      DO_WHILE
        UNARY_OP -- (postfix)
          IDENTIFIER total
        IDENTIFIER total
`},

	{"switch with case and default",
		"void f() { switch (x) { case 1: y = 1; break; default: y = 0; } }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (1 statements)
      SWITCH (2 clauses)
        IDENTIFIER x
        CASE
          LITERAL 1 (number)
          ASSIGNMENT
            IDENTIFIER y
            LITERAL 1 (number)
          BREAK
        DEFAULT
          ASSIGNMENT
            IDENTIFIER y
            LITERAL 0 (number)
`},

	{"goto and label",
		"void f() { goto done; done: return; }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (2 statements)
      GOTO done
      LABEL done
        RETURN
`},

	{"member access and calls",
		"void f() { p.x = q->y; g(1, 2); }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (2 statements)
      ASSIGNMENT
        MEMBER_ACCESS .x
          IDENTIFIER p
        MEMBER_ACCESS ->y
          IDENTIFIER q
      CALL g (2 args)
        LITERAL 1 (number)
        LITERAL 2 (number)
`},

	{"sizeof and cast",
		"void f() { n = sizeof(int); m = (float) n; k = sizeof n; }",
		`PROGRAM (1 functions)
  FUNCTION f: void
    BLOCK (3 statements)
      ASSIGNMENT
        IDENTIFIER n
        SIZEOF int
      ASSIGNMENT
        IDENTIFIER m
        CAST (float)
          IDENTIFIER n
      ASSIGNMENT
        IDENTIFIER k
        SIZEOF
          IDENTIFIER n
`},

	{"struct enum and typedef",
		"struct point { int x; int y; };\nenum colour { RED, GREEN = 2 };\ntypedef int number;\nint main() { return 0; }",
		`PROGRAM (1 functions)
  STRUCT point (2 members)
    DECLARATION x: int
    DECLARATION y: int
  ENUM colour (2 values)
    ENUM_VALUE RED
    ENUM_VALUE GREEN
      LITERAL 2 (number)
  TYPEDEF number: int
  FUNCTION main: int
    BLOCK (1 statements)
      RETURN
        LITERAL 0 (number)
`},

	{"function parameters",
		"int sum(int values[], int n) { return n; }",
		`PROGRAM (1 functions)
  FUNCTION sum: int
    PARAM values: int[]
    PARAM n: int
    BLOCK (1 statements)
      RETURN
        IDENTIFIER n
`},
}

func TestParsePrograms(t *testing.T) {
	for _, tc := range parserTests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tree, err := Parse(tc.name, Tokenize(tc.name, strings.NewReader(tc.program)))
			testutil.FatalIfErr(t, err)
			testutil.ExpectNoDiff(t, tc.dump, Dump(tree))
		})
	}
}

var parserInvalidPrograms = []struct {
	name    string
	program string
	errors  []string
}{
	{"unclosed parameter list",
		"int main( { return 0; }",
		[]string{
			"[ERROR] unclosed parameter list:1:11: Expected parameter type",
			"[ERROR] unclosed parameter list:1:11: Expected ')' after parameters",
		}},

	{"missing semicolon",
		"int main() { int a = 1 return a; }",
		[]string{"[ERROR] missing semicolon:1:24: Expected ';' after declaration"}},

	{"missing expression",
		"int main() { x = ; }",
		[]string{"[ERROR] missing expression:1:18: Expected expression"}},

	{"statement before case in switch",
		"void f() { switch (x) { y = 1; } }",
		[]string{
			"[ERROR] statement before case in switch:1:25: Expected 'case' or 'default' in switch body",
			"[ERROR] statement before case in switch:1:34: Expected return type",
		}},

	{"lexical error surfaces through parse",
		"int main() { return 0 @ }",
		[]string{"[ERROR] lexical error surfaces through parse:1:23: Unexpected character: '@'"}},
}

func TestParseInvalidPrograms(t *testing.T) {
	for _, tc := range parserInvalidPrograms {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tree, err := Parse(tc.name, Tokenize(tc.name, strings.NewReader(tc.program)))
			if err == nil {
				t.Fatalf("parse unexpectedly succeeded:\n%s", Dump(tree))
			}
			if tree != nil {
				t.Errorf("partial tree returned alongside error:\n%s", Dump(tree))
			}
			testutil.ExpectNoDiff(t, tc.errors, strings.Split(err.Error(), "\n"))
		})
	}
}
