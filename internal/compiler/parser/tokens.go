package parser

import (
	"fmt"

	"github.com/c2en/c2en/internal/compiler/position"
)

// Kind enumerates the types of lexical tokens in a C source file.
type Kind int

const (
	INVALID Kind = iota
	EOF

	// Keywords.
	INT
	CHAR
	FLOAT
	DOUBLE
	VOID
	IF
	ELSE
	WHILE
	FOR
	DO
	RETURN
	BREAK
	CONTINUE
	STRUCT
	UNION
	TYPEDEF
	SIZEOF
	CONST
	STATIC
	EXTERN
	SWITCH
	CASE
	DEFAULT
	ENUM
	GOTO
	SIGNED
	UNSIGNED
	LONG
	SHORT

	// Identifiers and literals.
	ID
	NUMBER
	STRING
	CHARLIT

	// Operators.
	PLUS
	MINUS
	MUL
	DIV
	MOD
	ASSIGN
	EQ
	NE
	LT
	LE
	GT
	GE
	AND
	OR
	NOT
	BITAND
	BITOR
	XOR
	BITNOT
	SHL
	SHR
	INC
	DEC
	ARROW
	DOT
	QUESTION
	COLON
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	DIV_ASSIGN
	MOD_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN

	// Punctuation.
	LPAREN
	RPAREN
	LCURLY
	RCURLY
	LSQUARE
	RSQUARE
	SEMICOLON
	COMMA
)

var kindNames = map[Kind]string{
	INVALID:    "INVALID",
	EOF:        "EOF",
	INT:        "int",
	CHAR:       "char",
	FLOAT:      "float",
	DOUBLE:     "double",
	VOID:       "void",
	IF:         "if",
	ELSE:       "else",
	WHILE:      "while",
	FOR:        "for",
	DO:         "do",
	RETURN:     "return",
	BREAK:      "break",
	CONTINUE:   "continue",
	STRUCT:     "struct",
	UNION:      "union",
	TYPEDEF:    "typedef",
	SIZEOF:     "sizeof",
	CONST:      "const",
	STATIC:     "static",
	EXTERN:     "extern",
	SWITCH:     "switch",
	CASE:       "case",
	DEFAULT:    "default",
	ENUM:       "enum",
	GOTO:       "goto",
	SIGNED:     "signed",
	UNSIGNED:   "unsigned",
	LONG:       "long",
	SHORT:      "short",
	ID:         "IDENTIFIER",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	CHARLIT:    "CHAR_LITERAL",
	PLUS:       "+",
	MINUS:      "-",
	MUL:        "*",
	DIV:        "/",
	MOD:        "%",
	ASSIGN:     "=",
	EQ:         "==",
	NE:         "!=",
	LT:         "<",
	LE:         "<=",
	GT:         ">",
	GE:         ">=",
	AND:        "&&",
	OR:         "||",
	NOT:        "!",
	BITAND:     "&",
	BITOR:      "|",
	XOR:        "^",
	BITNOT:     "~",
	SHL:        "<<",
	SHR:        ">>",
	INC:        "++",
	DEC:        "--",
	ARROW:      "->",
	DOT:        ".",
	QUESTION:   "?",
	COLON:      ":",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	DIV_ASSIGN: "/=",
	MOD_ASSIGN: "%=",
	AND_ASSIGN: "&=",
	OR_ASSIGN:  "|=",
	XOR_ASSIGN: "^=",
	SHL_ASSIGN: "<<=",
	SHR_ASSIGN: ">>=",
	LPAREN:     "(",
	RPAREN:     ")",
	LCURLY:     "{",
	RCURLY:     "}",
	LSQUARE:    "[",
	RSQUARE:    "]",
	SEMICOLON:  ";",
	COMMA:      ",",
}

// String returns a readable name of the token Kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token describes a lexed Token from the input, containing its kind, the
// original text of the Token, and its position in the input.
type Token struct {
	Kind     Kind
	Spelling string
	Pos      position.Position
}

// String returns a printable form of a Token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q,%s)", t.Kind.String(), t.Spelling, t.Pos)
}

// A TokenStream is the ordered token sequence produced by one run of the
// lexer over a source text.  It is terminated by an EOF token, or by an
// INVALID token if tokenization failed; it is never mutated afterwards.
type TokenStream []Token
