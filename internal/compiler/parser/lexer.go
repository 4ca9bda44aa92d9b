package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/golang/glog"

	"github.com/c2en/c2en/internal/compiler/position"
)

// List of keywords.  Keep this list sorted!
var keywords = map[string]Kind{
	"break":    BREAK,
	"case":     CASE,
	"char":     CHAR,
	"const":    CONST,
	"continue": CONTINUE,
	"default":  DEFAULT,
	"do":       DO,
	"double":   DOUBLE,
	"else":     ELSE,
	"enum":     ENUM,
	"extern":   EXTERN,
	"float":    FLOAT,
	"for":      FOR,
	"goto":     GOTO,
	"if":       IF,
	"int":      INT,
	"long":     LONG,
	"return":   RETURN,
	"short":    SHORT,
	"signed":   SIGNED,
	"sizeof":   SIZEOF,
	"static":   STATIC,
	"struct":   STRUCT,
	"switch":   SWITCH,
	"typedef":  TYPEDEF,
	"union":    UNION,
	"unsigned": UNSIGNED,
	"void":     VOID,
	"while":    WHILE,
}

// A stateFn represents each state the scanner can be in.
type stateFn func(*Lexer) stateFn

// A Lexer holds the state of the scanner.
type Lexer struct {
	name  string        // Name of the source file, for positions.
	input *bufio.Reader // Source text.
	state stateFn       // Current state function of the lexer.

	// The "read cursor" in the input.
	rune  rune // The current rune.
	width int  // Width in bytes.
	line  int  // The line position of the current rune.
	col   int  // The column position of the current rune.

	// The currently being lexed token.
	startLine int             // Starting line of the current token.
	startCol  int             // Starting column of the current token.
	text      strings.Builder // The text of the current token.

	tokens chan Token // Output channel for tokens emitted.
}

// NewLexer creates a new scanner type that reads the input provided.
func NewLexer(name string, input io.Reader) *Lexer {
	return &Lexer{
		name:      name,
		input:     bufio.NewReader(input),
		state:     lexNext,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
		tokens:    make(chan Token, 2),
	}
}

// NextToken returns the next token in the input.  When no token is available
// to be returned it executes the next action in the state machine.
func (l *Lexer) NextToken() Token {
	for {
		select {
		case tok := <-l.tokens:
			return tok
		default:
			l.state = l.state(l)
		}
	}
}

// Tokenize scans the entire input, collecting tokens until the first EOF or
// INVALID token, inclusive.  A single lexical error aborts the stream with
// that error as the final token.
func Tokenize(name string, input io.Reader) TokenStream {
	l := NewLexer(name, input)
	var stream TokenStream
	for {
		tok := l.NextToken()
		stream = append(stream, tok)
		if tok.Kind == EOF || tok.Kind == INVALID {
			return stream
		}
	}
}

// emit passes a token to the client.
func (l *Lexer) emit(kind Kind) {
	pos := position.Position{Filename: l.name, Line: l.startLine, Column: l.startCol}
	glog.V(2).Infof("Emitting %v spelled %q at %v", kind, l.text.String(), pos)
	l.tokens <- Token{kind, l.text.String(), pos}
	// Reset the current token.
	l.text.Reset()
	l.startLine = l.line
	l.startCol = l.col
}

// Internal end of file value.
const eof rune = -1

// next returns the next rune in the input.
func (l *Lexer) next() rune {
	var err error
	l.rune, l.width, err = l.input.ReadRune()
	if err == io.EOF {
		l.width = 1
		l.rune = eof
	}
	return l.rune
}

// backup indicates that we haven't yet dealt with the next rune.  Use when
// terminating tokens on unknown runes.
func (l *Lexer) backup() {
	l.width = 0
	if l.rune == eof {
		return
	}
	if err := l.input.UnreadRune(); err != nil {
		glog.Info(err)
	}
}

// stepCursor moves the read cursor.
func (l *Lexer) stepCursor() {
	if l.rune == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// accept accepts the current rune and its position into the current token.
func (l *Lexer) accept() {
	l.text.WriteRune(l.rune)
	l.stepCursor()
}

// skip does not accept the current rune into the current token's text, but
// does accept its position into the token.  Use only at the start or end of
// a token.
func (l *Lexer) skip() {
	l.stepCursor()
}

// ignore skips over the current rune, removing it from the text of the
// token, and resetting the start position of the current token.  Use only
// between tokens.
func (l *Lexer) ignore() {
	l.stepCursor()
	l.startLine = l.line
	l.startCol = l.col
}

// errorf emits an error token and stops the machine: a single lexical error
// aborts the entire stream.
func (l *Lexer) errorf(format string, args ...interface{}) stateFn {
	pos := position.Position{Filename: l.name, Line: l.startLine, Column: l.startCol}
	l.tokens <- Token{
		Kind:     INVALID,
		Spelling: fmt.Sprintf(format, args...),
		Pos:      pos,
	}
	l.text.Reset()
	return nil
}

// State functions.

// lexNext scans the next token at the read cursor.
func lexNext(l *Lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.skip()
		l.emit(EOF)
		// Stop the machine, we're done.
		return nil
	case isSpace(r):
		l.ignore()
	case r == '#':
		// Preprocessor directives are skipped, not expanded.
		return lexToEOL
	case r == '/':
		return lexSlash
	case r == '"':
		return lexQuotedString
	case r == '\'':
		return lexCharLiteral
	case isDigit(r):
		l.backup()
		return lexNumeric
	case isAlpha(r) || r == '_':
		l.backup()
		return lexIdentifier
	case r == '(':
		l.accept()
		l.emit(LPAREN)
	case r == ')':
		l.accept()
		l.emit(RPAREN)
	case r == '{':
		l.accept()
		l.emit(LCURLY)
	case r == '}':
		l.accept()
		l.emit(RCURLY)
	case r == '[':
		l.accept()
		l.emit(LSQUARE)
	case r == ']':
		l.accept()
		l.emit(RSQUARE)
	case r == ';':
		l.accept()
		l.emit(SEMICOLON)
	case r == ',':
		l.accept()
		l.emit(COMMA)
	case r == '?':
		l.accept()
		l.emit(QUESTION)
	case r == ':':
		l.accept()
		l.emit(COLON)
	case r == '.':
		l.accept()
		l.emit(DOT)
	case r == '~':
		l.accept()
		l.emit(BITNOT)
	case r == '+':
		l.accept()
		switch l.next() {
		case '+':
			l.accept()
			l.emit(INC)
		case '=':
			l.accept()
			l.emit(ADD_ASSIGN)
		default:
			l.backup()
			l.emit(PLUS)
		}
	case r == '-':
		l.accept()
		switch l.next() {
		case '-':
			l.accept()
			l.emit(DEC)
		case '>':
			l.accept()
			l.emit(ARROW)
		case '=':
			l.accept()
			l.emit(SUB_ASSIGN)
		default:
			l.backup()
			l.emit(MINUS)
		}
	case r == '*':
		l.accept()
		switch l.next() {
		case '=':
			l.accept()
			l.emit(MUL_ASSIGN)
		default:
			l.backup()
			l.emit(MUL)
		}
	case r == '%':
		l.accept()
		switch l.next() {
		case '=':
			l.accept()
			l.emit(MOD_ASSIGN)
		default:
			l.backup()
			l.emit(MOD)
		}
	case r == '=':
		l.accept()
		switch l.next() {
		case '=':
			l.accept()
			l.emit(EQ)
		default:
			l.backup()
			l.emit(ASSIGN)
		}
	case r == '!':
		l.accept()
		switch l.next() {
		case '=':
			l.accept()
			l.emit(NE)
		default:
			l.backup()
			l.emit(NOT)
		}
	case r == '<':
		l.accept()
		switch l.next() {
		case '<':
			l.accept()
			switch l.next() {
			case '=':
				l.accept()
				l.emit(SHL_ASSIGN)
			default:
				l.backup()
				l.emit(SHL)
			}
		case '=':
			l.accept()
			l.emit(LE)
		default:
			l.backup()
			l.emit(LT)
		}
	case r == '>':
		l.accept()
		switch l.next() {
		case '>':
			l.accept()
			switch l.next() {
			case '=':
				l.accept()
				l.emit(SHR_ASSIGN)
			default:
				l.backup()
				l.emit(SHR)
			}
		case '=':
			l.accept()
			l.emit(GE)
		default:
			l.backup()
			l.emit(GT)
		}
	case r == '&':
		l.accept()
		switch l.next() {
		case '&':
			l.accept()
			l.emit(AND)
		case '=':
			l.accept()
			l.emit(AND_ASSIGN)
		default:
			l.backup()
			l.emit(BITAND)
		}
	case r == '|':
		l.accept()
		switch l.next() {
		case '|':
			l.accept()
			l.emit(OR)
		case '=':
			l.accept()
			l.emit(OR_ASSIGN)
		default:
			l.backup()
			l.emit(BITOR)
		}
	case r == '^':
		l.accept()
		switch l.next() {
		case '=':
			l.accept()
			l.emit(XOR_ASSIGN)
		default:
			l.backup()
			l.emit(XOR)
		}
	default:
		l.accept()
		return l.errorf("Unexpected character: '%c'", r)
	}
	return lexNext
}

// lexToEOL ignores input up to and including the next newline.  Used for
// preprocessor directives and line comments.
func lexToEOL(l *Lexer) stateFn {
	l.ignore()
Loop:
	for {
		switch l.next() {
		case '\n':
			l.ignore()
			break Loop
		case eof:
			break Loop
		default:
			l.ignore()
		}
	}
	return lexNext
}

// lexSlash disambiguates division operators from comments.
func lexSlash(l *Lexer) stateFn {
	l.accept()
	switch l.next() {
	case '/':
		l.text.Reset()
		return lexToEOL
	case '*':
		l.text.Reset()
		l.ignore()
		return lexBlockComment
	case '=':
		l.accept()
		l.emit(DIV_ASSIGN)
	default:
		l.backup()
		l.emit(DIV)
	}
	return lexNext
}

// lexBlockComment ignores input up to and including the closing "*/".  An
// unterminated comment consumes the rest of the input without error.
func lexBlockComment(l *Lexer) stateFn {
	for {
		switch l.next() {
		case '*':
			l.ignore()
			if l.next() == '/' {
				l.ignore()
				return lexNext
			}
			l.backup()
		case eof:
			return lexNext
		default:
			l.ignore()
		}
	}
}

// lexNumeric scans a numeric constant: a run of digits, optionally followed
// by a decimal point and more digits.  The dot is only taken when a digit
// follows it, so "1." lexes as a number then a dot.
func lexNumeric(l *Lexer) stateFn {
	r := l.next()
	for isDigit(r) {
		l.accept()
		r = l.next()
	}
	if r != '.' {
		l.backup()
		l.emit(NUMBER)
		return lexNext
	}
	if b, err := l.input.Peek(1); err == nil && b[0] >= '0' && b[0] <= '9' {
		l.accept()
		r = l.next()
		for isDigit(r) {
			l.accept()
			r = l.next()
		}
		l.backup()
		l.emit(NUMBER)
		return lexNext
	}
	// The dot has been consumed and cannot be unread after the peek, so
	// emit it here as its own token.
	l.emit(NUMBER)
	l.accept()
	l.emit(DOT)
	return lexNext
}

// lexQuotedString scans a string literal.  The text of the token does not
// include the '"' quotes; a backslash and the rune after it are copied
// verbatim, without interpretation.
func lexQuotedString(l *Lexer) stateFn {
	l.skip() // Skip leading quote.
Loop:
	for {
		switch l.next() {
		case '\\':
			l.accept()
			if r := l.next(); r != eof {
				l.accept()
				break
			}
			return l.errorf("Unterminated string")
		case eof:
			return l.errorf("Unterminated string")
		case '"':
			l.skip() // Skip trailing quote.
			break Loop
		default:
			l.accept()
		}
	}
	l.emit(STRING)
	return lexNext
}

// lexCharLiteral scans a character literal with the same escaping rule as
// strings.  The text does not include the surrounding single quotes.
func lexCharLiteral(l *Lexer) stateFn {
	l.skip() // Skip leading quote.
Loop:
	for {
		switch l.next() {
		case '\\':
			l.accept()
			if r := l.next(); r != eof {
				l.accept()
				break
			}
			return l.errorf("Unterminated character literal")
		case eof:
			return l.errorf("Unterminated character literal")
		case '\'':
			l.skip() // Skip trailing quote.
			break Loop
		default:
			l.accept()
		}
	}
	l.emit(CHARLIT)
	return lexNext
}

// lexIdentifier scans an identifier or keyword.
func lexIdentifier(l *Lexer) stateFn {
	l.next()
	l.accept()
Loop:
	for {
		switch r := l.next(); {
		case isAlnum(r) || r == '_':
			l.accept()
		default:
			l.backup()
			break Loop
		}
	}
	if kw, ok := keywords[l.text.String()]; ok {
		l.emit(kw)
	} else {
		l.emit(ID)
	}
	return lexNext
}

// Helper predicates.

// isAlpha reports whether r is an alphabetical rune.
func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

// isAlnum reports whether r is an alphanumeric rune.
func isAlnum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

// isDigit reports whether r is a numerical rune.
func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}

// isSpace reports whether r is whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
