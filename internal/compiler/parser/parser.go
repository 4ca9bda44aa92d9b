// Package parser implements the lexer and recursive descent parser for the
// C subset accepted by the compiler.  Each grammar rule corresponds to one
// parsing method; expression rules are arranged by binding power, each level
// parsing the next-tighter level first and folding its own operators
// left-to-right.
package parser

import (
	"github.com/golang/glog"

	"github.com/c2en/c2en/internal/compiler/ast"
	"github.com/c2en/c2en/internal/compiler/errors"
	"github.com/c2en/c2en/internal/compiler/position"
)

type parser struct {
	name   string
	tokens TokenStream
	pos    int

	errors   errors.ErrorList
	hadError bool
}

// Parse consumes a token stream and builds the program syntax tree.  It
// returns a nil tree and the accumulated error list if any lexical or
// syntax error occurred; a partial tree is never returned.
func Parse(name string, stream TokenStream) (*ast.Program, error) {
	p := &parser{name: name, tokens: stream}

	// The final token is authoritative: a trailing INVALID token means
	// tokenization aborted, and its spelling carries the diagnostic.
	if len(stream) == 0 {
		p.errors.Add(&position.Position{Filename: name, Line: 1, Column: 1}, "Empty token stream")
		return nil, p.errors
	}
	if last := stream[len(stream)-1]; last.Kind == INVALID {
		p.errors.Add(&last.Pos, last.Spelling)
		return nil, p.errors
	}

	prog := &ast.Program{P: stream[0].Pos}
	for !p.atEnd() {
		switch p.peek().Kind {
		case STRUCT, UNION:
			if decl := p.parseStructDecl(); decl != nil {
				prog.AddType(decl)
			} else {
				p.resync()
			}
		case ENUM:
			if decl := p.parseEnumDecl(); decl != nil {
				prog.AddType(decl)
			} else {
				p.resync()
			}
		case TYPEDEF:
			if decl := p.parseTypedef(); decl != nil {
				prog.AddType(decl)
			} else {
				p.resync()
			}
		default:
			if fn := p.parseFunction(); fn != nil {
				prog.AddFunction(fn)
			} else {
				p.resync()
			}
		}
	}

	if p.hadError {
		// Discard the partial tree; the caller must not translate it.
		return nil, p.errors
	}
	return prog, nil
}

// Cursor helpers.

func (p *parser) peek() *Token {
	if p.pos >= len(p.tokens) {
		return &p.tokens[len(p.tokens)-1]
	}
	return &p.tokens[p.pos]
}

func (p *parser) peekAt(n int) *Token {
	if p.pos+n >= len(p.tokens) {
		return &p.tokens[len(p.tokens)-1]
	}
	return &p.tokens[p.pos+n]
}

func (p *parser) previous() *Token {
	return &p.tokens[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == EOF
}

func (p *parser) advance() *Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *parser) check(kind Kind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *parser) match(kind Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) matchAny(kinds ...Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

// errorAt records a syntax error at the given token and marks the parse as
// failed.  Parsing continues so that later errors are still surfaced.
func (p *parser) errorAt(tok *Token, msg string) {
	p.hadError = true
	p.errors.Add(&tok.Pos, msg)
	glog.V(1).Infof("syntax error at %s: %s", tok.Pos, msg)
}

// consume requires the next token to be of the given kind, recording a
// syntax error and returning nil if it is not.
func (p *parser) consume(kind Kind, msg string) *Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), msg)
	return nil
}

// isType reports whether a token kind can start a declaration or a function
// return type.
func isType(kind Kind) bool {
	switch kind {
	case INT, CHAR, FLOAT, DOUBLE, VOID, LONG, SHORT, SIGNED, UNSIGNED:
		return true
	}
	return false
}

// startsTopLevel reports whether a token kind can begin a top level
// definition; used to resynchronize after a syntax error.
func startsTopLevel(kind Kind) bool {
	return isType(kind) || kind == STRUCT || kind == UNION || kind == ENUM || kind == TYPEDEF
}

// resync discards tokens until one that can start a top level definition,
// so that one malformed function does not swallow the rest of the file.
func (p *parser) resync() {
	for !p.atEnd() && !startsTopLevel(p.peek().Kind) {
		p.advance()
	}
}

// Top level definitions.

func (p *parser) parseFunction() ast.Node {
	if !isType(p.peek().Kind) {
		p.errorAt(p.peek(), "Expected return type")
		return nil
	}
	retType := p.advance()

	name := p.consume(ID, "Expected function name")
	if name == nil {
		return nil
	}

	if p.consume(LPAREN, "Expected '(' after function name") == nil {
		return nil
	}

	var params []*ast.Param
	if !p.check(RPAREN) {
		for {
			if !isType(p.peek().Kind) {
				p.errorAt(p.peek(), "Expected parameter type")
				break
			}
			paramType := p.advance()
			paramName := p.consume(ID, "Expected parameter name")
			if paramName == nil {
				break
			}
			isArray := false
			if p.match(LSQUARE) {
				isArray = true
				p.consume(RSQUARE, "Expected ']' after '['")
			}
			params = append(params, &ast.Param{Type: paramType.Spelling, Name: paramName.Spelling, IsArray: isArray})
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RPAREN, "Expected ')' after parameters")

	if p.consume(LCURLY, "Expected '{' before function body") == nil {
		return nil
	}
	body := p.parseBlock(p.previous().Pos)

	return &ast.FuncDecl{
		P:          retType.Pos,
		ReturnType: retType.Spelling,
		Name:       name.Spelling,
		Params:     params,
		Body:       body,
	}
}

func (p *parser) parseStructDecl() ast.Node {
	kw := p.advance() // struct or union
	decl := &ast.StructDecl{P: kw.Pos, Union: kw.Kind == UNION}

	if name := p.consume(ID, "Expected struct name"); name != nil {
		decl.Name = name.Spelling
	}
	if p.consume(LCURLY, "Expected '{' after struct name") == nil {
		return nil
	}
	for !p.check(RCURLY) && !p.atEnd() {
		if !isType(p.peek().Kind) {
			p.errorAt(p.peek(), "Expected member type")
			return nil
		}
		memberType := p.advance()
		memberName := p.consume(ID, "Expected member name")
		if memberName == nil {
			return nil
		}
		member := &ast.VarDecl{P: memberType.Pos, VarType: memberType.Spelling, Name: memberName.Spelling}
		if p.match(LSQUARE) {
			member.IsArray = true
			if !p.check(RSQUARE) {
				member.Size = p.parseExpression()
			}
			p.consume(RSQUARE, "Expected ']' after array size")
		}
		p.consume(SEMICOLON, "Expected ';' after member")
		decl.AddMember(member)
	}
	p.consume(RCURLY, "Expected '}' after struct body")
	p.consume(SEMICOLON, "Expected ';' after struct definition")
	return decl
}

func (p *parser) parseEnumDecl() ast.Node {
	kw := p.advance()
	decl := &ast.EnumDecl{P: kw.Pos}

	if name := p.consume(ID, "Expected enum name"); name != nil {
		decl.Name = name.Spelling
	}
	if p.consume(LCURLY, "Expected '{' after enum name") == nil {
		return nil
	}
	if !p.check(RCURLY) {
		for {
			valName := p.consume(ID, "Expected identifier in enum")
			if valName == nil {
				return nil
			}
			val := ast.EnumValue{Name: valName.Spelling}
			if p.match(ASSIGN) {
				val.Value = p.parseTernary()
			}
			decl.AddValue(val)
			if !p.match(COMMA) {
				break
			}
			// Allow a trailing comma before the closing brace.
			if p.check(RCURLY) {
				break
			}
		}
	}
	p.consume(RCURLY, "Expected '}' after enum body")
	p.consume(SEMICOLON, "Expected ';' after enum definition")
	return decl
}

func (p *parser) parseTypedef() ast.Node {
	kw := p.advance()
	if !isType(p.peek().Kind) && !p.check(ID) {
		p.errorAt(p.peek(), "Expected type name after 'typedef'")
		return nil
	}
	base := p.advance()
	alias := p.consume(ID, "Expected identifier after typedef type")
	if alias == nil {
		return nil
	}
	p.consume(SEMICOLON, "Expected ';' after typedef")
	return &ast.TypedefDecl{P: kw.Pos, BaseType: base.Spelling, Alias: alias.Spelling}
}

// Statements.

// parseBlock parses statements up to the closing brace.  The opening brace
// has already been consumed.  Statements that failed to parse are skipped
// rather than added, so a partial block never contains nil children.
func (p *parser) parseBlock(pos position.Position) ast.Node {
	block := &ast.Block{P: pos}
	for !p.check(RCURLY) && !p.atEnd() {
		if stmt := p.parseStatement(); stmt != nil {
			block.AddStmt(stmt)
		}
	}
	p.consume(RCURLY, "Expected '}' after block")
	return block
}

func (p *parser) parseStatement() ast.Node {
	if isType(p.peek().Kind) {
		return p.parseDeclaration()
	}

	switch p.peek().Kind {
	case STRUCT, UNION:
		return p.parseStructDecl()
	case ENUM:
		return p.parseEnumDecl()
	case TYPEDEF:
		return p.parseTypedef()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case FOR:
		return p.parseFor()
	case DO:
		return p.parseDoWhile()
	case SWITCH:
		return p.parseSwitch()
	case RETURN:
		tok := p.advance()
		var value ast.Node
		if !p.check(SEMICOLON) {
			value = p.parseExpression()
		}
		p.consume(SEMICOLON, "Expected ';' after return")
		return &ast.ReturnStmt{P: tok.Pos, Value: value}
	case BREAK:
		tok := p.advance()
		p.consume(SEMICOLON, "Expected ';' after break")
		return &ast.BreakStmt{P: tok.Pos}
	case CONTINUE:
		tok := p.advance()
		p.consume(SEMICOLON, "Expected ';' after continue")
		return &ast.ContinueStmt{P: tok.Pos}
	case GOTO:
		tok := p.advance()
		label := p.consume(ID, "Expected label name after 'goto'")
		if label == nil {
			return nil
		}
		p.consume(SEMICOLON, "Expected ';' after goto")
		return &ast.GotoStmt{P: tok.Pos, Label: label.Spelling}
	case LCURLY:
		tok := p.advance()
		return p.parseBlock(tok.Pos)
	case ID:
		// A bare identifier followed by a colon introduces a label.
		if p.peekAt(1).Kind == COLON {
			name := p.advance()
			p.advance() // the colon
			stmt := &ast.LabeledStmt{P: name.Pos, Name: name.Spelling}
			if !p.check(RCURLY) && !p.check(CASE) && !p.check(DEFAULT) && !p.atEnd() {
				stmt.Stmt = p.parseStatement()
			}
			return stmt
		}
	}

	// Expression statement.
	expr := p.parseExpression()
	if expr == nil {
		// The offending token was never consumed; skip it so the block
		// loop makes progress.
		p.advance()
		return nil
	}
	p.consume(SEMICOLON, "Expected ';' after expression")
	return expr
}

func (p *parser) parseDeclaration() ast.Node {
	declType := p.advance()
	name := p.consume(ID, "Expected variable name")
	if name == nil {
		return nil
	}

	decl := &ast.VarDecl{P: declType.Pos, VarType: declType.Spelling, Name: name.Spelling}

	if p.match(LSQUARE) {
		decl.IsArray = true
		if !p.check(RSQUARE) {
			decl.Size = p.parseExpression()
		}
		p.consume(RSQUARE, "Expected ']' after array size")
		p.consume(SEMICOLON, "Expected ';' after declaration")
		return decl
	}

	if p.match(ASSIGN) {
		decl.Init = p.parseExpression()
	}
	p.consume(SEMICOLON, "Expected ';' after declaration")
	return decl
}

func (p *parser) parseIf() ast.Node {
	tok := p.advance()
	p.consume(LPAREN, "Expected '(' after 'if'")
	cond := p.parseExpression()
	p.consume(RPAREN, "Expected ')' after condition")

	then := p.parseStatement()

	var els ast.Node
	if p.match(ELSE) {
		els = p.parseStatement()
	}
	return &ast.CondStmt{P: tok.Pos, Cond: cond, Then: then, Else: els}
}

func (p *parser) parseWhile() ast.Node {
	tok := p.advance()
	p.consume(LPAREN, "Expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(RPAREN, "Expected ')' after condition")
	body := p.parseStatement()
	return &ast.WhileStmt{P: tok.Pos, Cond: cond, Body: body}
}

func (p *parser) parseDoWhile() ast.Node {
	tok := p.advance()
	body := p.parseStatement()
	p.consume(WHILE, "Expected 'while' after do body")
	p.consume(LPAREN, "Expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(RPAREN, "Expected ')' after condition")
	p.consume(SEMICOLON, "Expected ';' after do-while")
	return &ast.DoWhileStmt{P: tok.Pos, Body: body, Cond: cond}
}

func (p *parser) parseFor() ast.Node {
	tok := p.advance()
	p.consume(LPAREN, "Expected '(' after 'for'")

	// The init clause accepts either a declaration, which consumes its own
	// terminating semicolon, or an expression.
	var init ast.Node
	if !p.check(SEMICOLON) {
		if isType(p.peek().Kind) {
			init = p.parseDeclaration()
		} else {
			init = p.parseExpression()
			p.consume(SEMICOLON, "Expected ';' after loop initializer")
		}
	} else {
		p.advance()
	}

	var cond ast.Node
	if !p.check(SEMICOLON) {
		cond = p.parseExpression()
	}
	p.consume(SEMICOLON, "Expected ';' after loop condition")

	var post ast.Node
	if !p.check(RPAREN) {
		post = p.parseExpression()
	}
	p.consume(RPAREN, "Expected ')' after for clauses")

	body := p.parseStatement()
	return &ast.ForStmt{P: tok.Pos, Init: init, Cond: cond, Post: post, Body: body}
}

// parseSwitch parses a switch body as a flat sequence of case and default
// introducers, each owning the statements until the next introducer or the
// closing brace.  A statement before any introducer is a syntax error.
func (p *parser) parseSwitch() ast.Node {
	tok := p.advance()
	p.consume(LPAREN, "Expected '(' after 'switch'")
	expr := p.parseExpression()
	p.consume(RPAREN, "Expected ')' after switch expression")
	if p.consume(LCURLY, "Expected '{' after switch") == nil {
		return nil
	}

	stmt := &ast.SwitchStmt{P: tok.Pos, Expr: expr}
	for !p.check(RCURLY) && !p.atEnd() {
		switch p.peek().Kind {
		case CASE:
			caseTok := p.advance()
			value := p.parseExpression()
			p.consume(COLON, "Expected ':' after case value")
			clause := &ast.CaseClause{P: caseTok.Pos, Value: value}
			p.parseCaseBody(func(s ast.Node) { clause.AddStmt(s) })
			stmt.AddClause(clause)
		case DEFAULT:
			defTok := p.advance()
			p.consume(COLON, "Expected ':' after 'default'")
			clause := &ast.DefaultClause{P: defTok.Pos}
			p.parseCaseBody(func(s ast.Node) { clause.AddStmt(s) })
			stmt.AddClause(clause)
		default:
			p.errorAt(p.peek(), "Expected 'case' or 'default' in switch body")
			return nil
		}
	}
	p.consume(RCURLY, "Expected '}' after switch body")
	return stmt
}

func (p *parser) parseCaseBody(add func(ast.Node)) {
	for !p.check(CASE) && !p.check(DEFAULT) && !p.check(RCURLY) && !p.atEnd() {
		if s := p.parseStatement(); s != nil {
			add(s)
		}
	}
}

// Expressions, lowest binding power first.

func (p *parser) parseExpression() ast.Node {
	return p.parseAssignment()
}

// parseAssignment handles plain and compound assignment, both
// right-associative.
func (p *parser) parseAssignment() ast.Node {
	expr := p.parseTernary()

	if p.match(ASSIGN) {
		tok := p.previous()
		value := p.parseAssignment()
		return &ast.AssignExpr{P: tok.Pos, Target: expr, Value: value}
	}
	if p.matchAny(ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN,
		AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN, SHL_ASSIGN, SHR_ASSIGN) {
		op := p.previous()
		value := p.parseAssignment()
		return &ast.OpAssignExpr{P: op.Pos, Op: op.Spelling, Target: expr, Value: value}
	}
	return expr
}

// parseTernary is right-associative by recursing into itself for the else
// branch: "a ? b : c ? d : e" groups as "a ? b : (c ? d : e)".
func (p *parser) parseTernary() ast.Node {
	cond := p.parseLogicalOr()

	if p.match(QUESTION) {
		tok := p.previous()
		then := p.parseExpression()
		p.consume(COLON, "Expected ':' after ternary condition")
		els := p.parseTernary()
		return &ast.TernaryExpr{P: tok.Pos, Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *parser) parseLogicalOr() ast.Node {
	left := p.parseLogicalAnd()
	for p.match(OR) {
		op := p.previous()
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseLogicalAnd() ast.Node {
	left := p.parseBitOr()
	for p.match(AND) {
		op := p.previous()
		right := p.parseBitOr()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseBitOr() ast.Node {
	left := p.parseBitXor()
	for p.match(BITOR) {
		op := p.previous()
		right := p.parseBitXor()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseBitXor() ast.Node {
	left := p.parseBitAnd()
	for p.match(XOR) {
		op := p.previous()
		right := p.parseBitAnd()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseBitAnd() ast.Node {
	left := p.parseEquality()
	for p.match(BITAND) {
		op := p.previous()
		right := p.parseEquality()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Node {
	left := p.parseComparison()
	for p.matchAny(EQ, NE) {
		op := p.previous()
		right := p.parseComparison()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseComparison() ast.Node {
	left := p.parseShift()
	for p.matchAny(LT, LE, GT, GE) {
		op := p.previous()
		right := p.parseShift()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseShift() ast.Node {
	left := p.parseTerm()
	for p.matchAny(SHL, SHR) {
		op := p.previous()
		right := p.parseTerm()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseTerm() ast.Node {
	left := p.parseFactor()
	for p.matchAny(PLUS, MINUS) {
		op := p.previous()
		right := p.parseFactor()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseFactor() ast.Node {
	left := p.parseUnary()
	for p.matchAny(MUL, DIV, MOD) {
		op := p.previous()
		right := p.parseUnary()
		left = &ast.BinaryExpr{P: op.Pos, Op: op.Spelling, LHS: left, RHS: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Node {
	if p.matchAny(NOT, MINUS, PLUS, INC, DEC, BITAND, BITNOT, MUL) {
		op := p.previous()
		operand := p.parseUnary()
		return &ast.UnaryExpr{P: op.Pos, Op: op.Spelling, Expr: operand}
	}

	if p.check(SIZEOF) {
		return p.parseSizeof()
	}

	// A parenthesized type name is a cast: "(int) x".
	if p.check(LPAREN) && isType(p.peekAt(1).Kind) && p.peekAt(2).Kind == RPAREN {
		tok := p.advance()
		typeName := p.advance()
		p.advance() // the closing paren
		expr := p.parseUnary()
		return &ast.CastExpr{P: tok.Pos, TypeName: typeName.Spelling, Expr: expr}
	}

	return p.parsePostfix()
}

func (p *parser) parseSizeof() ast.Node {
	tok := p.advance()
	node := &ast.SizeofExpr{P: tok.Pos}
	if p.match(LPAREN) {
		if isType(p.peek().Kind) {
			node.TypeName = p.advance().Spelling
		} else {
			node.Expr = p.parseExpression()
		}
		p.consume(RPAREN, "Expected ')' after sizeof")
		return node
	}
	node.Expr = p.parseUnary()
	return node
}

// parsePostfix folds member access and postfix increment or decrement onto
// a primary expression.
func (p *parser) parsePostfix() ast.Node {
	expr := p.parsePrimary()

	for {
		switch {
		case p.matchAny(DOT, ARROW):
			op := p.previous()
			member := p.consume(ID, "Expected member name after '.'")
			if member == nil {
				return expr
			}
			expr = &ast.MemberExpr{P: op.Pos, Object: expr, Member: member.Spelling, Arrow: op.Kind == ARROW}
		case p.matchAny(INC, DEC):
			op := p.previous()
			expr = &ast.UnaryExpr{P: op.Pos, Op: op.Spelling, Expr: expr, Postfix: true}
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() ast.Node {
	if p.match(NUMBER) {
		tok := p.previous()
		return &ast.Literal{P: tok.Pos, Value: tok.Spelling, LitType: "number"}
	}
	if p.match(STRING) {
		tok := p.previous()
		return &ast.Literal{P: tok.Pos, Value: tok.Spelling, LitType: "string"}
	}
	if p.match(CHARLIT) {
		tok := p.previous()
		return &ast.Literal{P: tok.Pos, Value: tok.Spelling, LitType: "char"}
	}

	if p.match(ID) {
		name := p.previous()

		// Function call.
		if p.match(LPAREN) {
			call := &ast.CallExpr{P: name.Pos, Name: name.Spelling}
			if !p.check(RPAREN) {
				for {
					if arg := p.parseExpression(); arg != nil {
						call.Args = append(call.Args, arg)
					}
					if !p.match(COMMA) {
						break
					}
				}
			}
			p.consume(RPAREN, "Expected ')' after arguments")
			return call
		}

		// Array access.
		if p.match(LSQUARE) {
			index := p.parseExpression()
			p.consume(RSQUARE, "Expected ']' after array index")
			return &ast.IndexExpr{P: name.Pos, Name: name.Spelling, Index: index}
		}

		return &ast.ID{P: name.Pos, Name: name.Spelling}
	}

	if p.match(LPAREN) {
		expr := p.parseExpression()
		p.consume(RPAREN, "Expected ')' after expression")
		return expr
	}

	p.errorAt(p.peek(), "Expected expression")
	return nil
}
