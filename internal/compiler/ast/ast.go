// Package ast defines the syntax tree produced by the parser and consumed
// by the checker and the translator.
package ast

import (
	"github.com/c2en/c2en/internal/compiler/position"
)

type Node interface {
	Pos() *position.Position // Returns the position of the node from the original source
}

// Program is the root of the tree: the functions and type declarations of
// one translation unit, in source order.
type Program struct {
	P         position.Position
	Functions []Node
	Types     []Node
}

func (n *Program) Pos() *position.Position {
	return &n.P
}

// AddFunction appends a function to the program.
func (n *Program) AddFunction(fn Node) {
	n.Functions = append(n.Functions, fn)
}

// AddType appends a struct, union, enum or typedef declaration.
func (n *Program) AddType(decl Node) {
	n.Types = append(n.Types, decl)
}

// A Param describes one formal parameter of a function.  Parameters are
// owned by the function node; the symbols later created for them in the
// function scope have independent lifetimes.
type Param struct {
	Type    string
	Name    string
	IsArray bool
}

type FuncDecl struct {
	P          position.Position
	ReturnType string
	Name       string
	Params     []*Param
	Body       Node
}

func (n *FuncDecl) Pos() *position.Position {
	return &n.P
}

// VarDecl declares a scalar or array variable.  Size is only set for
// arrays and Init only for scalars; either may be nil, which is a normal
// state distinct from a parse failure.
type VarDecl struct {
	P       position.Position
	VarType string
	Name    string
	IsArray bool
	Size    Node
	Init    Node
}

func (n *VarDecl) Pos() *position.Position {
	return &n.P
}

type Block struct {
	P     position.Position
	Stmts []Node
}

func (n *Block) Pos() *position.Position {
	return &n.P
}

// AddStmt appends a statement to the block.
func (n *Block) AddStmt(stmt Node) {
	n.Stmts = append(n.Stmts, stmt)
}

// CondStmt is an if statement.  Else may be nil.
type CondStmt struct {
	P     position.Position
	Cond  Node
	Then  Node
	Else  Node
}

func (n *CondStmt) Pos() *position.Position {
	return &n.P
}

type WhileStmt struct {
	P    position.Position
	Cond Node
	Body Node
}

func (n *WhileStmt) Pos() *position.Position {
	return &n.P
}

type DoWhileStmt struct {
	P    position.Position
	Body Node
	Cond Node
}

func (n *DoWhileStmt) Pos() *position.Position {
	return &n.P
}

// ForStmt's Init, Cond and Post are each optional.  Init is either a
// VarDecl or an expression.
type ForStmt struct {
	P    position.Position
	Init Node
	Cond Node
	Post Node
	Body Node
}

func (n *ForStmt) Pos() *position.Position {
	return &n.P
}

// SwitchStmt owns a flat list of CaseClause and DefaultClause nodes.
type SwitchStmt struct {
	P       position.Position
	Expr    Node
	Clauses []Node
}

func (n *SwitchStmt) Pos() *position.Position {
	return &n.P
}

// AddClause appends a case or default clause to the switch.
func (n *SwitchStmt) AddClause(clause Node) {
	n.Clauses = append(n.Clauses, clause)
}

// CaseClause owns the statements up to the next introducer or the closing
// brace of the switch.
type CaseClause struct {
	P     position.Position
	Value Node
	Stmts []Node
}

func (n *CaseClause) Pos() *position.Position {
	return &n.P
}

// AddStmt appends a statement to the clause.
func (n *CaseClause) AddStmt(stmt Node) {
	n.Stmts = append(n.Stmts, stmt)
}

type DefaultClause struct {
	P     position.Position
	Stmts []Node
}

func (n *DefaultClause) Pos() *position.Position {
	return &n.P
}

// AddStmt appends a statement to the clause.
func (n *DefaultClause) AddStmt(stmt Node) {
	n.Stmts = append(n.Stmts, stmt)
}

// ReturnStmt's Value is nil for a bare return.
type ReturnStmt struct {
	P     position.Position
	Value Node
}

func (n *ReturnStmt) Pos() *position.Position {
	return &n.P
}

type BreakStmt struct {
	P position.Position
}

func (n *BreakStmt) Pos() *position.Position {
	return &n.P
}

type ContinueStmt struct {
	P position.Position
}

func (n *ContinueStmt) Pos() *position.Position {
	return &n.P
}

type GotoStmt struct {
	P     position.Position
	Label string
}

func (n *GotoStmt) Pos() *position.Position {
	return &n.P
}

// LabeledStmt's Stmt may be nil when the label directly precedes a
// closing brace.
type LabeledStmt struct {
	P    position.Position
	Name string
	Stmt Node
}

func (n *LabeledStmt) Pos() *position.Position {
	return &n.P
}

type BinaryExpr struct {
	P        position.Position
	Op       string
	LHS, RHS Node
}

func (n *BinaryExpr) Pos() *position.Position {
	return &n.P
}

// UnaryExpr covers both prefix operators and the postfix increment and
// decrement forms, distinguished by Postfix.
type UnaryExpr struct {
	P       position.Position
	Op      string
	Expr    Node
	Postfix bool
}

func (n *UnaryExpr) Pos() *position.Position {
	return &n.P
}

type TernaryExpr struct {
	P    position.Position
	Cond Node
	Then Node
	Else Node
}

func (n *TernaryExpr) Pos() *position.Position {
	return &n.P
}

type AssignExpr struct {
	P      position.Position
	Target Node
	Value  Node
}

func (n *AssignExpr) Pos() *position.Position {
	return &n.P
}

// OpAssignExpr is a compound assignment, e.g. "+=".  Op keeps the full
// operator spelling.
type OpAssignExpr struct {
	P      position.Position
	Op     string
	Target Node
	Value  Node
}

func (n *OpAssignExpr) Pos() *position.Position {
	return &n.P
}

type CallExpr struct {
	P    position.Position
	Name string
	Args []Node
}

func (n *CallExpr) Pos() *position.Position {
	return &n.P
}

type IndexExpr struct {
	P     position.Position
	Name  string
	Index Node
}

func (n *IndexExpr) Pos() *position.Position {
	return &n.P
}

type MemberExpr struct {
	P      position.Position
	Object Node
	Member string
	Arrow  bool // true for "->", false for "."
}

func (n *MemberExpr) Pos() *position.Position {
	return &n.P
}

// Literal holds a number, string or character constant.  LitType records
// which, as spelled by the lexer's classification.
type Literal struct {
	P       position.Position
	Value   string
	LitType string
}

func (n *Literal) Pos() *position.Position {
	return &n.P
}

type ID struct {
	P    position.Position
	Name string
}

func (n *ID) Pos() *position.Position {
	return &n.P
}

// StructDecl is a struct or union definition; members are VarDecls.
type StructDecl struct {
	P       position.Position
	Union   bool
	Name    string
	Members []Node
}

func (n *StructDecl) Pos() *position.Position {
	return &n.P
}

// AddMember appends a member declaration.
func (n *StructDecl) AddMember(member Node) {
	n.Members = append(n.Members, member)
}

// An EnumValue is one enumerator; Value is nil when no explicit constant
// is given.
type EnumValue struct {
	Name  string
	Value Node
}

type EnumDecl struct {
	P      position.Position
	Name   string
	Values []EnumValue
}

func (n *EnumDecl) Pos() *position.Position {
	return &n.P
}

// AddValue appends an enumerator.
func (n *EnumDecl) AddValue(v EnumValue) {
	n.Values = append(n.Values, v)
}

// SizeofExpr has either a TypeName or an Expr operand, never both.
type SizeofExpr struct {
	P        position.Position
	TypeName string
	Expr     Node
}

func (n *SizeofExpr) Pos() *position.Position {
	return &n.P
}

type CastExpr struct {
	P        position.Position
	TypeName string
	Expr     Node
}

func (n *CastExpr) Pos() *position.Position {
	return &n.P
}

type TypedefDecl struct {
	P        position.Position
	BaseType string
	Alias    string
}

func (n *TypedefDecl) Pos() *position.Position {
	return &n.P
}
