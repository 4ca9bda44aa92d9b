package ast_test

import (
	"strings"
	"testing"

	"github.com/c2en/c2en/internal/compiler/ast"
	"github.com/c2en/c2en/internal/compiler/parser"
	"github.com/c2en/c2en/internal/testutil"
)

type nodeCounter struct {
	count int
}

func (v *nodeCounter) VisitBefore(n ast.Node) (ast.Visitor, ast.Node) {
	v.count++
	return v, n
}

func (v *nodeCounter) VisitAfter(n ast.Node) ast.Node {
	return n
}

func TestWalkVisitsEveryNode(t *testing.T) {
	src := "int main() { int a = 1; if (a > 0) { a = a - 1; } return a; }"
	tree, err := parser.Parse("walk", parser.Tokenize("walk", strings.NewReader(src)))
	testutil.FatalIfErr(t, err)

	v := &nodeCounter{}
	ast.Walk(v, tree)

	// Program, FuncDecl, Block, VarDecl, Literal, CondStmt, BinaryExpr,
	// ID, Literal, Block, AssignExpr, ID, BinaryExpr, ID, Literal,
	// ReturnStmt, ID.
	if want := 17; v.count != want {
		t.Errorf("walk visited %d nodes, want %d:\n%s", v.count, want, parser.Dump(tree))
	}
}

type identRenamer struct {
	from, to string
}

func (v *identRenamer) VisitBefore(n ast.Node) (ast.Visitor, ast.Node) {
	return v, n
}

func (v *identRenamer) VisitAfter(n ast.Node) ast.Node {
	if id, ok := n.(*ast.ID); ok && id.Name == v.from {
		return &ast.ID{P: id.P, Name: v.to}
	}
	return n
}

// Walk must replace a node with the visitor's returned substitute.
func TestWalkReplacesNodes(t *testing.T) {
	src := "int main() { int a = 1; return a; }"
	tree, err := parser.Parse("rename", parser.Tokenize("rename", strings.NewReader(src)))
	testutil.FatalIfErr(t, err)

	tree2 := ast.Walk(&identRenamer{from: "a", to: "b"}, tree).(*ast.Program)

	ret := tree2.Functions[0].(*ast.FuncDecl).Body.(*ast.Block).Stmts[1].(*ast.ReturnStmt)
	id, ok := ret.Value.(*ast.ID)
	if !ok || id.Name != "b" {
		t.Errorf("identifier was not replaced, got %v", ret.Value)
	}
}
