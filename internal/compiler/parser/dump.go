package parser

import (
	"fmt"
	"strings"

	"github.com/c2en/c2en/internal/compiler/ast"
)

// Dumper converts a syntax tree into an indented textual outline, one node
// per line, for the --dump_ast flag and for debugging test failures.
type Dumper struct {
	pos    int
	output strings.Builder
}

// Dump returns the outline form of a syntax tree.
func Dump(n ast.Node) string {
	d := &Dumper{}
	d.dump(n)
	return d.output.String()
}

func (d *Dumper) indent() {
	d.pos += 2
}

func (d *Dumper) outdent() {
	d.pos -= 2
}

func (d *Dumper) emitLine(format string, args ...interface{}) {
	d.output.WriteString(strings.Repeat(" ", d.pos))
	fmt.Fprintf(&d.output, format, args...)
	d.output.WriteString("\n")
}

func (d *Dumper) dumpAll(nodes []ast.Node) {
	for _, n := range nodes {
		d.dump(n)
	}
}

func (d *Dumper) dump(node ast.Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		d.emitLine("PROGRAM (%d functions)", len(n.Functions))
		d.indent()
		d.dumpAll(n.Types)
		d.dumpAll(n.Functions)
		d.outdent()

	case *ast.FuncDecl:
		d.emitLine("FUNCTION %s: %s", n.Name, n.ReturnType)
		d.indent()
		for _, p := range n.Params {
			if p.IsArray {
				d.emitLine("PARAM %s: %s[]", p.Name, p.Type)
			} else {
				d.emitLine("PARAM %s: %s", p.Name, p.Type)
			}
		}
		d.dump(n.Body)
		d.outdent()

	case *ast.VarDecl:
		if n.IsArray {
			d.emitLine("DECLARATION %s: %s[]", n.Name, n.VarType)
		} else {
			d.emitLine("DECLARATION %s: %s", n.Name, n.VarType)
		}
		d.indent()
		d.dump(n.Size)
		d.dump(n.Init)
		d.outdent()

	case *ast.Block:
		d.emitLine("BLOCK (%d statements)", len(n.Stmts))
		d.indent()
		d.dumpAll(n.Stmts)
		d.outdent()

	case *ast.CondStmt:
		d.emitLine("IF")
		d.indent()
		d.dump(n.Cond)
		d.dump(n.Then)
		d.dump(n.Else)
		d.outdent()

	case *ast.WhileStmt:
		d.emitLine("WHILE")
		d.indent()
		d.dump(n.Cond)
		d.dump(n.Body)
		d.outdent()

	case *ast.DoWhileStmt:
		d.emitLine("DO_WHILE")
		d.indent()
		d.dump(n.Body)
		d.dump(n.Cond)
		d.outdent()

	case *ast.ForStmt:
		d.emitLine("FOR")
		d.indent()
		d.dump(n.Init)
		d.dump(n.Cond)
		d.dump(n.Post)
		d.dump(n.Body)
		d.outdent()

	case *ast.SwitchStmt:
		d.emitLine("SWITCH (%d clauses)", len(n.Clauses))
		d.indent()
		d.dump(n.Expr)
		d.dumpAll(n.Clauses)
		d.outdent()

	case *ast.CaseClause:
		d.emitLine("CASE")
		d.indent()
		d.dump(n.Value)
		d.dumpAll(n.Stmts)
		d.outdent()

	case *ast.DefaultClause:
		d.emitLine("DEFAULT")
		d.indent()
		d.dumpAll(n.Stmts)
		d.outdent()

	case *ast.ReturnStmt:
		d.emitLine("RETURN")
		d.indent()
		d.dump(n.Value)
		d.outdent()

	case *ast.BreakStmt:
		d.emitLine("BREAK")

	case *ast.ContinueStmt:
		d.emitLine("CONTINUE")

	case *ast.GotoStmt:
		d.emitLine("GOTO %s", n.Label)

	case *ast.LabeledStmt:
		d.emitLine("LABEL %s", n.Name)
		d.indent()
		d.dump(n.Stmt)
		d.outdent()

	case *ast.BinaryExpr:
		d.emitLine("BINARY_OP %s", n.Op)
		d.indent()
		d.dump(n.LHS)
		d.dump(n.RHS)
		d.outdent()

	case *ast.UnaryExpr:
		if n.Postfix {
			d.emitLine("UNARY_OP %s (postfix)", n.Op)
		} else {
			d.emitLine("UNARY_OP %s", n.Op)
		}
		d.indent()
		d.dump(n.Expr)
		d.outdent()

	case *ast.TernaryExpr:
		d.emitLine("TERNARY")
		d.indent()
		d.dump(n.Cond)
		d.dump(n.Then)
		d.dump(n.Else)
		d.outdent()

	case *ast.AssignExpr:
		d.emitLine("ASSIGNMENT")
		d.indent()
		d.dump(n.Target)
		d.dump(n.Value)
		d.outdent()

	case *ast.OpAssignExpr:
		d.emitLine("COMPOUND_ASSIGNMENT %s", n.Op)
		d.indent()
		d.dump(n.Target)
		d.dump(n.Value)
		d.outdent()

	case *ast.CallExpr:
		d.emitLine("CALL %s (%d args)", n.Name, len(n.Args))
		d.indent()
		d.dumpAll(n.Args)
		d.outdent()

	case *ast.IndexExpr:
		d.emitLine("ARRAY_ACCESS %s", n.Name)
		d.indent()
		d.dump(n.Index)
		d.outdent()

	case *ast.MemberExpr:
		if n.Arrow {
			d.emitLine("MEMBER_ACCESS ->%s", n.Member)
		} else {
			d.emitLine("MEMBER_ACCESS .%s", n.Member)
		}
		d.indent()
		d.dump(n.Object)
		d.outdent()

	case *ast.Literal:
		d.emitLine("LITERAL %s (%s)", n.Value, n.LitType)

	case *ast.ID:
		d.emitLine("IDENTIFIER %s", n.Name)

	case *ast.StructDecl:
		kind := "STRUCT"
		if n.Union {
			kind = "UNION"
		}
		d.emitLine("%s %s (%d members)", kind, n.Name, len(n.Members))
		d.indent()
		d.dumpAll(n.Members)
		d.outdent()

	case *ast.EnumDecl:
		d.emitLine("ENUM %s (%d values)", n.Name, len(n.Values))
		d.indent()
		for _, v := range n.Values {
			d.emitLine("ENUM_VALUE %s", v.Name)
			d.indent()
			d.dump(v.Value)
			d.outdent()
		}
		d.outdent()

	case *ast.SizeofExpr:
		if n.TypeName != "" {
			d.emitLine("SIZEOF %s", n.TypeName)
		} else {
			d.emitLine("SIZEOF")
			d.indent()
			d.dump(n.Expr)
			d.outdent()
		}

	case *ast.CastExpr:
		d.emitLine("CAST (%s)", n.TypeName)
		d.indent()
		d.dump(n.Expr)
		d.outdent()

	case *ast.TypedefDecl:
		d.emitLine("TYPEDEF %s: %s", n.Alias, n.BaseType)

	default:
		d.emitLine("NODE %T", n)
	}
}
