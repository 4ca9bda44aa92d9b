package ast

import (
	"fmt"

	"github.com/golang/glog"
)

// Visitor VisitBefore method is invoked for each node encountered by Walk.
// If the result Visitor v is not nil, Walk visits each of the children of
// that node with v.  VisitAfter is called on n at the end.
type Visitor interface {
	VisitBefore(n Node) (Visitor, Node)
	VisitAfter(n Node) Node
}

// convenience function.
func walknodelist(v Visitor, list []Node) []Node {
	r := make([]Node, 0, len(list))
	for _, x := range list {
		r = append(r, Walk(v, x))
	}
	return r
}

// Walk traverses (walks) an AST node with the provided Visitor v.  The
// type switch over node kinds is exhaustive: a kind missing here is a
// programming error and panics rather than being silently skipped.
func Walk(v Visitor, node Node) Node {
	// Returning nil from VisitBefore signals to Walk that the Visitor has
	// handled the children of this node.  VisitAfter will not be called.
	if v, node = v.VisitBefore(node); v == nil {
		return node
	}

	switch n := node.(type) {
	case *Program:
		n.Types = walknodelist(v, n.Types)
		n.Functions = walknodelist(v, n.Functions)

	case *FuncDecl:
		if n.Body != nil {
			n.Body = Walk(v, n.Body)
		}

	case *VarDecl:
		if n.Size != nil {
			n.Size = Walk(v, n.Size)
		}
		if n.Init != nil {
			n.Init = Walk(v, n.Init)
		}

	case *Block:
		n.Stmts = walknodelist(v, n.Stmts)

	case *CondStmt:
		n.Cond = Walk(v, n.Cond)
		if n.Then != nil {
			n.Then = Walk(v, n.Then)
		}
		if n.Else != nil {
			n.Else = Walk(v, n.Else)
		}

	case *WhileStmt:
		n.Cond = Walk(v, n.Cond)
		if n.Body != nil {
			n.Body = Walk(v, n.Body)
		}

	case *DoWhileStmt:
		if n.Body != nil {
			n.Body = Walk(v, n.Body)
		}
		n.Cond = Walk(v, n.Cond)

	case *ForStmt:
		if n.Init != nil {
			n.Init = Walk(v, n.Init)
		}
		if n.Cond != nil {
			n.Cond = Walk(v, n.Cond)
		}
		if n.Post != nil {
			n.Post = Walk(v, n.Post)
		}
		if n.Body != nil {
			n.Body = Walk(v, n.Body)
		}

	case *SwitchStmt:
		n.Expr = Walk(v, n.Expr)
		n.Clauses = walknodelist(v, n.Clauses)

	case *CaseClause:
		n.Value = Walk(v, n.Value)
		n.Stmts = walknodelist(v, n.Stmts)

	case *DefaultClause:
		n.Stmts = walknodelist(v, n.Stmts)

	case *ReturnStmt:
		if n.Value != nil {
			n.Value = Walk(v, n.Value)
		}

	case *LabeledStmt:
		if n.Stmt != nil {
			n.Stmt = Walk(v, n.Stmt)
		}

	case *BinaryExpr:
		n.LHS = Walk(v, n.LHS)
		n.RHS = Walk(v, n.RHS)

	case *UnaryExpr:
		n.Expr = Walk(v, n.Expr)

	case *TernaryExpr:
		n.Cond = Walk(v, n.Cond)
		n.Then = Walk(v, n.Then)
		n.Else = Walk(v, n.Else)

	case *AssignExpr:
		n.Target = Walk(v, n.Target)
		n.Value = Walk(v, n.Value)

	case *OpAssignExpr:
		n.Target = Walk(v, n.Target)
		n.Value = Walk(v, n.Value)

	case *CallExpr:
		n.Args = walknodelist(v, n.Args)

	case *IndexExpr:
		n.Index = Walk(v, n.Index)

	case *MemberExpr:
		n.Object = Walk(v, n.Object)

	case *StructDecl:
		n.Members = walknodelist(v, n.Members)

	case *EnumDecl:
		for i := range n.Values {
			if n.Values[i].Value != nil {
				n.Values[i].Value = Walk(v, n.Values[i].Value)
			}
		}

	case *SizeofExpr:
		if n.Expr != nil {
			n.Expr = Walk(v, n.Expr)
		}

	case *CastExpr:
		n.Expr = Walk(v, n.Expr)

	case *Literal, *ID, *BreakStmt, *ContinueStmt, *GotoStmt, *TypedefDecl:
		// These nodes are terminals, thus have no children to walk.

	default:
		panic(fmt.Sprintf("Walk: unexpected node type %T: %v", n, n))
	}

	glog.V(2).Infof("About to VisitAfter node at %s", node.Pos())
	node = v.VisitAfter(node)
	return node
}
