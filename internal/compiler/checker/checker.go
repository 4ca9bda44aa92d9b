// Package checker implements the semantic analysis pass.  It walks the
// syntax tree recording declarations in symbol tables and reporting uses
// that have no visible declaration.
package checker

import (
	"sort"

	"github.com/golang/glog"

	"github.com/c2en/c2en/internal/compiler/ast"
	"github.com/c2en/c2en/internal/compiler/errors"
	"github.com/c2en/c2en/internal/compiler/symbol"
)

// stdlibFuncs are the C library functions that may be called without a
// definition in the source file.  The list must stay sorted; lookups
// binary-search it.
var stdlibFuncs = []string{
	"abs", "assert", "atof", "atoi", "atol", "bsearch", "calloc", "ceil",
	"cos", "exit", "exp", "fclose", "feof", "fgets", "floor", "fopen",
	"fprintf", "fputs", "fread", "free", "fscanf", "fseek", "ftell",
	"fwrite", "getchar", "gets", "isalpha", "isdigit", "isspace", "itoa",
	"log", "malloc", "memcmp", "memcpy", "memset", "pow", "printf",
	"putchar", "puts", "qsort", "rand", "realloc", "rewind", "scanf",
	"sin", "sprintf", "sqrt", "srand", "strcat", "strcmp", "strcpy",
	"strlen", "strncmp", "strncpy", "tan", "time", "tolower", "toupper",
}

func isStdlibFunc(name string) bool {
	i := sort.SearchStrings(stdlibFuncs, name)
	return i < len(stdlibFuncs) && stdlibFuncs[i] == name
}

// checker holds data for a semantic checker visitor.
type checker struct {
	// Current scope.  Functions open a child of the global scope; blocks
	// inside a function share the function's scope.
	scope *symbol.Scope

	global *symbol.Scope

	errors errors.ErrorList
}

// Check performs a semantic check of the syntax tree, and returns the tree
// and an error if any problem was found.  Checking is a single pass in
// source order, so a function must be defined before any call to it.
func Check(node ast.Node) (ast.Node, error) {
	global := symbol.NewScope("global", nil)
	c := &checker{scope: global, global: global}
	node = ast.Walk(c, node)
	if len(c.errors) > 0 {
		return node, c.errors
	}
	return node, nil
}

// VisitBefore implements the ast.Visitor interface.
func (c *checker) VisitBefore(node ast.Node) (ast.Visitor, ast.Node) {
	switch n := node.(type) {
	case *ast.FuncDecl:
		if alt := c.global.LookupLocal(n.Name); alt != nil && alt.IsFunction {
			c.errors.AddSemantic(n.Pos(), "Function '"+n.Name+"' already declared")
		} else {
			sym := symbol.NewSymbol(n.Name, n.ReturnType, "global", n.Pos().Line)
			sym.IsFunction = true
			c.global.Insert(sym)
		}

		glog.V(2).Infof("Entering scope of function %s", n.Name)
		c.scope = symbol.NewScope(n.Name, c.global)
		for _, p := range n.Params {
			sym := symbol.NewSymbol(p.Name, p.Type, n.Name, n.Pos().Line)
			sym.IsArray = p.IsArray
			if alt := c.scope.Insert(sym); alt != nil {
				c.errors.AddSemantic(n.Pos(), "Variable '"+p.Name+"' already declared in this scope")
			}
		}

	case *ast.VarDecl:
		sym := symbol.NewSymbol(n.Name, n.VarType, c.scope.Name, n.Pos().Line)
		sym.IsArray = n.IsArray
		if alt := c.scope.Insert(sym); alt != nil {
			c.errors.AddSemantic(n.Pos(), "Variable '"+n.Name+"' already declared in this scope")
		}

	case *ast.ID:
		if c.scope.Lookup(n.Name) == nil {
			c.errors.AddSemantic(n.Pos(), "Undeclared variable '"+n.Name+"'")
		}

	case *ast.IndexExpr:
		sym := c.scope.Lookup(n.Name)
		switch {
		case sym == nil:
			c.errors.AddSemantic(n.Pos(), "Undeclared array '"+n.Name+"'")
		case !sym.IsArray:
			c.errors.AddSemantic(n.Pos(), "'"+n.Name+"' is not an array")
		}

	case *ast.CallExpr:
		if !isStdlibFunc(n.Name) {
			sym := c.global.Lookup(n.Name)
			if sym == nil || !sym.IsFunction {
				c.errors.AddSemantic(n.Pos(), "Undefined function '"+n.Name+"'")
			}
		}

	case *ast.StructDecl, *ast.EnumDecl:
		// Type declarations introduce no symbols that expression checking
		// uses, and their bodies contain only constant expressions.
		return nil, n
	}
	return c, node
}

// VisitAfter implements the ast.Visitor interface.
func (c *checker) VisitAfter(node ast.Node) ast.Node {
	if n, ok := node.(*ast.FuncDecl); ok {
		glog.V(2).Infof("Leaving scope of function %s", n.Name)
		c.scope = c.scope.Parent
	}
	return node
}
