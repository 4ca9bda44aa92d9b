// Package compiler runs the front end passes over one C source file: the
// lexer, the parser and the semantic checker.
package compiler

import (
	"context"
	"io"
	"path/filepath"

	"github.com/golang/glog"
	"go.opencensus.io/trace"

	"github.com/c2en/c2en/internal/compiler/ast"
	"github.com/c2en/c2en/internal/compiler/checker"
	"github.com/c2en/c2en/internal/compiler/parser"
)

// Compile parses and checks a program from the input, returning its syntax
// tree or the accumulated list of compile errors.  The tree it returns has
// passed semantic analysis and is safe to hand to the translator.
func Compile(ctx context.Context, name string, input io.Reader, dumpTokens bool, dumpAst bool) (ast.Node, error) {
	name = filepath.Base(name)
	_, span := trace.StartSpan(ctx, "compiler.Compile")
	defer span.End()

	stream := parser.Tokenize(name, input)
	if dumpTokens {
		for _, tok := range stream {
			glog.Infof("%s", tok)
		}
	}

	tree, err := parser.Parse(name, stream)
	if err != nil {
		return nil, err
	}
	if dumpAst {
		glog.Infof("%s AST:\n%s", name, parser.Dump(tree))
	}

	checked, err := checker.Check(tree)
	if err != nil {
		return nil, err
	}
	return checked, nil
}
