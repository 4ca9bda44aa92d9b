// Package symbol implements the symbol table used by semantic analysis.
package symbol

import (
	"fmt"
	"strings"
)

// A Symbol is an entry in a scope, describing one declared name.
type Symbol struct {
	Name       string // Identifier as it appears in the source.
	Type       string // Spelled type of the declaration, e.g. "int".
	Scope      string // Name of the scope the symbol was declared in.
	Line       int    // Line of the declaration, for diagnostics.
	IsFunction bool
	IsArray    bool
}

// NewSymbol returns a new symbol.
func NewSymbol(name, typ, scope string, line int) *Symbol {
	return &Symbol{Name: name, Type: typ, Scope: scope, Line: line}
}

func (s *Symbol) String() string {
	r := fmt.Sprintf("%s: %s (line %d)", s.Name, s.Type, s.Line)
	if s.IsFunction {
		r += " [function]"
	}
	if s.IsArray {
		r += " [array]"
	}
	return r
}

// A Scope is a named collection of declared symbols, chained to an enclosing
// scope for lookup.  The Parent reference is non-owning: a scope never
// manages its parent's entries, it only follows the chain on Lookup.
type Scope struct {
	Name    string
	Parent  *Scope
	Symbols []*Symbol
}

// NewScope creates a new scope with the given enclosing scope, which may be
// nil for the global scope.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{Name: name, Parent: parent}
}

// Insert adds sym to this scope.  If a symbol of the same name already
// exists in this exact scope, Insert returns it and does not overwrite.
func (s *Scope) Insert(sym *Symbol) *Symbol {
	if alt := s.LookupLocal(sym.Name); alt != nil {
		return alt
	}
	s.Symbols = append(s.Symbols, sym)
	return nil
}

// LookupLocal searches for a name in this scope only.
func (s *Scope) LookupLocal(name string) *Symbol {
	for _, sym := range s.Symbols {
		if sym.Name == name {
			return sym
		}
	}
	return nil
}

// Lookup searches this scope and then each enclosing scope for a name,
// returning nil if the name is not declared anywhere on the chain.
func (s *Scope) Lookup(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym := scope.LookupLocal(name); sym != nil {
			return sym
		}
	}
	return nil
}

// String renders the scope and its entries, for debug logging.
func (s *Scope) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol table [%s]:\n", s.Name)
	for _, sym := range s.Symbols {
		fmt.Fprintf(&sb, "  %s\n", sym)
	}
	return sb.String()
}
