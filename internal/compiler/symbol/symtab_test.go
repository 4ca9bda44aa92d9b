package symbol

import (
	"testing"
)

func TestInsertLookup(t *testing.T) {
	s := NewScope("global", nil)

	sym1 := NewSymbol("foo", "int", "global", 1)
	if r := s.Insert(sym1); r != nil {
		t.Errorf("Insert already had a symbol: %v", r)
	}

	r1 := s.Lookup("foo")
	if r1 != sym1 {
		t.Errorf("Lookup didn't return the same symbol: got %v, want %v", r1, sym1)
	}

	if r := s.Lookup("bar"); r != nil {
		t.Errorf("Lookup of undeclared name returned %v", r)
	}
}

// Insert of a duplicate name returns the existing symbol and keeps it.
func TestInsertDuplicate(t *testing.T) {
	s := NewScope("f", nil)

	sym1 := NewSymbol("a", "int", "f", 1)
	if r := s.Insert(sym1); r != nil {
		t.Errorf("Insert already had a symbol: %v", r)
	}
	sym2 := NewSymbol("a", "char", "f", 2)
	if r := s.Insert(sym2); r != sym1 {
		t.Errorf("Insert of duplicate got %v, want original %v", r, sym1)
	}
	if r := s.Lookup("a"); r != sym1 {
		t.Errorf("Lookup after duplicate insert got %v, want original %v", r, sym1)
	}
}

func TestNestedScopes(t *testing.T) {
	global := NewScope("global", nil)
	fn := NewScope("main", global)

	outer := NewSymbol("foo", "int", "global", 1)
	global.Insert(outer)

	if r := fn.Lookup("foo"); r != outer {
		t.Errorf("Lookup did not follow the scope chain: got %v, want %v", r, outer)
	}
	if r := fn.LookupLocal("foo"); r != nil {
		t.Errorf("LookupLocal crossed a scope boundary: got %v", r)
	}

	// A local of the same name takes precedence over the outer symbol.
	inner := NewSymbol("foo", "char", "main", 3)
	if r := fn.Insert(inner); r != nil {
		t.Errorf("Insert already had a symbol: %v", r)
	}
	if r := fn.Lookup("foo"); r != inner {
		t.Errorf("Lookup did not prefer the local symbol: got %v, want %v", r, inner)
	}
	if r := global.Lookup("foo"); r != outer {
		t.Errorf("outer scope affected by inner insert: got %v, want %v", r, outer)
	}
}

func TestSymbolString(t *testing.T) {
	sym := NewSymbol("nums", "int", "main", 4)
	sym.IsArray = true
	if want, got := "nums: int (line 4) [array]", sym.String(); want != got {
		t.Errorf("String() got %q, want %q", got, want)
	}

	fn := NewSymbol("main", "int", "global", 1)
	fn.IsFunction = true
	if want, got := "main: int (line 1) [function]", fn.String(); want != got {
		t.Errorf("String() got %q, want %q", got, want)
	}
}
