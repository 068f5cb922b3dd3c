package syntax

import "testing"

func TestSymbolTableDeclareRejectsDuplicates(t *testing.T) {
	table := NewSymbolTable()
	initializer := &Number{Value: "5"}
	if !table.Declare("x", "int", initializer, Position{Line: 1, Column: 1}) {
		t.Fatalf("expected first declaration to succeed")
	}
	if table.Declare("x", "float", nil, Position{Line: 2, Column: 1}) {
		t.Fatalf("expected duplicate declaration to fail")
	}

	sym, ok := table.Lookup("x")
	if !ok {
		t.Fatalf("expected x to be declared")
	}
	if sym.Type != "int" || sym.Value != initializer || sym.Pos.Line != 1 {
		t.Fatalf("duplicate overwrote the entry: %#v", sym)
	}
}

func TestSymbolTableLookupIsIdempotent(t *testing.T) {
	table := NewSymbolTable()
	table.Declare("rate", "double", nil, Position{Line: 3, Column: 2})

	first, ok := table.Lookup("rate")
	for i := 0; i < 3; i++ {
		again, againOK := table.Lookup("rate")
		if again != first || againOK != ok {
			t.Fatalf("lookup %d differs: %#v vs %#v", i, again, first)
		}
		if !table.Exists("rate") {
			t.Fatalf("exists %d returned false", i)
		}
		if table.Exists("missing") {
			t.Fatalf("exists %d returned true for missing name", i)
		}
		if _, found := table.Lookup("missing"); found {
			t.Fatalf("lookup %d found missing name", i)
		}
	}
}

func TestSymbolTableSymbolsSortedByName(t *testing.T) {
	table := NewSymbolTable()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		table.Declare(name, "int", nil, Position{})
	}
	syms := table.Symbols()
	if table.Len() != 3 || len(syms) != 3 {
		t.Fatalf("expected 3 symbols, got %d", len(syms))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if syms[i].Name != want {
			t.Fatalf("symbol %d: expected %s, got %s", i, want, syms[i].Name)
		}
	}
}
