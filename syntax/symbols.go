package syntax

import "sort"

// Symbol is a declared variable. Symbols are never mutated once declared.
type Symbol struct {
	Name  string
	Type  string
	Value Expression
	Pos   Position
}

// SymbolTable is the single global scope of one parse run.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Declare registers name and reports whether it was absent. An existing
// entry is never overwritten.
func (t *SymbolTable) Declare(name, varType string, value Expression, pos Position) bool {
	if _, ok := t.symbols[name]; ok {
		return false
	}
	t.symbols[name] = &Symbol{Name: name, Type: varType, Value: value, Pos: pos}
	return true
}

func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	if !ok {
		return Symbol{}, false
	}
	return *sym, true
}

func (t *SymbolTable) Exists(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Symbols returns the declared symbols ordered by name.
func (t *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.symbols))
	for _, sym := range t.symbols {
		out = append(out, *sym)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
