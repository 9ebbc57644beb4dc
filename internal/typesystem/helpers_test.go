package typesystem_test

import (
	"testing"

	"github.com/funvibe/jype/internal/symbols"
	"github.com/funvibe/jype/internal/typesystem"
)

func newTable(t *testing.T) *symbols.SymbolTable {
	t.Helper()
	return symbols.NewSymbolTable()
}

func lookup(t *testing.T, st *symbols.SymbolTable, name string) *symbols.TypeSymbol {
	t.Helper()
	sym, ok := st.Lookup(name)
	if !ok {
		t.Fatalf("type %s not defined", name)
	}
	return sym
}

func simple(t *testing.T, st *symbols.SymbolTable, name string) typesystem.Simple {
	t.Helper()
	d, err := typesystem.NewSimple(lookup(t, st, name))
	if err != nil {
		t.Fatalf("NewSimple(%s): %v", name, err)
	}
	return d
}

func array(t *testing.T, st *symbols.SymbolTable, name string, dims int) typesystem.Array {
	t.Helper()
	d, err := typesystem.NewArray(lookup(t, st, name), dims)
	if err != nil {
		t.Fatalf("NewArray(%s, %d): %v", name, dims, err)
	}
	return d
}

func generic(t *testing.T, st *symbols.SymbolTable, name string, params ...typesystem.Descriptor) typesystem.Generic {
	t.Helper()
	d, err := typesystem.NewGeneric(lookup(t, st, name), params...)
	if err != nil {
		t.Fatalf("NewGeneric(%s): %v", name, err)
	}
	return d
}

func genericOf(t *testing.T, st *symbols.SymbolTable, name string, params ...string) typesystem.Generic {
	t.Helper()
	handles := make([]typesystem.Handle, len(params))
	for i, p := range params {
		handles[i] = lookup(t, st, p)
	}
	d, err := typesystem.NewGenericOf(lookup(t, st, name), handles...)
	if err != nil {
		t.Fatalf("NewGenericOf(%s): %v", name, err)
	}
	return d
}
