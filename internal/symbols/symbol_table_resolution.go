package symbols

import "github.com/funvibe/jype/internal/typesystem"

// Lookup finds a type by its canonical name in this scope or any outer scope.
// Names with a trailing "[]" suffix resolve to interned array handles.
func (s *SymbolTable) Lookup(name string) (*TypeSymbol, bool) {
	base, dims := splitArrayName(name)
	sym, ok := s.lookupNominal(base)
	if !ok || dims == 0 {
		return sym, ok
	}
	arr, err := s.ArrayOf(sym, dims)
	if err != nil {
		return nil, false
	}
	return arr, true
}

func (s *SymbolTable) lookupNominal(name string) (*TypeSymbol, bool) {
	s.mu.RLock()
	sym, ok := s.types[name]
	s.mu.RUnlock()
	if !ok && s.outer != nil {
		return s.outer.lookupNominal(name)
	}
	return sym, ok
}

// ResolveName implements typesystem.Registry.
func (s *SymbolTable) ResolveName(name string) (typesystem.Handle, bool) {
	sym, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}
	return sym, true
}

// MustLookup is like Lookup but panics if the type is not defined.
func (s *SymbolTable) MustLookup(name string) *TypeSymbol {
	sym, ok := s.Lookup(name)
	if !ok {
		panic("symbols: unknown type " + name)
	}
	return sym
}
