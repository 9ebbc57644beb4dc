package symbols

import "fmt"

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{
		types:     make(map[string]*TypeSymbol),
		aliases:   make(map[string]string),
		arrays:    make(map[arrayKey]*TypeSymbol),
		scopeType: ScopeGlobal, // Default to global
	}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// IsPrelude returns true if this symbol table holds the built-in types.
func (s *SymbolTable) IsPrelude() bool {
	return s.scopeType == ScopePrelude
}

// DefineType declares a nominal type in this scope. Supertypes are looked up
// by name in this scope and its outer scopes and must already be defined,
// which keeps the supertype graph acyclic.
func (s *SymbolTable) DefineType(name string, arity int, supertypes []string, origin string) (*TypeSymbol, error) {
	if !validName(name) {
		return nil, fmt.Errorf("invalid type name %q", name)
	}
	if arity < 0 {
		return nil, fmt.Errorf("type %s: negative arity %d", name, arity)
	}

	supers := make([]*TypeSymbol, 0, len(supertypes))
	for _, sn := range supertypes {
		sup, ok := s.Lookup(sn)
		if !ok {
			return nil, fmt.Errorf("type %s: unknown supertype %s", name, sn)
		}
		if sup.elem != nil {
			return nil, fmt.Errorf("type %s: supertype %s is an array type", name, sn)
		}
		supers = append(supers, sup)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.types[name]; ok {
		return nil, fmt.Errorf("type %s already defined (%s)", name, prev.origin)
	}
	sym := &TypeSymbol{name: name, arity: arity, supers: supers, origin: origin}
	s.types[name] = sym
	s.order = append(s.order, sym)
	return sym, nil
}

// Types returns the types defined in this scope, in definition order.
// Types of outer scopes are not included.
func (s *SymbolTable) Types() []*TypeSymbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*TypeSymbol(nil), s.order...)
}
