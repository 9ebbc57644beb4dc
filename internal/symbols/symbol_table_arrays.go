package symbols

import (
	"fmt"
	"github.com/funvibe/jype/internal/config"
)

// ArrayOf returns the interned array handle with the given element and
// dimension count. If elem is itself an array, its dimensions are added, so
// ArrayOf(int[], 1) is int[][].
func (s *SymbolTable) ArrayOf(elem *TypeSymbol, dims int) (*TypeSymbol, error) {
	if elem == nil {
		return nil, fmt.Errorf("array element cannot be nil")
	}
	if dims < 1 {
		return nil, fmt.Errorf("array of %s: dimensions must be at least 1, got %d", elem.name, dims)
	}
	if elem.elem != nil {
		dims += elem.dims
		elem = elem.elem
	}

	key := arrayKey{elem: elem, dims: dims}
	s.mu.RLock()
	sym, ok := s.arrays[key]
	s.mu.RUnlock()
	if ok {
		return sym, nil
	}

	var supers []*TypeSymbol
	if obj, ok := s.Lookup(config.ObjectTypeName); ok {
		supers = []*TypeSymbol{obj}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sym, ok := s.arrays[key]; ok {
		return sym, nil
	}
	sym = &TypeSymbol{
		name:   arrayName(elem.name, dims),
		supers: supers,
		elem:   elem,
		dims:   dims,
		origin: elem.origin,
	}
	s.arrays[key] = sym
	return sym, nil
}
