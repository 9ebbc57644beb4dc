package symbols

import (
	"github.com/funvibe/jype/internal/config"
	"github.com/funvibe/jype/internal/typesystem"
	"strings"
)

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in types
	ScopeGlobal                   // Types declared by the user (config, snapshots)
)

// TypeSymbol is a nominal type owned by a SymbolTable. It implements
// typesystem.Handle. A TypeSymbol never changes after it is defined.
type TypeSymbol struct {
	name   string
	arity  int
	supers []*TypeSymbol
	elem   *TypeSymbol // innermost element, non-nil only for array types
	dims   int
	origin string // where the symbol was defined (prelude, config path, snapshot id)
}

func (s *TypeSymbol) Name() string { return s.name }
func (s *TypeSymbol) Arity() int   { return s.arity }

// Origin returns where the type was defined.
func (s *TypeSymbol) Origin() string { return s.origin }

// Supertypes returns the declared direct supertypes.
func (s *TypeSymbol) Supertypes() []*TypeSymbol {
	return append([]*TypeSymbol(nil), s.supers...)
}

func (s *TypeSymbol) ArrayShape() (typesystem.Handle, int) {
	if s.elem == nil {
		return nil, 0
	}
	return s.elem, s.dims
}

// AssignableFrom reports whether sub is s or reachable from sub through
// declared supertypes. Reference arrays are compared by dimension count and
// element type, as in the host runtime.
func (s *TypeSymbol) AssignableFrom(sub typesystem.Handle) bool {
	o, ok := sub.(*TypeSymbol)
	if !ok || o == nil {
		return false
	}
	if s == o {
		return true
	}
	if s.elem != nil {
		return o.elem != nil && s.dims == o.dims && s.elem.AssignableFrom(o.elem)
	}
	return o.hasSupertype(s)
}

// hasSupertype walks the supertype graph breadth-first.
func (s *TypeSymbol) hasSupertype(target *TypeSymbol) bool {
	visited := map[*TypeSymbol]bool{s: true}
	queue := append([]*TypeSymbol(nil), s.supers...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		queue = append(queue, cur.supers...)
	}
	return false
}

func (s *TypeSymbol) String() string { return s.name }

func arrayName(elem string, dims int) string {
	return elem + strings.Repeat(config.ArraySuffix, dims)
}

// splitArrayName strips trailing "[]" groups: "int[][]" -> ("int", 2).
func splitArrayName(name string) (string, int) {
	dims := 0
	for strings.HasSuffix(name, config.ArraySuffix) {
		name = strings.TrimSuffix(name, config.ArraySuffix)
		dims++
	}
	return name, dims
}

// validName reports whether name matches [A-Za-z][A-Za-z0-9.]*.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		letter := 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
		switch {
		case letter:
		case i > 0 && ('0' <= ch && ch <= '9' || ch == '.'):
		default:
			return false
		}
	}
	return true
}
