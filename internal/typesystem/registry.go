package typesystem

// Handle is a nominal type owned by a host registry. Descriptors hold handles
// by reference and never mutate them. Implementations must be comparable:
// two handles denote the same type iff they are == .
type Handle interface {
	// Name is the canonical display name, e.g. "java.util.List".
	Name() string
	// Arity is the number of declared generic parameters (0 for non-generic types).
	Arity() int
	// ArrayShape returns the innermost element handle and the nesting depth
	// for array-shaped handles, and (nil, 0) otherwise.
	ArrayShape() (elem Handle, dims int)
	// AssignableFrom reports whether sub is a nominal subtype of (or equal to)
	// the receiver. It must be reflexive and transitive, and false for handles
	// owned by a different registry.
	AssignableFrom(sub Handle) bool
}

// Registry resolves type names to handles.
type Registry interface {
	ResolveName(name string) (Handle, bool)
}

// Chain is a Registry that consults each member in order.
type Chain []Registry

func (c Chain) ResolveName(name string) (Handle, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if h, ok := r.ResolveName(name); ok {
			return h, true
		}
	}
	return nil, false
}

// GetAlias consults the members that carry an alias table, in order.
func (c Chain) GetAlias(alias string) (string, bool) {
	for _, r := range c {
		if src, ok := r.(AliasSource); ok {
			if target, ok := src.GetAlias(alias); ok {
				return target, true
			}
		}
	}
	return "", false
}

// isArrayShaped reports whether h has an array element.
func isArrayShaped(h Handle) bool {
	elem, _ := h.ArrayShape()
	return elem != nil
}
