package typesystem

// IsAssignableFrom reports whether a value described by candidate can be used
// wherever target is expected. Only descriptors of the same variant are ever
// assignable; nil and zero-value descriptors are never assignable.
//
// Arrays are covariant in their element type, like runtime arrays in the host
// language. Generic parameters are compared position by position, also
// covariantly: List<Number> accepts ArrayList<Integer>. Declaration-site
// variance is not modelled.
func IsAssignableFrom(target, candidate Descriptor) bool {
	if target == nil || candidate == nil {
		return false
	}

	switch t := target.(type) {
	case Simple:
		c, ok := candidate.(Simple)
		return ok && assignableHandle(t.handle, c.handle)

	case Array:
		c, ok := candidate.(Array)
		return ok && t.dims == c.dims && assignableHandle(t.elem, c.elem)

	case Generic:
		c, ok := candidate.(Generic)
		if !ok || !assignableHandle(t.handle, c.handle) || len(t.params) != len(c.params) {
			return false
		}
		for i := range t.params {
			if !IsAssignableFrom(t.params[i], c.params[i]) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func assignableHandle(super, sub Handle) bool {
	if super == nil || sub == nil {
		return false
	}
	return super == sub || super.AssignableFrom(sub)
}
