package typesystem

import "fmt"

// FromHandles converts a flat, pre-order list of handles into a descriptor.
//
// Each handle with arity k consumes the next k descriptors from the list as
// its parameters, so Map<String, List<Number>> is encoded as
// [Map, String, List, Number]. Array-shaped handles become Array descriptors.
// The list must be consumed exactly.
func FromHandles(handles ...Handle) (Descriptor, error) {
	cur := &handleCursor{handles: handles}
	d, err := cur.descriptor()
	if err != nil {
		return nil, err
	}
	if rest := len(cur.handles) - cur.pos; rest > 0 {
		return nil, fmt.Errorf("%w: %d handle(s) left after %s", ErrTooManyHandles, rest, d)
	}
	return d, nil
}

// handleCursor walks a handle list during FromHandles.
type handleCursor struct {
	handles []Handle
	pos     int
}

func (c *handleCursor) next() (Handle, bool) {
	if c.pos >= len(c.handles) {
		return nil, false
	}
	h := c.handles[c.pos]
	c.pos++
	return h, true
}

func (c *handleCursor) descriptor() (Descriptor, error) {
	h, ok := c.next()
	if !ok {
		return nil, fmt.Errorf("%w: expected a handle at position %d", ErrTooFewHandles, c.pos)
	}
	if h == nil {
		return nil, errInvalid("nil handle at position %d", c.pos-1)
	}

	arity := h.Arity()
	if arity == 0 {
		if elem, dims := h.ArrayShape(); elem != nil {
			return asDescriptor(NewArray(elem, dims))
		}
		return asDescriptor(NewSimple(h))
	}

	params := make([]Descriptor, arity)
	for i := range params {
		p, err := c.descriptor()
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return asDescriptor(NewGeneric(h, params...))
}

// asDescriptor drops the zero-valued variant that constructors return with an error.
func asDescriptor(d Descriptor, err error) (Descriptor, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}
