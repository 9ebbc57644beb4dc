package typesystem

import (
	"github.com/funvibe/jype/internal/config"
	"hash"
	"hash/fnv"
	"strings"
)

// Descriptor is the interface for all type descriptors.
// The set of implementations is closed: Simple, Array and Generic.
type Descriptor interface {
	Kind() Kind
	String() string
	// IsAssignableFrom reports whether a value described by other can be used
	// wherever the receiver is expected.
	IsAssignableFrom(other Descriptor) bool
	Equal(other Descriptor) bool
	Hash() uint64

	sealed()
}

// Simple describes a non-generic, non-array nominal type (e.g. java.lang.String).
type Simple struct {
	handle Handle
}

// NewSimple wraps a handle of arity 0 that is not array-shaped.
func NewSimple(h Handle) (Simple, error) {
	if h == nil {
		return Simple{}, errInvalid("handle cannot be nil")
	}
	if isArrayShaped(h) {
		return Simple{}, errInvalid("%s is an array type", h.Name())
	}
	if n := h.Arity(); n != 0 {
		return Simple{}, errInvalid("%s declares %d generic parameters", h.Name(), n)
	}
	return Simple{handle: h}, nil
}

func (t Simple) Kind() Kind     { return KindSimple }
func (t Simple) Handle() Handle { return t.handle }
func (t Simple) sealed()        {}

func (t Simple) String() string {
	if t.handle == nil {
		return "<invalid>"
	}
	return t.handle.Name()
}

func (t Simple) IsAssignableFrom(other Descriptor) bool {
	return IsAssignableFrom(t, other)
}

func (t Simple) Equal(other Descriptor) bool {
	o, ok := other.(Simple)
	return ok && t.handle == o.handle
}

func (t Simple) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(KindSimple)})
	writeHandle(h, t.handle)
	return h.Sum64()
}

// Array describes an array of a nominal element type with a fixed number of
// dimensions (e.g. int[][] is Array{int, 2}).
type Array struct {
	elem Handle
	dims int
}

// NewArray builds an array descriptor. elem must be the innermost
// non-array component and dims must be at least 1.
func NewArray(elem Handle, dims int) (Array, error) {
	if elem == nil {
		return Array{}, errInvalid("array element cannot be nil")
	}
	if isArrayShaped(elem) {
		return Array{}, errInvalid("array element %s is itself an array", elem.Name())
	}
	if dims < 1 {
		return Array{}, errInvalid("array dimensions must be at least 1, got %d", dims)
	}
	return Array{elem: elem, dims: dims}, nil
}

func (t Array) Kind() Kind   { return KindArray }
func (t Array) Elem() Handle { return t.elem }
func (t Array) Dims() int    { return t.dims }
func (t Array) sealed()      {}

func (t Array) String() string {
	if t.elem == nil {
		return "<invalid>"
	}
	return t.elem.Name() + strings.Repeat(config.ArraySuffix, t.dims)
}

func (t Array) IsAssignableFrom(other Descriptor) bool {
	return IsAssignableFrom(t, other)
}

func (t Array) Equal(other Descriptor) bool {
	o, ok := other.(Array)
	return ok && t.elem == o.elem && t.dims == o.dims
}

func (t Array) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(KindArray), byte(t.dims)})
	writeHandle(h, t.elem)
	return h.Sum64()
}

// Generic describes a nominal type applied to type parameters
// (e.g. java.util.Map<java.lang.String,java.lang.Integer>).
type Generic struct {
	handle Handle
	params []Descriptor
}

// NewGeneric applies h to params. The number of params must match the
// handle's declared arity and none may be nil.
func NewGeneric(h Handle, params ...Descriptor) (Generic, error) {
	if h == nil {
		return Generic{}, errInvalid("handle cannot be nil")
	}
	if isArrayShaped(h) {
		return Generic{}, errInvalid("%s is an array type", h.Name())
	}
	if len(params) == 0 || len(params) != h.Arity() {
		return Generic{}, errInvalid("%s declares %d generic parameters, got %d",
			h.Name(), h.Arity(), len(params))
	}
	for i, p := range params {
		if p == nil {
			return Generic{}, errInvalid("%s: generic parameter %d is nil", h.Name(), i)
		}
	}
	return Generic{handle: h, params: append([]Descriptor(nil), params...)}, nil
}

// NewGenericOf applies h to parameter handles, wrapping each as a Simple descriptor.
func NewGenericOf(h Handle, params ...Handle) (Generic, error) {
	descs := make([]Descriptor, len(params))
	for i, p := range params {
		s, err := NewSimple(p)
		if err != nil {
			return Generic{}, err
		}
		descs[i] = s
	}
	return NewGeneric(h, descs...)
}

func (t Generic) Kind() Kind     { return KindGeneric }
func (t Generic) Handle() Handle { return t.handle }
func (t Generic) sealed()        {}

// Params returns a copy of the parameter descriptors, in order.
func (t Generic) Params() []Descriptor {
	return append([]Descriptor(nil), t.params...)
}

func (t Generic) String() string {
	if t.handle == nil {
		return "<invalid>"
	}
	var sb strings.Builder
	sb.WriteString(t.handle.Name())
	sb.WriteByte('<')
	for i, p := range t.params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t Generic) IsAssignableFrom(other Descriptor) bool {
	return IsAssignableFrom(t, other)
}

func (t Generic) Equal(other Descriptor) bool {
	o, ok := other.(Generic)
	if !ok || t.handle != o.handle || len(t.params) != len(o.params) {
		return false
	}
	for i := range t.params {
		if !t.params[i].Equal(o.params[i]) {
			return false
		}
	}
	return true
}

func (t Generic) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(KindGeneric), byte(len(t.params))})
	writeHandle(h, t.handle)
	var buf [8]byte
	for _, p := range t.params {
		v := p.Hash()
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Equal reports whether a and b are structurally equal. Two nil descriptors are equal.
func Equal(a, b Descriptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// writeHandle feeds the handle's name into the hash. Equal handles have equal
// names, so the hash stays consistent with identity-based equality.
func writeHandle(h hash.Hash64, handle Handle) {
	if handle == nil {
		return
	}
	h.Write([]byte(handle.Name()))
}
