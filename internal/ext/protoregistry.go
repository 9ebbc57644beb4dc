package ext

import (
	"fmt"
	"strings"
	"sync"

	"github.com/funvibe/jype/internal/config"
	"github.com/funvibe/jype/internal/typesystem"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/known/anypb"

	// Well-known types linked into the binary for WellKnownProtoRegistry.
	_ "google.golang.org/protobuf/types/known/durationpb"
	_ "google.golang.org/protobuf/types/known/emptypb"
	_ "google.golang.org/protobuf/types/known/fieldmaskpb"
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/timestamppb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

// ProtoKind classifies a protobuf handle.
type ProtoKind int

const (
	ProtoScalar ProtoKind = iota
	ProtoMessage
	ProtoEnum
)

func (k ProtoKind) String() string {
	switch k {
	case ProtoMessage:
		return "message"
	case ProtoEnum:
		return "enum"
	default:
		return "scalar"
	}
}

// protoScalars are the scalar value types of the proto language.
var protoScalars = []string{
	"double", "float",
	"int32", "int64", "uint32", "uint64",
	"sint32", "sint64", "fixed32", "fixed64", "sfixed32", "sfixed64",
	"bool", "string", "bytes",
}

// ProtoRegistry resolves protobuf messages, enums and scalars by full name.
// Every handle has arity 0. google.protobuf.Any is a supertype of every
// message, which is the only subtype relation protobuf has.
type ProtoRegistry struct {
	mu     sync.Mutex
	byName map[string]*ProtoHandle
	arrays map[protoArrayKey]*ProtoHandle
	any    *ProtoHandle
}

type protoArrayKey struct {
	elem *ProtoHandle
	dims int
}

// ProtoHandle is a protobuf type owned by a ProtoRegistry.
type ProtoHandle struct {
	reg  *ProtoRegistry
	name string
	kind ProtoKind
	desc protoreflect.Descriptor // nil for scalars and arrays
	elem *ProtoHandle
	dims int
}

func (h *ProtoHandle) Name() string    { return h.name }
func (h *ProtoHandle) Arity() int      { return 0 }
func (h *ProtoHandle) Kind() ProtoKind { return h.kind }

// Descriptor returns the message or enum descriptor, or nil.
func (h *ProtoHandle) Descriptor() protoreflect.Descriptor { return h.desc }

func (h *ProtoHandle) ArrayShape() (typesystem.Handle, int) {
	if h.elem == nil {
		return nil, 0
	}
	return h.elem, h.dims
}

func (h *ProtoHandle) AssignableFrom(sub typesystem.Handle) bool {
	o, ok := sub.(*ProtoHandle)
	if !ok || o == nil || o.reg != h.reg {
		return false
	}
	if h == o {
		return true
	}
	if h.elem != nil || o.elem != nil {
		return h.elem != nil && o.elem != nil && h.dims == o.dims && h.elem.AssignableFrom(o.elem)
	}
	return h == h.reg.any && o.kind == ProtoMessage
}

func (h *ProtoHandle) String() string { return h.name }

// NewProtoRegistry builds a registry over every message and enum in files,
// including nested ones. google.protobuf.Any is always present.
func NewProtoRegistry(files *protoregistry.Files) *ProtoRegistry {
	r := &ProtoRegistry{
		byName: make(map[string]*ProtoHandle),
		arrays: make(map[protoArrayKey]*ProtoHandle),
	}
	for _, name := range protoScalars {
		r.byName[name] = &ProtoHandle{reg: r, name: name, kind: ProtoScalar}
	}
	if files != nil {
		files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
			r.addMessages(fd.Messages())
			r.addEnums(fd.Enums())
			return true
		})
	}

	anyDesc := (&anypb.Any{}).ProtoReflect().Descriptor()
	if _, ok := r.byName[string(anyDesc.FullName())]; !ok {
		r.add(anyDesc, ProtoMessage)
	}
	r.any = r.byName[config.AnyMessageName]
	return r
}

// WellKnownProtoRegistry covers the google.protobuf well-known types and
// any generated messages linked into the binary.
func WellKnownProtoRegistry() *ProtoRegistry {
	return NewProtoRegistry(protoregistry.GlobalFiles)
}

// LoadProtoFiles parses .proto sources and builds a registry over them and
// their imports. Standard google/protobuf imports need no import path.
func LoadProtoFiles(importPaths []string, files ...string) (*ProtoRegistry, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no proto files given")
	}
	parser := protoparse.Parser{ImportPaths: importPaths}
	if len(importPaths) == 0 {
		parser.ImportPaths = []string{"."}
	}

	fds, err := parser.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parsing proto files: %w", err)
	}

	reg := new(protoregistry.Files)
	seen := make(map[string]bool)
	var register func(fd *desc.FileDescriptor) error
	register = func(fd *desc.FileDescriptor) error {
		if seen[fd.GetName()] {
			return nil
		}
		seen[fd.GetName()] = true
		for _, dep := range fd.GetDependencies() {
			if err := register(dep); err != nil {
				return err
			}
		}
		if err := reg.RegisterFile(fd.UnwrapFile()); err != nil {
			return fmt.Errorf("registering %s: %w", fd.GetName(), err)
		}
		return nil
	}
	for _, fd := range fds {
		if err := register(fd); err != nil {
			return nil, err
		}
	}
	return NewProtoRegistry(reg), nil
}

func (r *ProtoRegistry) add(d protoreflect.Descriptor, kind ProtoKind) {
	name := string(d.FullName())
	if _, taken := r.byName[name]; taken {
		return
	}
	r.byName[name] = &ProtoHandle{reg: r, name: name, kind: kind, desc: d}
}

func (r *ProtoRegistry) addMessages(msgs protoreflect.MessageDescriptors) {
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		if md.IsMapEntry() {
			continue
		}
		r.add(md, ProtoMessage)
		r.addMessages(md.Messages())
		r.addEnums(md.Enums())
	}
}

func (r *ProtoRegistry) addEnums(enums protoreflect.EnumDescriptors) {
	for i := 0; i < enums.Len(); i++ {
		r.add(enums.Get(i), ProtoEnum)
	}
}

// ResolveName implements typesystem.Registry. A trailing "[]" suffix
// resolves to an array-shaped handle, as for repeated fields.
func (r *ProtoRegistry) ResolveName(name string) (typesystem.Handle, bool) {
	base, dims := splitArraySuffix(name)
	h, ok := r.byName[base]
	if !ok {
		return nil, false
	}
	if dims == 0 {
		return h, true
	}
	return r.arrayOf(h, dims), true
}

func (r *ProtoRegistry) arrayOf(elem *ProtoHandle, dims int) *ProtoHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := protoArrayKey{elem: elem, dims: dims}
	if h, ok := r.arrays[key]; ok {
		return h
	}
	h := &ProtoHandle{
		reg:  r,
		name: elem.name + strings.Repeat(config.ArraySuffix, dims),
		kind: elem.kind,
		elem: elem,
		dims: dims,
	}
	r.arrays[key] = h
	return h
}

// FieldDescriptor describes the type of a message field: the element type
// for singular fields and a one-dimensional array for repeated ones. Map
// fields have no descriptor since protobuf maps are not nominal types.
func (r *ProtoRegistry) FieldDescriptor(message, field string) (typesystem.Descriptor, error) {
	h, ok := r.byName[message]
	if !ok || h.kind != ProtoMessage {
		return nil, typesystem.NewUnknownTypeError(message)
	}
	md := h.desc.(protoreflect.MessageDescriptor)
	fd := md.Fields().ByName(protoreflect.Name(field))
	if fd == nil {
		return nil, fmt.Errorf("%s has no field %q", message, field)
	}
	if fd.IsMap() {
		return nil, fmt.Errorf("%w: %s.%s is a map field", typesystem.ErrInvalidDescriptor, message, field)
	}

	var elemName string
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		elemName = string(fd.Message().FullName())
	case protoreflect.EnumKind:
		elemName = string(fd.Enum().FullName())
	default:
		elemName = fd.Kind().String()
	}
	elem, ok := r.byName[elemName]
	if !ok {
		return nil, typesystem.NewUnknownTypeError(elemName)
	}
	if fd.IsList() {
		arr, err := typesystem.NewArray(elem, 1)
		if err != nil {
			return nil, err
		}
		return arr, nil
	}
	s, err := typesystem.NewSimple(elem)
	if err != nil {
		return nil, err
	}
	return s, nil
}
