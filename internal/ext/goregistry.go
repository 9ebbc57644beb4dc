package ext

import (
	"context"
	"fmt"
	"go/types"
	"os"
	"strings"
	"sync"

	"github.com/funvibe/jype/internal/config"
	"github.com/funvibe/jype/internal/typesystem"
	"golang.org/x/tools/go/packages"
)

// GoRegistry resolves Go types as nominal handles.
//
// Named types are registered as "pkgname.Type", predeclared types under
// their universe name ("int", "string", "error", "any"). Slices and arrays
// are array-shaped handles with the Go element type, so [][]byte is
// "byte[][]". Generic types have the arity of their type parameter list.
type GoRegistry struct {
	mu     sync.Mutex
	byName map[string]*GoHandle
	byType map[types.Object]*GoHandle
	arrays map[goArrayKey]*GoHandle
}

type goArrayKey struct {
	elem *GoHandle
	dims int
}

// GoHandle is a Go type owned by a GoRegistry. It implements typesystem.Handle.
type GoHandle struct {
	reg   *GoRegistry
	name  string
	typ   types.Type // nil for array handles
	arity int
	elem  *GoHandle
	dims  int
}

func (h *GoHandle) Name() string { return h.name }
func (h *GoHandle) Arity() int   { return h.arity }

// Type returns the underlying go/types type, or nil for array handles.
func (h *GoHandle) Type() types.Type { return h.typ }

func (h *GoHandle) ArrayShape() (typesystem.Handle, int) {
	if h.elem == nil {
		return nil, 0
	}
	return h.elem, h.dims
}

// AssignableFrom follows Go assignability. A type also counts as a subtype
// of an interface when only its pointer implements it. Generic types are
// related by identity only.
func (h *GoHandle) AssignableFrom(sub typesystem.Handle) bool {
	o, ok := sub.(*GoHandle)
	if !ok || o == nil || o.reg != h.reg {
		return false
	}
	if h == o {
		return true
	}
	if h.elem != nil || o.elem != nil {
		return h.elem != nil && o.elem != nil && h.dims == o.dims && h.elem.AssignableFrom(o.elem)
	}
	if h.arity > 0 || o.arity > 0 {
		return false
	}
	if types.AssignableTo(o.typ, h.typ) {
		return true
	}
	if types.IsInterface(h.typ) && !types.IsInterface(o.typ) {
		return types.AssignableTo(types.NewPointer(o.typ), h.typ)
	}
	return false
}

func (h *GoHandle) String() string { return h.name }

// NewGoRegistry builds a registry over the predeclared types and the
// package-level type names of pkgs. When two packages share a name, the
// first one wins.
func NewGoRegistry(pkgs ...*types.Package) *GoRegistry {
	r := &GoRegistry{
		byName: make(map[string]*GoHandle),
		byType: make(map[types.Object]*GoHandle),
		arrays: make(map[goArrayKey]*GoHandle),
	}
	for _, name := range types.Universe.Names() {
		tn, ok := types.Universe.Lookup(name).(*types.TypeName)
		if !ok || name == "comparable" {
			continue
		}
		r.intern(tn)
	}
	for _, pkg := range pkgs {
		r.addPackage(pkg)
	}
	return r
}

// LoadGoRegistry loads the packages matching patterns (relative to dir)
// with go/packages and builds a registry over them.
func LoadGoRegistry(ctx context.Context, dir string, patterns ...string) (*GoRegistry, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedTypes,
		Dir:     dir,
		Env:     append(os.Environ(), "GOWORK=off"),
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	// Check for package errors
	var errs []string
	var typed []*types.Package
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
		if pkg.Types != nil {
			typed = append(typed, pkg.Types)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	return NewGoRegistry(typed...), nil
}

func (r *GoRegistry) addPackage(pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok {
			r.intern(tn)
		}
	}
}

// intern registers tn under its qualified name unless the name is taken.
func (r *GoRegistry) intern(tn *types.TypeName) *GoHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.internLocked(tn)
}

func (r *GoRegistry) internLocked(tn *types.TypeName) *GoHandle {
	if h, ok := r.byType[tn]; ok {
		return h
	}
	typ := types.Unalias(tn.Type())
	h := &GoHandle{reg: r, name: qualifiedName(tn), typ: typ}
	if named, ok := typ.(*types.Named); ok {
		// An alias of an instantiation is a plain type.
		h.arity = named.TypeParams().Len() - named.TypeArgs().Len()
	}
	r.byType[tn] = h
	if _, taken := r.byName[h.name]; !taken {
		r.byName[h.name] = h
	}
	return h
}

func qualifiedName(tn *types.TypeName) string {
	if tn.Pkg() == nil {
		return tn.Name()
	}
	return tn.Pkg().Name() + "." + tn.Name()
}

// ResolveName implements typesystem.Registry. A trailing "[]" suffix
// resolves to an array-shaped handle.
func (r *GoRegistry) ResolveName(name string) (typesystem.Handle, bool) {
	base, dims := splitArraySuffix(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byName[base]
	if !ok {
		return nil, false
	}
	if dims > 0 {
		h = r.arrayOfLocked(h, dims)
	}
	return h, true
}

func (r *GoRegistry) arrayOfLocked(elem *GoHandle, dims int) *GoHandle {
	if elem.elem != nil {
		dims += elem.dims
		elem = elem.elem
	}
	key := goArrayKey{elem: elem, dims: dims}
	if h, ok := r.arrays[key]; ok {
		return h
	}
	h := &GoHandle{
		reg:  r,
		name: elem.name + strings.Repeat(config.ArraySuffix, dims),
		elem: elem,
		dims: dims,
	}
	r.arrays[key] = h
	return h
}

// HandleOf returns the handle of a Go type. Named types from packages the
// registry was not built with are added on demand. Instantiated generic
// types map to their origin; use DescriptorOf to keep the type arguments.
func (r *GoRegistry) HandleOf(t types.Type) (typesystem.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.handleOfLocked(t)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *GoRegistry) handleOfLocked(t types.Type) (*GoHandle, error) {
	t, dims := stripArrays(t)

	var h *GoHandle
	switch t := t.(type) {
	case *types.Basic:
		tn, ok := types.Universe.Lookup(t.Name()).(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("%s has no nominal handle", t)
		}
		h = r.internLocked(tn)
	case *types.Named:
		h = r.internLocked(t.Origin().Obj())
	case *types.Interface:
		if !t.Empty() {
			return nil, fmt.Errorf("unnamed interface %s has no nominal handle", t)
		}
		h = r.byName["any"]
	default:
		return nil, fmt.Errorf("%s has no nominal handle", t)
	}

	if dims > 0 {
		h = r.arrayOfLocked(h, dims)
	}
	return h, nil
}

// DescriptorOf converts a Go type into a descriptor, keeping the type
// arguments of instantiated generic types: Pair[string, []int] becomes
// "pkg.Pair<string,int[]>".
func (r *GoRegistry) DescriptorOf(t types.Type) (typesystem.Descriptor, error) {
	var flat []typesystem.Handle
	if err := r.flatten(t, &flat); err != nil {
		return nil, err
	}
	return typesystem.FromHandles(flat...)
}

// flatten appends t's handles in pre-order.
func (r *GoRegistry) flatten(t types.Type, out *[]typesystem.Handle) error {
	h, err := r.HandleOf(t)
	if err != nil {
		return err
	}
	*out = append(*out, h)
	if h.Arity() == 0 {
		return nil
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.TypeArgs().Len() != h.Arity() {
		return fmt.Errorf("%w: %s is not instantiated", typesystem.ErrInvalidDescriptor, t)
	}
	for i := 0; i < named.TypeArgs().Len(); i++ {
		if err := r.flatten(named.TypeArgs().At(i), out); err != nil {
			return err
		}
	}
	return nil
}

// stripArrays unwraps slice and array layers: [][3]byte -> (byte, 2).
func stripArrays(t types.Type) (types.Type, int) {
	dims := 0
	for {
		switch s := types.Unalias(t).(type) {
		case *types.Slice:
			t, dims = s.Elem(), dims+1
		case *types.Array:
			t, dims = s.Elem(), dims+1
		default:
			return s, dims
		}
	}
}

// splitArraySuffix strips trailing "[]" groups: "int[][]" -> ("int", 2).
func splitArraySuffix(name string) (string, int) {
	dims := 0
	for strings.HasSuffix(name, config.ArraySuffix) {
		name = strings.TrimSuffix(name, config.ArraySuffix)
		dims++
	}
	return name, dims
}
