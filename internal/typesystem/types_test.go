package typesystem_test

import (
	"errors"
	"testing"

	"github.com/funvibe/jype/internal/typesystem"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind typesystem.Kind
		want string
	}{
		{typesystem.KindSimple, "Simple"},
		{typesystem.KindArray, "Array"},
		{typesystem.KindGeneric, "Generic"},
		{typesystem.Kind(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDescriptorString(t *testing.T) {
	st := newTable(t)

	tests := []struct {
		name string
		desc typesystem.Descriptor
		want string
		kind typesystem.Kind
	}{
		{"simple", simple(t, st, "java.lang.String"), "java.lang.String", typesystem.KindSimple},
		{"primitive", simple(t, st, "int"), "int", typesystem.KindSimple},
		{"array", array(t, st, "java.lang.Number", 1), "java.lang.Number[]", typesystem.KindArray},
		{"array 3d", array(t, st, "char", 3), "char[][][]", typesystem.KindArray},
		{"generic", genericOf(t, st, "java.util.List", "java.lang.Number"), "java.util.List<java.lang.Number>", typesystem.KindGeneric},
		{
			"generic multi",
			genericOf(t, st, "java.util.Map", "java.lang.Number", "java.lang.String"),
			"java.util.Map<java.lang.Number,java.lang.String>",
			typesystem.KindGeneric,
		},
		{
			"generic nested",
			generic(t, st, "java.util.Map",
				simple(t, st, "java.lang.Number"),
				genericOf(t, st, "java.util.ArrayList", "java.lang.Integer")),
			"java.util.Map<java.lang.Number,java.util.ArrayList<java.lang.Integer>>",
			typesystem.KindGeneric,
		},
		{
			"generic of array",
			generic(t, st, "java.util.List", array(t, st, "int", 2)),
			"java.util.List<int[][]>",
			typesystem.KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.desc.Kind(); got != tt.kind {
				t.Errorf("Kind() = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestConstructorErrors(t *testing.T) {
	st := newTable(t)
	intArray := lookup(t, st, "int[]")
	listHandle := lookup(t, st, "java.util.List")
	mapHandle := lookup(t, st, "java.util.Map")
	str := simple(t, st, "java.lang.String")

	tests := []struct {
		name string
		fn   func() error
	}{
		{"simple nil handle", func() error { _, err := typesystem.NewSimple(nil); return err }},
		{"simple generic handle", func() error { _, err := typesystem.NewSimple(listHandle); return err }},
		{"simple array handle", func() error { _, err := typesystem.NewSimple(intArray); return err }},
		{"array nil element", func() error { _, err := typesystem.NewArray(nil, 1); return err }},
		{"array zero dims", func() error { _, err := typesystem.NewArray(lookup(t, st, "int"), 0); return err }},
		{"array negative dims", func() error { _, err := typesystem.NewArray(lookup(t, st, "int"), -2); return err }},
		{"array of array element", func() error { _, err := typesystem.NewArray(intArray, 1); return err }},
		{"generic nil handle", func() error { _, err := typesystem.NewGeneric(nil, str); return err }},
		{"generic no params", func() error { _, err := typesystem.NewGeneric(listHandle); return err }},
		{"generic too many params", func() error { _, err := typesystem.NewGeneric(listHandle, str, str); return err }},
		{"generic too few params", func() error { _, err := typesystem.NewGeneric(mapHandle, str); return err }},
		{"generic nil param", func() error { _, err := typesystem.NewGeneric(mapHandle, str, nil); return err }},
		{"generic on arity zero", func() error { _, err := typesystem.NewGeneric(lookup(t, st, "java.lang.String"), str); return err }},
		{
			// Map<String, List, Number>: three params for a two-parameter type
			"generic of handles wrong count",
			func() error {
				_, err := typesystem.NewGenericOf(mapHandle,
					lookup(t, st, "java.lang.String"), listHandle, lookup(t, st, "java.lang.Number"))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, typesystem.ErrInvalidDescriptor) {
				t.Errorf("error %v does not match ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestEqualAndHash(t *testing.T) {
	st := newTable(t)

	a := generic(t, st, "java.util.Map",
		simple(t, st, "java.lang.String"),
		genericOf(t, st, "java.util.List", "java.lang.Integer"))
	b := generic(t, st, "java.util.Map",
		simple(t, st, "java.lang.String"),
		genericOf(t, st, "java.util.List", "java.lang.Integer"))
	c := generic(t, st, "java.util.Map",
		simple(t, st, "java.lang.String"),
		genericOf(t, st, "java.util.List", "java.lang.Long"))

	if !a.Equal(b) || !b.Equal(a) {
		t.Errorf("%s and %s should be equal", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Errorf("equal descriptors hash differently: %x vs %x", a.Hash(), b.Hash())
	}
	if a.Equal(c) {
		t.Errorf("%s should not equal %s", a, c)
	}

	if !array(t, st, "int", 2).Equal(array(t, st, "int", 2)) {
		t.Error("int[][] should equal int[][]")
	}
	if array(t, st, "int", 2).Equal(array(t, st, "int", 1)) {
		t.Error("int[][] should not equal int[]")
	}
	if array(t, st, "int", 1).Hash() == array(t, st, "int", 2).Hash() {
		t.Error("int[] and int[][] should hash differently")
	}
	if simple(t, st, "int").Equal(array(t, st, "int", 1)) {
		t.Error("int should not equal int[]")
	}

	if !typesystem.Equal(nil, nil) {
		t.Error("Equal(nil, nil) should be true")
	}
	if typesystem.Equal(a, nil) || typesystem.Equal(nil, a) {
		t.Error("Equal with one nil side should be false")
	}
}

func TestGenericParamsAreCopied(t *testing.T) {
	st := newTable(t)
	params := []typesystem.Descriptor{simple(t, st, "java.lang.Number")}
	g := generic(t, st, "java.util.List", params...)

	params[0] = simple(t, st, "java.lang.String")
	if got := g.String(); got != "java.util.List<java.lang.Number>" {
		t.Errorf("mutating the input slice changed the descriptor: %s", got)
	}

	out := g.Params()
	out[0] = simple(t, st, "java.lang.String")
	if got := g.String(); got != "java.util.List<java.lang.Number>" {
		t.Errorf("mutating Params() changed the descriptor: %s", got)
	}
}

func TestZeroValueDescriptors(t *testing.T) {
	var s typesystem.Simple
	var a typesystem.Array
	var g typesystem.Generic
	for _, d := range []typesystem.Descriptor{s, a, g} {
		if d.String() != "<invalid>" {
			t.Errorf("zero %s String() = %q, want <invalid>", d.Kind(), d.String())
		}
		if d.IsAssignableFrom(d) {
			t.Errorf("zero %s should not be assignable from itself", d.Kind())
		}
	}
}
