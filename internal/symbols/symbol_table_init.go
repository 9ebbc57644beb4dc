package symbols

import (
	"github.com/funvibe/jype/internal/config"
	"sync"
)

// Singleton prelude table containing all built-in types
var (
	preludeTable *SymbolTable
	preludeOnce  sync.Once
)

// GetPrelude returns the singleton prelude SymbolTable containing all built-in types.
// This table is shared; no types are defined in it after initialization.
func GetPrelude() *SymbolTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptySymbolTable()
		preludeTable.scopeType = ScopePrelude
		preludeTable.InitBuiltins()
	})
	return preludeTable
}

// NewSymbolTable creates a new symbol table.
// It inherits from Prelude.
func NewSymbolTable() *SymbolTable {
	return NewEnclosedSymbolTable(GetPrelude(), ScopeGlobal)
}

// ResetPrelude resets the prelude singleton (for testing only).
func ResetPrelude() {
	preludeOnce = sync.Once{}
	preludeTable = nil
}

func (st *SymbolTable) InitBuiltins() {
	const prelude = "prelude" // Origin for built-in types

	// Primitives have no supertypes
	for _, name := range []string{"boolean", "byte", "char", "short", "int", "long", "float", "double", "void"} {
		st.mustDefine(name, 0, nil, prelude)
	}

	// java.lang
	st.mustDefine(config.ObjectTypeName, 0, nil, prelude)
	object := []string{config.ObjectTypeName}
	st.mustDefine("java.lang.Comparable", 1, object, prelude)
	st.mustDefine("java.lang.CharSequence", 0, object, prelude)
	st.mustDefine("java.lang.Iterable", 1, object, prelude)
	st.mustDefine(config.StringTypeName, 0, []string{"java.lang.CharSequence", "java.lang.Comparable"}, prelude)
	st.mustDefine("java.lang.Boolean", 0, []string{"java.lang.Comparable"}, prelude)
	st.mustDefine("java.lang.Character", 0, []string{"java.lang.Comparable"}, prelude)
	st.mustDefine("java.lang.Number", 0, object, prelude)
	boxed := []string{"java.lang.Number", "java.lang.Comparable"}
	for _, name := range []string{"java.lang.Byte", "java.lang.Short", "java.lang.Integer", "java.lang.Long", "java.lang.Float", "java.lang.Double"} {
		st.mustDefine(name, 0, boxed, prelude)
	}

	// java.util collections
	st.mustDefine("java.util.Collection", 1, []string{"java.lang.Iterable"}, prelude)
	st.mustDefine("java.util.List", 1, []string{"java.util.Collection"}, prelude)
	st.mustDefine("java.util.ArrayList", 1, []string{"java.util.List"}, prelude)
	st.mustDefine("java.util.LinkedList", 1, []string{"java.util.List"}, prelude)
	st.mustDefine("java.util.Set", 1, []string{"java.util.Collection"}, prelude)
	st.mustDefine("java.util.HashSet", 1, []string{"java.util.Set"}, prelude)
	st.mustDefine("java.util.SortedSet", 1, []string{"java.util.Set"}, prelude)
	st.mustDefine("java.util.TreeSet", 1, []string{"java.util.SortedSet"}, prelude)
	st.mustDefine("java.util.Optional", 1, object, prelude)

	// java.util maps
	st.mustDefine("java.util.Map", 2, object, prelude)
	st.mustDefine("java.util.HashMap", 2, []string{"java.util.Map"}, prelude)
	st.mustDefine("java.util.SortedMap", 2, []string{"java.util.Map"}, prelude)
	st.mustDefine("java.util.TreeMap", 2, []string{"java.util.SortedMap"}, prelude)
	st.mustDefine("java.util.Hashtable", 2, []string{"java.util.Map"}, prelude)

	for alias, target := range config.DefaultAliases {
		if err := st.DefineAlias(alias, target); err != nil {
			panic(err)
		}
	}
}

func (st *SymbolTable) mustDefine(name string, arity int, supertypes []string, origin string) {
	if _, err := st.DefineType(name, arity, supertypes, origin); err != nil {
		panic(err)
	}
}
