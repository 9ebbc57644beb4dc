// symbols/symbol_table.go - Main symbol table entry point
//
// The symbol table is the host type registry: it owns nominal type handles
// and answers name, arity, array-shape and subtype queries for them.
//
// - symbol_table_core.go: TypeSymbol, the handle implementation
// - symbol_table_advanced.go: SymbolTable struct definition
// - symbol_table_init.go: Prelude initialization and built-in types
// - symbol_table_operations.go: Defining types, scopes
// - symbol_table_aliases.go: Short name aliases
// - symbol_table_arrays.go: Interned array handles
// - symbol_table_resolution.go: Name resolution

package symbols
