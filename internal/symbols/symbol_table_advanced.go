package symbols

import "sync"

// SymbolTable struct definition
type SymbolTable struct {
	mu sync.RWMutex

	// Types defined in this scope: Name -> symbol
	types map[string]*TypeSymbol

	// Definition order of types, used when persisting a table
	order []*TypeSymbol

	// Short name aliases: Alias -> canonical type name
	// e.g. "String" -> "java.lang.String"
	aliases map[string]string

	// Interned array handles: (element, dims) -> symbol
	arrays map[arrayKey]*TypeSymbol

	outer     *SymbolTable
	scopeType ScopeType
}

type arrayKey struct {
	elem *TypeSymbol
	dims int
}
