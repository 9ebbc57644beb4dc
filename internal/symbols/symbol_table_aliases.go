package symbols

import (
	"fmt"
	"maps"
)

// DefineAlias registers a short name for an existing type, e.g.
// "String" -> "java.lang.String". Aliases are consulted by the type parser
// before registry lookup; ResolveName itself never follows them.
func (s *SymbolTable) DefineAlias(alias, target string) error {
	if !validName(alias) {
		return fmt.Errorf("invalid alias %q", alias)
	}
	if _, ok := s.Lookup(target); !ok {
		return fmt.Errorf("alias %s: unknown target type %s", alias, target)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[alias] = target
	return nil
}

// GetAlias returns the target of an alias, looking through outer scopes.
func (s *SymbolTable) GetAlias(alias string) (string, bool) {
	s.mu.RLock()
	target, ok := s.aliases[alias]
	s.mu.RUnlock()
	if !ok && s.outer != nil {
		return s.outer.GetAlias(alias)
	}
	return target, ok
}

// Aliases returns every alias visible from this scope. Inner scopes
// override outer ones.
func (s *SymbolTable) Aliases() map[string]string {
	out := make(map[string]string)
	if s.outer != nil {
		maps.Copy(out, s.outer.Aliases())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	maps.Copy(out, s.aliases)
	return out
}

// LocalAliases returns the aliases defined in this scope only.
func (s *SymbolTable) LocalAliases() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.aliases)
}
