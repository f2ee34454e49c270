package typeexpr

// Scope resolves names referenced by RefExpr. Model registries and test
// fixtures implement it.
type Scope interface {
	Lookup(name string) (Expr, bool)
}

// MapScope is the simplest Scope: a name-to-expression map.
type MapScope map[string]Expr

// Lookup implements Scope.
func (s MapScope) Lookup(name string) (Expr, bool) {
	e, ok := s[name]
	return e, ok
}

// ChainScope consults scopes in order and returns the first hit. A rebuild
// typically chains the updated caller scope in front of the registry.
type ChainScope []Scope

// Lookup implements Scope.
func (c ChainScope) Lookup(name string) (Expr, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if e, ok := s.Lookup(name); ok {
			return e, true
		}
	}
	return nil, false
}
