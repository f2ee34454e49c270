package typeexpr

// Substitute replaces every type-variable occurrence with its binding,
// recursing through containers, unions, annotations and qualifiers. Unbound
// variables are left in place for the compiler to reject. References are not
// resolved here: a binding that introduces a forward reference is picked up
// by the next Inspect pass.
func Substitute(e Expr, bindings map[string]Expr) Expr {
	if e == nil || len(bindings) == 0 {
		return e
	}
	switch x := e.(type) {
	case *VarExpr:
		if b, ok := bindings[x.Name]; ok {
			return b
		}
		return x
	case *ListExpr:
		return &ListExpr{Elem: Substitute(x.Elem, bindings)}
	case *MapExpr:
		return &MapExpr{Key: Substitute(x.Key, bindings), Value: Substitute(x.Value, bindings)}
	case *UnionExpr:
		members := make([]Expr, len(x.Members))
		for i, m := range x.Members {
			members[i] = Substitute(m, bindings)
		}
		return &UnionExpr{Members: members}
	case *TaggedExpr:
		variants := make(map[string]Expr, len(x.Variants))
		for tag, v := range x.Variants {
			variants[tag] = Substitute(v, bindings)
		}
		return &TaggedExpr{Discriminator: x.Discriminator, Variants: variants}
	case *AnnotatedExpr:
		return &AnnotatedExpr{Inner: Substitute(x.Inner, bindings), Metadata: x.Metadata}
	case *QualifiedExpr:
		return &QualifiedExpr{Inner: Substitute(x.Inner, bindings), Qual: x.Qual}
	default:
		return e
	}
}
