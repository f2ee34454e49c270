package typeexpr

import (
	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/i18n"
)

// Descriptor is the normalized form of a type expression: a metadata- and
// qualifier-free base, the hoisted qualifier set, and the ordered metadata
// list (innermost entry first, matching declaration order).
type Descriptor struct {
	Base       Expr
	Qualifiers Qualifier
	Metadata   []any
	// Pending lists the names that could not be resolved against the scope,
	// in first-encounter order. Non-empty iff QualUnresolved is set.
	Pending []string
}

// Unresolved reports whether the expression referenced a name not yet in
// scope.
func (d Descriptor) Unresolved() bool { return d.Qualifiers.Has(QualUnresolved) }

// Inspect normalizes expr against scope. It returns a fatal error (Issues
// with code forbidden_qualifier) when a qualifier appears nested inside a
// container argument. Unresolvable references are not an error: the
// descriptor is marked QualUnresolved and the pending names recorded, so the
// caller can register a pending reference and retry after rebuild.
func Inspect(expr Expr, scope Scope) (Descriptor, error) {
	d := Descriptor{}
	cur := expr
	var visited map[string]struct{}

unwrap:
	for {
		switch e := cur.(type) {
		case *QualifiedExpr:
			d.Qualifiers |= e.Qual
			cur = e.Inner
		case *AnnotatedExpr:
			// Nested annotations flatten with the innermost metadata first.
			d.Metadata = append(append([]any{}, e.Metadata...), d.Metadata...)
			cur = e.Inner
		case *RefExpr:
			if _, cycle := visited[e.Name]; cycle {
				return Descriptor{}, modelir.Issues{{
					Path:    "/",
					Code:    modelir.CodeInvalidDeclaration,
					Message: i18n.T(modelir.CodeInvalidDeclaration, nil),
					Hint:    "circular alias reference: " + e.Name,
					Params:  map[string]any{"name": e.Name},
				}}
			}
			if scope != nil {
				if resolved, ok := scope.Lookup(e.Name); ok {
					if visited == nil {
						visited = map[string]struct{}{}
					}
					visited[e.Name] = struct{}{}
					cur = resolved
					continue
				}
			}
			d.Qualifiers |= QualUnresolved
			d.Pending = appendPending(d.Pending, e.Name)
			break unwrap
		default:
			break unwrap
		}
	}

	if iss := inspectNested(cur, scope, &d); len(iss) > 0 {
		return Descriptor{}, iss
	}

	if p, ok := cur.(Primitive); ok && p.Kind == KindUnknown && len(d.Metadata) == 0 {
		cur = Primitive{Kind: KindAny}
	}
	d.Base = cur
	return d, nil
}

// inspectNested validates qualifier placement inside container arguments and
// collects pending names of nested forward references. Nested annotation
// metadata is left in place; the compiler re-inspects each child when it
// emits the child node.
func inspectNested(e Expr, scope Scope, d *Descriptor) modelir.Issues {
	var iss modelir.Issues
	var walk func(e Expr, top bool)
	walk = func(e Expr, top bool) {
		switch x := e.(type) {
		case *QualifiedExpr:
			if !top {
				iss = modelir.AppendIssues(iss, modelir.Issue{
					Path:    "/",
					Code:    modelir.CodeForbiddenQualifier,
					Message: i18n.T(modelir.CodeForbiddenQualifier, nil),
					Hint:    "qualifier '" + x.Qual.String() + "' nested inside " + e.String(),
					Params:  map[string]any{"qualifier": x.Qual.String()},
				})
				return
			}
			walk(x.Inner, top)
		case *AnnotatedExpr:
			walk(x.Inner, top)
		case *ListExpr:
			walk(x.Elem, false)
		case *MapExpr:
			walk(x.Key, false)
			walk(x.Value, false)
		case *UnionExpr:
			for _, m := range x.Members {
				walk(m, false)
			}
		case *TaggedExpr:
			for _, v := range x.Variants {
				walk(v, false)
			}
		case *RefExpr:
			if !top {
				if scope != nil {
					if resolved, ok := scope.Lookup(x.Name); ok {
						walk(resolved, false)
						return
					}
				}
				d.Qualifiers |= QualUnresolved
				d.Pending = appendPending(d.Pending, x.Name)
			}
		}
	}
	walk(e, true)
	return iss
}

func appendPending(pending []string, name string) []string {
	for _, p := range pending {
		if p == name {
			return pending
		}
	}
	return append(pending, name)
}
