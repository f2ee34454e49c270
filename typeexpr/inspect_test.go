package typeexpr_test

import (
	"testing"

	modelir "github.com/modelir/modelir"
	tx "github.com/modelir/modelir/typeexpr"
)

func TestInspect_HoistsQualifiers(t *testing.T) {
	d, err := tx.Inspect(tx.Final(tx.Int()), nil)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !d.Qualifiers.Has(tx.QualFinal) {
		t.Fatalf("expected final qualifier, got %v", d.Qualifiers)
	}
	if p, ok := d.Base.(tx.Primitive); !ok || p.Kind != tx.KindInt {
		t.Fatalf("expected int base, got %v", d.Base)
	}
}

func TestInspect_BareQualifierDefaultsToAny(t *testing.T) {
	// final with no concrete type and no metadata resolves to the universal
	// any type.
	d, err := tx.Inspect(tx.Final(tx.Unknown()), nil)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if p, ok := d.Base.(tx.Primitive); !ok || p.Kind != tx.KindAny {
		t.Fatalf("expected any base, got %v", d.Base)
	}
}

func TestInspect_NestedQualifierIsFatal(t *testing.T) {
	_, err := tx.Inspect(tx.List(tx.Final(tx.String())), nil)
	if err == nil {
		t.Fatalf("expected forbidden qualifier error")
	}
	iss, ok := modelir.AsIssues(err)
	if !ok || !iss.HasCode(modelir.CodeForbiddenQualifier) {
		t.Fatalf("expected forbidden_qualifier, got %v", err)
	}
}

func TestInspect_MetadataOrderInnermostFirst(t *testing.T) {
	inner := tx.Annotated(tx.Int(), "m1")
	outer := tx.Annotated(inner, "m2", "m3")
	d, err := tx.Inspect(outer, nil)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(d.Metadata) != 3 || d.Metadata[0] != "m1" || d.Metadata[1] != "m2" || d.Metadata[2] != "m3" {
		t.Fatalf("unexpected metadata order: %v", d.Metadata)
	}
}

func TestInspect_ForwardReference(t *testing.T) {
	d, err := tx.Inspect(tx.Ref("Later"), tx.MapScope{})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !d.Unresolved() {
		t.Fatalf("expected unresolved descriptor")
	}
	if len(d.Pending) != 1 || d.Pending[0] != "Later" {
		t.Fatalf("unexpected pending set: %v", d.Pending)
	}

	// Once the name is in scope the same expression resolves cleanly.
	d, err = tx.Inspect(tx.Ref("Later"), tx.MapScope{"Later": tx.Int()})
	if err != nil {
		t.Fatalf("inspect resolved: %v", err)
	}
	if d.Unresolved() {
		t.Fatalf("expected resolved descriptor, pending=%v", d.Pending)
	}
	if p, ok := d.Base.(tx.Primitive); !ok || p.Kind != tx.KindInt {
		t.Fatalf("expected int base, got %v", d.Base)
	}
}

func TestInspect_NestedForwardReference(t *testing.T) {
	d, err := tx.Inspect(tx.List(tx.Ref("Node")), tx.MapScope{})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !d.Unresolved() || len(d.Pending) != 1 || d.Pending[0] != "Node" {
		t.Fatalf("expected nested pending name, got %v", d.Pending)
	}
}

func TestInspect_CircularAliasIsFatal(t *testing.T) {
	scope := tx.MapScope{"A": tx.Ref("B"), "B": tx.Ref("A")}
	_, err := tx.Inspect(tx.Ref("A"), scope)
	if err == nil {
		t.Fatalf("expected circular alias error")
	}
	iss, ok := modelir.AsIssues(err)
	if !ok || !iss.HasCode(modelir.CodeInvalidDeclaration) {
		t.Fatalf("expected invalid_declaration, got %v", err)
	}
}

func TestSubstitute_Recursive(t *testing.T) {
	expr := tx.MapOf(tx.String(), tx.Union(tx.Var("T"), tx.List(tx.Var("T"))))
	got := tx.Substitute(expr, map[string]tx.Expr{"T": tx.Int()})
	m, ok := got.(*tx.MapExpr)
	if !ok {
		t.Fatalf("expected map, got %v", got)
	}
	u, ok := m.Value.(*tx.UnionExpr)
	if !ok || len(u.Members) != 2 {
		t.Fatalf("expected union value, got %v", m.Value)
	}
	if p, ok := u.Members[0].(tx.Primitive); !ok || p.Kind != tx.KindInt {
		t.Fatalf("expected int member, got %v", u.Members[0])
	}
	l, ok := u.Members[1].(*tx.ListExpr)
	if !ok {
		t.Fatalf("expected list member, got %v", u.Members[1])
	}
	if p, ok := l.Elem.(tx.Primitive); !ok || p.Kind != tx.KindInt {
		t.Fatalf("expected int elem, got %v", l.Elem)
	}
}

func TestSubstitute_UnboundLeftInPlace(t *testing.T) {
	got := tx.Substitute(tx.List(tx.Var("U")), map[string]tx.Expr{"T": tx.Int()})
	l := got.(*tx.ListExpr)
	if _, ok := l.Elem.(*tx.VarExpr); !ok {
		t.Fatalf("expected unbound var preserved, got %v", l.Elem)
	}
}
