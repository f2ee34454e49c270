// Package typeexpr models the type-expression grammar attached to model
// attributes and normalizes expressions into descriptors the schema compiler
// dispatches on.
package typeexpr

import (
	"fmt"
	"sort"
	"strings"
)

// Expr is one type expression. Expressions are immutable values; builders
// that need a variant of an expression construct a new one.
type Expr interface {
	String() string
	isExpr()
}

// PrimKind names a leaf type. The names line up with IR node kinds.
type PrimKind string

const (
	KindUnknown PrimKind = "unknown"
	KindAny     PrimKind = "any"
	KindString  PrimKind = "string"
	KindInt     PrimKind = "int"
	KindFloat   PrimKind = "float"
	KindBool    PrimKind = "bool"
	KindBytes   PrimKind = "bytes"
)

// Primitive is a leaf type.
type Primitive struct{ Kind PrimKind }

func (p Primitive) String() string { return string(p.Kind) }
func (Primitive) isExpr()          {}

// Leaf constructors.
func Unknown() Expr { return Primitive{Kind: KindUnknown} }
func Any() Expr     { return Primitive{Kind: KindAny} }
func String() Expr  { return Primitive{Kind: KindString} }
func Int() Expr     { return Primitive{Kind: KindInt} }
func Float() Expr   { return Primitive{Kind: KindFloat} }
func Bool() Expr    { return Primitive{Kind: KindBool} }
func Bytes() Expr   { return Primitive{Kind: KindBytes} }

// ListExpr is a homogeneous sequence type.
type ListExpr struct{ Elem Expr }

func (l *ListExpr) String() string { return "list[" + l.Elem.String() + "]" }
func (*ListExpr) isExpr()          {}

// List builds a sequence type.
func List(elem Expr) Expr { return &ListExpr{Elem: elem} }

// MapExpr is a homogeneous mapping type.
type MapExpr struct{ Key, Value Expr }

func (m *MapExpr) String() string { return "map[" + m.Key.String() + "," + m.Value.String() + "]" }
func (*MapExpr) isExpr()          {}

// MapOf builds a mapping type.
func MapOf(key, value Expr) Expr { return &MapExpr{Key: key, Value: value} }

// UnionExpr is an untagged union.
type UnionExpr struct{ Members []Expr }

func (u *UnionExpr) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return "union[" + strings.Join(parts, "|") + "]"
}
func (*UnionExpr) isExpr() {}

// Union builds an untagged union over its members.
func Union(members ...Expr) Expr { return &UnionExpr{Members: members} }

// TaggedExpr is a discriminated union: the value of the discriminator key
// selects the variant.
type TaggedExpr struct {
	Discriminator string
	Variants      map[string]Expr
}

func (t *TaggedExpr) String() string {
	tags := make([]string, 0, len(t.Variants))
	for tag := range t.Variants {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return fmt.Sprintf("tagged[%s:%s]", t.Discriminator, strings.Join(tags, "|"))
}
func (*TaggedExpr) isExpr() {}

// Tagged builds a discriminated union.
func Tagged(discriminator string, variants map[string]Expr) Expr {
	return &TaggedExpr{Discriminator: discriminator, Variants: variants}
}

// RefExpr is a reference by name, resolved against a Scope. Until the name
// becomes resolvable it compiles to a pending reference.
type RefExpr struct{ Name string }

func (r *RefExpr) String() string { return "ref:" + r.Name }
func (*RefExpr) isExpr()          {}

// Ref builds a (possibly forward) reference by name.
func Ref(name string) Expr { return &RefExpr{Name: name} }

// ModelExpr is a reference to an already-compiled model. Unlike RefExpr it
// never needs scope resolution.
type ModelExpr struct{ Name string }

func (m *ModelExpr) String() string { return "model:" + m.Name }
func (*ModelExpr) isExpr()          {}

// ModelRef builds a reference to a compiled model by name.
func ModelRef(name string) Expr { return &ModelExpr{Name: name} }

// VarExpr is a type variable of a generic model, replaced by substitution.
type VarExpr struct{ Name string }

func (v *VarExpr) String() string { return "$" + v.Name }
func (*VarExpr) isExpr()          {}

// Var builds a type-variable placeholder.
func Var(name string) Expr { return &VarExpr{Name: name} }

// AnnotatedExpr attaches arbitrary metadata objects to an inner expression,
// in declaration order.
type AnnotatedExpr struct {
	Inner    Expr
	Metadata []any
}

func (a *AnnotatedExpr) String() string {
	return fmt.Sprintf("annotated[%s;%d]", a.Inner.String(), len(a.Metadata))
}
func (*AnnotatedExpr) isExpr() {}

// Annotated wraps inner with metadata objects.
func Annotated(inner Expr, metadata ...any) Expr {
	return &AnnotatedExpr{Inner: inner, Metadata: metadata}
}

// QualifiedExpr applies a declaration qualifier to an inner expression.
// Qualifiers are only legal on the outer syntactic form of an attribute.
type QualifiedExpr struct {
	Inner Expr
	Qual  Qualifier
}

func (q *QualifiedExpr) String() string { return q.Qual.String() + "[" + q.Inner.String() + "]" }
func (*QualifiedExpr) isExpr()          {}

// Final marks an attribute as assign-once; the compiler forces frozen=true.
func Final(inner Expr) Expr { return &QualifiedExpr{Inner: inner, Qual: QualFinal} }

// InitOnly marks an attribute as settable only at construction.
func InitOnly(inner Expr) Expr { return &QualifiedExpr{Inner: inner, Qual: QualInitOnly} }

// KeywordOnly marks an attribute as addressable only by name.
func KeywordOnly(inner Expr) Expr { return &QualifiedExpr{Inner: inner, Qual: QualKeywordOnly} }
