// Package schema compiles model declarations into the IR consumed by the
// external validation/serialization engine. Construction is two-phase: a
// builder collects declarations, then Compile analyzes them and emits a
// frozen node tree (or an Incomplete schema awaiting Rebuild).
package schema

import (
	"strings"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/typeexpr"
)

// FieldDecl is one collected attribute declaration: the name, the raw type
// expression, and the raw assigned default. Default is modelir.Undefined
// when nothing was assigned; a *fieldspec.Record default is the
// descriptor-assignment case.
type FieldDecl struct {
	Name    string
	Type    typeexpr.Expr
	Default any
}

// AccessorKind classifies a computed member's accessor.
type AccessorKind int

const (
	AccessorProperty AccessorKind = iota
	AccessorCachedProperty
)

func (k AccessorKind) String() string {
	if k == AccessorCachedProperty {
		return "cached-property"
	}
	return "property"
}

// ComputedDecl declares a serialization-only accessor. A nil Return is
// inferred as the universal any type; the engine then falls back to runtime
// introspection during serialization.
type ComputedDecl struct {
	Name        string
	Kind        AccessorKind
	Return      typeexpr.Expr
	Alias       string
	Title       string
	Description string
	Example     any
	// Repr controls visibility in debug output. nil applies the default:
	// hidden for names that signal non-public intent (leading underscore),
	// visible otherwise.
	Repr *bool
}

// Declaration is the complete collected form of one model: the output of the
// declaration pass and the input of Compile. Rebuild recompiles from the
// retained Declaration, so it must not be mutated after compilation.
type Declaration struct {
	Name       string
	TypeParams []string
	Base       *Declaration
	Fields     []FieldDecl
	Computed   []ComputedDecl
}

// Builder collects declarations for one model.
type Builder struct {
	decl Declaration
}

// NewModel starts a declaration for the named model.
func NewModel(name string) *Builder {
	return &Builder{decl: Declaration{Name: name}}
}

// TypeParams declares the model's type variables, referenced in field types
// via typeexpr.Var.
func (b *Builder) TypeParams(names ...string) *Builder {
	b.decl.TypeParams = append(b.decl.TypeParams, names...)
	return b
}

// Extend sets the base model whose fields and computed members are
// inherited.
func (b *Builder) Extend(base *Declaration) *Builder {
	b.decl.Base = base
	return b
}

// Field declares an attribute with no assigned default.
func (b *Builder) Field(name string, t typeexpr.Expr) *Builder {
	b.decl.Fields = append(b.decl.Fields, FieldDecl{Name: name, Type: t, Default: modelir.Undefined})
	return b
}

// FieldDefault declares an attribute with an assigned default expression. A
// *fieldspec.Record value is treated as a descriptor assignment.
func (b *Builder) FieldDefault(name string, t typeexpr.Expr, def any) *Builder {
	b.decl.Fields = append(b.decl.Fields, FieldDecl{Name: name, Type: t, Default: def})
	return b
}

// Computed registers a serialization-only accessor. ret may be nil.
func (b *Builder) Computed(name string, kind AccessorKind, ret typeexpr.Expr, opts ...ComputedOption) *Builder {
	cd := ComputedDecl{Name: name, Kind: kind, Return: ret}
	for _, o := range opts {
		o(&cd)
	}
	b.decl.Computed = append(b.decl.Computed, cd)
	return b
}

// Declaration finalizes the collection pass.
func (b *Builder) Declaration() *Declaration {
	cp := b.decl
	return &cp
}

// ComputedOption customizes a computed member declaration.
type ComputedOption func(*ComputedDecl)

func ComputedAlias(alias string) ComputedOption {
	return func(cd *ComputedDecl) { cd.Alias = alias }
}

func ComputedTitle(title string) ComputedOption {
	return func(cd *ComputedDecl) { cd.Title = title }
}

func ComputedDescription(desc string) ComputedOption {
	return func(cd *ComputedDecl) { cd.Description = desc }
}

func ComputedExample(example any) ComputedOption {
	return func(cd *ComputedDecl) { cd.Example = example }
}

func ComputedRepr(show bool) ComputedOption {
	return func(cd *ComputedDecl) { cd.Repr = &show }
}

// defaultRepr hides members whose name signals non-public intent.
func defaultRepr(name string) bool { return !strings.HasPrefix(name, "_") }
