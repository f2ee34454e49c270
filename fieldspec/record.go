// Package fieldspec builds and merges the canonical per-attribute records
// consumed by the schema compiler. A Record carries everything a single
// attribute declares: annotation, default, aliases, constraints, and the
// opaque metadata discovered while unwrapping the annotation.
package fieldspec

import (
	"reflect"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/typeexpr"
)

// Attribute names tracked in the explicit-set map. Only explicitly set
// attributes participate in merge precedence.
const (
	attrDefault            = "default"
	attrDefaultFactory     = "default_factory"
	attrAlias              = "alias"
	attrValidationAlias    = "validation_alias"
	attrSerializationAlias = "serialization_alias"
	attrTitle              = "title"
	attrDescription        = "description"
	attrGt                 = "gt"
	attrGe                 = "ge"
	attrLt                 = "lt"
	attrLe                 = "le"
	attrMultipleOf         = "multiple_of"
	attrMinLength          = "min_length"
	attrMaxLength          = "max_length"
	attrPattern            = "pattern"
	attrExclude            = "exclude"
	attrFrozen             = "frozen"
	attrDiscriminator      = "discriminator"
	attrStrict             = "strict"
	attrUnionMode          = "union_mode"
	attrFailFast           = "fail_fast"
	attrDeprecated         = "deprecated"
	attrJSONSchemaExtra    = "json_schema_extra"
)

// DefaultFactory produces a fresh default value per instance so mutable
// defaults are never shared.
type DefaultFactory func() any

// JSONSchemaExtraFunc mutates a generated JSON-schema fragment in place; the
// callable form of the json_schema_extra option.
type JSONSchemaExtraFunc func(map[string]any)

// Record is the canonical description of one model attribute. It is built
// once while a model is compiled and treated as immutable afterwards.
type Record struct {
	Annotation typeexpr.Descriptor

	// Default is modelir.Undefined when no static default exists. Default
	// and DefaultFactory are mutually exclusive.
	Default        any
	DefaultFactory DefaultFactory

	Alias              string
	ValidationAlias    string
	SerializationAlias string
	Title              string
	Description        string

	Gt, Ge, Lt, Le *float64
	MultipleOf     *float64
	MinLength      *int
	MaxLength      *int
	Pattern        string

	Exclude       bool
	Frozen        bool
	Discriminator string
	Strict        bool
	UnionMode     string
	FailFast      bool
	Deprecated    string

	// JSONSchemaExtra is either a map[string]any or a JSONSchemaExtraFunc.
	JSONSchemaExtra any

	// Metadata preserves opaque constraint markers in declaration order,
	// deduplicated by concrete type (most recent instance wins).
	Metadata []any

	// set tracks which attributes were explicitly provided. It drives merge
	// precedence only; the compiler never consults it after merging.
	set map[string]struct{}
}

func newRecord() *Record {
	return &Record{Default: modelir.Undefined, set: map[string]struct{}{}}
}

// IsRequired reports whether the attribute must be supplied: no static
// default and no default factory.
func (r *Record) IsRequired() bool {
	return modelir.IsUndefined(r.Default) && r.DefaultFactory == nil
}

// Explicit reports whether the named attribute was explicitly set.
func (r *Record) Explicit(attr string) bool {
	_, ok := r.set[attr]
	return ok
}

func (r *Record) markSet(attr string) {
	if r.set == nil {
		r.set = map[string]struct{}{}
	}
	r.set[attr] = struct{}{}
}

// Clone returns a deep-enough copy: scalar pointers are re-allocated, the
// explicit-set map is copied, metadata and extra maps are shallow-copied
// (their entries are caller-owned opaque values).
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Gt = cloneFloat(r.Gt)
	cp.Ge = cloneFloat(r.Ge)
	cp.Lt = cloneFloat(r.Lt)
	cp.Le = cloneFloat(r.Le)
	cp.MultipleOf = cloneFloat(r.MultipleOf)
	cp.MinLength = cloneInt(r.MinLength)
	cp.MaxLength = cloneInt(r.MaxLength)
	if r.Metadata != nil {
		cp.Metadata = append([]any(nil), r.Metadata...)
	}
	if m, ok := r.JSONSchemaExtra.(map[string]any); ok {
		cp.JSONSchemaExtra = cloneExtraMap(m)
	}
	cp.set = make(map[string]struct{}, len(r.set))
	for k := range r.set {
		cp.set[k] = struct{}{}
	}
	return &cp
}

// SetDefault overrides the static default, displacing any default factory.
// The compiler uses it when an assigned value follows annotation metadata:
// the assigned value is the last contribution and wins.
func (r *Record) SetDefault(v any) {
	r.Default = v
	r.DefaultFactory = nil
	delete(r.set, attrDefaultFactory)
	r.markSet(attrDefault)
}

// AddMetadata appends opaque constraint markers and re-deduplicates by
// concrete type, keeping the most recent instance of each kind.
func (r *Record) AddMetadata(entries ...any) {
	r.Metadata = dedupeMetadata(append(r.Metadata, entries...))
}

// ApplyQualifiers re-applies qualifier-driven overrides onto the record:
// final forces frozen. Used both after merging and when a pre-built record
// is assigned as a field default.
func (r *Record) ApplyQualifiers(q typeexpr.Qualifier) {
	if q.Has(typeexpr.QualFinal) && !r.Frozen {
		r.Frozen = true
		r.markSet(attrFrozen)
	}
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneExtraMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// metadataKind keys opaque metadata entries for deduplication.
func metadataKind(v any) reflect.Type { return reflect.TypeOf(v) }
