package fieldspec

import (
	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/i18n"
)

// Builder is the fluent field-descriptor call. Every setter records the
// attribute in the record's explicit set; attributes left untouched keep
// their structural default and never clobber earlier explicit values during
// a merge.
//
//	spec := fieldspec.Field().Alias("userName").MinLength(1).MustBuild()
type Builder struct {
	r   *Record
	iss modelir.Issues
}

// Field starts a descriptor with no default (the attribute is required
// unless a later setter or merge supplies one).
func Field() *Builder {
	return &Builder{r: newRecord()}
}

// Default sets a static default value. Mutually exclusive with
// DefaultFactory.
func (b *Builder) Default(v any) *Builder {
	if b.r.DefaultFactory != nil {
		return b.fail(attrDefault)
	}
	b.r.Default = v
	b.r.markSet(attrDefault)
	return b
}

// DefaultFactory sets a per-instance default producer. Mutually exclusive
// with Default.
func (b *Builder) DefaultFactory(fn DefaultFactory) *Builder {
	if !modelir.IsUndefined(b.r.Default) {
		return b.fail(attrDefaultFactory)
	}
	b.r.DefaultFactory = fn
	b.r.markSet(attrDefaultFactory)
	return b
}

func (b *Builder) Alias(a string) *Builder {
	b.r.Alias = a
	b.r.markSet(attrAlias)
	return b
}

func (b *Builder) ValidationAlias(a string) *Builder {
	b.r.ValidationAlias = a
	b.r.markSet(attrValidationAlias)
	return b
}

func (b *Builder) SerializationAlias(a string) *Builder {
	b.r.SerializationAlias = a
	b.r.markSet(attrSerializationAlias)
	return b
}

func (b *Builder) Title(t string) *Builder {
	b.r.Title = t
	b.r.markSet(attrTitle)
	return b
}

func (b *Builder) Description(d string) *Builder {
	b.r.Description = d
	b.r.markSet(attrDescription)
	return b
}

// Numeric constraints.

func (b *Builder) Gt(v float64) *Builder {
	b.r.Gt = &v
	b.r.markSet(attrGt)
	return b
}

func (b *Builder) Ge(v float64) *Builder {
	b.r.Ge = &v
	b.r.markSet(attrGe)
	return b
}

func (b *Builder) Lt(v float64) *Builder {
	b.r.Lt = &v
	b.r.markSet(attrLt)
	return b
}

func (b *Builder) Le(v float64) *Builder {
	b.r.Le = &v
	b.r.markSet(attrLe)
	return b
}

func (b *Builder) MultipleOf(v float64) *Builder {
	b.r.MultipleOf = &v
	b.r.markSet(attrMultipleOf)
	return b
}

// Length and pattern constraints.

func (b *Builder) MinLength(n int) *Builder {
	b.r.MinLength = &n
	b.r.markSet(attrMinLength)
	return b
}

func (b *Builder) MaxLength(n int) *Builder {
	b.r.MaxLength = &n
	b.r.markSet(attrMaxLength)
	return b
}

func (b *Builder) Pattern(p string) *Builder {
	b.r.Pattern = p
	b.r.markSet(attrPattern)
	return b
}

// Flags and engine hints.

func (b *Builder) Exclude() *Builder {
	b.r.Exclude = true
	b.r.markSet(attrExclude)
	return b
}

func (b *Builder) Frozen() *Builder {
	b.r.Frozen = true
	b.r.markSet(attrFrozen)
	return b
}

func (b *Builder) Discriminator(key string) *Builder {
	b.r.Discriminator = key
	b.r.markSet(attrDiscriminator)
	return b
}

func (b *Builder) Strict() *Builder {
	b.r.Strict = true
	b.r.markSet(attrStrict)
	return b
}

func (b *Builder) UnionMode(mode string) *Builder {
	b.r.UnionMode = mode
	b.r.markSet(attrUnionMode)
	return b
}

func (b *Builder) FailFast() *Builder {
	b.r.FailFast = true
	b.r.markSet(attrFailFast)
	return b
}

// Deprecated attaches a deprecation message surfaced by the external engine.
func (b *Builder) Deprecated(msg string) *Builder {
	b.r.Deprecated = msg
	b.r.markSet(attrDeprecated)
	return b
}

// JSONSchemaExtra attaches documentation-schema extension data: either a
// map[string]any or a JSONSchemaExtraFunc.
func (b *Builder) JSONSchemaExtra(extra any) *Builder {
	b.r.JSONSchemaExtra = extra
	b.r.markSet(attrJSONSchemaExtra)
	return b
}

// Metadata appends opaque constraint markers preserved verbatim on the
// record.
func (b *Builder) Metadata(entries ...any) *Builder {
	b.r.Metadata = append(b.r.Metadata, entries...)
	return b
}

// Build finalizes the record. Construction errors (mutually exclusive
// options) surface here as Issues and are never deferred to validation time.
func (b *Builder) Build() (*Record, error) {
	if len(b.iss) > 0 {
		return nil, b.iss
	}
	return b.r, nil
}

// MustBuild panics on construction errors. Intended for declarations wired
// at startup, mirroring schema builders elsewhere in the module.
func (b *Builder) MustBuild() *Record {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

func (b *Builder) fail(attr string) *Builder {
	b.iss = modelir.AppendIssues(b.iss, modelir.Issue{
		Path:    "/",
		Code:    modelir.CodeDefaultConflict,
		Message: i18n.T(modelir.CodeDefaultConflict, nil),
		Hint:    "attempted to set " + attr + " alongside its counterpart",
		Params:  map[string]any{"attribute": attr},
	})
	return b
}
