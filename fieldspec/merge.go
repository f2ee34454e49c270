package fieldspec

import (
	"reflect"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/i18n"
	"go.uber.org/zap"
)

// Merger combines stacked field descriptors discovered in a single
// annotation (for example one contributed by a reusable alias and one
// declared locally). The zero-value Merger warns into a Nop reporter; use
// NewMerger to surface merge warnings.
type Merger struct {
	warn *modelir.Warnings
}

// NewMerger wires a warning reporter into merge operations.
func NewMerger(warn *modelir.Warnings) *Merger { return &Merger{warn: warn} }

// Merge is the package-level convenience over a silent Merger.
func Merge(records ...*Record) (*Record, error) {
	return (&Merger{}).Merge(records...)
}

// Merge folds records left to right. Only explicitly set attributes
// participate: an attribute left at its structural default never clobbers an
// earlier explicit value. json_schema_extra dict-merges incrementally across
// all records before scalar overrides; opaque metadata entries are
// deduplicated by concrete type, keeping the most recently seen instance.
func (m *Merger) Merge(records ...*Record) (*Record, error) {
	out := newRecord()

	// json_schema_extra first: map ∪ map merges, a map/callable collision
	// keeps the later value and warns once per call site.
	var extra any
	extraSet := false
	for _, r := range records {
		if r == nil || !r.Explicit(attrJSONSchemaExtra) {
			continue
		}
		next := r.JSONSchemaExtra
		if !extraSet {
			extra, extraSet = next, true
			continue
		}
		prevMap, prevIsMap := extra.(map[string]any)
		nextMap, nextIsMap := next.(map[string]any)
		switch {
		case prevIsMap && nextIsMap:
			merged := cloneExtraMap(prevMap)
			for k, v := range nextMap {
				merged[k] = v
			}
			extra = merged
		case prevIsMap != nextIsMap:
			m.warn.Warn(1, modelir.CodeExtraMergeConflict,
				"cannot merge json_schema_extra mapping with callable; keeping the later value",
				zap.Bool("kept_mapping", nextIsMap))
			extra = next
		default:
			extra = next
		}
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		if r.Explicit(attrDefault) && r.Explicit(attrDefaultFactory) {
			return nil, modelir.Issues{{
				Path:    "/",
				Code:    modelir.CodeDefaultConflict,
				Message: i18n.T(modelir.CodeDefaultConflict, nil),
			}}
		}
		mergeScalars(out, r)
		out.Metadata = append(out.Metadata, r.Metadata...)
		if r.Annotation.Base != nil {
			out.Annotation = r.Annotation
		}
	}

	if extraSet {
		out.JSONSchemaExtra = extra
		out.markSet(attrJSONSchemaExtra)
	}
	out.Metadata = dedupeMetadata(out.Metadata)
	return out, nil
}

// mergeScalars copies every explicitly set scalar attribute of r onto out,
// last wins. Default and default factory displace one another so the merged
// record keeps the invariant that they are mutually exclusive.
func mergeScalars(out, r *Record) {
	if r.Explicit(attrDefault) {
		out.Default = r.Default
		out.DefaultFactory = nil
		delete(out.set, attrDefaultFactory)
		out.markSet(attrDefault)
	}
	if r.Explicit(attrDefaultFactory) {
		out.DefaultFactory = r.DefaultFactory
		out.Default = modelir.Undefined
		delete(out.set, attrDefault)
		out.markSet(attrDefaultFactory)
	}
	copyString := func(attr string, dst *string, src string) {
		if r.Explicit(attr) {
			*dst = src
			out.markSet(attr)
		}
	}
	copyString(attrAlias, &out.Alias, r.Alias)
	copyString(attrValidationAlias, &out.ValidationAlias, r.ValidationAlias)
	copyString(attrSerializationAlias, &out.SerializationAlias, r.SerializationAlias)
	copyString(attrTitle, &out.Title, r.Title)
	copyString(attrDescription, &out.Description, r.Description)
	copyString(attrPattern, &out.Pattern, r.Pattern)
	copyString(attrDiscriminator, &out.Discriminator, r.Discriminator)
	copyString(attrUnionMode, &out.UnionMode, r.UnionMode)
	copyString(attrDeprecated, &out.Deprecated, r.Deprecated)

	copyFloat := func(attr string, dst **float64, src *float64) {
		if r.Explicit(attr) {
			*dst = cloneFloat(src)
			out.markSet(attr)
		}
	}
	copyFloat(attrGt, &out.Gt, r.Gt)
	copyFloat(attrGe, &out.Ge, r.Ge)
	copyFloat(attrLt, &out.Lt, r.Lt)
	copyFloat(attrLe, &out.Le, r.Le)
	copyFloat(attrMultipleOf, &out.MultipleOf, r.MultipleOf)

	copyInt := func(attr string, dst **int, src *int) {
		if r.Explicit(attr) {
			*dst = cloneInt(src)
			out.markSet(attr)
		}
	}
	copyInt(attrMinLength, &out.MinLength, r.MinLength)
	copyInt(attrMaxLength, &out.MaxLength, r.MaxLength)

	copyBool := func(attr string, dst *bool, src bool) {
		if r.Explicit(attr) {
			*dst = src
			out.markSet(attr)
		}
	}
	copyBool(attrExclude, &out.Exclude, r.Exclude)
	copyBool(attrFrozen, &out.Frozen, r.Frozen)
	copyBool(attrStrict, &out.Strict, r.Strict)
	copyBool(attrFailFast, &out.FailFast, r.FailFast)
}

// dedupeMetadata keeps, for each concrete metadata type, only the most
// recently seen instance, preserving the relative order of the survivors.
func dedupeMetadata(entries []any) []any {
	if len(entries) < 2 {
		return entries
	}
	seen := map[reflect.Type]struct{}{}
	out := make([]any, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		k := metadataKind(entries[i])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, entries[i])
	}
	// reverse back to declaration order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
