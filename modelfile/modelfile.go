// Package modelfile loads declarative YAML model documents and turns them
// into schema declarations, so model graphs can be maintained outside Go
// code and compiled by the CLI.
package modelfile

import (
	"fmt"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/fieldspec"
	"github.com/modelir/modelir/schema"
	"github.com/modelir/modelir/typeexpr"
	"gopkg.in/yaml.v3"
)

// File is the root of a modelfile document.
type File struct {
	Models []Model `yaml:"models"`
}

// Model declares one model.
type Model struct {
	Name       string     `yaml:"name"`
	TypeParams []string   `yaml:"type_params"`
	Extends    string     `yaml:"extends"`
	Fields     []Field    `yaml:"fields"`
	Computed   []Computed `yaml:"computed"`
}

// Field declares one attribute. Options feed the field-descriptor builder
// and use its option names ("default", "alias", "gt", ...), including legacy
// spellings handled by translation.
type Field struct {
	Name    string         `yaml:"name"`
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:"options"`
}

// Computed declares a serialization-only accessor.
type Computed struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"` // "property" (default) or "cached"
	Returns string `yaml:"returns"`
	Alias   string `yaml:"alias"`
	Repr    *bool  `yaml:"repr"`
}

// Parse decodes and structurally validates a modelfile document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	seen := map[string]struct{}{}
	for i, m := range f.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("modelfile: models[%d] is missing a name", i)
		}
		if _, dup := seen[m.Name]; dup {
			return nil, fmt.Errorf("modelfile: duplicate model %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		for j, fld := range m.Fields {
			if fld.Name == "" || fld.Type == "" {
				return nil, fmt.Errorf("modelfile: model %q fields[%d] needs name and type", m.Name, j)
			}
		}
	}
	return &f, nil
}

// Declarations lowers the document into compiler declarations, resolving
// extends chains within the file. Legacy field options are translated (or
// rejected) through the fieldspec layer, reporting into warn.
func (f *File) Declarations(warn *modelir.Warnings) ([]*schema.Declaration, error) {
	byName := map[string]*schema.Declaration{}
	order := make([]*schema.Declaration, 0, len(f.Models))

	for _, m := range f.Models {
		decl, err := m.declaration(warn)
		if err != nil {
			return nil, err
		}
		byName[m.Name] = decl
		order = append(order, decl)
	}

	for _, m := range f.Models {
		if m.Extends == "" {
			continue
		}
		base, ok := byName[m.Extends]
		if !ok {
			return nil, fmt.Errorf("modelfile: model %q extends unknown model %q", m.Name, m.Extends)
		}
		byName[m.Name].Base = base
	}
	return order, nil
}

func (m Model) declaration(warn *modelir.Warnings) (*schema.Declaration, error) {
	params := map[string]struct{}{}
	for _, p := range m.TypeParams {
		params[p] = struct{}{}
	}

	b := schema.NewModel(m.Name).TypeParams(m.TypeParams...)

	for _, fld := range m.Fields {
		expr, err := ParseType(fld.Type, params)
		if err != nil {
			return nil, fmt.Errorf("modelfile: model %q field %q: %w", m.Name, fld.Name, err)
		}
		if len(fld.Options) == 0 {
			b.Field(fld.Name, expr)
			continue
		}
		rec, err := fieldRecord(fld.Options, warn)
		if err != nil {
			return nil, fmt.Errorf("modelfile: model %q field %q: %w", m.Name, fld.Name, err)
		}
		b.FieldDefault(fld.Name, expr, rec)
	}

	for _, c := range m.Computed {
		kind := schema.AccessorProperty
		switch c.Kind {
		case "", "property":
		case "cached":
			kind = schema.AccessorCachedProperty
		default:
			return nil, fmt.Errorf("modelfile: model %q computed %q: unknown kind %q", m.Name, c.Name, c.Kind)
		}
		var opts []schema.ComputedOption
		if c.Alias != "" {
			opts = append(opts, schema.ComputedAlias(c.Alias))
		}
		if c.Repr != nil {
			opts = append(opts, schema.ComputedRepr(*c.Repr))
		}
		var retExpr typeexpr.Expr
		if c.Returns != "" {
			e, err := ParseType(c.Returns, params)
			if err != nil {
				return nil, fmt.Errorf("modelfile: model %q computed %q: %w", m.Name, c.Name, err)
			}
			retExpr = e
		}
		b.Computed(c.Name, kind, retExpr, opts...)
	}

	return b.Declaration(), nil
}

// fieldRecord translates a field's option map into a pre-built descriptor
// record, which the compiler treats as the assigned-descriptor case.
func fieldRecord(opts map[string]any, warn *modelir.Warnings) (*fieldspec.Record, error) {
	return fieldspec.FromOptions(opts, warn)
}
