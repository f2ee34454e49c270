package fieldspec

import (
	"errors"
	"fmt"
	"sort"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/i18n"
	"go.uber.org/zap"
)

// removedOptions maps legacy option names with no translation to their
// remediation hint. Using one fails with the stable code "removed-kwargs".
var removedOptions = map[string]string{
	"regex":          "use pattern instead",
	"unique_items":   "no replacement; enforce via metadata markers",
	"allow_mutation": "use frozen instead",
	"const":          "no replacement; use a single-value union",
}

// deprecatedOptions maps legacy option names to their modern spelling. Using
// one warns with code "deprecated-kwargs" (once per call site) and applies
// the translated option.
var deprecatedOptions = map[string]string{
	"min_items": "min_length",
	"max_items": "max_length",
}

// FromOptions builds a record from a loosely typed option map, the entry
// point used by the modelfile loader and by callers migrating legacy
// declarations. Removed option names fail hard; deprecated names are
// translated and reported through warn.
func FromOptions(opts map[string]any, warn *modelir.Warnings) (*Record, error) {
	b := Field()
	var iss modelir.Issues

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := opts[k]
		if hint, removed := removedOptions[k]; removed {
			iss = modelir.AppendIssues(iss, modelir.Issue{
				Path:    "/",
				Code:    modelir.CodeRemovedKwargs,
				Message: i18n.T(modelir.CodeRemovedKwargs, nil),
				Hint:    hint,
				Params:  map[string]any{"option": k},
			})
			continue
		}
		if modern, deprecated := deprecatedOptions[k]; deprecated {
			warn.Warn(1, modelir.CodeDeprecatedKwargs,
				"option '"+k+"' is deprecated; translated to '"+modern+"'",
				zap.String("option", k), zap.String("replacement", modern))
			k = modern
		}
		if err := applyOption(b, k, v); err != nil {
			code := modelir.CodeInvalidDeclaration
			if errors.Is(err, errUnknownOption) {
				code = modelir.CodeUnknownOption
			}
			iss = modelir.AppendIssues(iss, modelir.Issue{
				Path:    "/",
				Code:    code,
				Message: i18n.T(code, nil),
				Hint:    err.Error(),
				Params:  map[string]any{"option": k},
			})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return b.Build()
}

func applyOption(b *Builder, name string, v any) error {
	switch name {
	case "default":
		b.Default(v)
	case "alias":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.Alias(s)
	case "validation_alias":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.ValidationAlias(s)
	case "serialization_alias":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.SerializationAlias(s)
	case "title":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.Title(s)
	case "description":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.Description(s)
	case "gt", "ge", "lt", "le", "multiple_of":
		f, err := asFloat(name, v)
		if err != nil {
			return err
		}
		switch name {
		case "gt":
			b.Gt(f)
		case "ge":
			b.Ge(f)
		case "lt":
			b.Lt(f)
		case "le":
			b.Le(f)
		case "multiple_of":
			b.MultipleOf(f)
		}
	case "min_length", "max_length":
		n, err := asInt(name, v)
		if err != nil {
			return err
		}
		if name == "min_length" {
			b.MinLength(n)
		} else {
			b.MaxLength(n)
		}
	case "pattern":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.Pattern(s)
	case "exclude", "frozen", "strict", "fail_fast":
		on, err := asBool(name, v)
		if err != nil {
			return err
		}
		if on {
			switch name {
			case "exclude":
				b.Exclude()
			case "frozen":
				b.Frozen()
			case "strict":
				b.Strict()
			case "fail_fast":
				b.FailFast()
			}
		}
	case "discriminator":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.Discriminator(s)
	case "union_mode":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		if s != modelir.UnionSmart && s != modelir.UnionLeftToRight {
			return fmt.Errorf("union_mode must be %q or %q", modelir.UnionSmart, modelir.UnionLeftToRight)
		}
		b.UnionMode(s)
	case "deprecated":
		s, err := asString(name, v)
		if err != nil {
			return err
		}
		b.Deprecated(s)
	case "json_schema_extra":
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("json_schema_extra must be a mapping, got %T", v)
		}
		b.JSONSchemaExtra(m)
	default:
		return fmt.Errorf("%w: %q", errUnknownOption, name)
	}
	return nil
}

var errUnknownOption = errors.New("unrecognized option")

func asString(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", name, v)
	}
	return s, nil
}

func asBool(name string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a bool, got %T", name, v)
	}
	return b, nil
}

func asFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%s must be numeric, got %T", name, v)
}

func asInt(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%s must be an integer, got %T", name, v)
}
