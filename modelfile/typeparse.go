package modelfile

import (
	"fmt"
	"strings"

	"github.com/modelir/modelir/typeexpr"
)

// ParseType parses the modelfile type-string grammar into a type expression:
//
//	string | int | float | bool | bytes | any
//	list[T]
//	map[K,V]
//	union[A|B|...]
//	final[T]  initonly[T]  kwonly[T]
//	T         (a declared type parameter)
//	Name      (a reference resolved against the registry, possibly forward)
func ParseType(s string, params map[string]struct{}) (typeexpr.Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	if open := strings.IndexByte(s, '['); open > 0 && strings.HasSuffix(s, "]") {
		head := strings.TrimSpace(s[:open])
		inner := s[open+1 : len(s)-1]
		switch head {
		case "list":
			elem, err := ParseType(inner, params)
			if err != nil {
				return nil, err
			}
			return typeexpr.List(elem), nil
		case "map":
			parts := splitTop(inner, ',')
			if len(parts) != 2 {
				return nil, fmt.Errorf("map takes two arguments: %q", s)
			}
			key, err := ParseType(parts[0], params)
			if err != nil {
				return nil, err
			}
			value, err := ParseType(parts[1], params)
			if err != nil {
				return nil, err
			}
			return typeexpr.MapOf(key, value), nil
		case "union":
			parts := splitTop(inner, '|')
			if len(parts) < 2 {
				return nil, fmt.Errorf("union takes at least two members: %q", s)
			}
			members := make([]typeexpr.Expr, 0, len(parts))
			for _, p := range parts {
				m, err := ParseType(p, params)
				if err != nil {
					return nil, err
				}
				members = append(members, m)
			}
			return typeexpr.Union(members...), nil
		case "final", "initonly", "kwonly":
			elem, err := ParseType(inner, params)
			if err != nil {
				return nil, err
			}
			switch head {
			case "final":
				return typeexpr.Final(elem), nil
			case "initonly":
				return typeexpr.InitOnly(elem), nil
			default:
				return typeexpr.KeywordOnly(elem), nil
			}
		default:
			return nil, fmt.Errorf("unknown type constructor %q", head)
		}
	}

	switch s {
	case "string":
		return typeexpr.String(), nil
	case "int":
		return typeexpr.Int(), nil
	case "float":
		return typeexpr.Float(), nil
	case "bool":
		return typeexpr.Bool(), nil
	case "bytes":
		return typeexpr.Bytes(), nil
	case "any":
		return typeexpr.Any(), nil
	}
	if _, ok := params[s]; ok {
		return typeexpr.Var(s), nil
	}
	return typeexpr.Ref(s), nil
}

// splitTop splits on sep at bracket depth zero.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
