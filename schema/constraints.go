package schema

import (
	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/fieldspec"
	"github.com/modelir/modelir/i18n"
	"github.com/modelir/modelir/ir"
	"github.com/modelir/modelir/typeexpr"
)

// constraintClass captures which constraint families apply to a base type.
type constraintClass struct {
	numeric bool // gt, ge, lt, le, multiple_of
	length  bool // min_length, max_length
	pattern bool
	skip    bool // pending reference: checked again after rebuild
}

func classOf(base typeexpr.Expr) constraintClass {
	switch x := base.(type) {
	case typeexpr.Primitive:
		switch x.Kind {
		case typeexpr.KindInt, typeexpr.KindFloat:
			return constraintClass{numeric: true}
		case typeexpr.KindString:
			return constraintClass{length: true, pattern: true}
		case typeexpr.KindBytes:
			return constraintClass{length: true}
		case typeexpr.KindAny, typeexpr.KindUnknown:
			return constraintClass{numeric: true, length: true, pattern: true}
		default:
			return constraintClass{}
		}
	case *typeexpr.ListExpr, *typeexpr.MapExpr:
		return constraintClass{length: true}
	case *typeexpr.RefExpr:
		return constraintClass{skip: true}
	case *typeexpr.AnnotatedExpr:
		return classOf(x.Inner)
	case *typeexpr.QualifiedExpr:
		return classOf(x.Inner)
	default:
		// models, unions, tagged unions, bools, unbound variables
		return constraintClass{}
	}
}

// attachConstraints validates the record's constraints against the resolved
// base type and writes them onto the emitted node's constraint payload. A
// constraint that does not apply to the base type is a fatal build error
// naming the offending attribute, never a silent no-op.
func attachConstraints(node *ir.Node, rec *fieldspec.Record, base typeexpr.Expr, path string) modelir.Issues {
	cls := classOf(base)
	if cls.skip {
		// Pending forward reference: the full recompilation after rebuild
		// re-runs this check against the resolved type.
		return nil
	}

	var iss modelir.Issues
	mismatch := func(constraint string) {
		iss = modelir.AppendIssues(iss, modelir.Issue{
			Path:    path,
			Code:    modelir.CodeConstraintMismatch,
			Message: i18n.T(modelir.CodeConstraintMismatch, nil),
			Hint:    constraint + " is not applicable to " + base.String(),
			Params:  map[string]any{"constraint": constraint, "type": base.String()},
		})
	}

	cs := &ir.Constraints{}
	numeric := func(constraint string, v *float64) {
		if v == nil {
			return
		}
		if !cls.numeric {
			mismatch(constraint)
			return
		}
		switch constraint {
		case "gt":
			cs.Gt = v
		case "ge":
			cs.Ge = v
		case "lt":
			cs.Lt = v
		case "le":
			cs.Le = v
		case "multiple_of":
			cs.MultipleOf = v
		}
	}
	numeric("gt", rec.Gt)
	numeric("ge", rec.Ge)
	numeric("lt", rec.Lt)
	numeric("le", rec.Le)
	numeric("multiple_of", rec.MultipleOf)

	if rec.MinLength != nil {
		if !cls.length {
			mismatch("min_length")
		} else {
			cs.MinLength = rec.MinLength
		}
	}
	if rec.MaxLength != nil {
		if !cls.length {
			mismatch("max_length")
		} else {
			cs.MaxLength = rec.MaxLength
		}
	}
	if rec.Pattern != "" {
		if !cls.pattern {
			mismatch("pattern")
		} else {
			cs.Pattern = rec.Pattern
		}
	}

	if len(iss) > 0 {
		return iss
	}
	if !cs.Empty() {
		node.Constraints = cs
	}
	return nil
}
