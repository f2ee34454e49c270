package schema

import (
	"github.com/modelir/modelir/ir"
	"github.com/modelir/modelir/typeexpr"
)

// Handler is the continuation handed to an extension hook. Calling it yields
// the node the compiler would have produced without the hook, so the hook
// can wrap, replace, or annotate the inner schema.
type Handler func(source typeexpr.Expr) (*ir.Node, error)

// SchemaBuilder is the extension hook protocol. A custom type expression or
// an annotation metadata entry opts in by implementing it; hooks are invoked
// from the innermost metadata entry outward, each seeing the fully built
// inner schema. An error returned by a hook is propagated to the caller
// unchanged.
type SchemaBuilder interface {
	BuildSchema(source typeexpr.Expr, handler Handler) (*ir.Node, error)
}
