// Package modelir compiles declarative model schemas into a portable,
// discriminated schema IR for an external validation/serialization engine.
//
// It provides:
//
// - A stable error model via Issues (JSON Pointer, code, message)
// - Type-expression inspection under typeexpr/ (qualifiers, metadata, refs)
// - Field-descriptor construction and merging under fieldspec/
// - Model compilation, forward-reference tracking, and rebuild under schema/
// - The serializable IR node format under ir/
//
// Design policy:
// - Keep only shared contracts in the root package (codes, sentinels, defaults).
// - Place builders under fieldspec/ and schema/, the IR under ir/, and the CLI
//   under cmd/modelirc.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	decl := schema.NewModel("User").
//	    Field("id", typeexpr.Int()).
//	    FieldDefault("name", typeexpr.String(), "anon").
//	    Declaration()
//	compiled, err := schema.Compile(decl, scope)
//	node, err := compiled.IR()
package modelir
