// Package ir defines the schema intermediate representation emitted by the
// compiler and consumed by the external validation/serialization engine.
// Every node carries a required discriminant Kind plus a kind-specific
// payload; recursive types are expressed as named references, never as
// cyclic pointers, so a node tree is always serializable and acyclic.
package ir

// Version identifies the IR document format. The external engine rejects
// documents with a version it does not understand.
const Version = "modelir/v1"

// Kind identifies an IR node type.
type Kind string

const (
	KindAny    Kind = "any"
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindBytes  Kind = "bytes"
	KindList   Kind = "list"
	KindMap    Kind = "map"
	KindUnion  Kind = "union"
	KindTagged Kind = "tagged-union"
	KindModel  Kind = "model"
	KindRef    Kind = "ref"
	// KindFunction wraps an inner node with a registered validator or
	// serializer function, referenced by name. Callables themselves never
	// enter the IR.
	KindFunction Kind = "function"
)

// Node is one IR node. Exactly the payload fields belonging to Kind are
// populated; everything else stays zero and is omitted from the encoding.
type Node struct {
	Kind Kind `json:"kind"`

	// Scalar constraint payload (numeric/length/pattern).
	Constraints *Constraints `json:"constraints,omitempty"`

	// List payload.
	Item *Node `json:"item,omitempty"`

	// Map payload.
	Key   *Node `json:"key,omitempty"`
	Value *Node `json:"value,omitempty"`

	// Union payload.
	Members []*Node `json:"members,omitempty"`
	// UnionMode selects the engine's resolution strategy ("smart" or
	// "left_to_right") for untagged unions.
	UnionMode string `json:"union_mode,omitempty"`

	// Tagged-union payload.
	Discriminator string           `json:"discriminator,omitempty"`
	Mapping       map[string]*Node `json:"mapping,omitempty"`

	// Model payload (a model definition).
	Model    string          `json:"model,omitempty"`
	Fields   []Field         `json:"fields,omitempty"`
	Computed []ComputedField `json:"computed,omitempty"`

	// Reference payload: a named reference into the schema registry.
	// Unresolved marks a forward reference that is still pending rebuild;
	// a Complete schema never contains an unresolved marker.
	Ref        string `json:"ref,omitempty"`
	Unresolved bool   `json:"unresolved,omitempty"`

	// Function payload.
	Function string `json:"function,omitempty"`
	Inner    *Node  `json:"inner,omitempty"`

	// Serialization is the reserved optional sub-node describing output-side
	// behavior when it differs from the validation side.
	Serialization *Node `json:"serialization,omitempty"`

	// Strict disables engine-side coercion for this node.
	Strict bool `json:"strict,omitempty"`
}

// Constraints is the kind-specific constraint payload for scalar, sequence
// and mapping nodes. Pointer fields distinguish "unset" from zero.
type Constraints struct {
	Gt         *float64 `json:"gt,omitempty"`
	Ge         *float64 `json:"ge,omitempty"`
	Lt         *float64 `json:"lt,omitempty"`
	Le         *float64 `json:"le,omitempty"`
	MultipleOf *float64 `json:"multiple_of,omitempty"`
	MinLength  *int     `json:"min_length,omitempty"`
	MaxLength  *int     `json:"max_length,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
}

// Empty reports whether no constraint is set.
func (c *Constraints) Empty() bool {
	if c == nil {
		return true
	}
	return c.Gt == nil && c.Ge == nil && c.Lt == nil && c.Le == nil &&
		c.MultipleOf == nil && c.MinLength == nil && c.MaxLength == nil && c.Pattern == ""
}

// Field describes one model attribute on the validation side.
type Field struct {
	Name               string `json:"name"`
	Schema             *Node  `json:"schema"`
	Required           bool   `json:"required,omitempty"`
	Alias              string `json:"alias,omitempty"`
	ValidationAlias    string `json:"validation_alias,omitempty"`
	SerializationAlias string `json:"serialization_alias,omitempty"`
	Title              string `json:"title,omitempty"`
	Description        string `json:"description,omitempty"`
	// Default is the materialized static default. HasDefault distinguishes
	// an explicit nil default from no default at all; factory-produced
	// defaults are flagged separately because callables do not serialize.
	Default           any    `json:"default,omitempty"`
	HasDefault        bool   `json:"has_default,omitempty"`
	HasDefaultFactory bool   `json:"has_default_factory,omitempty"`
	Exclude           bool   `json:"exclude,omitempty"`
	Frozen            bool   `json:"frozen,omitempty"`
	Deprecated        string `json:"deprecated,omitempty"`
	FailFast          bool   `json:"fail_fast,omitempty"`
	// Extra is the merged json_schema_extra mapping handed through to the
	// JSON-Schema generator. The callable form does not serialize and is
	// flagged instead.
	Extra        map[string]any `json:"extra,omitempty"`
	HasExtraFunc bool           `json:"has_extra_func,omitempty"`
}

// ComputedField describes a serialization-only accessor. It never appears on
// the validation side of a model.
type ComputedField struct {
	Name   string `json:"name"`
	Alias  string `json:"alias,omitempty"`
	Return *Node  `json:"return"`
	Repr   bool   `json:"repr,omitempty"`
}

// Walk visits n and every reachable child in depth-first order. It returns
// false from fn to stop early.
func Walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	children := []*Node{n.Item, n.Key, n.Value, n.Inner, n.Serialization}
	children = append(children, n.Members...)
	for _, m := range n.Mapping {
		children = append(children, m)
	}
	for _, f := range n.Fields {
		children = append(children, f.Schema)
	}
	for _, c := range n.Computed {
		children = append(children, c.Return)
	}
	for _, c := range children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// HasUnresolved reports whether any reachable node is a pending forward
// reference.
func HasUnresolved(n *Node) bool {
	found := false
	Walk(n, func(m *Node) bool {
		if m.Kind == KindRef && m.Unresolved {
			found = true
			return false
		}
		return true
	})
	return found
}
