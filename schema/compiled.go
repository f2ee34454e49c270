package schema

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/fieldspec"
	"github.com/modelir/modelir/i18n"
	"github.com/modelir/modelir/ir"
	"github.com/modelir/modelir/typeexpr"
)

// State is the completeness state of a compiled schema.
type State int

const (
	// Incomplete marks a schema whose compilation referenced names that were
	// not resolvable; it must not be handed to the engine until a Rebuild
	// succeeds.
	Incomplete State = iota
	Complete
)

func (s State) String() string {
	if s == Complete {
		return "Complete"
	}
	return "Incomplete"
}

// CompiledField pairs an attribute's canonical record with its emitted node.
type CompiledField struct {
	Name   string
	Record *fieldspec.Record
	Node   *ir.Node
}

// ComputedRecord is the registered form of a computed member.
type ComputedRecord struct {
	Name        string
	Kind        AccessorKind
	Return      typeexpr.Descriptor
	Alias       string
	Title       string
	Description string
	Example     any
	Repr        bool
}

// generation is one frozen compilation result. Rebuild swaps in a whole new
// generation rather than mutating the previous one, so consumers holding the
// old node tree keep a consistent view.
type generation struct {
	fields   []*CompiledField
	computed []*ComputedRecord
	node     *ir.Node
	pending  []string
}

// Compiled is a model's compiled schema. The node tree of a Complete
// generation is immutable and safe for concurrent readers without locking;
// Rebuild is the only write path and performs an atomic pointer swap.
type Compiled struct {
	name string
	decl *Declaration
	cfg  config
	gen  atomic.Pointer[generation]
}

// Name returns the model name.
func (c *Compiled) Name() string { return c.name }

// Declaration returns the retained declaration the schema was compiled from.
func (c *Compiled) Declaration() *Declaration { return c.decl }

// State reports whether the current generation is complete.
func (c *Compiled) State() State {
	if len(c.gen.Load().pending) > 0 {
		return Incomplete
	}
	return Complete
}

// PendingNames lists the unresolved names of the current generation, sorted.
func (c *Compiled) PendingNames() []string {
	p := c.gen.Load().pending
	out := append([]string(nil), p...)
	sort.Strings(out)
	return out
}

// Fields returns the compiled field list in definition order.
func (c *Compiled) Fields() []*CompiledField {
	return c.gen.Load().fields
}

// ComputedFields returns the registered computed members.
func (c *Compiled) ComputedFields() []*ComputedRecord {
	return c.gen.Load().computed
}

// IR returns the frozen node tree. It fails with schema_incomplete while
// unresolved references remain, so an Incomplete schema can never reach the
// engine.
func (c *Compiled) IR() (*ir.Node, error) {
	g := c.gen.Load()
	if len(g.pending) > 0 {
		return nil, modelir.Issues{{
			Path:    "/",
			Code:    modelir.CodeSchemaIncomplete,
			Message: i18n.T(modelir.CodeSchemaIncomplete, nil),
			Hint:    "pending: " + strings.Join(c.PendingNames(), ", "),
			Params:  map[string]any{"model": c.name, "pending": c.PendingNames()},
		}}
	}
	return g.node, nil
}

// Rebuild recompiles the model against an updated scope and atomically swaps
// in the new generation. On a fatal construction error the previous
// generation is kept and the error returned. When references remain
// unresolved the new pending set is installed and an unresolved_reference
// error identifies the still-missing names.
func (c *Compiled) Rebuild(scope typeexpr.Scope) error {
	if c.cfg.registry != nil {
		scope = typeexpr.ChainScope{scope, c.cfg.registry}
	}
	g, err := compileDeclaration(c.decl, scope, c.cfg)
	if err != nil {
		return err
	}
	c.gen.Store(g)
	if len(g.pending) > 0 {
		return modelir.Issues{{
			Path:    "/",
			Code:    modelir.CodeUnresolvedReference,
			Message: i18n.T(modelir.CodeUnresolvedReference, nil),
			Hint:    "pending: " + strings.Join(c.PendingNames(), ", "),
			Params:  map[string]any{"model": c.name, "pending": c.PendingNames()},
		}}
	}
	return nil
}

// Rebuild is the package-level form of the rebuild operation.
func Rebuild(c *Compiled, scope typeexpr.Scope) error { return c.Rebuild(scope) }

// Registry maps model names to compiled schemas and doubles as a resolution
// scope: a registered model resolves to a named model reference, so
// recursive and mutually-referential graphs stay acyclic in the IR.
type Registry struct {
	mu sync.RWMutex
	m  map[string]*Compiled
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{m: map[string]*Compiled{}} }

// Add registers a compiled schema under its model name.
func (r *Registry) Add(c *Compiled) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[c.Name()] = c
}

// Get returns the compiled schema for name.
func (r *Registry) Get(name string) (*Compiled, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[name]
	return c, ok
}

// Names returns the registered model names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for name := range r.m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup implements typeexpr.Scope.
func (r *Registry) Lookup(name string) (typeexpr.Expr, bool) {
	if _, ok := r.Get(name); ok {
		return typeexpr.ModelRef(name), true
	}
	return nil, false
}

// Document assembles the versioned IR document for every complete schema in
// the registry. It fails if any registered schema is still Incomplete.
func (r *Registry) Document() (*ir.Document, error) {
	doc := ir.NewDocument()
	for _, name := range r.Names() {
		c, _ := r.Get(name)
		node, err := c.IR()
		if err != nil {
			return nil, err
		}
		doc.Schemas[name] = node
	}
	return doc, nil
}
