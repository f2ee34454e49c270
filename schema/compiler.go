package schema

import (
	"sort"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/fieldspec"
	"github.com/modelir/modelir/i18n"
	"github.com/modelir/modelir/ir"
	"github.com/modelir/modelir/typeexpr"
)

type config struct {
	defaults modelir.Defaults
	warn     *modelir.Warnings
	bindings map[string]typeexpr.Expr
	registry *Registry
}

// Option customizes a compilation.
type Option func(*config)

// WithDefaults threads the process defaults table into field building.
func WithDefaults(d modelir.Defaults) Option {
	return func(c *config) { c.defaults = d }
}

// WithWarnings wires the warning reporter used for deprecation and merge
// diagnostics.
func WithWarnings(w *modelir.Warnings) Option {
	return func(c *config) { c.warn = w }
}

// WithBindings binds the model's type variables to concrete expressions for
// a parametrized compilation.
func WithBindings(b map[string]typeexpr.Expr) Option {
	return func(c *config) { c.bindings = b }
}

// WithRegistry registers the result and lets model references resolve
// against previously compiled models.
func WithRegistry(r *Registry) Option {
	return func(c *config) { c.registry = r }
}

// Compile analyzes a collected declaration and emits its schema. A fatal
// construction error discards all partial state and returns only the error;
// unresolvable references instead yield an Incomplete schema that callers
// finish via Rebuild once the referenced names exist.
func Compile(decl *Declaration, scope typeexpr.Scope, opts ...Option) (*Compiled, error) {
	cfg := config{defaults: modelir.DefaultValues(), warn: modelir.NopWarnings()}
	for _, o := range opts {
		o(&cfg)
	}
	if decl == nil || decl.Name == "" {
		return nil, modelir.Issues{{
			Path:    "/",
			Code:    modelir.CodeInvalidDeclaration,
			Message: i18n.T(modelir.CodeInvalidDeclaration, nil),
			Hint:    "declaration must carry a model name",
		}}
	}
	if cfg.registry != nil {
		scope = typeexpr.ChainScope{scope, cfg.registry}
	}
	g, err := compileDeclaration(decl, scope, cfg)
	if err != nil {
		return nil, err
	}
	c := &Compiled{name: decl.Name, decl: decl, cfg: cfg}
	c.gen.Store(g)
	if cfg.registry != nil {
		cfg.registry.Add(c)
	}
	return c, nil
}

// compileDeclaration runs one full compilation pass and returns a frozen
// generation. Shared by Compile and Rebuild.
func compileDeclaration(decl *Declaration, scope typeexpr.Scope, cfg config) (*generation, error) {
	cc := &compiler{scope: scope, cfg: cfg, merger: fieldspec.NewMerger(cfg.warn)}

	fields, computed, iss := collectDeclarations(decl)
	if len(iss) > 0 {
		return nil, iss
	}

	g := &generation{}
	modelNode := &ir.Node{Kind: ir.KindModel, Model: decl.Name}

	for _, fd := range fields {
		cf, err := cc.compileField(fd)
		if err != nil {
			if fieldIss, ok := modelir.AsIssues(err); ok {
				iss = modelir.AppendIssues(iss, fieldIss...)
				continue
			}
			// Extension hook failures propagate unchanged.
			return nil, err
		}
		g.fields = append(g.fields, cf)
		modelNode.Fields = append(modelNode.Fields, fieldEntry(cf))
	}

	for _, cd := range computed {
		cr, node, err := cc.compileComputed(cd)
		if err != nil {
			if cIss, ok := modelir.AsIssues(err); ok {
				iss = modelir.AppendIssues(iss, cIss...)
				continue
			}
			return nil, err
		}
		g.computed = append(g.computed, cr)
		modelNode.Computed = append(modelNode.Computed, ir.ComputedField{
			Name:   cr.Name,
			Alias:  cr.Alias,
			Return: node,
			Repr:   cr.Repr,
		})
	}

	if len(iss) > 0 {
		// Fatal: the whole model fails, partial field records are discarded.
		return nil, iss
	}

	g.node = modelNode
	g.pending = cc.pendingNames()
	return g, nil
}

// collectDeclarations flattens the inheritance chain: inherited fields first
// in base order, local fields after in local order. A local re-declaration
// removes the inherited entry so the local position wins. Field/computed
// name collisions across the chain are fatal.
func collectDeclarations(decl *Declaration) ([]FieldDecl, []ComputedDecl, modelir.Issues) {
	var iss modelir.Issues

	var baseFields []FieldDecl
	var baseComputed []ComputedDecl
	if decl.Base != nil {
		var baseIss modelir.Issues
		baseFields, baseComputed, baseIss = collectDeclarations(decl.Base)
		if len(baseIss) > 0 {
			return nil, nil, baseIss
		}
	}

	localField := map[string]struct{}{}
	for _, f := range decl.Fields {
		localField[f.Name] = struct{}{}
	}
	localComputed := map[string]struct{}{}
	for _, c := range decl.Computed {
		localComputed[c.Name] = struct{}{}
	}

	inheritedComputed := map[string]struct{}{}
	var computed []ComputedDecl
	for _, c := range baseComputed {
		if _, redeclared := localComputed[c.Name]; redeclared {
			continue // replaced by the local computed member
		}
		if _, collides := localField[c.Name]; collides {
			iss = modelir.AppendIssues(iss, overrideIssue(c.Name, "field overrides an inherited computed accessor"))
			continue
		}
		inheritedComputed[c.Name] = struct{}{}
		computed = append(computed, c)
	}

	inheritedField := map[string]struct{}{}
	var fields []FieldDecl
	for _, f := range baseFields {
		if _, redeclared := localField[f.Name]; redeclared {
			continue // local declaration takes the local position
		}
		inheritedField[f.Name] = struct{}{}
		fields = append(fields, f)
	}
	fields = append(fields, decl.Fields...)

	for _, c := range decl.Computed {
		if _, collides := inheritedField[c.Name]; collides {
			iss = modelir.AppendIssues(iss, overrideIssue(c.Name, "computed accessor overrides an inherited field"))
			continue
		}
		if _, collides := localField[c.Name]; collides {
			iss = modelir.AppendIssues(iss, overrideIssue(c.Name, "computed accessor collides with a field of the same model"))
			continue
		}
		computed = append(computed, c)
	}

	if len(iss) > 0 {
		return nil, nil, iss
	}
	return fields, computed, nil
}

func overrideIssue(name, hint string) modelir.Issue {
	return modelir.Issue{
		Path:    "/fields/" + name,
		Code:    modelir.CodeComputedOverride,
		Message: i18n.T(modelir.CodeComputedOverride, nil),
		Hint:    hint,
		Params:  map[string]any{"field": name},
	}
}

type compiler struct {
	scope   typeexpr.Scope
	cfg     config
	merger  *fieldspec.Merger
	pending map[string]struct{}
}

func (c *compiler) addPending(names ...string) {
	if c.pending == nil {
		c.pending = map[string]struct{}{}
	}
	for _, n := range names {
		c.pending[n] = struct{}{}
	}
}

func (c *compiler) pendingNames() []string {
	if len(c.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.pending))
	for n := range c.pending {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// compileField produces the canonical record and emitted node for one
// attribute declaration.
func (c *compiler) compileField(fd FieldDecl) (*CompiledField, error) {
	path := "/fields/" + fd.Name

	t := fd.Type
	if t == nil {
		t = typeexpr.Unknown()
	}
	t = typeexpr.Substitute(t, c.cfg.bindings)

	desc, err := typeexpr.Inspect(t, c.scope)
	if err != nil {
		if iss, ok := modelir.AsIssues(err); ok {
			return nil, iss.Rebase(path)
		}
		return nil, err
	}
	c.addPending(desc.Pending...)

	records, opaque, hooks := splitMetadata(desc.Metadata)

	rec, err := c.buildRecord(fd, desc, records)
	if err != nil {
		if iss, ok := modelir.AsIssues(err); ok {
			return nil, iss.Rebase(path)
		}
		return nil, err
	}
	rec.AddMetadata(opaque...)
	rec.ApplyQualifiers(desc.Qualifiers)
	rec.Annotation = desc

	node, err := c.emitNode(desc.Base, hooks)
	if err != nil {
		if iss, ok := modelir.AsIssues(err); ok {
			return nil, iss.Rebase(path)
		}
		return nil, err // hook failure, unwrapped
	}

	if iss := attachConstraints(node, rec, desc.Base, path); len(iss) > 0 {
		return nil, iss
	}
	c.applyEngineHints(node, rec)

	return &CompiledField{Name: fd.Name, Record: rec, Node: node}, nil
}

// buildRecord merges descriptor calls found in the annotation metadata with
// the assigned default expression. A pre-built record assigned as the
// default is copied and wins last without being re-merged against itself.
func (c *compiler) buildRecord(fd FieldDecl, desc typeexpr.Descriptor, records []*fieldspec.Record) (*fieldspec.Record, error) {
	if assigned, ok := fd.Default.(*fieldspec.Record); ok {
		cp := assigned.Clone()
		if len(records) == 0 {
			return cp, nil
		}
		return c.merger.Merge(append(records, cp)...)
	}

	rec, err := c.merger.Merge(records...)
	if err != nil {
		return nil, err
	}
	if !modelir.IsUndefined(fd.Default) {
		// The assigned value is the last contribution and wins.
		rec.SetDefault(fd.Default)
	}
	return rec, nil
}

// compileComputed registers one serialization-only accessor.
func (c *compiler) compileComputed(cd ComputedDecl) (*ComputedRecord, *ir.Node, error) {
	path := "/computed/" + cd.Name

	ret := cd.Return
	if ret == nil {
		ret = typeexpr.Any()
	}
	ret = typeexpr.Substitute(ret, c.cfg.bindings)
	desc, err := typeexpr.Inspect(ret, c.scope)
	if err != nil {
		if iss, ok := modelir.AsIssues(err); ok {
			return nil, nil, iss.Rebase(path)
		}
		return nil, nil, err
	}
	c.addPending(desc.Pending...)

	_, _, hooks := splitMetadata(desc.Metadata)
	node, err := c.emitNode(desc.Base, hooks)
	if err != nil {
		if iss, ok := modelir.AsIssues(err); ok {
			return nil, nil, iss.Rebase(path)
		}
		return nil, nil, err
	}

	repr := defaultRepr(cd.Name)
	if cd.Repr != nil {
		repr = *cd.Repr
	}
	cr := &ComputedRecord{
		Name:        cd.Name,
		Kind:        cd.Kind,
		Return:      desc,
		Alias:       cd.Alias,
		Title:       cd.Title,
		Description: cd.Description,
		Example:     cd.Example,
		Repr:        repr,
	}
	return cr, node, nil
}

// splitMetadata separates descriptor records, opaque markers, and extension
// hooks from an annotation's ordered metadata list. A record or marker that
// also implements the hook protocol participates in both roles.
func splitMetadata(metadata []any) (records []*fieldspec.Record, opaque []any, hooks []SchemaBuilder) {
	for _, m := range metadata {
		if h, ok := m.(SchemaBuilder); ok {
			hooks = append(hooks, h)
		}
		if r, ok := m.(*fieldspec.Record); ok {
			records = append(records, r)
			continue
		}
		opaque = append(opaque, m)
	}
	return records, opaque, hooks
}

// emitNode dispatches on the normalized base, then applies extension hooks
// innermost-first: the base type's own hook, then metadata hooks in
// declaration order, each receiving a handler that yields the node built so
// far.
func (c *compiler) emitNode(base typeexpr.Expr, hooks []SchemaBuilder) (*ir.Node, error) {
	var all []SchemaBuilder
	if h, ok := base.(SchemaBuilder); ok {
		all = append(all, h)
	}
	all = append(all, hooks...)

	cur, iss := c.emitExpr(base)
	if len(iss) > 0 {
		return nil, iss
	}
	for _, h := range all {
		inner := cur
		next, err := h.BuildSchema(base, func(typeexpr.Expr) (*ir.Node, error) {
			return inner, nil
		})
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

var primKinds = map[typeexpr.PrimKind]ir.Kind{
	typeexpr.KindAny:    ir.KindAny,
	typeexpr.KindString: ir.KindString,
	typeexpr.KindInt:    ir.KindInt,
	typeexpr.KindFloat:  ir.KindFloat,
	typeexpr.KindBool:   ir.KindBool,
	typeexpr.KindBytes:  ir.KindBytes,
	// unknown only survives inspection alongside metadata; the engine
	// treats it as any.
	typeexpr.KindUnknown: ir.KindAny,
}

// emitExpr lowers a normalized base expression into an IR node.
func (c *compiler) emitExpr(base typeexpr.Expr) (*ir.Node, modelir.Issues) {
	switch x := base.(type) {
	case typeexpr.Primitive:
		k, ok := primKinds[x.Kind]
		if !ok {
			return nil, invalidDecl("unsupported primitive kind: " + string(x.Kind))
		}
		return &ir.Node{Kind: k}, nil
	case *typeexpr.ListExpr:
		item, err := c.emitChild(x.Elem)
		if err != nil {
			return nil, err
		}
		return &ir.Node{Kind: ir.KindList, Item: item}, nil
	case *typeexpr.MapExpr:
		key, err := c.emitChild(x.Key)
		if err != nil {
			return nil, err
		}
		value, err := c.emitChild(x.Value)
		if err != nil {
			return nil, err
		}
		return &ir.Node{Kind: ir.KindMap, Key: key, Value: value}, nil
	case *typeexpr.UnionExpr:
		members := make([]*ir.Node, 0, len(x.Members))
		for _, m := range x.Members {
			mn, err := c.emitChild(m)
			if err != nil {
				return nil, err
			}
			members = append(members, mn)
		}
		return &ir.Node{Kind: ir.KindUnion, Members: members, UnionMode: c.cfg.defaults.UnionMode}, nil
	case *typeexpr.TaggedExpr:
		mapping := make(map[string]*ir.Node, len(x.Variants))
		for tag, v := range x.Variants {
			vn, err := c.emitChild(v)
			if err != nil {
				return nil, err
			}
			mapping[tag] = vn
		}
		return &ir.Node{Kind: ir.KindTagged, Discriminator: x.Discriminator, Mapping: mapping}, nil
	case *typeexpr.ModelExpr:
		return &ir.Node{Kind: ir.KindRef, Ref: x.Name}, nil
	case *typeexpr.RefExpr:
		// Still unresolved after inspection: emit a pending marker only for
		// this node and leave the rest of the schema usable after rebuild.
		c.addPending(x.Name)
		return &ir.Node{Kind: ir.KindRef, Ref: x.Name, Unresolved: true}, nil
	case *typeexpr.VarExpr:
		return nil, invalidDecl("unbound type variable " + x.String())
	default:
		return nil, invalidDecl("unsupported type expression: " + base.String())
	}
}

// emitChild lowers a container argument, running a fresh inspection so
// nested annotations contribute their own hooks and constraints at the
// child level.
func (c *compiler) emitChild(e typeexpr.Expr) (*ir.Node, modelir.Issues) {
	desc, err := typeexpr.Inspect(e, c.scope)
	if err != nil {
		if iss, ok := modelir.AsIssues(err); ok {
			return nil, iss
		}
		return nil, modelir.Issues{{Path: "/", Code: modelir.CodeInvalidDeclaration, Message: err.Error(), Cause: err}}
	}
	c.addPending(desc.Pending...)

	records, _, hooks := splitMetadata(desc.Metadata)
	node, hookErr := c.emitNode(desc.Base, hooks)
	if hookErr != nil {
		if iss, ok := modelir.AsIssues(hookErr); ok {
			return nil, iss
		}
		return nil, modelir.Issues{{Path: "/", Code: modelir.CodeInvalidDeclaration, Message: hookErr.Error(), Cause: hookErr}}
	}

	if len(records) > 0 {
		rec, mergeErr := c.merger.Merge(records...)
		if mergeErr != nil {
			if iss, ok := modelir.AsIssues(mergeErr); ok {
				return nil, iss
			}
			return nil, modelir.Issues{{Path: "/", Code: modelir.CodeInvalidDeclaration, Message: mergeErr.Error(), Cause: mergeErr}}
		}
		if iss := attachConstraints(node, rec, desc.Base, "/"); len(iss) > 0 {
			return nil, iss
		}
	}
	return node, nil
}

// applyEngineHints transfers per-field engine options onto the emitted node.
func (c *compiler) applyEngineHints(node *ir.Node, rec *fieldspec.Record) {
	strict := rec.Strict
	if !rec.Explicit("strict") {
		strict = c.cfg.defaults.Strict
	}
	node.Strict = strict

	if node.Kind == ir.KindUnion {
		if rec.Explicit("union_mode") {
			node.UnionMode = rec.UnionMode
		}
		if rec.Explicit("discriminator") && rec.Discriminator != "" {
			node.Discriminator = rec.Discriminator
		}
	}
}

func invalidDecl(hint string) modelir.Issues {
	return modelir.Issues{{
		Path:    "/",
		Code:    modelir.CodeInvalidDeclaration,
		Message: i18n.T(modelir.CodeInvalidDeclaration, nil),
		Hint:    hint,
	}}
}

// fieldEntry projects a compiled field onto its IR field record.
func fieldEntry(cf *CompiledField) ir.Field {
	rec := cf.Record
	f := ir.Field{
		Name:               cf.Name,
		Schema:             cf.Node,
		Required:           rec.IsRequired(),
		Alias:              rec.Alias,
		ValidationAlias:    rec.ValidationAlias,
		SerializationAlias: rec.SerializationAlias,
		Title:              rec.Title,
		Description:        rec.Description,
		Exclude:            rec.Exclude,
		Frozen:             rec.Frozen,
		Deprecated:         rec.Deprecated,
		FailFast:           rec.FailFast,
	}
	if !modelir.IsUndefined(rec.Default) {
		f.Default = rec.Default
		f.HasDefault = true
	}
	if rec.DefaultFactory != nil {
		f.HasDefaultFactory = true
	}
	switch extra := rec.JSONSchemaExtra.(type) {
	case map[string]any:
		f.Extra = extra
	case fieldspec.JSONSchemaExtraFunc:
		f.HasExtraFunc = true
	}
	return f
}
