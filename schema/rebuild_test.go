package schema_test

import (
	"testing"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/ir"
	"github.com/modelir/modelir/schema"
	"github.com/modelir/modelir/typeexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuild_ForwardReference(t *testing.T) {
	reg := schema.NewRegistry()

	pet := schema.NewModel("Pet").
		Field("owner", typeexpr.Ref("Owner")).
		Declaration()
	c, err := schema.Compile(pet, nil, schema.WithRegistry(reg))
	require.NoError(t, err, "unresolved references are not a construction error")
	assert.Equal(t, schema.Incomplete, c.State())
	assert.Equal(t, []string{"Owner"}, c.PendingNames())

	_, err = c.IR()
	require.Error(t, err, "an Incomplete schema must not reach the engine")
	iss, ok := modelir.AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.HasCode(modelir.CodeSchemaIncomplete))

	owner := schema.NewModel("Owner").
		Field("name", typeexpr.String()).
		Declaration()
	_, err = schema.Compile(owner, nil, schema.WithRegistry(reg))
	require.NoError(t, err)

	require.NoError(t, c.Rebuild(reg))
	assert.Equal(t, schema.Complete, c.State())

	node, err := c.IR()
	require.NoError(t, err)
	assert.False(t, ir.HasUnresolved(node), "no pending markers survive a successful rebuild")
	assert.Equal(t, ir.KindRef, node.Fields[0].Schema.Kind)
	assert.Equal(t, "Owner", node.Fields[0].Schema.Ref)
}

func TestRebuild_MutualReferences(t *testing.T) {
	reg := schema.NewRegistry()

	a, err := schema.Compile(schema.NewModel("A").
		Field("b", typeexpr.Ref("B")).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)
	b, err := schema.Compile(schema.NewModel("B").
		Field("a", typeexpr.Ref("A")).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)

	assert.Equal(t, schema.Incomplete, a.State())
	assert.Equal(t, schema.Complete, b.State(), "A was registered before B compiled")

	require.NoError(t, a.Rebuild(reg))
	assert.Equal(t, schema.Complete, a.State())

	for _, c := range []*schema.Compiled{a, b} {
		node, err := c.IR()
		require.NoError(t, err, c.Name())
		assert.False(t, ir.HasUnresolved(node), c.Name())
	}
}

func TestRebuild_KeepsRegistryScope(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := schema.Compile(schema.NewModel("Owner").
		Field("name", typeexpr.String()).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)

	c, err := schema.Compile(schema.NewModel("Pet").
		Field("owner", typeexpr.Ref("Owner")).
		Field("extra", typeexpr.Ref("Extra")).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, []string{"Extra"}, c.PendingNames(), "registry resolves Owner at compile time")

	// Supplying only the newly resolvable name must not regress names the
	// registry already resolves.
	require.NoError(t, c.Rebuild(typeexpr.MapScope{"Extra": typeexpr.Int()}))
	assert.Equal(t, schema.Complete, c.State())

	node, err := c.IR()
	require.NoError(t, err)
	assert.False(t, ir.HasUnresolved(node))
	assert.Equal(t, "Owner", node.Fields[0].Schema.Ref)
}

func TestRebuild_StillPending(t *testing.T) {
	c, err := schema.Compile(schema.NewModel("M").
		Field("x", typeexpr.Ref("Missing")).
		Field("y", typeexpr.Ref("AlsoMissing")).
		Declaration(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"AlsoMissing", "Missing"}, c.PendingNames())

	scope := typeexpr.MapScope{"Missing": typeexpr.Int()}
	err = c.Rebuild(scope)
	require.Error(t, err)
	iss, ok := modelir.AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.HasCode(modelir.CodeUnresolvedReference))
	assert.Equal(t, []string{"AlsoMissing"}, c.PendingNames(), "partial progress is kept")
	assert.Equal(t, schema.Incomplete, c.State())
}

func TestRebuild_FatalKeepsPreviousGeneration(t *testing.T) {
	decl := schema.NewModel("M").
		Field("x", typeexpr.Ref("Alias")).
		Declaration()
	c, err := schema.Compile(decl, typeexpr.MapScope{"Alias": typeexpr.Int()})
	require.NoError(t, err)
	assert.Equal(t, schema.Complete, c.State())
	before, err := c.IR()
	require.NoError(t, err)

	// A poisoned scope makes the recompilation fail outright.
	bad := typeexpr.MapScope{"Alias": typeexpr.Ref("Alias")}
	err = c.Rebuild(bad)
	require.Error(t, err)

	after, err := c.IR()
	require.NoError(t, err, "failed rebuild must not disturb the served generation")
	assert.Equal(t, before, after)
}

func TestRebuild_BindingIntroducedReference(t *testing.T) {
	reg := schema.NewRegistry()

	box := schema.NewModel("AddressBox").
		TypeParams("T").
		Field("value", typeexpr.Var("T")).
		Declaration()
	c, err := schema.Compile(box, nil,
		schema.WithRegistry(reg),
		schema.WithBindings(map[string]typeexpr.Expr{"T": typeexpr.Ref("Address")}))
	require.NoError(t, err)
	assert.Equal(t, schema.Incomplete, c.State(), "a binding can introduce a forward reference")

	_, err = schema.Compile(schema.NewModel("Address").
		Field("street", typeexpr.String()).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)

	require.NoError(t, schema.Rebuild(c, reg))
	node, err := c.IR()
	require.NoError(t, err)
	assert.Equal(t, "Address", node.Fields[0].Schema.Ref)
}

func TestRegistry_Document(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := schema.Compile(schema.NewModel("A").
		Field("x", typeexpr.Int()).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)
	incomplete, err := schema.Compile(schema.NewModel("B").
		Field("y", typeexpr.Ref("Later")).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)

	_, err = reg.Document()
	require.Error(t, err, "a document cannot contain an Incomplete schema")

	_, err = schema.Compile(schema.NewModel("Later").
		Field("z", typeexpr.Bool()).
		Declaration(), nil, schema.WithRegistry(reg))
	require.NoError(t, err)
	require.NoError(t, incomplete.Rebuild(reg))

	doc, err := reg.Document()
	require.NoError(t, err)
	assert.Equal(t, ir.Version, doc.Version)
	assert.ElementsMatch(t, []string{"A", "B", "Later"}, reg.Names())
	assert.Len(t, doc.Schemas, 3)
}
