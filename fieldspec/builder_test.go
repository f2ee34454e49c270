package fieldspec_test

import (
	"testing"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/fieldspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Basic(t *testing.T) {
	rec, err := fieldspec.Field().
		Alias("userName").
		MinLength(1).
		MaxLength(64).
		Pattern(`^[a-z]+$`).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "userName", rec.Alias)
	require.NotNil(t, rec.MinLength)
	assert.Equal(t, 1, *rec.MinLength)
	assert.True(t, rec.Explicit("alias"))
	assert.False(t, rec.Explicit("gt"))
	assert.True(t, rec.IsRequired())
}

func TestBuilder_RequiredInvariant(t *testing.T) {
	// is_required ⇔ default is Undefined ∧ default_factory is nil.
	rec := fieldspec.Field().MustBuild()
	assert.True(t, rec.IsRequired())

	rec = fieldspec.Field().Default(nil).MustBuild()
	assert.False(t, rec.IsRequired(), "explicit nil default is still a default")

	rec = fieldspec.Field().DefaultFactory(func() any { return []string{} }).MustBuild()
	assert.False(t, rec.IsRequired())
}

func TestBuilder_DefaultConflict(t *testing.T) {
	combos := []*fieldspec.Builder{
		fieldspec.Field().Default(1).DefaultFactory(func() any { return 2 }),
		fieldspec.Field().DefaultFactory(func() any { return 2 }).Default(1),
		fieldspec.Field().Alias("a").Gt(1).Default(1).Frozen().DefaultFactory(func() any { return 2 }),
	}
	for i, b := range combos {
		_, err := b.Build()
		require.Error(t, err, "combo %d", i)
		iss, ok := modelir.AsIssues(err)
		require.True(t, ok, "combo %d", i)
		assert.True(t, iss.HasCode(modelir.CodeDefaultConflict), "combo %d: %v", i, iss)
	}
}

func TestBuilder_DefaultFactoryIsolation(t *testing.T) {
	rec := fieldspec.Field().
		DefaultFactory(func() any { return []string{} }).
		MustBuild()
	assert.False(t, rec.IsRequired())

	first := rec.DefaultFactory().([]string)
	second := rec.DefaultFactory().([]string)
	first = append(first, "x")
	assert.Len(t, first, 1)
	assert.Empty(t, second, "independently produced defaults must not share state")
}

func TestRecord_Clone(t *testing.T) {
	rec := fieldspec.Field().
		Gt(5).
		JSONSchemaExtra(map[string]any{"x": 1}).
		Metadata("marker").
		MustBuild()

	cp := rec.Clone()
	*cp.Gt = 10
	cp.JSONSchemaExtra.(map[string]any)["x"] = 2

	assert.Equal(t, 5.0, *rec.Gt, "clone must not alias constraint pointers")
	assert.Equal(t, 1, rec.JSONSchemaExtra.(map[string]any)["x"], "clone must not alias extra map")
	assert.True(t, cp.Explicit("gt"))
}

func TestRecord_SetDefaultDisplacesFactory(t *testing.T) {
	rec := fieldspec.Field().DefaultFactory(func() any { return 1 }).MustBuild()
	rec.SetDefault(42)
	assert.Equal(t, 42, rec.Default)
	assert.Nil(t, rec.DefaultFactory)
	assert.False(t, rec.IsRequired())
}
