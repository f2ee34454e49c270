package fieldspec_test

import (
	"testing"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/fieldspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromOptions_Basic(t *testing.T) {
	rec, err := fieldspec.FromOptions(map[string]any{
		"default":    "anon",
		"alias":      "userName",
		"min_length": 1,
		"gt":         0,
		"frozen":     true,
	}, modelir.NopWarnings())
	require.NoError(t, err)

	assert.Equal(t, "anon", rec.Default)
	assert.Equal(t, "userName", rec.Alias)
	require.NotNil(t, rec.MinLength)
	assert.Equal(t, 1, *rec.MinLength)
	require.NotNil(t, rec.Gt)
	assert.Equal(t, 0.0, *rec.Gt)
	assert.True(t, rec.Frozen)
	assert.False(t, rec.IsRequired())
}

func TestFromOptions_RemovedKwargs(t *testing.T) {
	for _, name := range []string{"regex", "unique_items", "allow_mutation", "const"} {
		_, err := fieldspec.FromOptions(map[string]any{name: "x"}, modelir.NopWarnings())
		require.Error(t, err, name)
		iss, ok := modelir.AsIssues(err)
		require.True(t, ok, name)
		assert.True(t, iss.HasCode(modelir.CodeRemovedKwargs), "%s: %v", name, iss)
		assert.Equal(t, name, iss[0].Params["option"])
	}
}

func TestFromOptions_DeprecatedKwargsTranslated(t *testing.T) {
	warn := modelir.NewWarnings(zap.NewNop())

	var rec *fieldspec.Record
	var err error
	for i := 0; i < 2; i++ {
		rec, err = fieldspec.FromOptions(map[string]any{"min_items": 2, "max_items": 5}, warn)
		require.NoError(t, err)
	}
	require.NotNil(t, rec.MinLength)
	assert.Equal(t, 2, *rec.MinLength, "translated value still applied")
	require.NotNil(t, rec.MaxLength)
	assert.Equal(t, 5, *rec.MaxLength)
	assert.Equal(t, 2, warn.Count(), "one warning per deprecated option, deduped across calls")
	assert.True(t, warn.Has(modelir.CodeDeprecatedKwargs))
}

func TestFromOptions_UnknownOption(t *testing.T) {
	_, err := fieldspec.FromOptions(map[string]any{"no_such_option": 1}, modelir.NopWarnings())
	require.Error(t, err)
	iss, ok := modelir.AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.HasCode(modelir.CodeUnknownOption))
}

func TestFromOptions_TypeErrors(t *testing.T) {
	_, err := fieldspec.FromOptions(map[string]any{"alias": 7}, modelir.NopWarnings())
	require.Error(t, err)
	iss, ok := modelir.AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.HasCode(modelir.CodeInvalidDeclaration))

	_, err = fieldspec.FromOptions(map[string]any{"union_mode": "sideways"}, modelir.NopWarnings())
	require.Error(t, err)
}
