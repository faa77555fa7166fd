package component_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/labelle-toolkit/serialization/component"
)

type gold struct{ Amount int64 }

func (gold) Name() string { return "Gold" }

type goldRenamed struct {
	Amount int64
	Bonus  int64
}

func (goldRenamed) Name() string { return "Gold" }

func TestSchemaStableAcrossRegistration(t *testing.T) {
	a, err := component.RegisterData[gold]()
	require.NoError(t, err)
	b, err := component.RegisterData[gold]()
	require.NoError(t, err)

	schemaA, err := a.Schema()
	require.NoError(t, err)
	schemaB, err := b.Schema()
	require.NoError(t, err)

	ok, err := component.IsSchemaCompatible(schemaA, schemaB)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSchemaDetectsAddedField(t *testing.T) {
	before, err := component.RegisterData[gold]()
	require.NoError(t, err)
	after, err := component.RegisterData[goldRenamed]()
	require.NoError(t, err)

	schemaBefore, err := before.Schema()
	require.NoError(t, err)
	schemaAfter, err := after.Schema()
	require.NoError(t, err)

	ok, err := component.IsSchemaCompatible(schemaBefore, schemaAfter)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDefaultBytesReflectsWithDefault(t *testing.T) {
	meta, err := component.RegisterData[gold](component.WithDefault(gold{Amount: 100}))
	require.NoError(t, err)

	out, err := meta.DefaultBytes()
	require.NoError(t, err)
	require.JSONEq(t, `{"Amount":100}`, string(out))
}
