package migrate_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/labelle-toolkit/serialization/migrate"
)

const v1Blob = `{"meta":{"version":1},"components":{"HP":[{"entt":1,"data":{"current":80}}]}}`

func TestMigrateChainRenameThenDefault(t *testing.T) {
	chain := migrate.NewChain(nil)
	chain.Register(migrate.Step{
		FromVersion: 1,
		ToVersion:   2,
		Apply: func(blob []byte) ([]byte, error) {
			return migrate.RenameComponent(blob, "HP", "Health")
		},
	})
	chain.Register(migrate.Step{
		FromVersion: 2,
		ToVersion:   3,
		Apply: func(blob []byte) ([]byte, error) {
			return migrate.AddFieldDefault(blob, "Health", "max", 100)
		},
	})

	result, err := chain.Migrate([]byte(v1Blob), 3)
	require.NoError(t, err)
	require.Equal(t, 2, result.AppliedSteps)
	require.EqualValues(t, 3, result.FinalVersion)

	got := gjson.GetBytes(result.Blob, "components.Health.0.data")
	require.JSONEq(t, `{"current":80,"max":100}`, got.Raw)
	require.EqualValues(t, 3, gjson.GetBytes(result.Blob, "meta.version").Int())
}

func TestMigrateNoPathFails(t *testing.T) {
	chain := migrate.NewChain(nil)
	_, err := chain.Migrate([]byte(v1Blob), 5)
	require.ErrorIs(t, err, migrate.ErrNoMigrationPath)
}

func TestTransformIntField(t *testing.T) {
	blob := []byte(`{"meta":{"version":1},"components":{"Stats":[{"entt":1,"data":{"score":10}}]}}`)
	out, err := migrate.TransformIntField(blob, "Stats", "score", func(v int64) int64 { return v * 2 })
	require.NoError(t, err)
	require.EqualValues(t, 20, gjson.GetBytes(out, "components.Stats.0.data.score").Int())
}
