package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"

	"github.com/labelle-toolkit/serialization/validate"
)

const sampleBlob = `{"meta":{"version":1,"lib_version":"1.0","timestamp":100},"components":{"Position":[{"entt":1,"data":{"X":1,"Y":2}}]}}`

func TestValidateRejectsMissingMetadata(t *testing.T) {
	r := validate.Validate([]byte(`{"components":{}}`), 5)
	require.Equal(t, validate.MissingMetadata, r.Status)
}

func TestValidateRejectsNewerVersion(t *testing.T) {
	r := validate.Validate([]byte(sampleBlob), 0)
	require.Equal(t, validate.VersionMismatch, r.Status)
	require.EqualValues(t, 1, r.SaveVersion)
}

func TestAddChecksumThenValidate(t *testing.T) {
	withChecksum, err := validate.AddChecksum([]byte(sampleBlob))
	require.NoError(t, err)

	r := validate.Validate(withChecksum, 5)
	require.Equal(t, validate.Valid, r.Status)
}

func TestMutatedComponentsFailsChecksum(t *testing.T) {
	withChecksum, err := validate.AddChecksum([]byte(sampleBlob))
	require.NoError(t, err)

	mutated, err := sjson.SetBytes(withChecksum, "components.Position.0.data.X", 999)
	require.NoError(t, err)

	r := validate.Validate(mutated, 5)
	require.Equal(t, validate.ChecksumMismatch, r.Status)
}
