package envelope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/labelle-toolkit/serialization/envelope"
)

func TestWriteReadHeaderRoundtrip(t *testing.T) {
	payload := []byte("hello world")
	buf := envelope.WriteHeader(payload, envelope.Gzip, 123)
	require.True(t, envelope.HasHeader(buf))

	h, rest, err := envelope.ReadHeader(buf)
	require.NoError(t, err)
	require.True(t, h.Compressed)
	require.Equal(t, envelope.Gzip, h.Algorithm)
	require.EqualValues(t, 123, h.UncompressedSize)
	require.Equal(t, payload, rest)
}

func TestHasHeaderRejectsUnframedBlob(t *testing.T) {
	require.False(t, envelope.HasHeader([]byte(`{"foo":"bar"}`)))
}

func TestSlotPaths(t *testing.T) {
	require.Equal(t, "saves/slot-03.sav", envelope.SlotPath("saves", 3))
	require.Equal(t, "saves/slot-00.sav", envelope.SlotPath("saves", 0))
}

func TestAutoSlotPathRotates(t *testing.T) {
	require.Equal(t, "saves/autosave-00.sav", envelope.AutoSlotPath("saves", 0, 3))
	require.Equal(t, "saves/autosave-01.sav", envelope.AutoSlotPath("saves", 1, 3))
	require.Equal(t, "saves/autosave-02.sav", envelope.AutoSlotPath("saves", 2, 3))
	require.Equal(t, "saves/autosave-00.sav", envelope.AutoSlotPath("saves", 3, 3))
}
