package registry_test

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"

	"github.com/labelle-toolkit/serialization/binary"
	"github.com/labelle-toolkit/serialization/component"
	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/registry"
)

type position struct{ X, Y float64 }

func (position) Name() string { return "Position" }

type health struct{ Current, Max uint8 }

func (health) Name() string { return "Health" }

type player struct{}

func (player) Name() string { return "Player" }

type velocity struct{ DX, DY float64 }

func (velocity) Name() string { return "Velocity" }

type followTarget struct {
	Target   entity.ID
	Distance float64
}

func (followTarget) Name() string { return "FollowTarget" }

type fakeIterator struct {
	ids []entity.ID
	idx int
}

func (it *fakeIterator) Next() bool {
	it.idx++
	return it.idx < len(it.ids)
}

func (it *fakeIterator) Entity() entity.ID { return it.ids[it.idx] }

type fakeRegistry struct {
	next entity.ID
	data map[string]map[entity.ID]any
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{next: 1, data: map[string]map[entity.ID]any{}}
}

func (f *fakeRegistry) CreateEntity() entity.ID {
	id := f.next
	f.next++
	return id
}

func (f *fakeRegistry) AddComponent(id entity.ID, typeName string, value any) error {
	if f.data[typeName] == nil {
		f.data[typeName] = map[entity.ID]any{}
	}
	f.data[typeName][id] = value
	return nil
}

func (f *fakeRegistry) GetComponent(id entity.ID, typeName string) (any, bool) {
	v, ok := f.data[typeName][id]
	return v, ok
}

func (f *fakeRegistry) HasComponent(id entity.ID, typeName string) bool {
	_, ok := f.GetComponent(id, typeName)
	return ok
}

func (f *fakeRegistry) View(typeName string) registry.Iterator {
	m := f.data[typeName]
	ids := make([]entity.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &fakeIterator{ids: ids, idx: -1}
}

func buildSet(t *testing.T) component.Set {
	t.Helper()
	posMeta, err := component.RegisterData[position]()
	require.NoError(t, err)
	healthMeta, err := component.RegisterData[health]()
	require.NoError(t, err)
	playerMeta, err := component.RegisterTag[player]()
	require.NoError(t, err)
	velMeta, err := component.RegisterData[velocity]()
	require.NoError(t, err)
	followMeta, err := component.RegisterData[followTarget]()
	require.NoError(t, err)

	set, err := component.FromTuple(posMeta, healthMeta, playerMeta, velMeta, followMeta)
	require.NoError(t, err)
	return set
}

func TestRoundtripAPlayer(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Position", position{100, 200}))
	require.NoError(t, reg.AddComponent(id, "Health", health{80, 100}))
	require.NoError(t, reg.AddComponent(id, "Player", player{}))

	codec := registry.New(reg, set, nil)
	blob, err := codec.EncodeText(registry.EncodeOptions{
		Meta:   registry.Metadata{Version: 1, LibVersion: "1.0", Timestamp: 42},
		Pretty: true,
	})
	require.NoError(t, err)
	require.Contains(t, string(blob), "\n")

	reg2 := newFakeRegistry()
	codec2 := registry.New(reg2, set, nil)
	_, err = codec2.DecodeText(blob, registry.DecodeOptions{MaxAcceptedVersion: 1})
	require.NoError(t, err)

	var gotEntity entity.ID
	var count int
	it := reg2.View("Position")
	for it.Next() {
		count++
		gotEntity = it.Entity()
	}
	require.Equal(t, 1, count)

	pos, ok := reg2.GetComponent(gotEntity, "Position")
	require.True(t, ok)
	require.Equal(t, position{100, 200}, pos)

	hp, ok := reg2.GetComponent(gotEntity, "Health")
	require.True(t, ok)
	require.Equal(t, health{80, 100}, hp)

	require.True(t, reg2.HasComponent(gotEntity, "Player"))
}

func TestReferenceRemap(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	a := reg.CreateEntity()
	b := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(a, "Position", position{0, 0}))
	require.NoError(t, reg.AddComponent(b, "Position", position{10, 10}))
	require.NoError(t, reg.AddComponent(b, "FollowTarget", followTarget{Target: a, Distance: 5.0}))

	codec := registry.New(reg, set, nil)
	blob, err := codec.EncodeText(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	reg2 := newFakeRegistry()
	codec2 := registry.New(reg2, set, nil)
	_, err = codec2.DecodeText(blob, registry.DecodeOptions{MaxAcceptedVersion: 1})
	require.NoError(t, err)

	var follower entity.ID
	it := reg2.View("FollowTarget")
	require.True(t, it.Next())
	follower = it.Entity()
	ft, ok := reg2.GetComponent(follower, "FollowTarget")
	require.True(t, ok)

	target := ft.(followTarget).Target
	pos, ok := reg2.GetComponent(target, "Position")
	require.True(t, ok)
	require.Equal(t, position{0, 0}, pos)
}

func TestTransientExclusion(t *testing.T) {
	full := buildSet(t)
	persisted := full.Exclude("Velocity")

	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Position", position{1, 2}))
	require.NoError(t, reg.AddComponent(id, "Velocity", velocity{3, 4}))

	codec := registry.New(reg, persisted, nil)
	blob, err := codec.EncodeText(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	require.False(t, strings.Contains(string(blob), "Velocity"))
}

func TestBinaryRoundtrip(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Position", position{1.5, -2.5}))
	require.NoError(t, reg.AddComponent(id, "Health", health{10, 20}))

	codec := registry.New(reg, set, nil)
	blob, err := codec.EncodeBinary(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	reg2 := newFakeRegistry()
	codec2 := registry.New(reg2, set, nil)
	_, err = codec2.DecodeBinary(blob, binary.DefaultLimits, registry.DecodeOptions{MaxAcceptedVersion: 1})
	require.NoError(t, err)

	var gotEntity entity.ID
	it := reg2.View("Position")
	require.True(t, it.Next())
	gotEntity = it.Entity()
	pos, ok := reg2.GetComponent(gotEntity, "Position")
	require.True(t, ok)
	require.Equal(t, position{1.5, -2.5}, pos)
	_ = reflect.TypeOf(pos)
}

func TestDecodeTextRejectsMissingEntityReference(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Position", position{1, 2}))

	codec := registry.New(reg, set, nil)
	blob, err := codec.EncodeText(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	mangled, err := sjson.DeleteBytes(blob, "components.Position.0.entt")
	require.NoError(t, err)

	reg2 := newFakeRegistry()
	codec2 := registry.New(reg2, set, nil)
	_, err = codec2.DecodeText(mangled, registry.DecodeOptions{MaxAcceptedVersion: 1})
	require.Error(t, err)
	require.True(t, eris.Is(err, registry.ErrInvalidEntityReference))
}

func TestDecodeTextRejectsChecksumMismatch(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Position", position{1, 2}))

	codec := registry.New(reg, set, nil)
	blob, err := codec.EncodeText(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	tampered, err := sjson.SetBytes(blob, "meta.checksum", uint32(0xdeadbeef))
	require.NoError(t, err)

	reg2 := newFakeRegistry()
	codec2 := registry.New(reg2, set, nil)
	_, err = codec2.DecodeText(tampered, registry.DecodeOptions{MaxAcceptedVersion: 1})
	require.Error(t, err)
	require.True(t, eris.Is(err, registry.ErrChecksumMismatch))
}

func TestDecodeBinaryRejectsUnsupportedFormatVersion(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Position", position{1, 2}))

	codec := registry.New(reg, set, nil)
	blob, err := codec.EncodeBinary(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	// The binary header is magic(4) + formatVersion(4, little-endian) +
	// saveVersion(4); bumping the format-version byte past what this build
	// understands must surface ErrUnsupportedFormatVersion, not ErrInvalidMagic.
	tampered := append([]byte(nil), blob...)
	tampered[4] = byte(binary.FormatVersion + 1)

	reg2 := newFakeRegistry()
	codec2 := registry.New(reg2, set, nil)
	_, err = codec2.DecodeBinary(tampered, binary.DefaultLimits, registry.DecodeOptions{MaxAcceptedVersion: 1})
	require.Error(t, err)
	require.True(t, eris.Is(err, registry.ErrUnsupportedFormatVersion))
}

func TestBinarySmallerThanTextForTenEntities(t *testing.T) {
	set := buildSet(t)
	reg := newFakeRegistry()
	for i := 0; i < 10; i++ {
		id := reg.CreateEntity()
		require.NoError(t, reg.AddComponent(id, "Position", position{float64(i), float64(i)}))
		require.NoError(t, reg.AddComponent(id, "Health", health{uint8(i), 100}))
	}

	codec := registry.New(reg, set, nil)
	textBlob, err := codec.EncodeText(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)
	binBlob, err := codec.EncodeBinary(registry.EncodeOptions{Meta: registry.Metadata{Version: 1}})
	require.NoError(t, err)

	require.Less(t, len(binBlob), len(textBlob))
}
