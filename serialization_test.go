package serialization_test

import (
	"sort"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	"github.com/labelle-toolkit/serialization"
	"github.com/labelle-toolkit/serialization/component"
	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/registry"
)

type coin struct{ Amount int64 }

func (coin) Name() string { return "Coin" }

type fakeIterator struct {
	ids []entity.ID
	idx int
}

func (it *fakeIterator) Next() bool { it.idx++; return it.idx < len(it.ids) }
func (it *fakeIterator) Entity() entity.ID { return it.ids[it.idx] }

type fakeRegistry struct {
	next entity.ID
	data map[string]map[entity.ID]any
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{next: 1, data: map[string]map[entity.ID]any{}}
}

func (f *fakeRegistry) CreateEntity() entity.ID { id := f.next; f.next++; return id }

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

func TestEngineSaveLoadTextRoundtrip(t *testing.T) {
	meta, err := component.RegisterData[coin]()
	require.NoError(t, err)
	set, err := component.FromTuple(meta)
	require.NoError(t, err)

	eng := serialization.New(set)
	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Coin", coin{Amount: 50}))

	blob, err := eng.SaveText(reg, 1, serialization.GameInfo{LibVersion: "1.0"}, true)
	require.NoError(t, err)

	reg2 := newFakeRegistry()
	_, err = eng.LoadText(reg2, blob, false)
	require.NoError(t, err)

	it := reg2.View("Coin")
	require.True(t, it.Next())
	val, ok := reg2.GetComponent(it.Entity(), "Coin")
	require.True(t, ok)
	require.Equal(t, coin{Amount: 50}, val)
}

func TestEngineLoadTextRejectsOversizedBlob(t *testing.T) {
	meta, err := component.RegisterData[coin]()
	require.NoError(t, err)
	set, err := component.FromTuple(meta)
	require.NoError(t, err)

	eng := serialization.New(set)
	eng.Config.MaxFileBytes = 8

	reg := newFakeRegistry()
	id := reg.CreateEntity()
	require.NoError(t, reg.AddComponent(id, "Coin", coin{Amount: 50}))
	blob, err := eng.SaveText(reg, 1, serialization.GameInfo{LibVersion: "1.0"}, true)
	require.NoError(t, err)
	require.Greater(t, len(blob), 8)

	_, err = eng.LoadText(newFakeRegistry(), blob, false)
	require.Error(t, err)
	require.True(t, eris.Is(err, registry.ErrFileTooLarge))
}
