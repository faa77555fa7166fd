package binary_test

import (
	"reflect"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	"github.com/labelle-toolkit/serialization/binary"
	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/shape"
)

type stats struct {
	HP    int32
	Mana  float32
	Tags  []string
	Owner entity.ID
	Pet   *entity.ID
}

type loadout struct {
	Slots [3]int32
}

type facing int

const (
	facingNorth facing = iota
	facingEast
	facingSouth
	facingWest
)

func (f facing) EnumName() string     { return [...]string{"north", "east", "south", "west"}[f] }
func (facing) EnumVariants() []string { return []string{"north", "east", "south", "west"} }
func (f *facing) SetEnumIndex(i int) error {
	*f = facing(i)
	return nil
}

type move struct{ DX, DY float64 }

type action struct {
	tag  string
	move *move
}

func (a action) VariantTag() string  { return a.tag }
func (action) VariantTags() []string { return []string{"move", "wait"} }
func (a action) VariantPayload() any {
	if a.tag == "move" {
		return a.move
	}
	return nil
}

func (a *action) VariantOf(tag string) (any, bool) {
	if tag == "move" {
		return &move{}, true
	}
	return nil, false
}

func (a *action) SetVariant(tag string, payload any) error {
	switch tag {
	case "move":
		a.tag, a.move = "move", payload.(*move)
	case "wait":
		a.tag, a.move = "wait", nil
	default:
		return eris.Errorf("binary_test: unknown variant case %q", tag)
	}
	return nil
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	s, err := shape.Describe[stats]()
	require.NoError(t, err)

	pet := entity.ID(9)
	in := stats{HP: 42, Mana: 3.5, Tags: []string{"a", "bb"}, Owner: entity.ID(1), Pet: &pet}

	w := binary.NewWriter()
	require.NoError(t, binary.Encode(w, s, reflect.ValueOf(in)))

	var out stats
	r := binary.NewReader(w.Bytes(), binary.DefaultLimits)
	require.NoError(t, binary.Decode(r, s, reflect.ValueOf(&out).Elem()))
	require.Equal(t, in, out)
	require.Equal(t, 0, r.Remaining())
}

func TestEncodeDecodeFixedArray(t *testing.T) {
	s, err := shape.Describe[loadout]()
	require.NoError(t, err)

	in := loadout{Slots: [3]int32{1, 2, 3}}
	w := binary.NewWriter()
	require.NoError(t, binary.Encode(w, s, reflect.ValueOf(in)))

	var out loadout
	r := binary.NewReader(w.Bytes(), binary.DefaultLimits)
	require.NoError(t, binary.Decode(r, s, reflect.ValueOf(&out).Elem()))
	require.Equal(t, in, out)
}

func TestEncodeDecodeEnum(t *testing.T) {
	s, err := shape.Describe[facing]()
	require.NoError(t, err)
	require.Equal(t, shape.Enum, s.Kind)

	in := facingEast
	w := binary.NewWriter()
	require.NoError(t, binary.Encode(w, s, reflect.ValueOf(in)))

	var out facing
	r := binary.NewReader(w.Bytes(), binary.DefaultLimits)
	require.NoError(t, binary.Decode(r, s, reflect.ValueOf(&out).Elem()))
	require.Equal(t, in, out)
}

func TestEncodeDecodeVariant(t *testing.T) {
	s, err := shape.Describe[action]()
	require.NoError(t, err)
	require.Equal(t, shape.Variant, s.Kind)

	in := action{tag: "move", move: &move{DX: 1, DY: 2}}
	w := binary.NewWriter()
	require.NoError(t, binary.Encode(w, s, reflect.ValueOf(in)))

	var out action
	r := binary.NewReader(w.Bytes(), binary.DefaultLimits)
	require.NoError(t, binary.Decode(r, s, reflect.ValueOf(&out).Elem()))
	require.Equal(t, in, out)

	inWait := action{tag: "wait"}
	w2 := binary.NewWriter()
	require.NoError(t, binary.Encode(w2, s, reflect.ValueOf(inWait)))

	var outWait action
	r2 := binary.NewReader(w2.Bytes(), binary.DefaultLimits)
	require.NoError(t, binary.Decode(r2, s, reflect.ValueOf(&outWait).Elem()))
	require.Equal(t, inWait, outWait)
}

func TestArrayLengthOverLimitRejected(t *testing.T) {
	s, err := shape.Describe[stats]()
	require.NoError(t, err)

	w := binary.NewWriter()
	require.NoError(t, w.WriteInt(1, 32))
	require.NoError(t, w.WriteFloat(1, 32))
	require.NoError(t, w.WriteLen(1<<20))

	r := binary.NewReader(w.Bytes(), binary.Limits{MaxArrayElements: 10})
	var out stats
	_, err = r.ReadInt(32)
	require.NoError(t, err)
	_, err = r.ReadFloat(32)
	require.NoError(t, err)
	_, err = r.ReadArrayLen()
	require.Error(t, err)
	_ = out
	_ = s
}
