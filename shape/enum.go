package shape

import "reflect"

// EnumValue is implemented by named-variant types whose shape is encoded as
// a declared-name string in the text format and an integer tag (the index
// into EnumVariants) in the binary format. A typical implementation wraps a
// small integer:
//
//	type Facing int
//	const (FacingNorth Facing = iota; FacingEast; FacingSouth; FacingWest)
//	func (f Facing) EnumName() string { return [...]string{"north","east","south","west"}[f] }
//	func (f Facing) EnumVariants() []string { return []string{"north","east","south","west"} }
//	func (f *Facing) SetEnumIndex(i int) error { *f = Facing(i); return nil }
type EnumValue interface {
	// EnumName returns the declared name of the value currently held.
	EnumName() string
	// EnumVariants returns every declared name, in stable tag-index order.
	EnumVariants() []string
}

// EnumSetter is implemented by the addressable (pointer) form of an
// EnumValue and lets the reader reconstruct a value from a binary tag
// index or a text variant name.
type EnumSetter interface {
	SetEnumIndex(i int) error
}

var (
	enumValueType = reflect.TypeOf((*EnumValue)(nil)).Elem()
	enumSetType   = reflect.TypeOf((*EnumSetter)(nil)).Elem()
)

func enumNamesFor(t reflect.Type) ([]string, bool) {
	if !reflect.PtrTo(t).Implements(enumValueType) || !reflect.PtrTo(t).Implements(enumSetType) {
		return nil, false
	}
	zero := reflect.New(t).Interface().(EnumValue)
	return zero.EnumVariants(), true
}
