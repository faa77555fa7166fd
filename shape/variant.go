package shape

import "reflect"

// VariantValue is implemented by tagged-union types — the Go analogue of a
// sum type with payloads, built the way oneof fields are built in the
// protobuf-generated Go the teacher's codec sits alongside: one sealed type
// per case, held behind a single "active case" holder.
//
//	type Action struct { tag string; move *Move; wait *Wait }
//	func (a Action) VariantTag() string { return a.tag }
//	func (a Action) VariantTags() []string { return []string{"move", "wait"} }
//	func (a Action) VariantPayload() any {
//		switch a.tag {
//		case "move": return a.move
//		default: return nil
//		}
//	}
//	func (a *Action) VariantOf(tag string) (any, bool) {
//		switch tag {
//		case "move": return &Move{}, true
//		case "wait": return nil, false
//		}
//		return nil, false
//	}
//	func (a *Action) SetVariant(tag string, payload any) error { ... }
type VariantValue interface {
	// VariantTag returns the name of the case this value currently holds.
	VariantTag() string
	// VariantTags returns every declared case name, in stable tag-index order.
	VariantTags() []string
	// VariantPayload returns the active case's payload pointer, or nil for a
	// void case.
	VariantPayload() any
}

// VariantSetter is implemented by the addressable form of a VariantValue.
type VariantSetter interface {
	// VariantOf returns a freshly allocated payload pointer to decode the
	// named case into (or nil, false for a void case / unknown tag).
	VariantOf(tag string) (payload any, hasPayload bool)
	// SetVariant assigns the active case and its decoded payload (payload is
	// nil for a void case).
	SetVariant(tag string, payload any) error
}

type variantCase struct {
	Name        string
	PayloadType reflect.Type
}

var (
	variantValueType  = reflect.TypeOf((*VariantValue)(nil)).Elem()
	variantSetterType = reflect.TypeOf((*VariantSetter)(nil)).Elem()
)

func variantCasesFor(t reflect.Type) ([]variantCase, bool) {
	if !reflect.PtrTo(t).Implements(variantValueType) || !reflect.PtrTo(t).Implements(variantSetterType) {
		return nil, false
	}
	zero := reflect.New(t)
	vv := zero.Interface().(VariantValue)
	vs := zero.Interface().(VariantSetter)

	cases := make([]variantCase, 0, len(vv.VariantTags()))
	for _, name := range vv.VariantTags() {
		payload, hasPayload := vs.VariantOf(name)
		c := variantCase{Name: name}
		if hasPayload && payload != nil {
			c.PayloadType = reflect.TypeOf(payload).Elem()
		}
		cases = append(cases, c)
	}
	return cases, true
}
