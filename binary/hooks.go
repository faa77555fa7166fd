package binary

import (
	"reflect"

	"github.com/labelle-toolkit/serialization/component"
)

// Emitter lets a component (or a nested field's type) take over its own
// binary encoding.
type Emitter interface {
	EmitBinary(w *Writer) error
}

// Parser lets the addressable form of a type take over its own binary
// decoding.
type Parser interface {
	ParseBinary(r *Reader) error
}

var (
	emitterType = reflect.TypeOf((*Emitter)(nil)).Elem()
	parserType  = reflect.TypeOf((*Parser)(nil)).Elem()
)

func init() {
	component.RegisterHookProbe("binary", func(t reflect.Type) (emit, parse bool) {
		pt := reflect.PtrTo(t)
		return pt.Implements(emitterType), pt.Implements(parserType)
	})
}
