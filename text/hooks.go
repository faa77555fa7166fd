package text

import (
	"reflect"

	"github.com/tidwall/gjson"

	"github.com/labelle-toolkit/serialization/component"
)

// Emitter lets a component (or a nested field's type) take over its own
// text encoding, writing any JSON it wants at path into buf and returning
// the grown buffer.
type Emitter interface {
	EmitText(buf []byte, path string) ([]byte, error)
}

// Parser lets the addressable form of a type take over its own text
// decoding, reading from the gjson.Result already looked up at its field's
// path.
type Parser interface {
	ParseText(result gjson.Result) error
}

var (
	emitterType = reflect.TypeOf((*Emitter)(nil)).Elem()
	parserType  = reflect.TypeOf((*Parser)(nil)).Elem()
)

func init() {
	component.RegisterHookProbe("text", func(t reflect.Type) (emit, parse bool) {
		pt := reflect.PtrTo(t)
		return pt.Implements(emitterType), pt.Implements(parserType)
	})
}
