package shape

import (
	"reflect"

	"github.com/labelle-toolkit/serialization/entity"
)

// RewriteEntityRefs walks value (which must conform to s) and rewrites every
// EntityRef / OptionalEntityRef leaf in place using fn. This is the
// "visitor over the shape tree co-walking the value" called for by the
// design notes: it never re-parses, it only revisits the already-decoded
// Go value.
func RewriteEntityRefs(s *Shape, value reflect.Value, fn func(entity.ID) entity.ID) {
	if !value.IsValid() {
		return
	}
	switch s.Kind {
	case EntityRef:
		if value.CanSet() {
			value.Set(reflect.ValueOf(fn(entity.ID(value.Uint()))))
		}

	case OptionalEntityRef:
		if value.IsNil() {
			return
		}
		id := value.Elem().Interface().(entity.ID)
		newID := fn(id)
		value.Set(reflect.ValueOf(&newID))

	case Struct:
		for _, f := range s.Fields {
			fv := value.FieldByIndex(f.Index)
			RewriteEntityRefs(f.Shape, fv, fn)
		}

	case FixedArray:
		for i := 0; i < s.Length; i++ {
			RewriteEntityRefs(s.Elem, value.Index(i), fn)
		}

	case DynArray:
		for i := 0; i < value.Len(); i++ {
			RewriteEntityRefs(s.Elem, value.Index(i), fn)
		}

	case Optional:
		if value.IsNil() {
			return
		}
		RewriteEntityRefs(s.Elem, value.Elem(), fn)

	case Variant:
		tag := value.Interface().(VariantValue).VariantTag()
		for _, c := range s.Cases {
			if c.Name != tag || c.Payload == nil {
				continue
			}
			payload := value.Interface().(VariantValue).VariantPayload()
			if payload == nil {
				return
			}
			RewriteEntityRefs(c.Payload, reflect.ValueOf(payload).Elem(), fn)
			return
		}

	default:
		// Bool, Int, Float, String, Enum: no entity references possible.
	}
}
