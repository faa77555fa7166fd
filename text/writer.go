package text

import (
	"reflect"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tidwall/sjson"

	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/shape"
)

// Encode appends the text rendering of v (shaped by s) into buf at path,
// returning the grown buffer. buf must already be a valid JSON document
// (callers typically start from []byte("{}")); path is an sjson dotted
// path such as "components.Position.0.data".
func Encode(buf []byte, path string, s *shape.Shape, v reflect.Value) ([]byte, error) {
	if v.IsValid() && v.CanAddr() {
		if em, ok := v.Addr().Interface().(Emitter); ok {
			return em.EmitText(buf, path)
		}
	}

	switch s.Kind {
	case shape.Bool:
		return sjson.SetBytes(buf, path, v.Bool())

	case shape.Int:
		if s.Signed {
			return sjson.SetBytes(buf, path, v.Int())
		}
		return sjson.SetBytes(buf, path, v.Uint())

	case shape.Float:
		return sjson.SetBytes(buf, path, v.Float())

	case shape.String:
		if s.GoType.Kind() == reflect.Slice {
			return sjson.SetBytes(buf, path, string(v.Bytes()))
		}
		return sjson.SetBytes(buf, path, v.String())

	case shape.EntityRef:
		return sjson.SetBytes(buf, path, uint32(v.Uint()))

	case shape.OptionalEntityRef:
		if v.IsNil() {
			return sjson.SetBytes(buf, path, nil)
		}
		id := v.Elem().Interface().(entity.ID)
		return sjson.SetBytes(buf, path, uint32(id))

	case shape.Optional:
		if v.IsNil() {
			return sjson.SetBytes(buf, path, nil)
		}
		return Encode(buf, path, s.Elem, v.Elem())

	case shape.Enum:
		name := v.Interface().(shape.EnumValue).EnumName()
		return sjson.SetBytes(buf, path, name)

	case shape.Struct:
		if len(s.Fields) == 0 {
			return sjson.SetRawBytes(buf, path, []byte("{}"))
		}
		var err error
		for _, f := range s.Fields {
			fv := v.FieldByIndex(f.Index)
			buf, err = Encode(buf, path+"."+f.Name, f.Shape, fv)
			if err != nil {
				return nil, eris.Wrapf(err, "text: field %q", f.Name)
			}
		}
		return buf, nil

	case shape.FixedArray:
		var err error
		for i := 0; i < s.Length; i++ {
			buf, err = Encode(buf, path+"."+strconv.Itoa(i), s.Elem, v.Index(i))
			if err != nil {
				return nil, eris.Wrapf(err, "text: element %d", i)
			}
		}
		return buf, nil

	case shape.DynArray:
		n := v.Len()
		if n == 0 {
			return sjson.SetRawBytes(buf, path, []byte("[]"))
		}
		var err error
		for i := 0; i < n; i++ {
			buf, err = Encode(buf, path+"."+strconv.Itoa(i), s.Elem, v.Index(i))
			if err != nil {
				return nil, eris.Wrapf(err, "text: element %d", i)
			}
		}
		return buf, nil

	case shape.Variant:
		vv := v.Interface().(shape.VariantValue)
		tag := vv.VariantTag()
		buf, err := sjson.SetBytes(buf, path+".tag", tag)
		if err != nil {
			return nil, err
		}
		for _, c := range s.Cases {
			if c.Name != tag {
				continue
			}
			if c.Payload == nil {
				return buf, nil
			}
			payload := vv.VariantPayload()
			if payload == nil {
				return buf, nil
			}
			return Encode(buf, path+".value", c.Payload, reflect.ValueOf(payload).Elem())
		}
		return nil, eris.Errorf("text: %q is not among the declared variant cases", tag)

	default:
		return nil, eris.Errorf("text: cannot encode shape kind %s", s.Kind)
	}
}
