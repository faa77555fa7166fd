package text

import (
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"

	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/shape"
)

// Decode reads result (shaped by s) into v, which must be addressable.
// Missing struct fields fall back to a declared savedefault; a missing
// field with no default is a decode error, matching the spec's strict
// field-presence rule for the text format.
func Decode(result gjson.Result, s *shape.Shape, v reflect.Value) error {
	if v.CanAddr() {
		if p, ok := v.Addr().Interface().(Parser); ok {
			return p.ParseText(result)
		}
	}

	switch s.Kind {
	case shape.Bool:
		v.SetBool(result.Bool())
		return nil

	case shape.Int:
		if s.Signed {
			v.SetInt(result.Int())
		} else {
			v.SetUint(result.Uint())
		}
		return nil

	case shape.Float:
		v.SetFloat(result.Float())
		return nil

	case shape.String:
		if s.GoType.Kind() == reflect.Slice {
			v.SetBytes([]byte(result.String()))
		} else {
			v.SetString(result.String())
		}
		return nil

	case shape.EntityRef:
		v.SetUint(result.Uint())
		return nil

	case shape.OptionalEntityRef:
		if !result.Exists() || result.Type == gjson.Null {
			v.Set(reflect.Zero(s.GoType))
			return nil
		}
		id := entity.ID(result.Uint())
		v.Set(reflect.ValueOf(&id))
		return nil

	case shape.Optional:
		if !result.Exists() || result.Type == gjson.Null {
			v.Set(reflect.Zero(s.GoType))
			return nil
		}
		elem := reflect.New(s.Elem.GoType).Elem()
		if err := Decode(result, s.Elem, elem); err != nil {
			return err
		}
		ptr := reflect.New(s.Elem.GoType)
		ptr.Elem().Set(elem)
		v.Set(ptr)
		return nil

	case shape.Enum:
		name := result.String()
		for i, n := range s.EnumNames {
			if n == name {
				return v.Addr().Interface().(shape.EnumSetter).SetEnumIndex(i)
			}
		}
		return eris.Wrapf(shape.ErrInvalidEnumValue, "text: %q is not a declared enum variant", name)

	case shape.Struct:
		for _, f := range s.Fields {
			fr := result.Get(f.Name)
			fv := v.FieldByIndex(f.Index)
			if !fr.Exists() {
				if f.HasDefault {
					def, err := shape.ResolveDefault(f)
					if err != nil {
						return err
					}
					fv.Set(def)
					continue
				}
				return eris.Wrapf(shape.ErrMissingField, "text: missing required field %q", f.Name)
			}
			if err := Decode(fr, f.Shape, fv); err != nil {
				return eris.Wrapf(err, "text: field %q", f.Name)
			}
		}
		return nil

	case shape.FixedArray:
		arr := result.Array()
		if len(arr) != s.Length {
			return eris.Wrapf(shape.ErrArrayLengthMismatch, "text: expected %d elements, got %d", s.Length, len(arr))
		}
		for i := 0; i < s.Length; i++ {
			if err := Decode(arr[i], s.Elem, v.Index(i)); err != nil {
				return eris.Wrapf(err, "text: element %d", i)
			}
		}
		return nil

	case shape.DynArray:
		arr := result.Array()
		slice := reflect.MakeSlice(s.GoType, len(arr), len(arr))
		for i, item := range arr {
			if err := Decode(item, s.Elem, slice.Index(i)); err != nil {
				return eris.Wrapf(err, "text: element %d", i)
			}
		}
		v.Set(slice)
		return nil

	case shape.Variant:
		tag := result.Get("tag").String()
		for _, c := range s.Cases {
			if c.Name != tag {
				continue
			}
			vs := v.Addr().Interface().(shape.VariantSetter)
			if c.Payload == nil {
				return vs.SetVariant(tag, nil)
			}
			payload, hasPayload := vs.VariantOf(tag)
			if !hasPayload || payload == nil {
				return eris.Errorf("text: variant case %q expects a payload", tag)
			}
			if err := Decode(result.Get("value"), c.Payload, reflect.ValueOf(payload).Elem()); err != nil {
				return err
			}
			return vs.SetVariant(tag, payload)
		}
		return eris.Wrapf(shape.ErrInvalidUnionTag, "text: %q is not a declared variant case", tag)

	default:
		return eris.Errorf("text: cannot decode shape kind %s", s.Kind)
	}
}
