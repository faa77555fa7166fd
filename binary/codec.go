// Package binary implements the binary save format (spec §4.3): a compact,
// length-prefixed little-endian rendering of a shape tree with no field
// names on the wire. Bespoke rather than built on encoding/gob or a
// MessagePack library: the layout (fixed-width ints sized by the shape's
// declared Bits, a uint16 tag index for enums/variants, a uint32
// byte/element length prefix ahead of every string and dynamic array) is
// specific to this format and matches none of the self-describing wire
// formats in the surrounding ecosystem.
package binary

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/shape"
)

// Encode writes v (shaped by s) to w.
func Encode(w *Writer, s *shape.Shape, v reflect.Value) error {
	if v.IsValid() && v.CanAddr() {
		if em, ok := v.Addr().Interface().(Emitter); ok {
			return em.EmitBinary(w)
		}
	}

	switch s.Kind {
	case shape.Bool:
		return w.WriteBool(v.Bool())

	case shape.Int:
		if s.Signed {
			return w.WriteInt(v.Int(), s.Bits)
		}
		return w.WriteUint(v.Uint(), s.Bits)

	case shape.Float:
		return w.WriteFloat(v.Float(), s.Bits)

	case shape.String:
		if s.GoType.Kind() == reflect.Slice {
			return w.WriteString(string(v.Bytes()))
		}
		return w.WriteString(v.String())

	case shape.EntityRef:
		return w.WriteUint(v.Uint(), 32)

	case shape.OptionalEntityRef:
		if v.IsNil() {
			return w.WriteBool(false)
		}
		if err := w.WriteBool(true); err != nil {
			return err
		}
		id := v.Elem().Interface().(entity.ID)
		return w.WriteUint(uint64(id), 32)

	case shape.Optional:
		if v.IsNil() {
			return w.WriteBool(false)
		}
		if err := w.WriteBool(true); err != nil {
			return err
		}
		return Encode(w, s.Elem, v.Elem())

	case shape.Enum:
		name := v.Interface().(shape.EnumValue).EnumName()
		for i, n := range s.EnumNames {
			if n == name {
				return w.WriteTag(i)
			}
		}
		return eris.Wrapf(shape.ErrInvalidEnumValue, "binary: %q is not among the declared enum variants", name)

	case shape.Struct:
		for _, f := range s.Fields {
			if err := Encode(w, f.Shape, v.FieldByIndex(f.Index)); err != nil {
				return eris.Wrapf(err, "binary: field %q", f.Name)
			}
		}
		return nil

	case shape.FixedArray:
		for i := 0; i < s.Length; i++ {
			if err := Encode(w, s.Elem, v.Index(i)); err != nil {
				return eris.Wrapf(err, "binary: element %d", i)
			}
		}
		return nil

	case shape.DynArray:
		n := v.Len()
		if err := w.WriteLen(n); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := Encode(w, s.Elem, v.Index(i)); err != nil {
				return eris.Wrapf(err, "binary: element %d", i)
			}
		}
		return nil

	case shape.Variant:
		vv := v.Interface().(shape.VariantValue)
		tag := vv.VariantTag()
		for i, c := range s.Cases {
			if c.Name != tag {
				continue
			}
			if err := w.WriteTag(i); err != nil {
				return err
			}
			if c.Payload == nil {
				return nil
			}
			payload := vv.VariantPayload()
			if payload == nil {
				return eris.Errorf("binary: variant case %q expects a payload", tag)
			}
			return Encode(w, c.Payload, reflect.ValueOf(payload).Elem())
		}
		return eris.Wrapf(shape.ErrInvalidUnionTag, "binary: %q is not among the declared variant cases", tag)

	default:
		return eris.Errorf("binary: cannot encode shape kind %s", s.Kind)
	}
}

// Decode reads from r into v (shaped by s), which must be addressable.
func Decode(r *Reader, s *shape.Shape, v reflect.Value) error {
	if v.CanAddr() {
		if p, ok := v.Addr().Interface().(Parser); ok {
			return p.ParseBinary(r)
		}
	}

	switch s.Kind {
	case shape.Bool:
		b, err := r.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil

	case shape.Int:
		if s.Signed {
			n, err := r.ReadInt(s.Bits)
			if err != nil {
				return err
			}
			v.SetInt(n)
			return nil
		}
		n, err := r.ReadUint(s.Bits)
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil

	case shape.Float:
		f, err := r.ReadFloat(s.Bits)
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil

	case shape.String:
		str, err := r.ReadString()
		if err != nil {
			return err
		}
		if s.GoType.Kind() == reflect.Slice {
			v.SetBytes([]byte(str))
		} else {
			v.SetString(str)
		}
		return nil

	case shape.EntityRef:
		n, err := r.ReadUint(32)
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil

	case shape.OptionalEntityRef:
		present, err := r.ReadBool()
		if err != nil {
			return err
		}
		if !present {
			v.Set(reflect.Zero(s.GoType))
			return nil
		}
		n, err := r.ReadUint(32)
		if err != nil {
			return err
		}
		id := entity.ID(n)
		v.Set(reflect.ValueOf(&id))
		return nil

	case shape.Optional:
		present, err := r.ReadBool()
		if err != nil {
			return err
		}
		if !present {
			v.Set(reflect.Zero(s.GoType))
			return nil
		}
		elem := reflect.New(s.Elem.GoType).Elem()
		if err := Decode(r, s.Elem, elem); err != nil {
			return err
		}
		ptr := reflect.New(s.Elem.GoType)
		ptr.Elem().Set(elem)
		v.Set(ptr)
		return nil

	case shape.Enum:
		tag, err := r.ReadTag()
		if err != nil {
			return err
		}
		if tag < 0 || tag >= len(s.EnumNames) {
			return eris.Wrapf(shape.ErrInvalidEnumValue, "binary: enum tag %d out of range", tag)
		}
		return v.Addr().Interface().(shape.EnumSetter).SetEnumIndex(tag)

	case shape.Struct:
		for _, f := range s.Fields {
			if err := Decode(r, f.Shape, v.FieldByIndex(f.Index)); err != nil {
				return eris.Wrapf(err, "binary: field %q", f.Name)
			}
		}
		return nil

	case shape.FixedArray:
		for i := 0; i < s.Length; i++ {
			if err := Decode(r, s.Elem, v.Index(i)); err != nil {
				return eris.Wrapf(err, "binary: element %d", i)
			}
		}
		return nil

	case shape.DynArray:
		n, err := r.ReadArrayLen()
		if err != nil {
			return err
		}
		slice := reflect.MakeSlice(s.GoType, n, n)
		for i := 0; i < n; i++ {
			if err := Decode(r, s.Elem, slice.Index(i)); err != nil {
				return eris.Wrapf(err, "binary: element %d", i)
			}
		}
		v.Set(slice)
		return nil

	case shape.Variant:
		tag, err := r.ReadTag()
		if err != nil {
			return err
		}
		if tag < 0 || tag >= len(s.Cases) {
			return eris.Wrapf(shape.ErrInvalidUnionTag, "binary: variant tag %d out of range", tag)
		}
		c := s.Cases[tag]
		vs := v.Addr().Interface().(shape.VariantSetter)
		if c.Payload == nil {
			return vs.SetVariant(c.Name, nil)
		}
		payload, hasPayload := vs.VariantOf(c.Name)
		if !hasPayload || payload == nil {
			return eris.Errorf("binary: variant case %q expects a payload", c.Name)
		}
		if err := Decode(r, c.Payload, reflect.ValueOf(payload).Elem()); err != nil {
			return err
		}
		return vs.SetVariant(c.Name, payload)

	default:
		return eris.Errorf("binary: cannot decode shape kind %s", s.Kind)
	}
}
