package shape

import (
	"reflect"
	"strconv"

	"github.com/rotisserie/eris"
)

// ResolveDefault converts a Field's raw `savedefault` tag text (always a
// string, since struct tags are strings) into a value of the field's
// declared type. It is called lazily by the text reader only when a field
// is actually missing from the input, rather than eagerly at
// Shape-derivation time, since most fields never need their default parsed.
func ResolveDefault(f Field) (reflect.Value, error) {
	raw := f.DefaultValue.String()
	return parseDefaultLiteral(f.Shape, raw)
}

func parseDefaultLiteral(s *Shape, raw string) (reflect.Value, error) {
	switch s.Kind {
	case Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, eris.Wrapf(err, "shape: invalid bool default %q", raw)
		}
		return reflect.ValueOf(v), nil

	case Int:
		if s.Signed {
			v, err := strconv.ParseInt(raw, 10, s.Bits)
			if err != nil {
				return reflect.Value{}, eris.Wrapf(err, "shape: invalid int default %q", raw)
			}
			return reflect.ValueOf(v).Convert(s.GoType), nil
		}
		v, err := strconv.ParseUint(raw, 10, s.Bits)
		if err != nil {
			return reflect.Value{}, eris.Wrapf(err, "shape: invalid uint default %q", raw)
		}
		return reflect.ValueOf(v).Convert(s.GoType), nil

	case Float:
		v, err := strconv.ParseFloat(raw, s.Bits)
		if err != nil {
			return reflect.Value{}, eris.Wrapf(err, "shape: invalid float default %q", raw)
		}
		return reflect.ValueOf(v).Convert(s.GoType), nil

	case String:
		return reflect.ValueOf(raw).Convert(s.GoType), nil

	case Enum:
		for i, name := range s.EnumNames {
			if name == raw {
				zero := reflect.New(s.GoType)
				if err := zero.Interface().(EnumSetter).SetEnumIndex(i); err != nil {
					return reflect.Value{}, err
				}
				return zero.Elem(), nil
			}
		}
		return reflect.Value{}, eris.Errorf("shape: %q is not a declared enum variant for default", raw)

	default:
		return reflect.Value{}, eris.Errorf("shape: %s fields cannot carry a literal default", s.Kind)
	}
}
