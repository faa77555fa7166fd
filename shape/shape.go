// Package shape introspects a registered component type into a tree of
// primitive/struct/array/optional/variant nodes, mirroring the recursive
// shape grammar of the save format. Writers and readers in package text and
// package binary walk a Shape and a value in lockstep to encode or decode
// it; nothing here touches bytes.
package shape

import (
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
)

// Kind identifies which alternative of the shape sum type a node is.
type Kind int

const (
	Bool Kind = iota
	Int
	Float
	String
	Struct
	FixedArray
	DynArray
	Optional
	Enum
	Variant
	EntityRef
	OptionalEntityRef
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Struct:
		return "Struct"
	case FixedArray:
		return "FixedArray"
	case DynArray:
		return "DynArray"
	case Optional:
		return "Optional"
	case Enum:
		return "Enum"
	case Variant:
		return "Variant"
	case EntityRef:
		return "EntityRef"
	case OptionalEntityRef:
		return "OptionalEntityRef"
	default:
		return "Unknown"
	}
}

// Field describes one ordered field of a Struct shape.
type Field struct {
	Name         string
	Shape        *Shape
	HasDefault   bool
	DefaultValue reflect.Value
	Index        []int // reflect.Type.FieldByIndex path
}

// VariantCase describes one named alternative of a Variant shape. Payload
// is nil for a void (tag-only) case.
type VariantCase struct {
	Name    string
	Payload *Shape
}

// Shape is a node of the recursive shape tree described in spec §3.
type Shape struct {
	Kind Kind

	// Int / Float
	Signed bool
	Bits   int // 8, 16, 32 or 64

	// Struct
	Fields []Field

	// FixedArray / DynArray / Optional
	Elem   *Shape
	Length int // FixedArray only

	// Enum
	EnumNames []string

	// Variant
	Cases []VariantCase

	GoType reflect.Type
}

var (
	cacheMu sync.RWMutex
	cache   = map[reflect.Type]*Shape{}
)

// Describe derives (or returns the memoized) Shape for T. T need not be a
// struct: any describable type (an enum, a variant, a primitive, ...) yields
// its Shape, and a type with an unsupported kind yields an error rather than
// a panic.
func Describe[T any]() (*Shape, error) {
	var zero T
	return DescribeType(reflect.TypeOf(zero))
}

// DescribeType derives the Shape for an arbitrary reflect.Type, recursing
// into structs, arrays, slices, and pointers (Optional). It is exported so
// component registration can derive a shape from a reflect.Type without
// needing a type parameter.
func DescribeType(t reflect.Type) (*Shape, error) {
	cacheMu.RLock()
	if s, ok := cache[t]; ok {
		cacheMu.RUnlock()
		return s, nil
	}
	cacheMu.RUnlock()

	s, err := describe(t, nil)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[t] = s
	cacheMu.Unlock()
	return s, nil
}

// path is used only to build readable error messages while recursing.
func describe(t reflect.Type, path []string) (*Shape, error) {
	if t == nil {
		return nil, eris.New("shape: cannot describe a nil type")
	}

	if t == entityRefType {
		return &Shape{Kind: EntityRef, GoType: t}, nil
	}

	// Enum/Variant are detected by capability (method set), not by
	// reflect.Kind: a typical EnumValue is a named int type and a typical
	// VariantValue is a named struct type, so both must be checked ahead
	// of the switch below or they're caught by the Int/Struct cases first
	// and never reach enumNamesFor/variantCasesFor.
	if enumCases, ok := enumNamesFor(t); ok {
		return &Shape{Kind: Enum, EnumNames: enumCases, GoType: t}, nil
	}
	if cases, ok := variantCasesFor(t); ok {
		shaped := make([]VariantCase, 0, len(cases))
		for _, c := range cases {
			vc := VariantCase{Name: c.Name}
			if c.PayloadType != nil {
				ps, err := describe(c.PayloadType, append(path, c.Name))
				if err != nil {
					return nil, err
				}
				vc.Payload = ps
			}
			shaped = append(shaped, vc)
		}
		return &Shape{Kind: Variant, Cases: shaped, GoType: t}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Shape{Kind: Bool, GoType: t}, nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return &Shape{Kind: Int, Signed: true, Bits: intBits(t), GoType: t}, nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return &Shape{Kind: Int, Signed: false, Bits: intBits(t), GoType: t}, nil

	case reflect.Float32:
		return &Shape{Kind: Float, Bits: 32, GoType: t}, nil
	case reflect.Float64:
		return &Shape{Kind: Float, Bits: 64, GoType: t}, nil

	case reflect.String:
		return &Shape{Kind: String, GoType: t}, nil

	case reflect.Ptr:
		if t == entityRefPtrType {
			return &Shape{Kind: OptionalEntityRef, GoType: t}, nil
		}
		elemShape, err := describe(t.Elem(), append(path, "*"))
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: Optional, Elem: elemShape, GoType: t}, nil

	case reflect.Array:
		elemShape, err := describe(t.Elem(), append(path, "[]"))
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: FixedArray, Elem: elemShape, Length: t.Len(), GoType: t}, nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Shape{Kind: String, GoType: t}, nil // byte slices ride the string wire format
		}
		elemShape, err := describe(t.Elem(), append(path, "[]"))
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: DynArray, Elem: elemShape, GoType: t}, nil

	case reflect.Struct:
		return describeStruct(t, path)

	default:
		return nil, eris.Errorf("shape: field %v has unsupported kind %s (raw pointers and function references cannot be serialized)",
			path, t.Kind())
	}
}

func describeStruct(t reflect.Type, path []string) (*Shape, error) {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("save"); ok && tag != "" {
			name = tag
		}
		fieldShape, err := describe(sf.Type, append(path, sf.Name))
		if err != nil {
			return nil, err
		}
		f := Field{Name: name, Shape: fieldShape, Index: sf.Index}
		if def, ok := sf.Tag.Lookup("savedefault"); ok {
			f.HasDefault = true
			f.DefaultValue = reflect.ValueOf(def)
		}
		fields = append(fields, f)
	}
	return &Shape{Kind: Struct, Fields: fields, GoType: t}, nil
}

func intBits(t reflect.Type) int {
	switch t.Kind() {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32:
		return 32
	default:
		return 64
	}
}
