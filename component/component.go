// Package component registers component types with the save codec: it
// derives and caches each type's Shape, detects custom encode/decode hooks,
// and exposes the ordered Set operations used to slice, filter, or extend
// which components a registry codec persists.
package component

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/labelle-toolkit/serialization/shape"
)

// ID identifies a registered component type. Assignment order is the
// declaration (registration) order, which is also the on-wire emission
// order for the binary format.
type ID int

// Kind distinguishes zero-sized tag components from data-carrying ones.
type Kind int

const (
	// Tag components carry no payload; existence on an entity is the only
	// information.
	Tag Kind = iota
	// Data components carry a value described by a Shape.
	Data
)

// Component is implemented by every user-defined component struct.
type Component interface {
	// Name returns the stable, on-wire name of the component. It must be
	// unique across a single registered Set.
	Name() string
}

// Metadata is the registry's runtime view of a registered component type:
// its identity, its shape (nil for tag components), its default value, and
// which custom encode/decode hooks it provides.
type Metadata struct {
	id   ID
	name string
	kind Kind

	goType reflect.Type
	shape  *shape.Shape

	hasDefault bool
	defaultVal reflect.Value

	writeOnly bool // has a custom Emit hook but no matching Parse hook

	hasCustomTextEmit    bool
	hasCustomTextParse   bool
	hasCustomBinaryEmit  bool
	hasCustomBinaryParse bool
}

// ID returns the component's registry-assigned identifier.
func (m *Metadata) ID() ID { return m.id }

// Name returns the component's on-wire name.
func (m *Metadata) Name() string { return m.name }

// Kind reports whether this is a tag or data component.
func (m *Metadata) Kind() Kind { return m.kind }

// Shape returns the component's derived shape, or nil for a tag component.
func (m *Metadata) Shape() *shape.Shape { return m.shape }

// GoType returns the component's reflect.Type.
func (m *Metadata) GoType() reflect.Type { return m.goType }

// WriteOnly reports whether this component can be emitted but not parsed
// through the generic path (it has a custom Emit hook and no custom Parse
// hook); attempting to decode it is a construction error.
func (m *Metadata) WriteOnly() bool { return m.writeOnly }

// HasCustomText reports whether T supplies its own text emit/parse hooks.
func (m *Metadata) HasCustomText() (emit, parse bool) {
	return m.hasCustomTextEmit, m.hasCustomTextParse
}

// HasCustomBinary reports whether T supplies its own binary emit/parse hooks.
func (m *Metadata) HasCustomBinary() (emit, parse bool) {
	return m.hasCustomBinaryEmit, m.hasCustomBinaryParse
}

// New returns the zero value for the component, or its declared default if
// one was registered via WithDefault.
func (m *Metadata) New() reflect.Value {
	if m.hasDefault {
		v := reflect.New(m.goType).Elem()
		v.Set(m.defaultVal)
		return v
	}
	return reflect.New(m.goType).Elem()
}

// hookProbes lets the text and binary packages install a detector for
// their own custom Emitter/Parser hook pair, keyed by format name so
// registration order between the two packages' init() functions never
// matters (unlike a plain slice, which would depend on import order).
// This keeps component from importing text/binary, which sit above it in
// the dependency graph.
var hookProbes = map[string]func(t reflect.Type) (emit, parse bool){}

// RegisterHookProbe lets a format package (text, binary) install a
// detector that reports whether the addressable form of t implements that
// format's custom Emitter/Parser hook pair. Called once from each format
// package's init(), keyed by the format's name ("text" or "binary").
func RegisterHookProbe(format string, probe func(t reflect.Type) (emit, parse bool)) {
	hookProbes[format] = probe
}

func detectHooks(t reflect.Type) (textEmit, textParse, binEmit, binParse bool) {
	if probe, ok := hookProbes["text"]; ok {
		textEmit, textParse = probe(t)
	}
	if probe, ok := hookProbes["binary"]; ok {
		binEmit, binParse = probe(t)
	}
	return
}

// Option augments the registration of a data component.
type Option[T Component] func(*Metadata)

// WithDefault sets the whole-component value returned by Metadata.New and
// marshaled by Metadata.DefaultBytes (mirroring the teacher's
// ComponentMetaData.New). It is not the text reader's missing-field
// fallback, which comes per field from the `savedefault` struct tag, and
// the registry codec does not use it when decoding.
func WithDefault[T Component](def T) Option[T] {
	return func(m *Metadata) {
		m.hasDefault = true
		m.defaultVal = reflect.ValueOf(def)
	}
}

// RegisterTag derives Metadata for a zero-sized tag component.
func RegisterTag[T Component]() (*Metadata, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, eris.New("component: tag type must be a concrete struct type")
	}
	if t.NumField() != 0 {
		return nil, eris.Errorf("component: %s has fields and cannot be registered as a tag", t.Name())
	}
	return &Metadata{
		name:   zero.Name(),
		kind:   Tag,
		goType: t,
	}, nil
}

// RegisterData derives Metadata for a data component, deriving its Shape
// via the shape package and detecting any custom hooks it implements.
func RegisterData[T Component](opts ...Option[T]) (*Metadata, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, eris.New("component: data type must be a concrete struct type")
	}
	s, err := shape.DescribeType(t)
	if err != nil {
		return nil, eris.Wrapf(err, "component: could not derive shape for %s", t.Name())
	}

	textEmit, textParse, binEmit, binParse := detectHooks(t)

	m := &Metadata{
		name:                 zero.Name(),
		kind:                 Data,
		goType:               t,
		shape:                s,
		hasCustomTextEmit:    textEmit,
		hasCustomTextParse:   textParse,
		hasCustomBinaryEmit:  binEmit,
		hasCustomBinaryParse: binParse,
	}
	m.writeOnly = (textEmit && !textParse) || (binEmit && !binParse)

	for _, opt := range opts {
		opt(m)
	}
	if m.hasDefault && !reflect.TypeOf(m.defaultVal.Interface()).AssignableTo(t) {
		return nil, eris.Errorf("component: default value for %s is not assignable to its type", t.Name())
	}
	return m, nil
}
