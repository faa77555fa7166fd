package component

import (
	"reflect"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

// Schema returns the JSON Schema for the component's Go type, reflected
// fresh on every call (component types are registered once at startup, so
// there's no benefit to caching this against registration-order surprises).
// Mirrors the teacher's SerializeComponentSchema(component.Component).
func (m *Metadata) Schema() ([]byte, error) {
	example := reflect.New(m.goType).Interface()
	reflected := jsonschema.Reflect(example)
	out, err := json.Marshal(reflected)
	if err != nil {
		return nil, eris.Wrapf(err, "component: %s schema must be json serializable", m.name)
	}
	return out, nil
}

// DefaultBytes marshals the component's default value (or its zero value,
// if none was registered via WithDefault) to JSON. A save-file migration
// step or a tool inspecting a registered Set can use this as a template
// without constructing a live instance of T.
func (m *Metadata) DefaultBytes() ([]byte, error) {
	out, err := json.Marshal(m.New().Interface())
	if err != nil {
		return nil, eris.Wrapf(err, "component: %s default value must be json serializable", m.name)
	}
	return out, nil
}

// IsSchemaCompatible reports whether two component JSON Schemas are
// identical, by taking their JSON-Patch diff and checking it's empty.
// Mirrors the teacher's IsSchemaValid / IsComponentValid pair, collapsed
// to the one primitive a migration author actually needs: "did this
// component's shape change between save-file version and the running
// binary's registered type?"
func IsSchemaCompatible(oldSchema, newSchema []byte) (bool, error) {
	patch, err := jsondiff.CompareJSON(oldSchema, newSchema)
	if err != nil {
		return false, eris.Wrap(err, "component: comparing schemas")
	}
	return patch.String() == "", nil
}
