package migrate

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RenameComponent renames a key under "components", preserving its array
// of records.
func RenameComponent(blob []byte, oldName, newName string) ([]byte, error) {
	path := "components." + oldName
	records := gjson.GetBytes(blob, path)
	if !records.Exists() {
		return blob, nil
	}
	blob, err := sjson.SetRawBytes(blob, "components."+newName, []byte(records.Raw))
	if err != nil {
		return nil, eris.Wrapf(err, "migrate: rename_component %q -> %q", oldName, newName)
	}
	return sjson.DeleteBytes(blob, path)
}

// RemoveComponent drops a key from "components" entirely.
func RemoveComponent(blob []byte, name string) ([]byte, error) {
	path := "components." + name
	if !gjson.GetBytes(blob, path).Exists() {
		return blob, nil
	}
	out, err := sjson.DeleteBytes(blob, path)
	if err != nil {
		return nil, eris.Wrapf(err, "migrate: remove_component %q", name)
	}
	return out, nil
}

// RenameField renames a field inside every record's "data" sub-object for
// the named component.
func RenameField(blob []byte, component, oldField, newField string) ([]byte, error) {
	records := gjson.GetBytes(blob, "components."+component)
	if !records.IsArray() {
		return blob, nil
	}
	out := blob
	for i, rec := range records.Array() {
		val := rec.Get("data." + oldField)
		if !val.Exists() {
			continue
		}
		base := "components." + component + "." + strconv.Itoa(i) + ".data."
		var err error
		out, err = sjson.SetRawBytes(out, base+newField, []byte(val.Raw))
		if err != nil {
			return nil, eris.Wrapf(err, "migrate: rename_field %s.%s -> %s", component, oldField, newField)
		}
		out, err = sjson.DeleteBytes(out, base+oldField)
		if err != nil {
			return nil, eris.Wrapf(err, "migrate: rename_field %s.%s -> %s", component, oldField, newField)
		}
	}
	return out, nil
}

// AddFieldDefault inserts field = value into every record's "data"
// sub-object for the named component, only where the field is absent.
func AddFieldDefault(blob []byte, component, field string, value any) ([]byte, error) {
	records := gjson.GetBytes(blob, "components."+component)
	if !records.IsArray() {
		return blob, nil
	}
	out := blob
	for i, rec := range records.Array() {
		if rec.Get("data." + field).Exists() {
			continue
		}
		path := "components." + component + "." + strconv.Itoa(i) + ".data." + field
		var err error
		out, err = sjson.SetBytes(out, path, value)
		if err != nil {
			return nil, eris.Wrapf(err, "migrate: add_field_default %s.%s", component, field)
		}
	}
	return out, nil
}

// TransformIntField applies fn to every present integer value of field
// inside every record's "data" sub-object for the named component.
func TransformIntField(blob []byte, component, field string, fn func(int64) int64) ([]byte, error) {
	records := gjson.GetBytes(blob, "components."+component)
	if !records.IsArray() {
		return blob, nil
	}
	out := blob
	for i, rec := range records.Array() {
		val := rec.Get("data." + field)
		if !val.Exists() || val.Type != gjson.Number {
			continue
		}
		path := "components." + component + "." + strconv.Itoa(i) + ".data." + field
		var err error
		out, err = sjson.SetBytes(out, path, fn(val.Int()))
		if err != nil {
			return nil, eris.Wrapf(err, "migrate: transform_int_field %s.%s", component, field)
		}
	}
	return out, nil
}

