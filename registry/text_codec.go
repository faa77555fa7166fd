package registry

import (
	"reflect"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/labelle-toolkit/serialization/component"
	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/shape"
	"github.com/labelle-toolkit/serialization/text"
	"github.com/labelle-toolkit/serialization/validate"
)

// EncodeText walks the codec's component set in declared order and emits
// the text save format described in spec §4.2 and §6.
func (c *Codec) EncodeText(opts EncodeOptions) ([]byte, error) {
	c.state = Serializing
	defer func() { c.state = Idle }()

	buf := []byte("{}")
	var err error

	buf = setJSON(buf, &err, "meta.version", opts.Meta.Version)
	buf = setJSON(buf, &err, "meta.lib_version", opts.Meta.LibVersion)
	buf = setJSON(buf, &err, "meta.timestamp", opts.Meta.Timestamp)
	if opts.Meta.GameName != "" {
		buf = setJSON(buf, &err, "meta.game_name", opts.Meta.GameName)
	}
	buf = setRaw(buf, &err, "components", []byte("{}"))
	if err != nil {
		return nil, eris.Wrap(err, "registry: failed to write metadata")
	}

	for _, m := range c.set.All() {
		buf, err = encodeTextComponent(buf, c.registry, m)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: encoding component %q", m.Name())
		}
	}

	if opts.Pretty {
		return text.Pretty(buf), nil
	}
	return text.Compact(buf), nil
}

func encodeTextComponent(buf []byte, reg Registry, m *component.Metadata) ([]byte, error) {
	var err error
	buf = setRaw(buf, &err, "components."+m.Name(), []byte("[]"))
	if err != nil {
		return nil, err
	}

	iter := reg.View(m.Name())
	idx := 0
	for iter.Next() {
		id := iter.Entity()
		base := "components." + m.Name() + "." + strconv.Itoa(idx)

		if m.Kind() == component.Tag {
			buf = setJSON(buf, &err, base, uint32(id))
			if err != nil {
				return nil, err
			}
			idx++
			continue
		}

		val, ok := reg.GetComponent(id, m.Name())
		if !ok {
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(m.GoType()) {
			return nil, eris.Wrapf(ErrTypeMismatch, "registry: component %q entity %d", m.Name(), id)
		}
		addr := reflect.New(m.GoType()).Elem()
		addr.Set(rv)

		buf = setJSON(buf, &err, base+".entt", uint32(id))
		if err != nil {
			return nil, err
		}
		buf, err = text.Encode(buf, base+".data", m.Shape(), addr)
		if err != nil {
			return nil, err
		}
		idx++
	}
	return buf, nil
}

// DecodeText validates, migrates-gates, and two-pass decodes a text save
// blob into the codec's registry, returning the save's metadata.
func (c *Codec) DecodeText(blob []byte, opts DecodeOptions) (Metadata, error) {
	c.state = Validating
	defer func() { c.state = Idle }()

	if !gjson.ValidBytes(blob) {
		return Metadata{}, ErrInvalidSaveFormat
	}
	root := gjson.ParseBytes(blob)
	if !root.IsObject() {
		return Metadata{}, ErrInvalidSaveFormat
	}

	metaResult := root.Get("meta")
	if !metaResult.Exists() {
		return Metadata{}, ErrMissingVersion
	}
	versionResult := metaResult.Get("version")
	if !versionResult.Exists() {
		return Metadata{}, ErrMissingVersion
	}
	version := uint32(versionResult.Uint())
	if opts.MaxAcceptedVersion > 0 && version > opts.MaxAcceptedVersion {
		return Metadata{}, ErrSaveFromNewerVersion
	}
	if opts.MinLoadableVersion > 0 && version < opts.MinLoadableVersion {
		return Metadata{}, ErrSaveTooOld
	}
	meta := Metadata{
		Version:    version,
		LibVersion: metaResult.Get("lib_version").String(),
		Timestamp:  metaResult.Get("timestamp").Int(),
		GameName:   metaResult.Get("game_name").String(),
	}

	componentsResult := root.Get("components")
	if !componentsResult.Exists() || !componentsResult.IsObject() {
		return Metadata{}, ErrInvalidSaveFormat
	}

	if checksumResult := metaResult.Get("checksum"); checksumResult.Exists() {
		expected := uint32(checksumResult.Uint())
		actual := validate.Checksum([]byte(componentsResult.Raw))
		if expected != actual {
			return Metadata{}, eris.Wrapf(ErrChecksumMismatch, "registry: expected %d, got %d", expected, actual)
		}
	}

	remap := entity.NewRemapTable()

	c.state = Creating
	for _, m := range c.set.All() {
		recs := componentsResult.Get(m.Name())
		if !recs.Exists() {
			if opts.SkipMissing {
				continue
			}
			return Metadata{}, eris.Wrapf(ErrComponentNotInSave, "component %q", m.Name())
		}
		for _, rec := range recs.Array() {
			savedID, err := savedEntityID(m, rec)
			if err != nil {
				return Metadata{}, eris.Wrapf(err, "registry: component %q", m.Name())
			}
			if _, ok := remap.Lookup(savedID); !ok {
				remap.Record(savedID, c.registry.CreateEntity())
			}
		}
	}

	c.state = Populating
	for _, m := range c.set.All() {
		recs := componentsResult.Get(m.Name())
		if !recs.Exists() {
			continue
		}
		for _, rec := range recs.Array() {
			savedID, err := savedEntityID(m, rec)
			if err != nil {
				return Metadata{}, eris.Wrapf(err, "registry: component %q", m.Name())
			}
			newID, _ := remap.Lookup(savedID)

			value := reflect.New(m.GoType()).Elem()
			if m.Kind() == component.Data {
				if m.WriteOnly() {
					return Metadata{}, eris.Wrapf(ErrWriteOnlyComponent, "component %q", m.Name())
				}
				if err := text.Decode(rec.Get("data"), m.Shape(), value); err != nil {
					return Metadata{}, eris.Wrapf(err, "registry: component %q entity %d", m.Name(), savedID)
				}
				shape.RewriteEntityRefs(m.Shape(), value, func(old entity.ID) entity.ID {
					if nw, ok := remap.Lookup(old); ok {
						return nw
					}
					return old
				})
			}
			if err := c.registry.AddComponent(newID, m.Name(), value.Interface()); err != nil {
				return Metadata{}, eris.Wrapf(err, "registry: adding component %q to entity %d", m.Name(), newID)
			}
		}
	}

	return meta, nil
}

// savedEntityID extracts the saved entity id a record belongs to. A Data
// record with no "entt" key is structurally invalid, not a dangling
// reference (spec's dangling-reference rule only governs entity-id *fields*
// inside a component's payload, which are deliberately left unresolved
// rather than erred); this case errors instead.
func savedEntityID(m *component.Metadata, rec gjson.Result) (entity.ID, error) {
	if m.Kind() == component.Tag {
		return entity.ID(rec.Uint()), nil
	}
	enttResult := rec.Get("entt")
	if !enttResult.Exists() {
		return 0, eris.Wrap(ErrInvalidEntityReference, "registry: record has no \"entt\" field")
	}
	return entity.ID(enttResult.Uint()), nil
}

func setJSON(buf []byte, err *error, path string, value any) []byte {
	if *err != nil {
		return buf
	}
	out, e := sjson.SetBytes(buf, path, value)
	if e != nil {
		*err = e
		return buf
	}
	return out
}

func setRaw(buf []byte, err *error, path string, raw []byte) []byte {
	if *err != nil {
		return buf
	}
	out, e := sjson.SetRawBytes(buf, path, raw)
	if e != nil {
		*err = e
		return buf
	}
	return out
}
