package registry

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/labelle-toolkit/serialization/binary"
	"github.com/labelle-toolkit/serialization/component"
	"github.com/labelle-toolkit/serialization/entity"
	"github.com/labelle-toolkit/serialization/shape"
)

type binaryPlanRecord struct {
	id  entity.ID
	val reflect.Value // zero Value for tag records
}

type binaryPlan struct {
	meta    *component.Metadata
	records []binaryPlanRecord
}

// EncodeBinary walks the codec's component set and emits the binary save
// format described in spec §4.3.
func (c *Codec) EncodeBinary(opts EncodeOptions) ([]byte, error) {
	c.state = Serializing
	defer func() { c.state = Idle }()

	plans := make([]binaryPlan, 0, c.set.Len())
	distinct := map[entity.ID]struct{}{}

	for _, m := range c.set.All() {
		plan := binaryPlan{meta: m}
		iter := c.registry.View(m.Name())
		for iter.Next() {
			id := iter.Entity()
			distinct[id] = struct{}{}
			if m.Kind() == component.Tag {
				plan.records = append(plan.records, binaryPlanRecord{id: id})
				continue
			}
			val, ok := c.registry.GetComponent(id, m.Name())
			if !ok {
				continue
			}
			rv := reflect.ValueOf(val)
			if !rv.Type().AssignableTo(m.GoType()) {
				return nil, eris.Wrapf(ErrTypeMismatch, "registry: component %q entity %d", m.Name(), id)
			}
			addr := reflect.New(m.GoType()).Elem()
			addr.Set(rv)
			plan.records = append(plan.records, binaryPlanRecord{id: id, val: addr})
		}
		plans = append(plans, plan)
	}

	w := binary.NewWriter()
	if err := binary.WriteHeader(w, opts.Meta.Version); err != nil {
		return nil, eris.Wrap(err, "registry: writing binary header")
	}
	if err := w.WriteInt(opts.Meta.Timestamp, 64); err != nil {
		return nil, err
	}
	if err := w.WriteString(opts.Meta.GameName); err != nil {
		return nil, err
	}
	if err := w.WriteLen(len(distinct)); err != nil {
		return nil, err
	}
	if err := w.WriteLen(len(plans)); err != nil {
		return nil, err
	}

	for _, plan := range plans {
		if err := w.WriteString(plan.meta.Name()); err != nil {
			return nil, err
		}
		if err := w.WriteLen(len(plan.records)); err != nil {
			return nil, err
		}
		for _, rec := range plan.records {
			if err := w.WriteUint(uint64(rec.id), 32); err != nil {
				return nil, err
			}
			if plan.meta.Kind() == component.Data {
				if err := binary.Encode(w, plan.meta.Shape(), rec.val); err != nil {
					return nil, eris.Wrapf(err, "registry: encoding component %q", plan.meta.Name())
				}
			}
		}
	}

	return w.Bytes(), nil
}

// DecodeBinary validates, version-gates, and two-pass decodes a binary
// save blob into the codec's registry. Every component-type block named
// in the blob must be present in the codec's set: unlike the text format,
// the binary layout carries no per-record length prefix, so an unknown
// type's bytes cannot be skipped byte-accurately. skip_missing therefore
// only governs the reverse case (a registered type the blob never wrote).
func (c *Codec) DecodeBinary(blob []byte, limits binary.Limits, opts DecodeOptions) (Metadata, error) {
	c.state = Validating
	defer func() { c.state = Idle }()

	r := binary.NewReader(blob, limits)
	saveVersion, err := binary.ReadHeader(r)
	if err != nil {
		switch {
		case eris.Is(err, binary.ErrUnsupportedFormatVersion):
			return Metadata{}, eris.Wrap(ErrUnsupportedFormatVersion, err.Error())
		case eris.Is(err, binary.ErrBadMagic):
			return Metadata{}, eris.Wrap(ErrInvalidMagic, err.Error())
		default:
			return Metadata{}, eris.Wrap(ErrInvalidSaveFormat, err.Error())
		}
	}
	if opts.MaxAcceptedVersion > 0 && saveVersion > opts.MaxAcceptedVersion {
		return Metadata{}, ErrSaveFromNewerVersion
	}
	if opts.MinLoadableVersion > 0 && saveVersion < opts.MinLoadableVersion {
		return Metadata{}, ErrSaveTooOld
	}

	timestamp, err := r.ReadInt(64)
	if err != nil {
		return Metadata{}, err
	}
	gameName, err := r.ReadString()
	if err != nil {
		return Metadata{}, err
	}
	if _, err := r.ReadArrayLen(); err != nil { // distinct-entity-count, informational
		return Metadata{}, err
	}
	typeCount, err := r.ReadArrayLen()
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{Version: saveVersion, Timestamp: timestamp, GameName: gameName}
	remap := entity.NewRemapTable()
	seenInBlob := map[string]bool{}

	c.state = Creating
	for i := 0; i < typeCount; i++ {
		name, err := r.ReadString()
		if err != nil {
			return Metadata{}, err
		}
		count, err := r.ReadArrayLen()
		if err != nil {
			return Metadata{}, err
		}
		m, ok := c.set.ByName(name)
		if !ok {
			return Metadata{}, eris.Wrapf(ErrUnregisteredComponent, "component %q", name)
		}
		seenInBlob[name] = true

		for j := 0; j < count; j++ {
			id, err := r.ReadUint(32)
			if err != nil {
				return Metadata{}, err
			}
			savedID := entity.ID(id)
			if m.Kind() == component.Data {
				if err := skipShape(r, m.Shape()); err != nil {
					return Metadata{}, err
				}
			}
			if _, ok := remap.Lookup(savedID); !ok {
				remap.Record(savedID, c.registry.CreateEntity())
			}
		}
	}

	if !opts.SkipMissing {
		for _, m := range c.set.All() {
			if !seenInBlob[m.Name()] {
				return Metadata{}, eris.Wrapf(ErrComponentNotInSave, "component %q", m.Name())
			}
		}
	}

	// Second pass: re-read the blob for payloads now that every saved
	// entity has a fresh id. A fresh Reader is simpler than threading byte
	// offsets for each block back out of pass one.
	r2 := binary.NewReader(blob, limits)
	mustSkipHeader(r2)

	typeCount2, _ := r2.ReadArrayLen()

	c.state = Populating
	for i := 0; i < typeCount2; i++ {
		name, err := r2.ReadString()
		if err != nil {
			return Metadata{}, err
		}
		count, err := r2.ReadArrayLen()
		if err != nil {
			return Metadata{}, err
		}
		m, _ := c.set.ByName(name)

		for j := 0; j < count; j++ {
			id, err := r2.ReadUint(32)
			if err != nil {
				return Metadata{}, err
			}
			savedID := entity.ID(id)
			newID, _ := remap.Lookup(savedID)

			value := reflect.New(m.GoType()).Elem()
			if m.Kind() == component.Data {
				if m.WriteOnly() {
					return Metadata{}, eris.Wrapf(ErrWriteOnlyComponent, "component %q", name)
				}
				if err := binary.Decode(r2, m.Shape(), value); err != nil {
					return Metadata{}, eris.Wrapf(err, "registry: component %q entity %d", name, savedID)
				}
				shape.RewriteEntityRefs(m.Shape(), value, func(old entity.ID) entity.ID {
					if nw, ok := remap.Lookup(old); ok {
						return nw
					}
					return old
				})
			}
			if err := c.registry.AddComponent(newID, name, value.Interface()); err != nil {
				return Metadata{}, eris.Wrapf(err, "registry: adding component %q to entity %d", name, newID)
			}
		}
	}

	return meta, nil
}

// mustSkipHeader re-reads the header/metadata block already validated by
// pass one; pass two only needs to land past it to re-read the component
// blocks.
func mustSkipHeader(r *binary.Reader) {
	_, _ = binary.ReadHeader(r)
	_, _ = r.ReadInt(64)
	_, _ = r.ReadString()
	_, _ = r.ReadArrayLen()
}

// skipShape advances r past one payload of shape s without keeping the
// decoded value, used by pass one purely to stay aligned to the next
// block.
func skipShape(r *binary.Reader, s *shape.Shape) error {
	scratch := reflect.New(s.GoType).Elem()
	return binary.Decode(r, s, scratch)
}
