package registry

// Metadata is the logical save's header (spec §3): schema version, the
// library version that produced it, a timestamp, and an optional
// free-form game name.
type Metadata struct {
	Version    uint32
	LibVersion string
	Timestamp  int64
	GameName   string // empty means absent
}

// EncodeOptions configures a single Encode call.
type EncodeOptions struct {
	Meta   Metadata
	Pretty bool // text format only
}

// DecodeOptions configures a single Decode call.
type DecodeOptions struct {
	// MaxAcceptedVersion rejects a save whose meta.version exceeds it.
	MaxAcceptedVersion uint32
	// MinLoadableVersion rejects a save whose meta.version is below it.
	MinLoadableVersion uint32
	// SkipMissing, when true, silently ignores a requested component type
	// absent from the save instead of failing with ErrComponentNotInSave.
	SkipMissing bool
}
