package binary

import "github.com/rotisserie/eris"

// FormatVersion is the only binary wire-format version this package
// understands. It is distinct from a save's own schema version (the
// "save_version" written right after it), which the registry codec and
// migration engine reason about.
const FormatVersion = 1

const magic = "LBSR"

// Header validation failures, distinguished so a caller can tell a
// corrupt/foreign blob (ErrBadMagic) from one this build is simply too old
// to read (ErrUnsupportedFormatVersion).
var (
	ErrBadMagic               = eris.New("binary: blob has an unrecognized magic")
	ErrUnsupportedFormatVersion = eris.New("binary: format version is not supported")
)

// WriteHeader writes the fixed binary-format header: 4-byte magic, u32
// format version, u32 saveVersion.
func WriteHeader(w *Writer, saveVersion uint32) error {
	if err := w.WriteRaw([]byte(magic)); err != nil {
		return err
	}
	if err := w.WriteUint(FormatVersion, 32); err != nil {
		return err
	}
	return w.WriteUint(uint64(saveVersion), 32)
}

// ReadHeader reads and validates the fixed binary-format header, returning
// the save's schema version.
func ReadHeader(r *Reader) (saveVersion uint32, err error) {
	got, err := r.ReadRaw(4)
	if err != nil {
		return 0, err
	}
	if string(got) != magic {
		return 0, eris.Wrapf(ErrBadMagic, "binary: got %q", got)
	}
	formatVersion, err := r.ReadUint(32)
	if err != nil {
		return 0, err
	}
	if formatVersion > FormatVersion {
		return 0, eris.Wrapf(ErrUnsupportedFormatVersion, "binary: got %d", formatVersion)
	}
	sv, err := r.ReadUint(32)
	if err != nil {
		return 0, err
	}
	return uint32(sv), nil
}
