// Package envelope frames a save blob with a small fixed header identifying
// its wire format and, when compressed, the algorithm and uncompressed
// size needed to preallocate a decompression buffer. It also derives the
// on-disk slot path for a numbered save (spec §6); neither operation here
// touches a filesystem or compressor, both of which are out of scope.
package envelope

import (
	"encoding/binary"
	"fmt"

	"github.com/rotisserie/eris"
)

// Algorithm identifies the compression algorithm named in a compressed
// envelope's header.
type Algorithm uint8

const (
	// None marks an uncompressed envelope (header magic LBSR).
	None Algorithm = iota
	// Gzip marks a gzip-compressed envelope (header magic LBSC).
	Gzip
)

const (
	magicRaw        = "LBSR"
	magicCompressed = "LBSC"
	headerLen       = 9 // 4-byte magic + 1-byte algorithm id + 4-byte uncompressed size
)

// Header is the parsed form of a save blob's leading 9 bytes.
type Header struct {
	Compressed       bool
	Algorithm        Algorithm
	UncompressedSize uint32
}

// HasHeader reports whether buf begins with a recognized envelope magic.
func HasHeader(buf []byte) bool {
	if len(buf) < 4 {
		return false
	}
	magic := string(buf[:4])
	return magic == magicRaw || magic == magicCompressed
}

// WriteHeader prepends a 9-byte header to payload: magicRaw when alg is
// None, magicCompressed otherwise, followed in both cases by alg and
// uncompressedSize.
func WriteHeader(payload []byte, alg Algorithm, uncompressedSize uint32) []byte {
	out := make([]byte, headerLen+len(payload))
	if alg == None {
		copy(out[:4], magicRaw)
	} else {
		copy(out[:4], magicCompressed)
	}
	out[4] = byte(alg)
	binary.LittleEndian.PutUint32(out[5:9], uncompressedSize)
	copy(out[headerLen:], payload)
	return out
}

// ReadHeader parses the header from the front of buf, returning the header
// and the remaining payload bytes.
func ReadHeader(buf []byte) (Header, []byte, error) {
	if len(buf) < headerLen {
		return Header{}, nil, eris.New("envelope: buffer too short to contain a header")
	}
	magic := string(buf[:4])
	var h Header
	switch magic {
	case magicRaw:
		h.Compressed = false
	case magicCompressed:
		h.Compressed = true
	default:
		return Header{}, nil, eris.Errorf("envelope: unrecognized magic %q", magic)
	}
	h.Algorithm = Algorithm(buf[4])
	h.UncompressedSize = binary.LittleEndian.Uint32(buf[5:9])
	return h, buf[headerLen:], nil
}

// SlotPath returns the on-disk path for a numbered manual save slot under
// dir, e.g. SlotPath("saves", 3) -> "saves/slot-03.sav". The slot index is
// zero-padded to two digits per spec's slot layout rule.
func SlotPath(dir string, slot int) string {
	return fmt.Sprintf("%s/slot-%02d.sav", dir, slot)
}

// AutoSlotPath returns the path for a rotating autosave slot under dir.
// index is the autosave call counter (incrementing once per autosave);
// it is rotated modulo autoSlotCount, so only autoSlotCount distinct
// autosave files ever exist on disk.
func AutoSlotPath(dir string, index, autoSlotCount int) string {
	return fmt.Sprintf("%s/autosave-%02d.sav", dir, index%autoSlotCount)
}
