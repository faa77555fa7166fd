package binary

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/rotisserie/eris"

	"github.com/labelle-toolkit/serialization/shape"
)

// Reader consumes a binary rendering produced by Writer, enforcing Limits
// against any length prefix it reads.
type Reader struct {
	buf    []byte
	pos    int
	limits Limits
}

// NewReader wraps buf for sequential reading, applying limits (the zero
// value uses DefaultLimits).
func NewReader(buf []byte, limits Limits) *Reader {
	return &Reader{buf: buf, limits: limits.orDefault()}
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, eris.Wrap(io.ErrUnexpectedEOF, "binary: truncated input")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBool reads a single byte as a boolean.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadInt reads a signed integer of the given bit width.
func (r *Reader) ReadInt(bits int) (int64, error) {
	u, err := r.ReadUint(bits)
	if err != nil {
		return 0, err
	}
	switch bits {
	case 8:
		return int64(int8(u)), nil
	case 16:
		return int64(int16(u)), nil
	case 32:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// ReadUint reads an unsigned integer of the given bit width.
func (r *Reader) ReadUint(bits int) (uint64, error) {
	switch bits {
	case 8:
		b, err := r.take(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case 16:
		b, err := r.take(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 32:
		b, err := r.take(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		b, err := r.take(8)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b), nil
	}
}

// ReadFloat reads a 32 or 64-bit IEEE-754 float.
func (r *Reader) ReadFloat(bits int) (float64, error) {
	if bits == 32 {
		u, err := r.ReadUint(32)
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(uint32(u))), nil
	}
	u, err := r.ReadUint(64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// ReadLen reads and bounds-checks a uint32 length prefix against max,
// wrapping sentinel when the prefix exceeds it. ReadString and ReadArrayLen
// each pass the sentinel matching the limit they enforce, so callers can
// eris.Is against the specific resource exceeded rather than a bare message.
func (r *Reader) ReadLen(max uint32, sentinel error) (int, error) {
	u, err := r.ReadUint(32)
	if err != nil {
		return 0, err
	}
	if uint32(u) > max {
		return 0, eris.Wrapf(sentinel, "binary: length %d exceeds limit %d", u, max)
	}
	return int(u), nil
}

// ReadRaw reads exactly n raw bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	return r.take(n)
}

// ReadString reads a length-prefixed string, bounded by Limits.MaxStringBytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadLen(r.limits.MaxStringBytes, shape.ErrStringTooLong)
	if err != nil {
		return "", err
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadArrayLen reads a length prefix bounded by Limits.MaxArrayElements.
func (r *Reader) ReadArrayLen() (int, error) {
	return r.ReadLen(r.limits.MaxArrayElements, shape.ErrArrayTooLong)
}

// ReadTag reads a variant/enum tag index.
func (r *Reader) ReadTag() (int, error) {
	u, err := r.ReadUint(16)
	if err != nil {
		return 0, err
	}
	return int(u), nil
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }
