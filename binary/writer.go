package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates the binary rendering of a shaped value. Every integer
// is little-endian; strings and dynamic arrays are length-prefixed with a
// uint32 element/byte count.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// WriteBool writes a single byte: 1 for true, 0 for false.
func (w *Writer) WriteBool(b bool) error {
	if b {
		return w.buf.WriteByte(1)
	}
	return w.buf.WriteByte(0)
}

// WriteInt writes a signed integer of the given bit width (8, 16, 32, 64),
// little-endian.
func (w *Writer) WriteInt(v int64, bits int) error {
	return w.WriteUint(uint64(v), bits)
}

// WriteUint writes an unsigned integer of the given bit width, little-endian.
func (w *Writer) WriteUint(v uint64, bits int) error {
	switch bits {
	case 8:
		return w.buf.WriteByte(byte(v))
	case 16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		_, err := w.buf.Write(b[:])
		return err
	case 32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		_, err := w.buf.Write(b[:])
		return err
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		_, err := w.buf.Write(b[:])
		return err
	}
}

// WriteFloat writes a 32 or 64-bit IEEE-754 float, little-endian.
func (w *Writer) WriteFloat(v float64, bits int) error {
	if bits == 32 {
		return w.WriteUint(uint64(math.Float32bits(float32(v))), 32)
	}
	return w.WriteUint(math.Float64bits(v), 64)
}

// WriteLen writes a uint32 length prefix (element or byte count).
func (w *Writer) WriteLen(n int) error {
	return w.WriteUint(uint64(n), 32)
}

// WriteRaw appends raw bytes with no length prefix.
func (w *Writer) WriteRaw(p []byte) error {
	_, err := w.buf.Write(p)
	return err
}

// WriteString writes a uint32 byte-length prefix followed by the raw bytes.
func (w *Writer) WriteString(s string) error {
	if err := w.WriteLen(len(s)); err != nil {
		return err
	}
	_, err := w.buf.WriteString(s)
	return err
}

// WriteTag writes a variant/enum tag index as a uint16.
func (w *Writer) WriteTag(i int) error {
	return w.WriteUint(uint64(i), 16)
}
