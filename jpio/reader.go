package jpio

import (
	"fmt"
	"math"

	"github.com/hearhellacopters/jampack-go/endian"
)

// Reader reads typed values from an in-memory byte slice in a chosen
// endianness, tracking a cursor position for error reporting (BadTag errors
// carry a byte position, per §4.9).
type Reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// NewReader wraps data for sequential typed reads.
func NewReader(data []byte, engine endian.EndianEngine) *Reader {
	return &Reader{data: data, engine: engine}
}

// Pos returns the current byte offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Len returns the total length of the wrapped data.
func (r *Reader) Len() int { return len(r.data) }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("jpio: unexpected end of data at offset %d, need %d more bytes", r.pos, n-r.Remaining())
	}
	return nil
}

// PeekByte returns the next byte without advancing the cursor.
func (r *Reader) PeekByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.data[r.pos], nil
}

func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads and returns the next n bytes as a freshly allocated slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *Reader) ReadUint8() (uint8, error) { return r.ReadByte() }

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := r.engine.Uint16(r.data[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := r.engine.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := r.engine.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadByte()
	return int8(v), err
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}
