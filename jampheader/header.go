// Package jampheader implements the fixed-layout file header (§6) and the
// flag bits, magic/endianness selection and CRC/compress/encrypt transform
// ordering described in §4.5: builds and parses the header, and enforces
// that VALUE_SIZE+STR_SIZE equals the logical pre-transform data length
// while DATA_SIZE is the stored, post-transform length (§3 invariants).
package jampheader

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/endian"
	"github.com/hearhellacopters/jampack-go/errs"
)

// Magic numbers. 0x504A ("JP" read little-endian) selects little-endian for
// the rest of the file; 0x4A50 ("PJ") selects big-endian.
const (
	MagicLittleEndian uint16 = 0x504A
	MagicBigEndian    uint16 = 0x4A50
)

// VersionMajor/VersionMinor identify the format version this implementation
// writes. A reader encountering a newer major version issues a Warning
// rather than a fatal error (§4.9, §7).
const (
	VersionMajor uint8 = 1
	VersionMinor uint8 = 0
)

// Flag bits within the header's single flags byte (offset 5, §6).
const (
	FlagLargeFile           = 1 << 0
	FlagCompressed          = 1 << 1
	FlagCrc32               = 1 << 2
	FlagEncrypted           = 1 << 3
	FlagEncryptionExcluded  = 1 << 4
	FlagKeyStripped         = 1 << 5
	// bits 6-7 reserved, must be zero
)

// BaseHeaderSize is the fixed portion of the header before the conditional
// CRC32 and encryption-key tails (§6: offsets 0-31).
const BaseHeaderSize = 32

// Header is the fixed 32/36/40-byte file header.
type Header struct {
	VersionMajor uint8
	VersionMinor uint8
	Flags        uint8

	ValueSize uint64
	StrSize   uint64
	DataSize  uint64

	CRC32         uint32 // valid iff Flags&FlagCrc32 != 0
	EncryptionKey uint32 // valid iff Flags&FlagEncrypted != 0 && Flags&FlagEncryptionExcluded == 0

	littleEndian bool
}

// New creates a Header with the current version and little-endian byte order.
func New() *Header {
	return &Header{VersionMajor: VersionMajor, VersionMinor: VersionMinor, littleEndian: true}
}

func (h *Header) SetLittleEndian() { h.littleEndian = true }
func (h *Header) SetBigEndian()    { h.littleEndian = false }
func (h *Header) IsLittleEndian() bool { return h.littleEndian }

// Engine returns the endian engine matching the header's declared byte order.
func (h *Header) Engine() endian.EndianEngine {
	if h.littleEndian {
		return endian.GetLittleEndianEngine()
	}
	return endian.GetBigEndianEngine()
}

func (h *Header) HasFlag(bit uint8) bool { return h.Flags&bit != 0 }
func (h *Header) SetFlag(bit uint8)      { h.Flags |= bit }
func (h *Header) ClearFlag(bit uint8)    { h.Flags &^= bit }

// Size returns the total on-disk header length: 32 bytes, plus 4 for the
// trailing CRC32 if present, plus 4 for the trailing encryption key if
// present and not excluded.
func (h *Header) Size() int {
	n := BaseHeaderSize
	if h.HasFlag(FlagCrc32) {
		n += 4
	}
	if h.HasFlag(FlagEncrypted) && !h.HasFlag(FlagEncryptionExcluded) {
		n += 4
	}
	return n
}

// Bytes serializes the header, including its conditional CRC32/key tail.
func (h *Header) Bytes() []byte {
	size := h.Size()
	b := make([]byte, size)
	engine := h.Engine()

	magic := MagicLittleEndian
	if !h.littleEndian {
		magic = MagicBigEndian
	}
	// The magic is always stored as a little-endian uint16, so the two byte
	// orders begin with different bytes: 0x504A is 'J','P' and 0x4A50 is
	// 'P','J'. Parse reads it the same way to tell the orders apart.
	endian.GetLittleEndianEngine().PutUint16(b[0:2], magic)

	b[2] = h.VersionMajor
	b[3] = h.VersionMinor
	b[4] = byte(size)
	b[5] = h.Flags
	b[6] = 0
	b[7] = 0

	engine.PutUint64(b[8:16], h.ValueSize)
	engine.PutUint64(b[16:24], h.StrSize)
	engine.PutUint64(b[24:32], h.DataSize)

	off := BaseHeaderSize
	if h.HasFlag(FlagCrc32) {
		engine.PutUint32(b[off:off+4], h.CRC32)
		off += 4
	}
	if h.HasFlag(FlagEncrypted) && !h.HasFlag(FlagEncryptionExcluded) {
		engine.PutUint32(b[off:off+4], h.EncryptionKey)
		off += 4
	}

	return b
}

// Parse reads a header from the front of data; the header occupies
// header.Size() bytes. It returns the header, a fatal error and a warning:
// the fatal error is ErrBadMagic if the magic bytes match neither byte order,
// and the warning is a Warning-wrapped error (non-fatal, per §4.9) if the
// major version is newer than this reader's.
func Parse(data []byte) (*Header, error, error) {
	if len(data) < BaseHeaderSize {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", errs.ErrBadHeader, BaseHeaderSize, len(data)), nil
	}

	h := &Header{}

	// The magic is stored as a little-endian uint16 (see Bytes); its value
	// says which byte order the rest of the header uses.
	leMagic := endian.GetLittleEndianEngine().Uint16(data[0:2])

	switch {
	case leMagic == MagicLittleEndian:
		h.littleEndian = true
	case leMagic == MagicBigEndian:
		h.littleEndian = false
	default:
		return nil, fmt.Errorf("%w: got bytes 0x%02X 0x%02X", errs.ErrBadMagic, data[0], data[1]), nil
	}

	engine := h.Engine()

	h.VersionMajor = data[2]
	h.VersionMinor = data[3]
	headerSize := int(data[4])
	h.Flags = data[5]
	// data[6], data[7] reserved, ignored on read

	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: declared header size %d exceeds available %d bytes", errs.ErrBadHeader, headerSize, len(data)), nil
	}

	h.ValueSize = engine.Uint64(data[8:16])
	h.StrSize = engine.Uint64(data[16:24])
	h.DataSize = engine.Uint64(data[24:32])

	off := BaseHeaderSize
	if h.HasFlag(FlagCrc32) {
		if off+4 > headerSize {
			return nil, fmt.Errorf("%w: CRC32 flag set but header too short", errs.ErrBadHeader), nil
		}
		h.CRC32 = engine.Uint32(data[off : off+4])
		off += 4
	}
	if h.HasFlag(FlagEncrypted) && !h.HasFlag(FlagEncryptionExcluded) {
		if off+4 > headerSize {
			return nil, fmt.Errorf("%w: encryption key expected but header too short", errs.ErrBadHeader), nil
		}
		h.EncryptionKey = engine.Uint32(data[off : off+4])
		off += 4
	}

	if off != headerSize {
		return nil, fmt.Errorf("%w: header size %d does not match fields present (expected %d)", errs.ErrBadHeader, headerSize, off), nil
	}

	var warning error
	if h.VersionMajor > VersionMajor {
		warning = errs.NewWarning("version", fmt.Errorf("file major version %d is newer than this reader's %d", h.VersionMajor, VersionMajor))
	}

	return h, nil, warning
}
