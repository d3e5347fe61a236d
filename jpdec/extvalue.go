package jpdec

import (
	"encoding/binary"
	"time"

	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

func extTypeToBytesKind(t byte) (value.BytesKind, bool) {
	switch t {
	case tag.ExtInt8Array:
		return value.BytesInt8, true
	case tag.ExtUint8Array:
		return value.BytesUint8, true
	case tag.ExtUint8ClampedArray:
		return value.BytesUint8Clamped, true
	case tag.ExtInt16Array:
		return value.BytesInt16, true
	case tag.ExtUint16Array:
		return value.BytesUint16, true
	case tag.ExtInt32Array:
		return value.BytesInt32, true
	case tag.ExtUint32Array:
		return value.BytesUint32, true
	case tag.ExtFloat32Array:
		return value.BytesFloat32, true
	case tag.ExtFloat64Array:
		return value.BytesFloat64, true
	case tag.ExtBigInt64Array:
		return value.BytesInt64, true
	case tag.ExtBigUint64Array:
		return value.BytesUint64, true
	case tag.ExtBuffer:
		return value.BytesGeneric, true
	default:
		return 0, false
	}
}

// decodeDate reverses jpenc's msgpack-style timestamp packing. The 12-byte
// case is accepted as an ordinary valid timestamp rather than erroring after
// computing the value — a deliberate deviation from the reference decoder's
// fall-through bug on this exact case (§9).
func decodeDate(payload []byte) (int64, bool) {
	switch len(payload) {
	case 4:
		seconds := int64(binary.BigEndian.Uint32(payload))
		return seconds * int64(time.Second), true
	case 8:
		packed := binary.BigEndian.Uint64(payload)
		seconds := int64(packed & ((1 << 34) - 1))
		nsec := int64(packed >> 34)
		return seconds*int64(time.Second) + nsec, true
	case 12:
		nsec := int64(binary.BigEndian.Uint32(payload[0:4]))
		seconds := int64(binary.BigEndian.Uint64(payload[4:12]))
		return seconds*int64(time.Second) + nsec, true
	default:
		return 0, false
	}
}

func decodeSymbol(payload []byte) (global bool, key string) {
	if len(payload) == 0 {
		return false, ""
	}
	return payload[0] != 0, string(payload[1:])
}

func decodeRegExp(payload []byte) (src, flags string, ok bool) {
	if len(payload) < 4 {
		return "", "", false
	}
	n := int(binary.LittleEndian.Uint32(payload[0:4]))
	if n < 0 || 4+n > len(payload) {
		return "", "", false
	}
	return string(payload[4 : 4+n]), string(payload[4+n:]), true
}
