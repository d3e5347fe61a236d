package jpenc

import (
	"encoding/binary"
	"time"

	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

// bytesKindExtType maps a value.BytesKind to the reserved extension type
// byte that carries it on the wire (§4.1's reserved assignments).
func bytesKindExtType(k value.BytesKind) byte {
	switch k {
	case value.BytesInt8:
		return tag.ExtInt8Array
	case value.BytesUint8:
		return tag.ExtUint8Array
	case value.BytesUint8Clamped:
		return tag.ExtUint8ClampedArray
	case value.BytesInt16:
		return tag.ExtInt16Array
	case value.BytesUint16:
		return tag.ExtUint16Array
	case value.BytesInt32:
		return tag.ExtInt32Array
	case value.BytesUint32:
		return tag.ExtUint32Array
	case value.BytesFloat32:
		return tag.ExtFloat32Array
	case value.BytesFloat64:
		return tag.ExtFloat64Array
	case value.BytesInt64:
		return tag.ExtBigInt64Array
	case value.BytesUint64:
		return tag.ExtBigUint64Array
	default:
		return tag.ExtBuffer
	}
}

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

// encodeDate packs a time.Time into the msgpack-style timestamp extension
// payload this codec borrows for its Date kind: the smallest of a 4-byte
// (whole seconds, non-negative, no fractional part), 8-byte (30-bit
// nanoseconds packed with a 34-bit non-negative seconds count) or 12-byte
// (uint32 nanoseconds plus a full signed int64 seconds count, covering
// negative/pre-1970 instants) representation that fits losslessly.
func encodeDate(nanos int64) []byte {
	seconds := nanos / int64(time.Second)
	nsec := nanos % int64(time.Second)
	if nsec < 0 {
		nsec += int64(time.Second)
		seconds--
	}

	if nsec == 0 && seconds >= 0 && seconds <= 0xFFFFFFFF {
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, uint32(seconds))
		return out
	}

	if seconds >= 0 && seconds < (1<<34) {
		packed := (uint64(nsec) << 34) | uint64(seconds)
		out := make([]byte, 8)
		binary.BigEndian.PutUint64(out, packed)
		return out
	}

	out := make([]byte, 12)
	binary.BigEndian.PutUint32(out[0:4], uint32(nsec))
	binary.BigEndian.PutUint64(out[4:12], uint64(seconds))
	return out
}

// decodeDate reverses encodeDate. The 12-byte case is handled as a normal,
// valid timestamp rather than erroring after computing the value (§9's
// documented deviation from the reference decoder's fall-through bug).
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

// encodeSymbol packs a Symbol's global flag and key into one payload.
func encodeSymbol(global bool, key string) []byte {
	out := make([]byte, 1+len(key))
	if global {
		out[0] = 1
	}
	copy(out[1:], key)
	return out
}

func decodeSymbol(payload []byte) (global bool, key string) {
	if len(payload) == 0 {
		return false, ""
	}
	return payload[0] != 0, string(payload[1:])
}

// encodeRegExp packs a RegExp's source and flags into one payload as a
// 4-byte little-endian source length followed by the source bytes then the
// flags bytes; this split is this implementation's own choice (the spec
// reserves the 0xF1 type byte but does not define a RegExp payload layout).
func encodeRegExp(src, flags string) []byte {
	out := make([]byte, 4+len(src)+len(flags))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(src)))
	copy(out[4:], src)
	copy(out[4+len(src):], flags)
	return out
}

func decodeRegExp(payload []byte) (src, flags string, ok bool) {
	if len(payload) < 4 {
		return "", "", false
	}
	n := int(binary.LittleEndian.Uint32(payload[0:4]))
	if n < 0 || 4+n > len(payload) {
		return "", "", false
	}
	src = string(payload[4 : 4+n])
	flags = string(payload[4+n:])
	return src, flags, true
}
