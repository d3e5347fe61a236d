package tag

import "math"

// SizeClass describes how to emit a count or a scalar integer: the tag byte
// to write, and the number of auxiliary bytes that follow it (0 when the
// value is embedded in the tag itself, as with fixint or an inline
// fix-container count).
type SizeClass struct {
	Tag    Tag
	AuxLen int
}

// ClassifyUnsigned picks the smallest unsigned representation that fits v
// unambiguously: positive fixint for 0-127, else the smallest of u8/u16/u32/u64.
func ClassifyUnsigned(v uint64) SizeClass {
	if v <= uint64(PositiveFixintMax) {
		return SizeClass{Tag: Tag(v), AuxLen: 0}
	}
	switch {
	case v <= math.MaxUint8:
		return SizeClass{Tag: UInt8, AuxLen: 1}
	case v <= math.MaxUint16:
		return SizeClass{Tag: UInt16, AuxLen: 2}
	case v <= math.MaxUint32:
		return SizeClass{Tag: UInt32, AuxLen: 4}
	default:
		return SizeClass{Tag: UInt64, AuxLen: 8}
	}
}

// ClassifySigned picks the smallest signed representation for a negative
// value: negative fixint for -32..-1, else the smallest of i8/i16/i32/i64.
// Non-negative values should go through ClassifyUnsigned instead, per the
// size-class rule in §4.1 ("negative integers use the signed family;
// non-negatives use the unsigned family").
func ClassifySigned(v int64) SizeClass {
	if v >= -32 && v < 0 {
		return SizeClass{Tag: Tag(0x100 + v), AuxLen: 0}
	}
	switch {
	case v >= math.MinInt8:
		return SizeClass{Tag: Int8, AuxLen: 1}
	case v >= math.MinInt16:
		return SizeClass{Tag: Int16, AuxLen: 2}
	case v >= math.MinInt32:
		return SizeClass{Tag: Int32, AuxLen: 4}
	default:
		return SizeClass{Tag: Int64, AuxLen: 8}
	}
}

// ClassifyCount picks the smallest of the {fix, u8, u16, u32} count family for
// a container of the given family. fixBase is the inline-count tag base
// (e.g. FixObjectBase), or 0 for a family with no fix range; wideU8, wideU16
// and wideU32 are the family's u8/u16/u32 tags (e.g. ObjectU8). Counts >= 2^32
// are a SizeTooLarge error, per §4.1.
func ClassifyCount(n uint64, fixBase Tag, wideU8, wideU16, wideU32 Tag) (SizeClass, bool) {
	if fixBase != 0 && n <= FixMax {
		return SizeClass{Tag: fixBase + Tag(n), AuxLen: 0}, true
	}
	switch {
	case n <= math.MaxUint8:
		return SizeClass{Tag: wideU8, AuxLen: 1}, true
	case n <= math.MaxUint16:
		return SizeClass{Tag: wideU16, AuxLen: 2}, true
	case n <= math.MaxUint32:
		return SizeClass{Tag: wideU32, AuxLen: 4}, true
	default:
		return SizeClass{}, false
	}
}

// Float32RoundTrips reports whether f, narrowed to float32 and widened back to
// float64, reproduces f bit-for-bit. When true, the encoder may use the
// Float32 tag instead of Float64 (§4.1).
func Float32RoundTrips(f float64) bool {
	return float64(float32(f)) == f
}
