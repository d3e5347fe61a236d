// Package value defines the tagged value tree that the JamPack codec encodes
// and decodes.
//
// A Value is a closed sum type: exactly one of its accessors is meaningful
// for a given Kind. Values are built through the constructor functions (Null,
// Int, String, Array, Object, ...) and are
// immutable once constructed, mirroring the "frozen after one pass" lifecycle
// described for encoded files.
package value

import (
	"math/big"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindInt
	KindUint
	KindBigInt
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindDate
	KindRegExp
	KindSymbol
	KindArray
	KindObject
	KindMap
	KindSet
	KindExt
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindUndefined:
		return "Undefined"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindUint:
		return "UInt"
	case KindBigInt:
		return "BigInt"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindDate:
		return "Date"
	case KindRegExp:
		return "RegExp"
	case KindSymbol:
		return "Symbol"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	case KindMap:
		return "Map"
	case KindSet:
		return "Set"
	case KindExt:
		return "Ext"
	default:
		return "Unknown"
	}
}

// BytesKind enumerates the typed-array flavors carried by a Bytes value.
type BytesKind uint8

const (
	BytesGeneric BytesKind = iota
	BytesInt8
	BytesUint8
	BytesUint8Clamped
	BytesInt16
	BytesUint16
	BytesInt32
	BytesUint32
	BytesFloat32
	BytesFloat64
	BytesInt64
	BytesUint64
)

// Pair is a single (key, value) entry of an Object, in producer enumeration order.
type Pair struct {
	Key string
	Val Value
}

// MapPair is a single (key, value) entry of a Map. Map keys may be any Value.
type MapPair struct {
	Key Value
	Val Value
}

// Value is the tagged sum type described in the data model: Null, Undefined,
// Bool, Int, UInt, BigInt, Float32, Float64, String, Bytes, Date, RegEx,
// Symbol, Array, Object, Map, Set, Ext.
type Value struct {
	kind Kind

	b bool

	i int64
	u uint64

	big *big.Int

	f32 float32
	f64 float64

	str string

	bytesKind BytesKind
	bytes     []byte

	dateNanos int64

	regexSrc   string
	regexFlags string

	symGlobal bool
	symKey    string

	arr []Value
	obj []Pair
	m   []MapPair
	set []Value

	extType    byte
	extPayload []byte
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// --- Constructors ---

func Null() Value      { return Value{kind: KindNull} }
func Undefined() Value { return Value{kind: KindUndefined} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value   { return Value{kind: KindInt, i: i} }
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// BigInt wraps an arbitrary precision integer. Per the wire format, bigints
// are always carried through the codec as a 64-bit INT/UINT tag (§4.1), so
// magnitude beyond 64 bits is not preserved across a round trip.
func BigInt(i *big.Int) Value { return Value{kind: KindBigInt, big: i} }

func Float32(f float32) Value { return Value{kind: KindFloat32, f32: f} }
func Float64(f float64) Value { return Value{kind: KindFloat64, f64: f} }

func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes wraps a typed-array-flavored byte buffer.
func Bytes(kind BytesKind, raw []byte) Value {
	return Value{kind: KindBytes, bytesKind: kind, bytes: raw}
}

// Date wraps a point in time, stored internally with nanosecond precision.
func Date(t time.Time) Value { return Value{kind: KindDate, dateNanos: t.UnixNano()} }

// DateUnixNanos constructs a Date directly from a Unix nanosecond count.
func DateUnixNanos(nanos int64) Value { return Value{kind: KindDate, dateNanos: nanos} }

func RegExp(src, flags string) Value {
	return Value{kind: KindRegExp, regexSrc: src, regexFlags: flags}
}

func Symbol(global bool, key string) Value {
	return Value{kind: KindSymbol, symGlobal: global, symKey: key}
}

func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

func Object(pairs []Pair) Value { return Value{kind: KindObject, obj: pairs} }

func Map(pairs []MapPair) Value { return Value{kind: KindMap, m: pairs} }

func Set(items []Value) Value { return Value{kind: KindSet, set: items} }

// Ext wraps a raw extension payload under a type byte. typeByte in 0x00-0xCF
// is user-defined; 0xD0-0xFF is reserved for the codec's own extension kinds
// (Map, Set, Symbol, RegEx, typed arrays, Buffer, Date).
func Ext(typeByte byte, payload []byte) Value {
	return Value{kind: KindExt, extType: typeByte, extPayload: payload}
}

// --- Accessors ---

func (v Value) Bool() bool             { return v.b }
func (v Value) Int() int64             { return v.i }
func (v Value) Uint() uint64           { return v.u }
func (v Value) BigInt() *big.Int       { return v.big }
func (v Value) Float32() float32       { return v.f32 }
func (v Value) Float64() float64       { return v.f64 }
func (v Value) String() string         { return v.str }
func (v Value) BytesKind() BytesKind   { return v.bytesKind }
func (v Value) Bytes() []byte          { return v.bytes }
func (v Value) DateUnixNanos() int64   { return v.dateNanos }
func (v Value) Date() time.Time        { return time.Unix(0, v.dateNanos) }
func (v Value) RegExpSrc() string      { return v.regexSrc }
func (v Value) RegExpFlags() string    { return v.regexFlags }
func (v Value) SymbolGlobal() bool     { return v.symGlobal }
func (v Value) SymbolKey() string      { return v.symKey }
func (v Value) Array() []Value         { return v.arr }
func (v Value) Object() []Pair         { return v.obj }
func (v Value) Map() []MapPair         { return v.m }
func (v Value) Set() []Value           { return v.set }
func (v Value) ExtType() byte          { return v.extType }
func (v Value) ExtPayload() []byte     { return v.extPayload }

// IsJSON reports whether v (transitively) contains only variants that a JSON
// document can represent natively: everything except Undefined, BigInt, Map,
// Set, Symbol, RegExp, Date, Bytes and Ext.
func (v Value) IsJSON() bool {
	switch v.kind {
	case KindUndefined, KindBigInt, KindMap, KindSet, KindSymbol, KindRegExp, KindDate, KindBytes, KindExt:
		return false
	case KindArray:
		for _, e := range v.arr {
			if !e.IsJSON() {
				return false
			}
		}
		return true
	case KindObject:
		for _, p := range v.obj {
			if !p.Val.IsJSON() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal reports structural equality, preserving numeric kind, string
// identity, container order and typed-array element kind.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull, KindUndefined:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindUint:
		return a.u == b.u
	case KindBigInt:
		if a.big == nil || b.big == nil {
			return a.big == b.big
		}
		return a.big.Cmp(b.big) == 0
	case KindFloat32:
		return a.f32 == b.f32
	case KindFloat64:
		return a.f64 == b.f64
	case KindString:
		return a.str == b.str
	case KindBytes:
		if a.bytesKind != b.bytesKind || len(a.bytes) != len(b.bytes) {
			return false
		}
		for i := range a.bytes {
			if a.bytes[i] != b.bytes[i] {
				return false
			}
		}
		return true
	case KindDate:
		return a.dateNanos == b.dateNanos
	case KindRegExp:
		return a.regexSrc == b.regexSrc && a.regexFlags == b.regexFlags
	case KindSymbol:
		return a.symGlobal == b.symGlobal && a.symKey == b.symKey
	case KindArray:
		return equalSlice(a.arr, b.arr)
	case KindSet:
		return equalSlice(a.set, b.set)
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for i := range a.obj {
			if a.obj[i].Key != b.obj[i].Key || !Equal(a.obj[i].Val, b.obj[i].Val) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for i := range a.m {
			if !Equal(a.m[i].Key, b.m[i].Key) || !Equal(a.m[i].Val, b.m[i].Val) {
				return false
			}
		}
		return true
	case KindExt:
		if a.extType != b.extType || len(a.extPayload) != len(b.extPayload) {
			return false
		}
		for i := range a.extPayload {
			if a.extPayload[i] != b.extPayload[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalSlice(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
