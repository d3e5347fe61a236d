package jpdec

import (
	"math/big"

	"github.com/hearhellacopters/jampack-go/value"
)

// makeJSON rewrites the non-JSON-representable variants the data model
// allows into JSON-shaped equivalents, as specified in §4.4's makeJSON
// option. This walks an already fully materialized, depth-bounded tree, so
// ordinary recursion (unlike the wire-level decode walk) is acceptable here.
func makeJSON(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindUndefined:
		return value.String("undefined")

	case value.KindBigInt:
		return bigIntToJSON(v.BigInt())

	case value.KindRegExp:
		return value.Object([]value.Pair{
			{Key: "regexSrc", Val: value.String(v.RegExpSrc())},
			{Key: "regexFlags", Val: value.String(v.RegExpFlags())},
		})

	case value.KindSymbol:
		return value.Object([]value.Pair{
			{Key: "symbolGlobal", Val: value.Bool(v.SymbolGlobal())},
			{Key: "symbolKey", Val: value.String(v.SymbolKey())},
		})

	case value.KindSet:
		items := v.Set()
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = makeJSON(it)
		}
		return value.Array(out)

	case value.KindMap:
		pairs := v.Map()
		out := make([]value.Value, len(pairs))
		for i, p := range pairs {
			out[i] = value.Array([]value.Value{makeJSON(p.Key), makeJSON(p.Val)})
		}
		return value.Array(out)

	case value.KindArray:
		items := v.Array()
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = makeJSON(it)
		}
		return value.Array(out)

	case value.KindObject:
		pairs := v.Object()
		out := make([]value.Pair, len(pairs))
		for i, p := range pairs {
			out[i] = value.Pair{Key: p.Key, Val: makeJSON(p.Val)}
		}
		return value.Object(out)

	default:
		return v
	}
}

// bigIntToJSON widens to a JSON number when the value is within the safe
// integer range (±2^53-1, JSON's de facto integer precision ceiling), else
// falls back to a decimal string to avoid silent precision loss.
func bigIntToJSON(bi *big.Int) value.Value {
	if bi == nil {
		return value.Null()
	}
	const maxSafeInt = 1<<53 - 1
	if bi.IsInt64() {
		n := bi.Int64()
		if n >= -maxSafeInt && n <= maxSafeInt {
			return value.Int(n)
		}
	}
	return value.String(bi.String())
}

// enforceBigInt widens every integer-kind value to BigInt, per §4.4's
// enforceBigInt option.
func enforceBigInt(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindInt:
		return value.BigInt(big.NewInt(v.Int()))

	case value.KindUint:
		bi := new(big.Int).SetUint64(v.Uint())
		return value.BigInt(bi)

	case value.KindArray:
		items := v.Array()
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = enforceBigInt(it)
		}
		return value.Array(out)

	case value.KindSet:
		items := v.Set()
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = enforceBigInt(it)
		}
		return value.Set(out)

	case value.KindObject:
		pairs := v.Object()
		out := make([]value.Pair, len(pairs))
		for i, p := range pairs {
			out[i] = value.Pair{Key: p.Key, Val: enforceBigInt(p.Val)}
		}
		return value.Object(out)

	case value.KindMap:
		pairs := v.Map()
		out := make([]value.MapPair, len(pairs))
		for i, p := range pairs {
			out[i] = value.MapPair{Key: enforceBigInt(p.Key), Val: enforceBigInt(p.Val)}
		}
		return value.Map(out)

	default:
		return v
	}
}
