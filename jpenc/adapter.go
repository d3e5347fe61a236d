package jpenc

import (
	"fmt"
	"math/big"
	"time"

	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/value"
)

// FromAny adapts a plain Go value into the value.Value tree this package
// encodes, per the "dynamic typing at the boundary" design note: callers may
// either build a value.Value directly or hand in native Go types and let
// FromAny do the conversion. registry, if non-nil, is offered any value this
// adapter doesn't recognize natively, mirroring the extension dispatch order
// described in §4.8.
func FromAny(v any, registry extRegistry) (value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return x, nil
	case bool:
		return value.Bool(x), nil
	case int:
		return value.Int(int64(x)), nil
	case int8:
		return value.Int(int64(x)), nil
	case int16:
		return value.Int(int64(x)), nil
	case int32:
		return value.Int(int64(x)), nil
	case int64:
		return value.Int(x), nil
	case uint:
		return value.Uint(uint64(x)), nil
	case uint8:
		return value.Uint(uint64(x)), nil
	case uint16:
		return value.Uint(uint64(x)), nil
	case uint32:
		return value.Uint(uint64(x)), nil
	case uint64:
		return value.Uint(x), nil
	case float32:
		return value.Float32(x), nil
	case float64:
		return value.Float64(x), nil
	case string:
		return value.String(x), nil
	case []byte:
		return value.Bytes(value.BytesUint8, x), nil
	case *big.Int:
		return value.BigInt(x), nil
	case time.Time:
		return value.Date(x), nil
	case []any:
		items := make([]value.Value, len(x))
		for i, e := range x {
			cv, err := FromAny(e, registry)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = cv
		}
		return value.Array(items), nil
	case map[string]any:
		pairs := make([]value.Pair, 0, len(x))
		for k, e := range x {
			cv, err := FromAny(e, registry)
			if err != nil {
				return value.Value{}, err
			}
			pairs = append(pairs, value.Pair{Key: k, Val: cv})
		}
		return value.Object(pairs), nil
	default:
		if registry != nil {
			ext, ok, err := registry.Encode(v)
			if err != nil {
				return value.Value{}, err
			}
			if ok {
				return ext, nil
			}
		}
		return value.Value{}, fmt.Errorf("%w: unsupported Go type %T", errs.ErrUnsupportedType, v)
	}
}

// extRegistry is the narrow slice of *extreg.Registry's surface FromAny
// needs; FromAny accepts any implementation of it, not only *extreg.Registry.
type extRegistry interface {
	Encode(v any) (value.Value, bool, error)
}
