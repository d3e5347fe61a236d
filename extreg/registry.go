// Package extreg implements the extension-type registry (§4.8, C11): the
// user-assignable range 0x00-0xCF of extension type bytes, through which
// callers teach the codec how to encode and decode application-specific
// values that the built-in tag vocabulary doesn't cover.
//
// The codec's own reserved extension kinds (Map, Set, Symbol, RegExp, typed
// arrays, Buffer, Date — tag.ExtMap..tag.ExtDate) are dispatched directly by
// jpenc/jpdec and never pass through this registry; this package exists for
// the 0x00-0xCF range a library consumer owns.
package extreg

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

// EncodeFunc converts an application value into raw extension payload bytes.
// ok is false when v is not a value this extension knows how to encode, so
// the registry can fall through to the next registered candidate.
type EncodeFunc func(v any) (payload []byte, ok bool, err error)

// DecodeFunc reverses an EncodeFunc, reconstructing the application value
// from its type byte and payload bytes.
type DecodeFunc func(typeByte byte, payload []byte) (any, error)

type entry struct {
	typeByte byte
	encode   EncodeFunc
	decode   DecodeFunc
}

// Registry holds the ordered set of user-registered extension encoders and
// a direct type-byte-to-decoder index. Candidate encoders are tried in
// registration order (§4.8); the first one reporting ok=true wins.
type Registry struct {
	byType  map[byte]*entry
	ordered []*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byType: make(map[byte]*entry)}
}

// Register adds a type byte with its encode/decode pair. typeByte must be
// in the user-assignable range 0x00-0xCF (tag.UserExtMax); re-registering an
// already-used type byte replaces its encoder in place but keeps its
// original position in the candidate-dispatch order.
func (r *Registry) Register(typeByte byte, encode EncodeFunc, decode DecodeFunc) error {
	if tag.IsReservedExt(typeByte) {
		return fmt.Errorf("%w: extension type 0x%02X is reserved for the codec (0xD0-0xFF)", errs.ErrUnknownExtension, typeByte)
	}

	if e, exists := r.byType[typeByte]; exists {
		e.encode = encode
		e.decode = decode
		return nil
	}

	e := &entry{typeByte: typeByte, encode: encode, decode: decode}
	r.byType[typeByte] = e
	r.ordered = append(r.ordered, e)
	return nil
}

// Encode tries each registered encoder in registration order and returns the
// first one that claims v, wrapped as an Ext value. ok is false if no
// registered extension recognizes v.
func (r *Registry) Encode(v any) (out value.Value, ok bool, err error) {
	// A caller-supplied value.Value already carrying KindExt is passed
	// through untouched rather than re-dispatched (§4.8's "pass-through for
	// pre-wrapped extension data").
	if wrapped, isValue := v.(value.Value); isValue && wrapped.Kind() == value.KindExt {
		return wrapped, true, nil
	}

	for _, e := range r.ordered {
		payload, matched, encErr := e.encode(v)
		if encErr != nil {
			return value.Value{}, false, encErr
		}
		if matched {
			return value.Ext(e.typeByte, payload), true, nil
		}
	}
	return value.Value{}, false, nil
}

// Decode dispatches typeByte/payload to its registered decoder. An unknown
// user type byte is not fatal (§4.9's unknown-extension law): the caller
// gets ErrUnknownExtension and may fall back to carrying the raw Ext value
// through unchanged.
func (r *Registry) Decode(typeByte byte, payload []byte) (any, error) {
	e, ok := r.byType[typeByte]
	if !ok {
		return nil, fmt.Errorf("%w: no decoder registered for extension type 0x%02X", errs.ErrUnknownExtension, typeByte)
	}
	return e.decode(typeByte, payload)
}

// Has reports whether typeByte has a registered decoder.
func (r *Registry) Has(typeByte byte) bool {
	_, ok := r.byType[typeByte]
	return ok
}
