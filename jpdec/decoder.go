// Package jpdec implements the value-tree decoder (§4.4, C9): a
// single-threaded, stack-driven state machine over a JamPack value section,
// reversing jpenc's encoding using the companion string pool and (in schema
// mode) an out-of-band key dictionary.
package jpdec

import (
	"fmt"
	"math"

	"github.com/hearhellacopters/jampack-go/endian"
	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/internal/options"
	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/strpool"
	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

// Decoder turns a value section plus its string pool back into a value.Value
// tree. A Decoder is reusable; between calls it keeps only its configured
// options and the warnings of the most recent Decode.
type Decoder struct {
	cfg *config

	warnings []errs.Warning
}

// New creates a Decoder with the given options applied over the defaults.
func New(opts ...Option) (*Decoder, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return &Decoder{cfg: cfg}, nil
}

// Warnings returns the non-fatal conditions accumulated by the most recent
// Decode call (§4.9, §7): an out-of-range string pool or key dictionary
// index, or a malformed Date or RegExp extension payload. Header-level
// warnings (version skew, size mismatch, CRC mismatch) come from jampheader.
func (d *Decoder) Warnings() []errs.Warning { return d.warnings }

func (d *Decoder) warn(kind string, err error) {
	d.warnings = append(d.warnings, errs.NewWarning(kind, err))
}

// Decode parses valueSection against pool, the already-parsed string pool
// for this file, using littleEndian framing for any multi-byte fields
// embedded in the value section itself (there are none beyond what the
// jpio.Reader already applies per-field).
func (d *Decoder) Decode(valueSection []byte, pool *strpool.Pool, littleEndian bool) (value.Value, error) {
	d.warnings = nil

	var engine endian.EndianEngine
	if littleEndian {
		engine = endian.GetLittleEndianEngine()
	} else {
		engine = endian.GetBigEndianEngine()
	}

	r := jpio.NewReader(valueSection, engine)

	result, err := d.run(r, pool)
	if err != nil {
		return value.Value{}, err
	}

	if d.cfg.enforceBigInt {
		result = enforceBigInt(result)
	}
	if d.cfg.makeJSON {
		result = makeJSON(result)
	}

	return result, nil
}

type walker struct {
	d     *Decoder
	r     *jpio.Reader
	pool  *strpool.Pool
	stack []*frame

	lastProduced value.Value
	haveResult   bool
}

func (d *Decoder) run(r *jpio.Reader, pool *strpool.Pool) (value.Value, error) {
	w := &walker{d: d, r: r, pool: pool}

	for {
		t, err := r.ReadByte()
		if err != nil {
			if w.haveResult {
				return w.lastProduced, nil
			}
			return value.Value{}, fmt.Errorf("%w: %v", errs.ErrBadTag, err)
		}

		switch {
		case t == tag.Finished || t == tag.Reserved:
			if len(w.stack) == 0 {
				return w.lastProduced, nil
			}
			if err := w.closeTopFrame(); err != nil {
				return value.Value{}, err
			}

		case t == tag.ListEnd:
			if len(w.stack) == 0 {
				return value.Value{}, fmt.Errorf("%w: LIST_END with no open container at offset %d", errs.ErrBadTag, r.Pos()-1)
			}
			if err := w.closeTopFrame(); err != nil {
				return value.Value{}, err
			}

		default:
			if err := w.step(t); err != nil {
				return value.Value{}, err
			}
		}
	}
}

func (w *walker) closeTopFrame() error {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return w.deliver(f.build())
}

// deliver feeds a produced value to the top frame, cascading container
// completions upward iteratively (never via host recursion, per §9).
func (w *walker) deliver(v value.Value) error {
	for {
		if len(w.stack) == 0 {
			w.lastProduced = v
			w.haveResult = true
			return nil
		}

		f := w.stack[len(w.stack)-1]

		switch f.kind {
		case frameArray, frameSet:
			f.items = append(f.items, v)
			f.filled++
			if !f.complete() {
				return nil
			}
			w.stack = w.stack[:len(w.stack)-1]
			v = f.build()
			continue

		case frameObject:
			if f.state == stateKey {
				key, err := convertKey(v)
				if err != nil {
					return err
				}
				f.pendingKey = key
				f.state = stateValue
				return nil
			}
			f.pairs = append(f.pairs, value.Pair{Key: f.pendingKey, Val: v})
			f.filled++
			f.state = stateKey
			if !f.complete() {
				return nil
			}
			w.stack = w.stack[:len(w.stack)-1]
			v = f.build()
			continue

		case frameMap:
			if f.state == stateKey {
				if isForbiddenMapKey(v) {
					return errs.ErrForbiddenKey
				}
				f.pendingMapKey = v
				f.state = stateValue
				return nil
			}
			f.mpairs = append(f.mpairs, value.MapPair{Key: f.pendingMapKey, Val: v})
			f.filled++
			f.state = stateKey
			if !f.complete() {
				return nil
			}
			w.stack = w.stack[:len(w.stack)-1]
			v = f.build()
			continue
		}
	}
}

// step reads and interprets one non-control tag byte, either producing and
// delivering a value immediately, or pushing a new frame to be filled by
// subsequent tags.
func (w *walker) step(t byte) error {
	switch {
	case tag.IsPositiveFixint(t):
		return w.deliver(value.Int(int64(t)))

	case tag.IsNegativeFixint(t):
		return w.deliver(value.Int(tag.NegativeFixintValue(t)))

	case t >= tag.FixObjectBase && t <= tag.FixObjectBase+tag.FixMax:
		return w.openObject(uint64(t - tag.FixObjectBase))

	case t >= tag.FixArrayBase && t <= tag.FixArrayBase+tag.FixMax:
		return w.openArray(uint64(t - tag.FixArrayBase))

	case t >= tag.FixKeyBase && t <= tag.FixKeyBase+tag.FixMax:
		return w.deliverKeyIndex(uint64(t - tag.FixKeyBase))

	case t >= tag.FixStrBase && t <= tag.FixStrBase+tag.FixMax:
		return w.deliverStrIndex(uint64(t - tag.FixStrBase))

	case t == tag.Null:
		return w.deliver(value.Null())
	case t == tag.Undef:
		return w.deliver(value.Undefined())
	case t == tag.False:
		return w.deliver(value.Bool(false))
	case t == tag.True:
		return w.deliver(value.Bool(true))

	case t == tag.ObjectU8 || t == tag.ObjectU16 || t == tag.ObjectU32:
		n, err := w.readAux(t, tag.ObjectU8, tag.ObjectU16, tag.ObjectU32)
		if err != nil {
			return err
		}
		return w.openObject(n)

	case t == tag.Float32:
		f, err := w.r.ReadFloat32()
		if err != nil {
			return err
		}
		// The encoder picks FLOAT_32 only when float32 holds the number
		// exactly, so it decodes to the same Float64 the caller encoded.
		return w.deliver(value.Float64(float64(f)))

	case t == tag.Float64:
		f, err := w.r.ReadFloat64()
		if err != nil {
			return err
		}
		return w.deliver(value.Float64(f))

	case t == tag.UInt8 || t == tag.UInt16 || t == tag.UInt32 || t == tag.UInt64:
		n, err := w.readUnsigned(t)
		if err != nil {
			return err
		}
		return w.deliver(unsignedToValue(n))

	case t == tag.Int8 || t == tag.Int16 || t == tag.Int32 || t == tag.Int64:
		n, err := w.readSigned(t)
		if err != nil {
			return err
		}
		return w.deliver(value.Int(n))

	case t == tag.KeyU8 || t == tag.KeyU16 || t == tag.KeyU32:
		n, err := w.readAux(t, tag.KeyU8, tag.KeyU16, tag.KeyU32)
		if err != nil {
			return err
		}
		return w.deliverKeyIndex(n)

	case t == tag.StrU8 || t == tag.StrU16 || t == tag.StrU32:
		n, err := w.readAux(t, tag.StrU8, tag.StrU16, tag.StrU32)
		if err != nil {
			return err
		}
		return w.deliverStrIndex(n)

	case t == tag.ArrayU8 || t == tag.ArrayU16 || t == tag.ArrayU32:
		n, err := w.readAux(t, tag.ArrayU8, tag.ArrayU16, tag.ArrayU32)
		if err != nil {
			return err
		}
		return w.openArray(n)

	case t == tag.ExtU8 || t == tag.ExtU16 || t == tag.ExtU32:
		return w.openExt(t)

	default:
		return fmt.Errorf("%w: byte 0x%02X at offset %d", errs.ErrBadTag, t, w.r.Pos()-1)
	}
}

func (w *walker) openObject(size uint64) error {
	if size == 0 {
		return w.deliver(value.Object(nil))
	}
	w.stack = append(w.stack, newObjectFrame(size))
	return nil
}

func (w *walker) openArray(size uint64) error {
	if size == 0 {
		return w.deliver(value.Array(nil))
	}
	w.stack = append(w.stack, newArrayFrame(size))
	return nil
}

func (w *walker) deliverKeyIndex(idx uint64) error {
	if len(w.d.cfg.keyDictionary) == 0 {
		return fmt.Errorf("%w: key index %d found but no key dictionary was supplied", errs.ErrMissingKeyDictionary, idx)
	}
	if idx >= uint64(len(w.d.cfg.keyDictionary)) {
		w.d.warn("pool-index", fmt.Errorf("key dictionary index %d out of range (len %d)", idx, len(w.d.cfg.keyDictionary)))
		return w.deliver(value.String(""))
	}
	return w.deliver(value.String(w.d.cfg.keyDictionary[idx]))
}

func (w *walker) deliverStrIndex(idx uint64) error {
	s, ok := w.pool.Get(int(idx))
	if !ok {
		w.d.warn("pool-index", fmt.Errorf("string pool index %d out of range (len %d)", idx, w.pool.Len()))
		return w.deliver(value.String(""))
	}
	return w.deliver(value.String(s))
}

func (w *walker) readAux(t, u8, u16, u32 byte) (uint64, error) {
	switch t {
	case u8:
		v, err := w.r.ReadUint8()
		return uint64(v), err
	case u16:
		v, err := w.r.ReadUint16()
		return uint64(v), err
	case u32:
		v, err := w.r.ReadUint32()
		return uint64(v), err
	default:
		return 0, fmt.Errorf("%w: unexpected aux tag 0x%02X", errs.ErrBadTag, t)
	}
}

func (w *walker) readUnsigned(t byte) (uint64, error) {
	switch t {
	case tag.UInt8:
		v, err := w.r.ReadUint8()
		return uint64(v), err
	case tag.UInt16:
		v, err := w.r.ReadUint16()
		return uint64(v), err
	case tag.UInt32:
		v, err := w.r.ReadUint32()
		return uint64(v), err
	default:
		return w.r.ReadUint64()
	}
}

func (w *walker) readSigned(t byte) (int64, error) {
	switch t {
	case tag.Int8:
		v, err := w.r.ReadInt8()
		return int64(v), err
	case tag.Int16:
		v, err := w.r.ReadInt16()
		return int64(v), err
	case tag.Int32:
		v, err := w.r.ReadInt32()
		return int64(v), err
	default:
		return w.r.ReadInt64()
	}
}

// unsignedToValue keeps values that fit an int64 as KindInt (the common
// case, and the kind most encoder paths actually produce for non-negative
// numbers via writeSigned/writeUnsigned), reserving KindUint for magnitudes
// beyond int64's range.
func unsignedToValue(n uint64) value.Value {
	if n <= math.MaxInt64 {
		return value.Int(int64(n))
	}
	return value.Uint(n)
}

func (w *walker) openExt(lenTag byte) error {
	length, err := w.readAux(lenTag, tag.ExtU8, tag.ExtU16, tag.ExtU32)
	if err != nil {
		return err
	}
	typeByte, err := w.r.ReadByte()
	if err != nil {
		return err
	}

	switch typeByte {
	case tag.ExtMap:
		if length == 0 {
			return w.deliver(value.Map(nil))
		}
		w.stack = append(w.stack, newMapFrame(length))
		return nil
	case tag.ExtSet:
		if length == 0 {
			return w.deliver(value.Set(nil))
		}
		w.stack = append(w.stack, newSetFrame(length))
		return nil
	}

	payload, err := w.r.ReadBytes(int(length))
	if err != nil {
		return err
	}

	return w.deliver(w.decodeExtPayload(typeByte, payload))
}

func (w *walker) decodeExtPayload(typeByte byte, payload []byte) value.Value {
	switch typeByte {
	case tag.ExtDate:
		if nanos, ok := decodeDate(payload); ok {
			return value.DateUnixNanos(nanos)
		}
		w.d.warn("ext-date", fmt.Errorf("malformed Date payload of %d bytes", len(payload)))
		return value.Ext(typeByte, payload)

	case tag.ExtSymbol:
		global, key := decodeSymbol(payload)
		return value.Symbol(global, key)

	case tag.ExtRegExp:
		if src, flags, ok := decodeRegExp(payload); ok {
			return value.RegExp(src, flags)
		}
		w.d.warn("ext-regexp", fmt.Errorf("malformed RegExp payload of %d bytes", len(payload)))
		return value.Ext(typeByte, payload)

	default:
		if bk, ok := extTypeToBytesKind(typeByte); ok {
			return value.Bytes(bk, payload)
		}
	}

	// §4.9's unknown-extension law: no fatal error, carry the raw bytes
	// through so a re-encode reproduces them byte-identical. User-registered
	// extensions are resolved to native types at the jampack.go convenience
	// layer, above this package, since value.Value is a closed sum type that
	// cannot itself hold an arbitrary decoded Go type.
	return value.Ext(typeByte, payload)
}
