// Package jpenc implements the value-tree encoder (§4.3, C8): a depth-first,
// explicit-stack walk over a value.Value tree that emits tagged bytes to a
// value section while interning strings (and, in schema mode, object keys)
// into pool sections built alongside it.
package jpenc

import (
	"fmt"
	"sync/atomic"

	"github.com/hearhellacopters/jampack-go/endian"
	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/internal/options"
	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/strpool"
	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

// Encoder walks a value.Value tree and produces a JamPack value section plus
// its companion string pool section; in schema mode the key dictionary is
// kept out of the file and exposed through KeysArray. An Encoder is reusable across
// calls; a concurrent call made while one is already in flight transparently
// clones the instance and runs there (§5), so no two calls ever share
// in-progress state.
type Encoder struct {
	cfg *config

	busy atomic.Bool

	// Exposed read-only results of the most recent Encode call (§6).
	keysArray     []string
	hasExtensions bool
	validJSON     bool
}

// New creates an Encoder with the given options applied over the defaults.
func New(opts ...Option) (*Encoder, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return &Encoder{cfg: cfg}, nil
}

// clone copies this Encoder's configuration (never its in-flight state) into
// a fresh instance, per the reentrancy contract in §5.
func (e *Encoder) clone() *Encoder {
	cfgCopy := *e.cfg
	return &Encoder{cfg: &cfgCopy}
}

// KeysArray returns the captured key dictionary from the most recent Encode
// call made with WithStripKeys; nil otherwise.
func (e *Encoder) KeysArray() []string { return e.keysArray }

// HasExtensions reports whether the most recent Encode call emitted any
// extension value (built-in or user-registered).
func (e *Encoder) HasExtensions() bool { return e.hasExtensions }

// ValidJSON reports whether the most recently encoded root value is
// representable in JSON without lossy normalization (value.Value.IsJSON).
func (e *Encoder) ValidJSON() bool { return e.validJSON }

// EncodeAny adapts v through FromAny (using this Encoder's configured
// extension registry, if any, for types FromAny doesn't recognize natively)
// before encoding it.
func (e *Encoder) EncodeAny(v any) (valueSection, strSection []byte, err error) {
	var reg extRegistry
	if e.cfg.registry != nil {
		reg = e.cfg.registry
	}
	root, err := FromAny(v, reg)
	if err != nil {
		return nil, nil, err
	}
	return e.Encode(root)
}

// Encode serializes root, returning the value section and the string pool
// section. Neither carries a header or has been through the CRC, compression
// or encryption pipeline; jampheader.Pack applies those.
func (e *Encoder) Encode(root value.Value) (valueSection, strSection []byte, err error) {
	if !e.busy.CompareAndSwap(false, true) {
		return e.clone().Encode(root)
	}
	defer e.busy.Store(false)

	e.hasExtensions = false
	e.validJSON = root.IsJSON()

	engine := e.engine()

	valueWriter := jpio.NewWriter(engine)
	defer valueWriter.Release()

	pool := strpool.New()
	var keyPool *strpool.Pool
	if e.cfg.stripKeys {
		keyPool = strpool.New()
	}

	w := &walker{
		enc:      e,
		w:        valueWriter,
		pool:     pool,
		keyPool:  keyPool,
		maxDepth: e.cfg.maxDepth,
	}

	if err := w.run(root); err != nil {
		return nil, nil, err
	}
	valueWriter.WriteByte(tag.Finished)

	strWriter := jpio.NewStringWriter(engine)
	defer strWriter.Release()
	if err := pool.WriteSection(strWriter); err != nil {
		return nil, nil, err
	}

	if keyPool != nil {
		e.keysArray = keyPool.Values()
	} else {
		e.keysArray = nil
	}

	vsec := append([]byte(nil), valueWriter.Bytes()...)
	ssec := append([]byte(nil), strWriter.Bytes()...)
	return vsec, ssec, nil
}

func (e *Encoder) engine() endian.EndianEngine {
	if e.cfg.littleEndian {
		return endian.GetLittleEndianEngine()
	}
	return endian.GetBigEndianEngine()
}

// task is one pending unit of work on the encoder's explicit stack: either
// an object/map key (carried as a bare Go string, since Object keys are
// always strings by construction) or a full value.Value.
type task struct {
	isKey bool
	key   string
	val   value.Value
	depth int
}

// walker owns the mutable state of a single Encode call's depth-first walk.
type walker struct {
	enc      *Encoder
	w        *jpio.Writer
	pool     *strpool.Pool
	keyPool  *strpool.Pool
	maxDepth int
	stack    []task
}

func (w *walker) push(t task) { w.stack = append(w.stack, t) }

// pushReversed pushes ts so that popping the stack yields ts in original
// (forward) order.
func (w *walker) pushReversed(ts []task) {
	for i := len(ts) - 1; i >= 0; i-- {
		w.push(ts[i])
	}
}

func (w *walker) run(root value.Value) error {
	w.push(task{val: root, depth: 0})

	for len(w.stack) > 0 {
		t := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if t.depth > w.maxDepth {
			return fmt.Errorf("%w: depth %d exceeds limit %d", errs.ErrDepthExceeded, t.depth, w.maxDepth)
		}

		if t.isKey {
			if err := w.emitKey(t.key); err != nil {
				return err
			}
			continue
		}

		if err := w.emitValue(t.val, t.depth); err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) emitKey(key string) error {
	var idx int
	if w.keyPool != nil {
		idx = w.keyPool.Intern(key)
	} else {
		idx = w.pool.Intern(key)
	}

	fixBase := tag.FixStrBase
	u8, u16, u32 := tag.StrU8, tag.StrU16, tag.StrU32
	if w.keyPool != nil {
		fixBase = tag.FixKeyBase
		u8, u16, u32 = tag.KeyU8, tag.KeyU16, tag.KeyU32
	}

	return writeCount(w.w, uint64(idx), fixBase, u8, u16, u32)
}

func (w *walker) emitString(s string) error {
	idx := w.pool.Intern(s)
	return writeCount(w.w, uint64(idx), tag.FixStrBase, tag.StrU8, tag.StrU16, tag.StrU32)
}

func (w *walker) emitValue(v value.Value, depth int) error {
	switch v.Kind() {
	case value.KindNull:
		w.w.WriteByte(tag.Null)
	case value.KindUndefined:
		w.w.WriteByte(tag.Undef)
	case value.KindBool:
		if v.Bool() {
			w.w.WriteByte(tag.True)
		} else {
			w.w.WriteByte(tag.False)
		}
	case value.KindInt:
		writeSigned(w.w, v.Int())
	case value.KindUint:
		writeUnsigned(w.w, v.Uint())
	case value.KindBigInt:
		return w.emitBigInt(v)
	case value.KindFloat32:
		writeFloat(w.w, float64(v.Float32()))
	case value.KindFloat64:
		writeFloat(w.w, v.Float64())
	case value.KindString:
		return w.emitString(v.String())
	case value.KindBytes:
		return w.emitBytes(v)
	case value.KindDate:
		return w.emitExtRaw(tag.ExtDate, encodeDate(v.DateUnixNanos()))
	case value.KindRegExp:
		return w.emitExtRaw(tag.ExtRegExp, encodeRegExp(v.RegExpSrc(), v.RegExpFlags()))
	case value.KindSymbol:
		return w.emitExtRaw(tag.ExtSymbol, encodeSymbol(v.SymbolGlobal(), v.SymbolKey()))
	case value.KindArray:
		return w.emitArray(v, depth)
	case value.KindObject:
		return w.emitObject(v, depth)
	case value.KindMap:
		return w.emitMap(v, depth)
	case value.KindSet:
		return w.emitSet(v, depth)
	case value.KindExt:
		return w.emitUserExt(v)
	default:
		return fmt.Errorf("%w: kind %v", errs.ErrUnsupportedType, v.Kind())
	}
	return nil
}

func (w *walker) emitBigInt(v value.Value) error {
	bi := v.BigInt()
	if bi == nil {
		w.w.WriteByte(tag.Null)
		return nil
	}
	// Bigints always use the 64-bit INT_64 or UINT_64 tag, chosen by sign
	// (§4.1); magnitude beyond 64 bits is truncated to the low 64 bits.
	if bi.Sign() < 0 {
		w.w.WriteByte(tag.Int64)
		w.w.WriteInt64(bi.Int64())
	} else {
		w.w.WriteByte(tag.UInt64)
		w.w.WriteUint64(bi.Uint64())
	}
	return nil
}

func (w *walker) emitBytes(v value.Value) error {
	typeByte := bytesKindExtType(v.BytesKind())
	return w.emitExtRaw(typeByte, v.Bytes())
}

func (w *walker) emitExtRaw(typeByte byte, payload []byte) error {
	w.enc.hasExtensions = true
	if err := writeExtHeader(w.w, uint64(len(payload)), typeByte); err != nil {
		return err
	}
	w.w.WriteBytes(payload)
	return nil
}

func (w *walker) emitArray(v value.Value, depth int) error {
	items := v.Array()
	if err := writeCount(w.w, uint64(len(items)), tag.FixArrayBase, tag.ArrayU8, tag.ArrayU16, tag.ArrayU32); err != nil {
		return err
	}
	ts := make([]task, len(items))
	for i, it := range items {
		ts[i] = task{val: it, depth: depth + 1}
	}
	w.pushReversed(ts)
	return nil
}

func (w *walker) emitObject(v value.Value, depth int) error {
	pairs := v.Object()
	if err := writeCount(w.w, uint64(len(pairs)), tag.FixObjectBase, tag.ObjectU8, tag.ObjectU16, tag.ObjectU32); err != nil {
		return err
	}
	ts := make([]task, 0, len(pairs)*2)
	for _, p := range pairs {
		ts = append(ts, task{isKey: true, key: p.Key, depth: depth + 1})
		ts = append(ts, task{val: p.Val, depth: depth + 1})
	}
	w.pushReversed(ts)
	return nil
}

// emitSet writes Set as a reserved-extension container: an EXT tag whose
// length field is the element count (not a byte length) and whose type
// byte is tag.ExtSet, followed inline by each element (§4.3).
func (w *walker) emitSet(v value.Value, depth int) error {
	w.enc.hasExtensions = true
	items := v.Set()
	if err := writeExtHeader(w.w, uint64(len(items)), tag.ExtSet); err != nil {
		return err
	}
	ts := make([]task, len(items))
	for i, it := range items {
		ts[i] = task{val: it, depth: depth + 1}
	}
	w.pushReversed(ts)
	return nil
}

// emitMap mirrors emitSet but with tag.ExtMap and (key, value) pairs, where
// keys are arbitrary values rather than strings (§4.3).
func (w *walker) emitMap(v value.Value, depth int) error {
	w.enc.hasExtensions = true
	pairs := v.Map()
	if err := writeExtHeader(w.w, uint64(len(pairs)), tag.ExtMap); err != nil {
		return err
	}
	ts := make([]task, 0, len(pairs)*2)
	for _, p := range pairs {
		ts = append(ts, task{val: p.Key, depth: depth + 1})
		ts = append(ts, task{val: p.Val, depth: depth + 1})
	}
	w.pushReversed(ts)
	return nil
}

// emitUserExt handles a value already wrapped as an Ext (either a
// caller-built ExtData pass-through, or one produced by a registered
// extension encoder upstream of jpenc — see jampack.go's encode surface).
func (w *walker) emitUserExt(v value.Value) error {
	return w.emitExtRaw(v.ExtType(), v.ExtPayload())
}
