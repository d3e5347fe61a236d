// Package jampack provides a self-describing, schema-free binary
// serialization format for values shaped like JSON, plus the extras JSON
// can't carry on its own: 64-bit integers, arbitrary-precision integers,
// dates, regular expressions, symbols, typed byte arrays, Sets, Maps and
// user-defined extension types.
//
// A JamPack file is a fixed header (endianness, version, flags, section
// sizes) followed by an optional CRC32, an optional framed-DEFLATE
// compression stage, an optional block-cipher encryption stage, and finally
// the value section and string section themselves. The value section is a
// tagged, self-describing byte stream: every value is preceded by a tag
// byte that picks the smallest representation able to hold it, so small
// integers, short strings and empty containers cost a single byte.
//
// # Basic Usage
//
// Encoding a value:
//
//	enc, _ := jampack.NewEncoder()
//	data, err := enc.Encode(map[string]any{
//	    "name":     "sensor-1",
//	    "readings": []any{1, 2, 3},
//	})
//
// Decoding it back:
//
//	dec, _ := jampack.NewDecoder()
//	v, err := dec.Decode(data)
//	obj := v.Object()
//
// Enabling compression, a checksum and encryption together:
//
//	enc, _ := jampack.NewEncoder(
//	    jampack.WithCRC32(),
//	    jampack.WithCompress(),
//	    jampack.WithEncrypt(0), // 0: derive a random key seed
//	)
//	data, _ := enc.Encode(payload)
//	seed := enc.LastEncryptionKey()
//
//	dec, _ := jampack.NewDecoder()
//	v, err := dec.Decode(data)
//
// # Package Structure
//
// This file is a convenience wrapper around the lower-level packages that
// do the actual work: jampheader (file header and the CRC/compress/encrypt
// pipeline), jpenc/jpdec (the value-tree codec), strpool (the shared string
// pool), and extreg (user-defined extension types). Use those packages
// directly for fine-grained control; most callers only need
// NewEncoder/NewDecoder.
package jampack

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/extreg"
	"github.com/hearhellacopters/jampack-go/jampheader"
	"github.com/hearhellacopters/jampack-go/jpdec"
	"github.com/hearhellacopters/jampack-go/jpenc"
	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/strpool"
	"github.com/hearhellacopters/jampack-go/value"
)

// settings accumulates every With* option, whether it targets the encoder,
// the decoder, or both, since a single Option type configures both ends.
type settings struct {
	encOpts []jpenc.Option
	decOpts []jpdec.Option

	littleEndian bool
	pipeline     jampheader.PipelineOptions
	registry     *extreg.Registry

	externalKeySeed uint32
}

func defaultSettings() *settings {
	return &settings{littleEndian: true}
}

// Option configures an Encoder, a Decoder, or both, depending on which of
// the With* functions below produced it. A Decoder reads layout details
// (endianness, compression, encryption) straight out of the file header, so
// only the out-of-band options (WithKeyDictionary, WithEncryptionKey,
// WithMakeJSON, WithEnforceBigInt, WithExtensions) have any effect there.
type Option func(*settings)

// WithBigEndian selects big-endian ("PJ") framing for encoded output.
func WithBigEndian() Option {
	return func(s *settings) {
		s.littleEndian = false
		s.encOpts = append(s.encOpts, jpenc.WithBigEndian())
	}
}

// WithLittleEndian selects little-endian ("JP") framing (the default).
func WithLittleEndian() Option {
	return func(s *settings) {
		s.littleEndian = true
		s.encOpts = append(s.encOpts, jpenc.WithLittleEndian())
	}
}

// WithCRC32 enables the header's CRC32 integrity field over the
// pre-compression, pre-encryption payload.
func WithCRC32() Option {
	return func(s *settings) { s.pipeline.Crc32 = true }
}

// WithCompress enables the framed-DEFLATE pipeline stage.
func WithCompress() Option {
	return func(s *settings) { s.pipeline.Compress = true }
}

// WithEncrypt enables the block-cipher pipeline stage. If keySeed is 0, a
// random 32-bit seed is generated at encode time; retrieve it afterward
// with (*Encoder).LastEncryptionKey.
func WithEncrypt(keySeed uint32) Option {
	return func(s *settings) {
		s.pipeline.Encrypt = true
		s.pipeline.KeySeed = keySeed
	}
}

// WithStripEncryptKey omits the encryption key from the header tail
// (EncryptionExcluded). The caller must record (*Encoder).LastEncryptionKey
// and supply it to the Decoder out of band via WithEncryptionKey.
func WithStripEncryptKey() Option {
	return func(s *settings) { s.pipeline.EncryptionExcluded = true }
}

// WithStripKeys enables schema mode (KeyStripped): object keys are emitted
// as dictionary indices and the dictionary itself is never written to the
// file. Retrieve it afterward with (*Encoder).LastKeysArray and supply it
// to the Decoder out of band via WithKeyDictionary.
func WithStripKeys() Option {
	return func(s *settings) { s.encOpts = append(s.encOpts, jpenc.WithStripKeys()) }
}

// WithMaxDepth overrides the encoder's nesting-depth bound (default 1000).
func WithMaxDepth(depth int) Option {
	return func(s *settings) { s.encOpts = append(s.encOpts, jpenc.WithMaxDepth(depth)) }
}

// WithExtensions wires a user extension registry into both the encoder
// (consulted by FromAny for Go types it doesn't recognize natively) and the
// decoder (consulted to resolve decoded KindExt values back to native Go
// types once the wire-level decode has finished).
func WithExtensions(r *extreg.Registry) Option {
	return func(s *settings) {
		s.registry = r
		s.encOpts = append(s.encOpts, jpenc.WithExtensions(r))
	}
}

// WithMakeJSON enables the decoder's post-decode JSON normalizer: Undefined,
// RegExp, Symbol, Set, Map and BigInt values are rewritten into their
// JSON-representable equivalents.
func WithMakeJSON() Option {
	return func(s *settings) { s.decOpts = append(s.decOpts, jpdec.WithMakeJSON()) }
}

// WithEnforceBigInt widens every decoded integer to BigInt, even when it
// fits a 64-bit machine word.
func WithEnforceBigInt() Option {
	return func(s *settings) { s.decOpts = append(s.decOpts, jpdec.WithEnforceBigInt()) }
}

// WithKeyDictionary supplies the out-of-band key dictionary a KeyStripped
// file needs for decoding. See (*Encoder).LastKeysArray.
func WithKeyDictionary(keys []string) Option {
	return func(s *settings) { s.decOpts = append(s.decOpts, jpdec.WithKeyDictionary(keys)) }
}

// WithEncryptionKey supplies the out-of-band key seed an EncryptionExcluded
// file needs for decoding. See (*Encoder).LastEncryptionKey.
func WithEncryptionKey(seed uint32) Option {
	return func(s *settings) {
		s.decOpts = append(s.decOpts, jpdec.WithEncryptionKey(seed))
		s.externalKeySeed = seed
	}
}

// Encoder serializes Go values (or value.Value trees) to complete JamPack
// files: header, pipeline transforms, value section and string section.
type Encoder struct {
	s   *settings
	enc *jpenc.Encoder

	lastEncryptionKey uint32
	lastCRC32         uint32
	lastKeysArray     []string
	lastHasExtensions bool
	lastValidJSON     bool
}

// NewEncoder creates an Encoder with the given options applied over the
// defaults (little-endian, no CRC32, no compression, no encryption).
func NewEncoder(opts ...Option) (*Encoder, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(s)
	}

	inner, err := jpenc.New(s.encOpts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{s: s, enc: inner}, nil
}

// Encode serializes v, which may be a value.Value or any of the native Go
// types FromAny recognizes (bool, the numeric kinds, string, []byte,
// *big.Int, time.Time, []any, map[string]any), plus whatever this Encoder's
// registered extensions accept. It returns the complete on-disk bytes:
// header followed by the pipeline-transformed payload.
func (e *Encoder) Encode(v any) ([]byte, error) {
	valueSection, strSection, err := e.enc.EncodeAny(v)
	if err != nil {
		return nil, fmt.Errorf("jampack: encoding value: %w", err)
	}

	header, payload, keySeed, err := jampheader.Pack(valueSection, strSection, e.s.pipeline, e.s.littleEndian)
	if err != nil {
		return nil, fmt.Errorf("jampack: packing pipeline: %w", err)
	}

	e.lastEncryptionKey = keySeed
	e.lastCRC32 = header.CRC32
	e.lastKeysArray = e.enc.KeysArray()
	e.lastHasExtensions = e.enc.HasExtensions()
	e.lastValidJSON = e.enc.ValidJSON()

	out := make([]byte, 0, header.Size()+len(payload))
	out = append(out, header.Bytes()...)
	out = append(out, payload...)
	return out, nil
}

// LastEncryptionKey returns the 32-bit seed used by the most recent Encode
// call, whether or not WithStripEncryptKey kept it out of the file itself.
func (e *Encoder) LastEncryptionKey() uint32 { return e.lastEncryptionKey }

// LastCRC32 returns the checksum computed by the most recent Encode call.
func (e *Encoder) LastCRC32() uint32 { return e.lastCRC32 }

// LastKeysArray returns the key dictionary captured by the most recent
// Encode call made with WithStripKeys; nil otherwise.
func (e *Encoder) LastKeysArray() []string { return e.lastKeysArray }

// LastHasExtensions reports whether the most recent Encode call emitted any
// extension value (built-in or user-registered).
func (e *Encoder) LastHasExtensions() bool { return e.lastHasExtensions }

// LastValidJSON reports whether the most recently encoded value is
// representable in JSON without lossy normalization.
func (e *Encoder) LastValidJSON() bool { return e.lastValidJSON }

// Decoder parses complete JamPack files back into a value.Value tree. User
// extension values stay in the tree as value.KindExt nodes; ResolveExtension
// turns one into the native Go value its registered decoder produces.
type Decoder struct {
	s   *settings
	dec *jpdec.Decoder

	lastWarnings []errs.Warning
}

// NewDecoder creates a Decoder with the given options applied over the
// defaults.
func NewDecoder(opts ...Option) (*Decoder, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(s)
	}

	inner, err := jpdec.New(s.decOpts...)
	if err != nil {
		return nil, err
	}

	return &Decoder{s: s, dec: inner}, nil
}

// Decode parses a complete JamPack file: header, pipeline reversal, string
// pool, then the value section itself.
func (d *Decoder) Decode(data []byte) (value.Value, error) {
	header, fatal, warning := jampheader.Parse(data)
	if fatal != nil {
		return value.Value{}, fmt.Errorf("jampack: parsing header: %w", fatal)
	}

	d.lastWarnings = nil
	if warning != nil {
		if w, ok := warning.(errs.Warning); ok {
			d.lastWarnings = append(d.lastWarnings, w)
		}
	}

	body := data[header.Size():]
	valueSection, strSection, unpackWarnings, err := jampheader.Unpack(header, body, d.s.externalKeySeed)
	if err != nil {
		return value.Value{}, fmt.Errorf("jampack: reversing pipeline: %w", err)
	}
	d.lastWarnings = append(d.lastWarnings, unpackWarnings...)

	engine := header.Engine()
	poolReader := jpio.NewReader(strSection, engine)
	pool, err := strpool.ReadSection(poolReader)
	if err != nil {
		return value.Value{}, fmt.Errorf("jampack: reading string pool: %w", err)
	}

	result, err := d.dec.Decode(valueSection, pool, header.IsLittleEndian())
	if err != nil {
		return value.Value{}, fmt.Errorf("jampack: decoding value section: %w", err)
	}
	d.lastWarnings = append(d.lastWarnings, d.dec.Warnings()...)

	if d.s.registry != nil {
		collectExtensionWarnings(result, d.s.registry, &d.lastWarnings)
	}

	return result, nil
}

// LastWarnings returns the non-fatal conditions accumulated by the most
// recent Decode call: version skew, CRC mismatch, section-size mismatch, an
// out-of-range pool index, a malformed Date or RegExp payload, or (when a
// registry is configured) an extension type byte with no registered decoder.
func (d *Decoder) LastWarnings() []errs.Warning { return d.lastWarnings }

// ResolveExtension looks up v's decoder in this Decoder's registry and
// invokes it, returning the native Go value a registered extension encoder
// originally produced. Call this on any value.KindExt node found in a
// decoded tree; it reports errs.ErrUnknownExtension if no decoder is
// registered for v's type byte, mirroring the unknown-extension pass-through
// law the wire-level decoder itself applies.
func (d *Decoder) ResolveExtension(v value.Value) (any, error) {
	if d.s.registry == nil {
		return nil, fmt.Errorf("jampack: %w: no extension registry configured", errs.ErrUnknownExtension)
	}
	return d.s.registry.Decode(v.ExtType(), v.ExtPayload())
}

// collectExtensionWarnings walks a decoded tree and records a warning for
// every KindExt node whose type byte has no registered decoder, so an
// unresolvable extension is diagnosable from LastWarnings even though it
// isn't fatal to decode (value.Value already carries it through as raw
// bytes via the wire-level decoder's pass-through).
func collectExtensionWarnings(v value.Value, r *extreg.Registry, warnings *[]errs.Warning) {
	switch v.Kind() {
	case value.KindExt:
		if !r.Has(v.ExtType()) {
			*warnings = append(*warnings, errs.NewWarning("unknown-extension",
				fmt.Errorf("no decoder registered for extension type 0x%02X", v.ExtType())))
		}

	case value.KindArray:
		for _, it := range v.Array() {
			collectExtensionWarnings(it, r, warnings)
		}

	case value.KindSet:
		for _, it := range v.Set() {
			collectExtensionWarnings(it, r, warnings)
		}

	case value.KindObject:
		for _, p := range v.Object() {
			collectExtensionWarnings(p.Val, r, warnings)
		}

	case value.KindMap:
		for _, p := range v.Map() {
			collectExtensionWarnings(p.Key, r, warnings)
			collectExtensionWarnings(p.Val, r, warnings)
		}
	}
}
