// Package errs defines the sentinel errors shared by the JamPack codec
// packages, the way mebo's section package references a shared errs package
// (e.g. errs.ErrInvalidHeaderFlags) for its own header validation.
package errs

import "errors"

// Fatal errors abort the current encode/decode call and leave no partial
// output; the caller sees one of these (optionally wrapped with
// fmt.Errorf("...: %w", ...)) as the returned error.
var (
	ErrBadMagic             = errors.New("jampack: bad magic number")
	ErrBadHeader            = errors.New("jampack: malformed header")
	ErrBadTag               = errors.New("jampack: unrecognized tag byte")
	ErrMissingKey           = errors.New("jampack: encryption key required but not supplied")
	ErrMissingKeyDictionary = errors.New("jampack: key dictionary required but not supplied")
	ErrForbiddenKey         = errors.New("jampack: \"__proto__\" is not a permitted object or map key")
	ErrInvalidKey           = errors.New("jampack: key is not a string, integer, or symbol")
	ErrUnsupportedKey       = errors.New("jampack: object key must be a string")
	ErrDepthExceeded        = errors.New("jampack: value nesting exceeds the configured depth limit")
	ErrSizeTooLarge         = errors.New("jampack: count or length exceeds the wire format's 32-bit limit")
	ErrCryptoFailure        = errors.New("jampack: cipher stage failed")
	ErrCompressFailure      = errors.New("jampack: compression stage failed")
	ErrUnsupportedType      = errors.New("jampack: value kind has no encoder and no registered extension")
	ErrInvalidHeaderFlags   = errors.New("jampack: invalid header flag combination")
	ErrUnknownExtension     = errors.New("jampack: extension type byte is reserved or has no registered decoder")
)

// Warning is a non-fatal condition surfaced through the in-band log sink
// (version skew, size mismatch, CRC mismatch, missing pool index). Warnings
// never abort a call; they arise only while decoding, accumulate on the
// decoder instance and are inspectable afterward via jpdec.Decoder.Warnings
// and jampack.Decoder.LastWarnings.
type Warning struct {
	Kind string
	Err  error
}

func (w Warning) Error() string { return "jampack: warning: " + w.Kind + ": " + w.Err.Error() }

func NewWarning(kind string, err error) Warning {
	return Warning{Kind: kind, Err: err}
}
