// Package extcodec provides optional payload compressors for extension
// values (§4.8, C11). These sit entirely outside the header-level Compressed
// flag and framed-DEFLATE pipeline (§4.5, framedflate): an extension encoder
// may choose to compress its own payload bytes before wrapping them in an
// EXT tag, and must record which codec it used so the matching decoder can
// reverse it (the registry entry itself is the record, per §4.8).
//
// This is the teacher's own compress package (Compressor/Decompressor/Codec,
// one struct per algorithm) carried over verbatim in shape and re-homed onto
// extension payloads rather than timestamp/value blob sections, which is
// the role the domain-stack expansion gives the klauspost/compress family,
// pierrec/lz4 and valyala/gozstd now that the pipeline's own compression
// stage is fixed to framed DEFLATE.
package extcodec

// Compressor compresses an extension's payload bytes before they are
// wrapped in an EXT value.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Algorithm identifies which extcodec a registered extension payload uses.
// This is carried by the extension registration itself (§4.8), not by any
// byte in the wire format.
type Algorithm uint8

const (
	AlgorithmNone Algorithm = iota
	AlgorithmZstd
	AlgorithmS2
	AlgorithmLZ4
	AlgorithmGozstd
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmS2:
		return "s2"
	case AlgorithmLZ4:
		return "lz4"
	case AlgorithmGozstd:
		return "gozstd-cgo"
	default:
		return "unknown"
	}
}

// ByAlgorithm returns the Codec implementing the named algorithm.
func ByAlgorithm(a Algorithm) Codec {
	switch a {
	case AlgorithmZstd:
		return NewZstdCodec()
	case AlgorithmS2:
		return NewS2Codec()
	case AlgorithmLZ4:
		return NewLZ4Codec()
	case AlgorithmGozstd:
		return NewGozstdCodec()
	default:
		return NewNoOpCodec()
	}
}
