//go:build cgo

package extcodec

import "github.com/valyala/gozstd"

// GozstdCodec compresses extension payloads with valyala/gozstd, the cgo
// binding to the reference zstd C library, for callers that can pay the
// cgo cost in exchange for its throughput over the pure-Go implementation.
type GozstdCodec struct{}

var _ Codec = GozstdCodec{}

func NewGozstdCodec() GozstdCodec { return GozstdCodec{} }

func (GozstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (GozstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return gozstd.Decompress(nil, data)
}
