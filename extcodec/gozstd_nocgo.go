//go:build !cgo

package extcodec

// GozstdCodec falls back to the pure-Go zstd implementation when built
// without cgo, mirroring the teacher's cgo/no-cgo zstd split (compress/zstd_cgo.go,
// compress/zstd_pure.go) so NewGozstdCodec stays usable on every build.
type GozstdCodec struct {
	inner ZstdCodec
}

var _ Codec = GozstdCodec{}

func NewGozstdCodec() GozstdCodec { return GozstdCodec{inner: NewZstdCodec()} }

func (c GozstdCodec) Compress(data []byte) ([]byte, error)   { return c.inner.Compress(data) }
func (c GozstdCodec) Decompress(data []byte) ([]byte, error) { return c.inner.Decompress(data) }
