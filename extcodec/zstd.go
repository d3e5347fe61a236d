package extcodec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var zstdDecoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(false))
		if err != nil {
			panic(fmt.Sprintf("extcodec: zstd decoder pool: %v", err))
		}
		return d
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderCRC(false))
		if err != nil {
			panic(fmt.Sprintf("extcodec: zstd encoder pool: %v", err))
		}
		return e
	},
}

// ZstdCodec compresses extension payloads with the pure-Go zstd
// implementation, for extensions that favor compression ratio (e.g. large
// embedded text or blob extensions) over raw throughput.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func NewZstdCodec() ZstdCodec { return ZstdCodec{} }

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)
	return encoder.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("extcodec: zstd decompress: %w", err)
	}
	return out, nil
}
