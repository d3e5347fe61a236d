package extcodec

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4Codec compresses extension payloads with LZ4, favoring fast
// decompression for extensions that are read far more often than written.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

func NewLZ4Codec() LZ4Codec { return LZ4Codec{} }

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}
			return nil, err
		}
		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
