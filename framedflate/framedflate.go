// Package framedflate implements the framed DEFLATE codec described in
// §4.7: the codec does not assume the underlying DEFLATE library can
// streamingly produce arbitrary-length output, so the data is split into
// fixed-size input chunks, each deflated independently and stored as
// [u32 little-endian chunkLen][compressed bytes]. Inflation reverses the
// framing.
//
// Framing is always little-endian regardless of the file's declared
// endianness (§6, §9) — a deliberate asymmetry that must be preserved for
// interoperability.
//
// The underlying DEFLATE implementation is klauspost/compress/flate, the
// same "optimized drop-in replacement for the stdlib codec" role the
// teacher package gives klauspost/compress for its own payloads
// (compress/codec.go).
package framedflate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ChunkSize is the size of each independently-deflated input chunk (512 KiB,
// per §4.7).
const ChunkSize = 512 * 1024

// Compress splits data into ChunkSize input chunks, deflates each
// independently, and frames them as [u32 LE chunkLen][chunk]*.
func Compress(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)/2+16)

	chunkCount := (len(data) + ChunkSize - 1) / ChunkSize
	if chunkCount == 0 {
		chunkCount = 1 // always emit at least one (possibly empty) chunk
	}

	for i := 0; i < chunkCount; i++ {
		off := i * ChunkSize
		end := off + ChunkSize
		if end > len(data) {
			end = len(data)
		}

		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("framedflate: new writer: %w", err)
		}
		if _, err := fw.Write(data[off:end]); err != nil {
			return nil, fmt.Errorf("framedflate: write chunk: %w", err)
		}
		if err := fw.Close(); err != nil {
			return nil, fmt.Errorf("framedflate: close chunk: %w", err)
		}

		chunk := buf.Bytes()
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(chunk)))
		out = append(out, lenBuf[:]...)
		out = append(out, chunk...)
	}

	return out, nil
}

// Decompress reverses Compress: it reads [u32 LE chunkLen][chunk]* frames
// until the input is exhausted, inflating and appending each chunk in turn.
func Decompress(framed []byte) ([]byte, error) {
	out := make([]byte, 0, len(framed)*2+16)

	r := bytes.NewReader(framed)
	for r.Len() > 0 {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("framedflate: read chunk length: %w", err)
		}
		chunkLen := binary.LittleEndian.Uint32(lenBuf[:])

		chunk := make([]byte, chunkLen)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("framedflate: read chunk body: %w", err)
		}

		fr := flate.NewReader(bytes.NewReader(chunk))
		inflated, err := io.ReadAll(fr)
		fr.Close()
		if err != nil {
			return nil, fmt.Errorf("framedflate: inflate chunk: %w", err)
		}

		out = append(out, inflated...)
	}

	return out, nil
}
