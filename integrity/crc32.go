// Package integrity computes the CRC32 integrity hint stamped into a
// JamPack header. The polynomial is the standard IEEE 802.3 one, so this
// wraps the standard library's table-driven hash/crc32 rather than
// reimplementing the well-known algorithm: none of the pack's example repos
// carry a CRC32 package of their own, and hash/crc32 is the canonical,
// already-optimized (slicing-by-8) implementation of this exact polynomial.
package integrity

import "hash/crc32"

// Checksum computes the IEEE-802.3 CRC32 of data in one call.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// Incremental wraps hash/crc32's incremental IEEE table hash for callers that
// want to stamp a checksum while streaming, mirroring the pipeline's need to
// compute CRC32 over data that may span multiple scratch-file chunks.
type Incremental struct {
	h uint32
}

// NewIncremental creates a fresh incremental CRC32 accumulator.
func NewIncremental() *Incremental { return &Incremental{} }

// Write feeds more data into the running checksum. It never returns an error.
func (i *Incremental) Write(p []byte) (int, error) {
	i.h = crc32.Update(i.h, crc32.IEEETable, p)
	return len(p), nil
}

// Sum32 returns the checksum accumulated so far.
func (i *Incremental) Sum32() uint32 { return i.h }
