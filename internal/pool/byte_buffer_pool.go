// Package pool provides pooled growable byte buffers used by jpio.Writer (and
// so by the encoder) to avoid per-call allocation for the value and string
// sections.
package pool

import (
	"io"
	"sync"
)

// Default and ceiling sizes for the two buffer pools the codec uses: one for
// the value section (tag stream) and one for the string section (pool +
// key dictionary serialization), which tends to run larger for text-heavy
// documents.
const (
	ValueBufferDefaultSize  = 1024 * 16       // 16KiB
	ValueBufferMaxThreshold = 1024 * 128      // 128KiB
	PoolBufferDefaultSize   = 1024 * 64       // 64KiB
	PoolBufferMaxThreshold  = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a growable byte buffer with an amortized growth strategy
// tuned for repeated small appends (one tag or string at a time).
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte, growing the buffer if necessary.
func (bb *ByteBuffer) WriteByte(b byte) error {
	bb.Grow(1)
	bb.B = append(bb.B, b)
	return nil
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without
// reallocating.
//
// The growth strategy is as follows:
//   - For small buffers, grow by ValueBufferDefaultSize (whichever pool the buffer came from) to minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity to balance memory usage and reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return // Sufficient capacity
	}

	growBy := ValueBufferDefaultSize
	if cap(bb.B) > 4*ValueBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers. The pool can be
// configured with a maximum size threshold to avoid retaining overly large
// buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	valueDefaultPool = NewByteBufferPool(ValueBufferDefaultSize, ValueBufferMaxThreshold)
	poolDefaultPool  = NewByteBufferPool(PoolBufferDefaultSize, PoolBufferMaxThreshold)
)

// GetValueBuffer retrieves a ByteBuffer from the default value-section pool.
func GetValueBuffer() *ByteBuffer {
	return valueDefaultPool.Get()
}

// PutValueBuffer returns a ByteBuffer to the default value-section pool.
func PutValueBuffer(bb *ByteBuffer) {
	valueDefaultPool.Put(bb)
}

// GetPoolBuffer retrieves a ByteBuffer from the default string-pool-section pool.
func GetPoolBuffer() *ByteBuffer {
	return poolDefaultPool.Get()
}

// PutPoolBuffer returns a ByteBuffer to the default string-pool-section pool.
func PutPoolBuffer(bb *ByteBuffer) {
	poolDefaultPool.Put(bb)
}
