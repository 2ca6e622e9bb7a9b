package cbor

import (
	"io"
	"sync"
)

// byteBuffer is a pooled scratch buffer used to assemble long strings read
// from the source and to render diagnostic and JSON output.
//
// Guidelines:
//   - Buffers come back from getByteBuffer with zero length.
//   - Anything that must outlive putByteBuffer has to be copied out first.
type byteBuffer struct {
	b []byte
}

var bbPool = sync.Pool{New: func() any { return &byteBuffer{b: make([]byte, 0, 1024)} }}

// getByteBuffer obtains a pooled buffer with zero length.
func getByteBuffer() *byteBuffer {
	bb := bbPool.Get().(*byteBuffer)
	bb.Reset()
	return bb
}

// putByteBuffer returns the buffer to the pool. Buffers that grew past
// maxPooledBuffer are dropped so one huge string does not pin memory.
func putByteBuffer(bb *byteBuffer) {
	if cap(bb.b) > maxPooledBuffer {
		return
	}
	bb.Reset()
	bbPool.Put(bb)
}

const maxPooledBuffer = 1 << 20

// Bytes returns the underlying bytes.
func (bb *byteBuffer) Bytes() []byte { return bb.b }

// Len returns length.
func (bb *byteBuffer) Len() int { return len(bb.b) }

// Reset resets the length to zero; capacity is unchanged.
func (bb *byteBuffer) Reset() { bb.b = bb.b[:0] }

// Copy returns a copy of the buffered bytes that is safe to keep after the
// buffer goes back to the pool.
func (bb *byteBuffer) Copy() []byte {
	out := make([]byte, len(bb.b))
	copy(out, bb.b)
	return out
}

// Ensure ensures there is room for at least n more bytes without reallocation.
// If needed, it grows the underlying slice.
func (bb *byteBuffer) Ensure(n int) {
	need := len(bb.b) + n
	if cap(bb.b) >= need {
		return
	}
	// Grow: double until enough, then allocate
	c := cap(bb.b)
	if c == 0 {
		c = 1024
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(bb.b), c)
	copy(nb, bb.b)
	bb.b = nb
}

// Extend grows the buffer by n bytes and returns a slice to the newly
// appended region for direct writes. The buffer length is advanced by n.
func (bb *byteBuffer) Extend(n int) []byte {
	old := len(bb.b)
	bb.Ensure(n)
	bb.b = bb.b[:old+n]
	return bb.b[old:]
}

// Write implements io.Writer.
func (bb *byteBuffer) Write(p []byte) (int, error) {
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (bb *byteBuffer) WriteString(s string) (int, error) {
	bb.b = append(bb.b, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (bb *byteBuffer) WriteByte(c byte) error {
	bb.b = append(bb.b, c)
	return nil
}

// ReadFrom implements io.ReaderFrom. Reading stops at io.EOF, which is not
// reported; the caller compares the returned count against what it expected.
func (bb *byteBuffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		// Grow a chunk (~32KB) if no free space
		if cap(bb.b)-len(bb.b) < 32*1024 {
			bb.Ensure(32 * 1024)
		}
		// Read into free tail
		n, err := r.Read(bb.b[len(bb.b):cap(bb.b)])
		if n > 0 {
			bb.b = bb.b[:len(bb.b)+n]
			total += int64(n)
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}
