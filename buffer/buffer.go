// Package buffer implements a bounded refill window over an io.Reader.
//
// It backs the VCD streaming parser: callers never see the whole input at
// once, only a live window of bytes that grows by explicit Refill calls and
// shrinks by explicit Consume calls. The buffer never copies live bytes
// except during Compact.
package buffer

import "io"

// Buffer is a growable byte array with a logical window [offset, offset+size)
// over data. Bytes before offset are dead; bytes after the window are spare
// capacity available to Refill.
//
// Not safe for concurrent use.
type Buffer struct {
	src    io.Reader
	data   []byte
	offset int
	size   int
}

// New returns a Buffer reading from src with an initial capacity hint.
func New(src io.Reader, capacity int) *Buffer {
	return &Buffer{
		src:  src,
		data: make([]byte, 0, capacity),
	}
}

func (b *Buffer) capacity() int {
	return cap(b.data)
}

func (b *Buffer) available() int {
	return b.capacity() - (b.offset + b.size)
}

// Push appends a single byte to the live window, growing the backing array
// if the window already touches capacity.
func (b *Buffer) Push(elt byte) {
	if b.available() == 0 {
		b.data = append(b.data[:b.offset+b.size], elt)
		b.size++
		return
	}
	end := b.offset + b.size
	b.data = b.data[:end+1]
	b.data[end] = elt
	b.size++
}

// Consume advances the window start by min(n, Len()). If that empties the
// window, offset and size both reset to 0 so Refill can reuse the full
// backing array.
func (b *Buffer) Consume(n int) {
	if n >= b.size {
		b.offset = 0
		b.size = 0
		return
	}
	b.offset += n
	b.size -= n
}

// Trim consumes leading ASCII whitespace from the window and returns the
// number of bytes consumed.
func (b *Buffer) Trim() int {
	n := 0
	d := b.Data()
	for n < len(d) && isASCIISpace(d[n]) {
		n++
	}
	b.Consume(n)
	return n
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// Compact shifts the live window down to offset 0, discarding the dead
// prefix. This is the only operation that copies live bytes.
func (b *Buffer) Compact() {
	if b.offset == 0 {
		return
	}
	copy(b.data[:b.size], b.data[b.offset:b.offset+b.size])
	b.data = b.data[:b.size]
	b.offset = 0
}

// Refill ensures at least n free bytes after the window (growing the
// backing array if necessary), reads up to n bytes from src into that
// region, and extends the window by the count actually read. It returns
// the number of bytes read; 0 means the source is exhausted.
func (b *Buffer) Refill(n int) (int, error) {
	end := b.offset + b.size
	if b.available() < n {
		grown := make([]byte, end+n)
		copy(grown, b.data[:end])
		b.data = grown
	} else {
		b.data = b.data[:end+n]
	}
	read, err := b.src.Read(b.data[end : end+n])
	b.data = b.data[:end+read]
	if err == io.EOF {
		err = nil
	}
	b.size += read
	return read, err
}

// Data exposes the live window as a borrowed slice, valid until the next
// mutating call on the buffer.
func (b *Buffer) Data() []byte {
	return b.data[b.offset : b.offset+b.size]
}

// Len returns the number of live bytes currently in the window.
func (b *Buffer) Len() int {
	return b.size
}
