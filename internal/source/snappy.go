// Package source provides alternative io.Reader front ends for the VCD
// stream parser: a file transparently decompressed with Snappy, a
// memory-mapped file, and a reader that follows a growing file the way
// `tail -f` does.
package source

import (
	"io"

	"github.com/golang/snappy"
)

// OpenSnappy wraps r in a Snappy frame-format decompressor, so a VCD trace
// that was compressed on write (common for the large traces this parser is
// built to stream) can be read exactly like the uncompressed file.
func OpenSnappy(r io.Reader) io.Reader {
	return snappy.NewReader(r)
}
