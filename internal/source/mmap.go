package source

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MMapSource exposes a memory-mapped file as a forward-only io.Reader. It
// exists for large traces where letting the OS page in the file on demand
// beats driving read(2) through the refill buffer's own chunking.
type MMapSource struct {
	f      *os.File
	region mmap.MMap
	pos    int
}

// OpenMMap memory-maps path read-only and returns a source positioned at
// its first byte.
func OpenMMap(path string) (*MMapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MMapSource{f: f, region: region}, nil
}

// Read implements io.Reader over the mapped region.
func (m *MMapSource) Read(p []byte) (int, error) {
	if m.pos >= len(m.region) {
		return 0, io.EOF
	}
	n := copy(p, m.region[m.pos:])
	m.pos += n
	return n, nil
}

// Close unmaps the region and closes the underlying file.
func (m *MMapSource) Close() error {
	if err := m.region.Unmap(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}
