package source

import (
	"context"
	"io"
	"os"

	"github.com/rjeczalik/notify"
)

// FollowReader is an io.Reader over a file that is still being written to:
// a Read that catches up to the current end of file blocks until the file
// is written to again, instead of returning io.EOF, so the stream parser
// sees it as a source that simply runs slow rather than one that ended.
type FollowReader struct {
	f      *os.File
	events chan notify.EventInfo
	ctx    context.Context
}

// OpenFollow opens path and starts watching it for writes. The returned
// reader does not report io.EOF at the end of the file; its Reads end with
// ctx's error once ctx is cancelled.
func OpenFollow(ctx context.Context, path string) (*FollowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	events := make(chan notify.EventInfo, 8)
	if err := notify.Watch(path, events, notify.Write); err != nil {
		f.Close()
		return nil, err
	}
	return &FollowReader{f: f, events: events, ctx: ctx}, nil
}

// Read blocks until new bytes are available, returning ctx.Err() if ctx is
// cancelled first, or io.EOF if Close is called while it waits. Truncation
// of the file is not detected.
func (r *FollowReader) Read(p []byte) (int, error) {
	for {
		n, err := r.f.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		select {
		case <-r.ctx.Done():
			return 0, r.ctx.Err()
		case _, ok := <-r.events:
			if !ok {
				return 0, io.EOF
			}
		}
	}
}

// Close stops watching path and releases the underlying file.
func (r *FollowReader) Close() error {
	notify.Stop(r.events)
	close(r.events)
	return r.f.Close()
}
