package vcd

import (
	"fmt"
	"io"

	"github.com/thomashk0/wave/buffer"
)

// shortWindowThreshold mirrors the refill driver's own heuristic: once the
// live window shrinks to this many bytes or fewer (and more input is still
// available), it is worth compacting and topping up before the next parse
// attempt rather than waiting for the window to run dry.
const shortWindowThreshold = 256

// StreamParser drives the grammar over a buffer.Buffer, refilling on
// incomplete parses and compacting the window once it gets short, so that
// callers never have to think about chunk boundaries.
type StreamParser struct {
	buf        *buffer.Buffer
	chunkSize  int
	endOfInput bool
	header     *HeaderParser
}

// NewStreamParser returns a StreamParser reading src in chunks of chunkSize
// bytes, with an initial window capacity of 2*chunkSize.
func NewStreamParser(src io.Reader, chunkSize int) *StreamParser {
	return &StreamParser{
		buf:       buffer.New(src, 2*chunkSize),
		chunkSize: chunkSize,
		header:    NewHeaderParser(),
	}
}

// SetVerboseHeader toggles HeaderParser.Verbose on the embedded header
// driver, surfaced here since callers only ever hold a StreamParser.
func (p *StreamParser) SetVerboseHeader(verbose bool) {
	p.header.Verbose = verbose
}

// Done reports whether the source is exhausted and the window is empty:
// there is nothing left to parse, ever.
func (p *StreamParser) Done() bool {
	return p.endOfInput && p.buf.Len() == 0
}

// trimRefill repeatedly refills and trims leading whitespace until a
// refill stops yielding only whitespace, so the window always starts at a
// real token before the caller looks at it.
func (p *StreamParser) trimRefill() (int, error) {
	for {
		n, err := p.buf.Refill(p.chunkSize)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrIO, err)
		}
		nWs := p.buf.Trim()
		if nWs == 0 || nWs < n {
			return n - nWs, nil
		}
	}
}

// refill tops up the window by one chunk (optionally trimming leading
// whitespace first), rejects any non-ASCII byte just read, and marks
// end-of-input once a refill yields nothing — appending a synthetic
// newline so a final record with no trailing newline still terminates.
func (p *StreamParser) refill(trim bool) (int, error) {
	var n int
	var err error
	if trim {
		n, err = p.trimRefill()
	} else {
		n, err = p.buf.Refill(p.chunkSize)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	if err != nil {
		return 0, err
	}
	data := p.buf.Data()
	start := len(data) - n
	if start < 0 {
		start = 0
	}
	for _, c := range data[start:] {
		if c >= 128 {
			return 0, ErrEncoding
		}
	}
	if n == 0 {
		p.endOfInput = true
		if !trim {
			p.buf.Push('\n')
		}
	}
	return n, nil
}

// runParser applies parse to the live window, refilling on incomplete
// results until parse succeeds or hits an unrecoverable error, then
// consumes exactly what parse consumed and tops the window back up.
func runParser[T any](p *StreamParser, parse func([]byte) ([]byte, T, error)) (T, error) {
	var zero T
	for {
		rest, v, err := parse(p.buf.Data())
		if err == nil {
			consumed := p.buf.Len() - len(rest)
			p.buf.Consume(consumed)
			if p.buf.Len() == 0 {
				if _, rerr := p.refill(true); rerr != nil {
					return zero, rerr
				}
			} else if !p.endOfInput && p.buf.Len() <= shortWindowThreshold {
				p.buf.Compact()
				if _, rerr := p.refill(false); rerr != nil {
					return zero, rerr
				}
			}
			return v, nil
		}
		if isIncomplete(err) {
			// The first refill at end of input appends the synthetic newline;
			// parse once more with it before reporting missing data.
			atEnd := p.endOfInput
			if _, rerr := p.refill(false); rerr != nil {
				return zero, rerr
			}
			if atEnd {
				return zero, ErrMissingData
			}
			continue
		}
		return zero, err
	}
}

// LoadHeader drives the header parser to completion ($enddefinitions $end)
// and returns the resulting Header.
func (p *StreamParser) LoadHeader() (*Header, error) {
	for {
		done, err := runParser(p, func(b []byte) ([]byte, bool, error) {
			return p.header.Next(b)
		})
		if err != nil {
			return nil, err
		}
		if done {
			return p.header.Header(), nil
		}
	}
}

// Header returns the header collected so far, sealed or not.
func (p *StreamParser) Header() *Header {
	return p.header.Header()
}

// HeaderSealed reports whether LoadHeader has completed.
func (p *StreamParser) HeaderSealed() bool {
	return p.header.Sealed()
}

// ProcessCommands parses body commands one at a time and invokes callback
// with each; callback returns true to stop early. It returns once callback
// requests a stop or the source is exhausted.
func (p *StreamParser) ProcessCommands(callback func(Command) bool) error {
	if p.buf.Len() == 0 {
		n, err := p.refill(true)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
	for !p.Done() {
		stop := false
		_, err := runParser(p, func(b []byte) ([]byte, struct{}, error) {
			rest, cmd, e := ParseCommand(b)
			if e != nil {
				return nil, struct{}{}, e
			}
			if callback(cmd) {
				stop = true
			}
			return rest, struct{}{}, nil
		})
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}
