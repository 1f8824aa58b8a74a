package vcd

import "errors"

// Sentinel errors for the taxonomy in spec.md §7. Each is returned bare or
// wrapped with additional context via fmt.Errorf("...: %w", Err...), so
// callers can always recover the kind with errors.Is.
var (
	// ErrIO wraps a failure from the underlying byte source.
	ErrIO = errors.New("vcd: io error")
	// ErrParse means the grammar rejected input that cannot be extended
	// into a valid form.
	ErrParse = errors.New("vcd: parse error")
	// ErrMissingData means the stream ended mid-record: a parser signaled
	// "need more input" and no more input ever arrived.
	ErrMissingData = errors.New("vcd: missing data")
	// ErrPartialHeader means a header-dependent operation was invoked
	// before $enddefinitions was observed.
	ErrPartialHeader = errors.New("vcd: header not sealed")
	// ErrEncoding means a byte ≥ 128 was observed in the input; the
	// grammar assumes 7-bit ASCII.
	ErrEncoding = errors.New("vcd: non-ASCII byte in input")
	// ErrEndOfInput means NextCycle was called after the stream was
	// already fully drained.
	ErrEndOfInput = errors.New("vcd: end of input")
)
