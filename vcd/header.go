package vcd

import (
	"fmt"

	"github.com/thomashk0/wave/internal/identcache"
	"github.com/thomashk0/wave/internal/wlog"
)

// HeaderParser is a stateful driver that consumes header directives
// ($scope, $var, $upscope, $enddefinitions, others) until the header is
// sealed, building a variable table with nested scope context.
//
// Verbose, when set, logs unrecognized header directives at debug level
// instead of silently skipping their body (see SPEC_FULL.md §D.2); it
// defaults to false, matching the original implementation.
type HeaderParser struct {
	Verbose bool

	header Header
	sealed bool
	scope  []Scope
	cache  *identcache.Cache
	log    *wlog.Logger
}

// NewHeaderParser returns an empty, unsealed HeaderParser.
func NewHeaderParser() *HeaderParser {
	return &HeaderParser{
		header: Header{Variables: make([]VariableInfo, 0, 1024)},
		scope:  make([]Scope, 0, 16),
		cache:  identcache.New(256),
		log:    wlog.New("vcd.header"),
	}
}

// Header returns the header built so far; callers should only treat it as
// final once Sealed is true.
func (p *HeaderParser) Header() *Header {
	return &p.header
}

// Sealed reports whether $enddefinitions $end has been observed.
func (p *HeaderParser) Sealed() bool {
	return p.sealed
}

// Next consumes exactly one header directive from input and returns the
// unconsumed remainder and whether that directive was $enddefinitions.
// Like every grammar-level call, it may return errIncomplete, requiring
// the caller to refill and retry with a longer input.
func (p *HeaderParser) Next(input []byte) (rest []byte, done bool, err error) {
	rest, name, err := headerDirectiveName(input)
	if err != nil {
		return nil, false, err
	}
	switch string(name) {
	case "enddefinitions":
		rest, err = vcdEnd(rest)
		if err != nil {
			return nil, false, err
		}
		p.sealed = true
		return rest, true, nil

	case "scope":
		rest, kind, err := word(rest)
		if err != nil {
			return nil, false, err
		}
		rest, name, err := word(rest)
		if err != nil {
			return nil, false, err
		}
		rest, err = vcdEnd(rest)
		if err != nil {
			return nil, false, err
		}
		p.scope = append(p.scope, Scope{
			Kind: ScopeKindFromString(string(kind)),
			Name: p.cache.Intern(name),
		})
		return rest, false, nil

	case "upscope":
		rest, err = vcdEnd(rest)
		if err != nil {
			return nil, false, err
		}
		if n := len(p.scope); n > 0 {
			p.scope = p.scope[:n-1]
		}
		return rest, false, nil

	case "var":
		return p.parseVar(rest)

	default:
		rest, err = skipUntilVcdEnd(rest)
		if err != nil {
			return nil, false, err
		}
		if p.Verbose {
			p.log.Debug("ignoring header directive", "name", string(name))
		}
		return rest, false, nil
	}
}

// headerDirectiveName matches "$" followed by a word (e.g. "scope", "var",
// "enddefinitions"), consistent with the way Rust's next_header_command
// is built from `preceded(char('$'), alphanumeric1)` terminated by ws0.
func headerDirectiveName(input []byte) (rest, name []byte, err error) {
	if len(input) == 0 {
		return nil, nil, errIncomplete
	}
	if input[0] != '$' {
		return nil, nil, ErrParse
	}
	w := input[1:]
	i := 0
	for i < len(w) && isASCIIAlnum(w[i]) {
		i++
	}
	if i == len(w) {
		return nil, nil, errIncomplete
	}
	if i == 0 {
		return nil, nil, ErrParse
	}
	name = w[:i]
	return ws0(w[i:]), name, nil
}

func (p *HeaderParser) parseVar(input []byte) (rest []byte, done bool, err error) {
	rest, kind, err := word(input)
	if err != nil {
		return nil, false, err
	}
	rest, w, err := width(rest)
	if err != nil {
		return nil, false, err
	}
	if w < 0 {
		return nil, false, fmt.Errorf("%w: negative variable width %d", ErrParse, w)
	}
	rest, id, err := word(rest)
	if err != nil {
		return nil, false, err
	}
	rest, name, err := varName(rest)
	if err != nil {
		return nil, false, err
	}

	var rng *Range
	if len(rest) > 0 && rest[0] == '[' {
		var r Range
		rest, r, err = rangeParser(rest)
		if err != nil {
			return nil, false, err
		}
		rng = &r
	} else if len(rest) == 0 {
		// Cannot yet tell whether a range follows; more input is needed.
		return nil, false, errIncomplete
	}

	rest, err = vcdEnd(rest)
	if err != nil {
		return nil, false, err
	}

	scopeSnapshot := make([]Scope, len(p.scope))
	copy(scopeSnapshot, p.scope)

	p.header.Variables = append(p.header.Variables, VariableInfo{
		ID:        p.cache.Intern(id),
		Name:      p.cache.Intern(name),
		Direction: Implicit,
		Kind:      VariableKindFromString(string(kind)),
		Width:     uint32(w),
		Range:     rng,
		Scope:     scopeSnapshot,
	})
	return rest, false, nil
}
