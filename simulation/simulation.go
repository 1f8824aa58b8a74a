// Package simulation replays a VCD command stream into a flat byte state
// vector, one simulation cycle at a time.
package simulation

import (
	"fmt"
	"io"

	mapset "github.com/deckarep/golang-set"

	"github.com/thomashk0/wave/internal/wlog"
	"github.com/thomashk0/wave/vcd"
)

// logicLevel maps a VCD bit character to its i8 encoding: 0/1 are literal,
// the four-state and high-impedance values get distinct negative codes, and
// anything else (should not occur in a conforming trace) gets -5.
func logicLevel(c byte) int8 {
	switch c {
	case '0':
		return 0
	case '1':
		return 1
	case 'U', 'u':
		return -1
	case 'W', 'w':
		return -2
	case 'Z', 'z':
		return -3
	case 'X', 'x':
		return -4
	default:
		return -5
	}
}

// VarInfo pairs a declared variable with its state-vector offset, if the
// simulation allocated space for it (variables of kind real, and variables
// excluded by a tracked-variable filter, have no offset).
type VarInfo struct {
	Offset    int
	HasOffset bool
	Info      vcd.VariableInfo
}

// StateSimulation replays a VCD source into a flat state vector indexed by
// variable offset, advancing one cycle at a time.
type StateSimulation struct {
	parser *vcd.StreamParser

	state     []int8
	varOffset map[string]int
	varWidth  map[string]int
	tracked   mapset.Set

	previousCycle int64
	currentCycle  int64

	log *wlog.Logger
}

const initialVarCapacity = 2048

// New returns a StateSimulation reading from src, chunking refills at
// chunkSize bytes.
func New(src io.Reader, chunkSize int) *StateSimulation {
	return &StateSimulation{
		parser:        vcd.NewStreamParser(src, chunkSize),
		state:         make([]int8, 0, initialVarCapacity),
		varOffset:     make(map[string]int, initialVarCapacity),
		varWidth:      make(map[string]int, initialVarCapacity),
		tracked:       mapset.NewSet(),
		previousCycle: -1,
		currentCycle:  -1,
		log:           wlog.New("simulation"),
	}
}

// State returns the current flat state vector; byte i encodes the logic
// level of whatever variable was allocated at offset i.
func (s *StateSimulation) State() []int8 {
	return s.state
}

// TrackVariables restricts the allocated state to the given variable ids.
// Must be called before AllocateState. An empty call leaves every variable
// tracked (the default).
func (s *StateSimulation) TrackVariables(ids []string) {
	for _, id := range ids {
		s.tracked.Add(id)
	}
}

// LoadHeader drives the underlying stream parser's header parse to
// completion.
func (s *StateSimulation) LoadHeader() error {
	_, err := s.parser.LoadHeader()
	return err
}

// Done reports whether the underlying source is fully drained.
func (s *StateSimulation) Done() bool {
	return s.parser.Done()
}

// AllocateState lays out the flat state vector from the loaded header:
// real-kind variables are excluded, and if TrackVariables named a non-empty
// set, variables outside it are excluded too. Multiple $var declarations
// sharing one id (a common VCD idiom for a clock fanned out across scopes)
// collapse onto a single offset; a width mismatch between them is a
// malformed trace and panics rather than silently corrupting the vector.
func (s *StateSimulation) AllocateState() error {
	h := s.parser.Header()
	if !s.parser.HeaderSealed() {
		return vcd.ErrPartialHeader
	}

	offset := 0
	for k := range s.varOffset {
		delete(s.varOffset, k)
	}
	for k := range s.varWidth {
		delete(s.varWidth, k)
	}

	hasTracked := s.tracked.Cardinality() > 0
	for _, v := range h.Variables {
		if w, ok := s.varWidth[v.ID]; ok {
			if w != int(v.Width) {
				panic(fmt.Sprintf("simulation: variable %q redeclared with width %d, previously %d", v.ID, v.Width, w))
			}
			continue
		}
		if v.Kind == vcd.VcdReal {
			continue
		}
		if hasTracked && !s.tracked.Contains(v.ID) {
			continue
		}
		s.varOffset[v.ID] = offset
		s.varWidth[v.ID] = int(v.Width)
		offset += int(v.Width)
	}

	if cap(s.state) < offset {
		s.state = make([]int8, offset)
	} else {
		s.state = s.state[:offset]
		for i := range s.state {
			s.state[i] = 0
		}
	}
	return nil
}

// HeaderInfo returns, for every declared variable id, its allocated offset
// (if any) alongside the last VariableInfo seen for that id.
func (s *StateSimulation) HeaderInfo() (map[string]VarInfo, error) {
	if !s.parser.HeaderSealed() {
		return nil, vcd.ErrPartialHeader
	}
	h := s.parser.Header()
	out := make(map[string]VarInfo, len(h.Variables))
	for _, v := range h.Variables {
		offset, ok := s.varOffset[v.ID]
		out[v.ID] = VarInfo{Offset: offset, HasOffset: ok, Info: v}
	}
	return out, nil
}

// NextCycle drains commands from the stream until the *next* #cycle marker
// is observed (or the source ends), applying every value change for
// tracked variables into the state vector in place, and returns the cycle
// that was current *before* this call — the commands just applied belong
// to that cycle, and the marker just observed opens the next one.
func (s *StateSimulation) NextCycle() (int64, []int8, error) {
	if s.parser.Done() {
		return 0, nil, vcd.ErrEndOfInput
	}

	var cycle int64
	hasTracked := s.tracked.Cardinality() > 0

	err := s.parser.ProcessCommands(func(cmd vcd.Command) bool {
		switch cmd.Kind {
		case vcd.CmdSetCycle:
			cycle = int64(cmd.Cycle)
			return true
		case vcd.CmdValueChange:
			id := string(cmd.VarID)
			if hasTracked && !s.tracked.Contains(id) {
				return false
			}
			base, ok := s.varOffset[id]
			if !ok {
				s.log.Warn("value change for unallocated variable", "id", id)
				return false
			}
			switch cmd.ValueKind {
			case vcd.ValueBit:
				s.state[base] = logicLevel(cmd.Bit)
			case vcd.ValueVector:
				w := s.varWidth[id]
				applyVector(s.state[base:base+w], cmd.Vector)
			case vcd.ValueReal:
				// Real-valued changes never have an allocated offset.
			}
		}
		return false
	})
	if err != nil {
		return 0, nil, err
	}

	s.previousCycle = s.currentCycle
	s.currentCycle = cycle
	return s.previousCycle, s.state, nil
}

// applyVector writes a (possibly left-extended) vector literal into dst.
// VCD emits vector literals without explicit zero-padding: a literal
// shorter than the destination width is left-extended by repeating its own
// most-significant bit, not by zero-padding (see the picorv32 trace, where
// an `a"` 128-bit id's first observed literal is only 37 bits wide and the
// remaining 91 bits take on that literal's leading `1`).
func applyVector(dst []int8, literal []byte) {
	if len(literal) == 0 {
		return
	}
	pad := len(dst) - len(literal)
	if pad < 0 {
		pad = 0
	}
	msb := logicLevel(literal[0])
	for i := 0; i < pad; i++ {
		dst[i] = msb
	}
	for i, c := range literal {
		if pad+i >= len(dst) {
			break
		}
		dst[pad+i] = logicLevel(c)
	}
}
