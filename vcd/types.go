// Package vcd implements a streaming parser for the Value Change Dump
// waveform format (IEEE 1364 §18.7): lexical grammar, a header-directive
// driver, and the refill-buffer glue that turns an arbitrarily large input
// into a typed command stream.
package vcd

// ScopeKind enumerates the Verilog/VHDL/SystemVerilog scope kinds a $scope
// directive may declare. The encoding is a closed, contiguous integer set
// terminated by ScopeEnd; unknown kind strings map to ScopeOther.
type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeTask
	ScopeFunction
	ScopeBegin
	ScopeFork
	ScopeGenerate
	ScopeStruct
	ScopeUnion
	ScopeClass
	ScopeInterface
	ScopePackage
	ScopeProgram

	ScopeVhdlArchitecture
	ScopeVhdlProcedure
	ScopeVhdlFunction
	ScopeVhdlRecord
	ScopeVhdlProcess
	ScopeVhdlBlock
	ScopeVhdlForGenerate
	ScopeVhdlIfGenerate
	ScopeVhdlGenerate
	ScopeVhdlPackage

	ScopeOther
	ScopeEnd
)

var scopeKindNames = map[string]ScopeKind{
	"module":   ScopeModule,
	"task":     ScopeTask,
	"function": ScopeFunction,
	"begin":    ScopeBegin,
	"fork":     ScopeFork,
}

// ScopeKindFromString maps a $scope kind token to its ScopeKind, defaulting
// to ScopeOther for anything not in the fixed table above.
func ScopeKindFromString(s string) ScopeKind {
	if k, ok := scopeKindNames[s]; ok {
		return k
	}
	return ScopeOther
}

// VariableKind enumerates the declared type of a $var directive. Variables
// of kind VcdReal are excluded from the simulation's state vector regardless
// of declared width; the other real-valued kinds (VcdRealParameter,
// SvShortreal) are not excluded.
type VariableKind uint8

const (
	VcdEvent VariableKind = iota
	VcdInteger
	VcdParameter
	VcdReal
	VcdRealParameter
	VcdReg
	VcdSupply0
	VcdSupply1
	VcdTime
	VcdTri
	VcdTriand
	VcdTrior
	VcdTrireg
	VcdTri0
	VcdTri1
	VcdWand
	VcdWire
	VcdWor
	VcdPort
	VcdSparray
	VcdRealtime

	GenString

	SvBit
	SvLogic
	SvInt
	SvShortint
	SvLongint
	SvByte
	SvEnum
	SvShortreal

	VariableKindEnd
)

var variableKindNames = map[string]VariableKind{
	"event":     VcdEvent,
	"integer":   VcdInteger,
	"parameter": VcdParameter,
	"real":      VcdReal,
	"reg":       VcdReg,
	"supply0":   VcdSupply0,
	"supply1":   VcdSupply1,
	"time":      VcdTime,
	"tri":       VcdTri,
	"triand":    VcdTriand,
	"trior":     VcdTrior,
	"trireg":    VcdTrireg,
	"tri0":      VcdTri0,
	"tri1":      VcdTri1,
	"wand":      VcdWand,
	"wire":      VcdWire,
	"wor":       VcdWor,
}

// VariableKindFromString maps a $var kind token to its VariableKind,
// defaulting to VariableKindEnd (an "unknown" sentinel, see spec.md §4.C)
// for anything not in the fixed table above.
func VariableKindFromString(s string) VariableKind {
	if k, ok := variableKindNames[s]; ok {
		return k
	}
	return VariableKindEnd
}

// String returns the $var kind token this VariableKind was parsed from, or
// "unknown" for VariableKindEnd.
func (k VariableKind) String() string {
	for s, v := range variableKindNames {
		if v == k {
			return s
		}
	}
	return "unknown"
}

// Direction exists only so VariableInfo can share its shape with a future
// binary-format (FST) frontend; VCD variables are always Implicit.
type Direction uint8

const (
	Implicit Direction = iota
	Input
	Output
	Inout
	Buffer
	Linkage
	DirectionEnd
)

// Range is the optional indexing suffix of a $var directive: either a
// single bit index or an inclusive [msb:lsb] pair. IsPair selects which is
// meaningful: Bit when false, MSB and LSB when true.
type Range struct {
	IsPair bool  `json:"isPair"`
	Bit    int64 `json:"bit,omitempty"`
	MSB    int64 `json:"msb,omitempty"`
	LSB    int64 `json:"lsb,omitempty"`
}

// Scope is one entry of the nested scope path snapshotted into every
// VariableInfo at $var declaration time.
type Scope struct {
	Kind ScopeKind `json:"kind"`
	Name string    `json:"name"`
}

// VariableInfo is a single $var declaration.
type VariableInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Kind      VariableKind `json:"kind"`
	Width     uint32    `json:"width"`
	Range     *Range    `json:"range,omitempty"`
	Scope     []Scope   `json:"scope"`
}

// Header is the ordered list of variable declarations collected by
// HeaderParser, sealed once $enddefinitions $end has been observed.
type Header struct {
	Variables []VariableInfo `json:"variables"`
}
