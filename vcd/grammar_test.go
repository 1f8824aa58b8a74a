package vcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidth(t *testing.T) {
	rest, v, err := width([]byte("1209   ..."))
	require.NoError(t, err)
	assert.Equal(t, int64(1209), v)
	assert.Equal(t, "...", string(rest))

	rest, v, err = width([]byte("3\n\t   ..."))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	assert.Equal(t, "...", string(rest))

	rest, v, err = width([]byte("43xx "))
	require.NoError(t, err)
	assert.Equal(t, int64(43), v)
	assert.Equal(t, "xx ", string(rest))

	rest, v, err = width([]byte("1 a"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, "a", string(rest))

	_, _, err = width([]byte(" 3"))
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	for _, in := range []string{"[ 4  ]  ...", "[4 ]\n...", "[4]\t..."} {
		rest, v, err := rangeParser([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, Range{IsPair: false, Bit: 4}, v)
		assert.Equal(t, "...", string(rest))
	}

	for _, in := range []string{"[12:0]xx", "[ 12:0]\nxx", "[12 :0]\nxx", "[12 : 0]\nxx", "[ 12 : 0 ]\nxx"} {
		rest, v, err := rangeParser([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, Range{IsPair: true, MSB: 12, LSB: 0}, v)
		assert.Equal(t, "xx", string(rest))
	}

	rest, v, err := rangeParser([]byte("[-1: 0] xx"))
	require.NoError(t, err)
	assert.Equal(t, Range{IsPair: true, MSB: -1, LSB: 0}, v)
	assert.Equal(t, "xx", string(rest))
}

func TestVcdEnd(t *testing.T) {
	rest, err := vcdEnd([]byte("$end "))
	require.NoError(t, err)
	assert.Equal(t, "", string(rest))

	rest, err = vcdEnd([]byte("$end \nab"))
	require.NoError(t, err)
	assert.Equal(t, "ab", string(rest))

	_, err = vcdEnd([]byte("$enddefinition \nab"))
	assert.Error(t, err)
}

func TestVarName(t *testing.T) {
	rest, v, err := varName([]byte("foo \nab"))
	require.NoError(t, err)
	assert.Equal(t, "foo", string(v))
	assert.Equal(t, "ab", string(rest))

	rest, v, err = varName([]byte("foo[7] \nab"))
	require.NoError(t, err)
	assert.Equal(t, "foo", string(v))
	assert.Equal(t, "[7] \nab", string(rest))

	_, _, err = varName([]byte("$foo[7] \nab"))
	assert.Error(t, err)

	_, _, err = varName([]byte(" foo[7] \nab"))
	assert.Error(t, err)

	_, _, err = varName([]byte("[foo[7] \nab"))
	assert.Error(t, err)
}

func TestWord(t *testing.T) {
	rest, v, err := word([]byte("foo $xxx "))
	require.NoError(t, err)
	assert.Equal(t, "foo", string(v))
	assert.Equal(t, "$xxx ", string(rest))

	rest, v, err = word([]byte("$foo aa"))
	require.NoError(t, err)
	assert.Equal(t, "$foo", string(v))
	assert.Equal(t, "aa", string(rest))
}

func TestSkipUntilVcdEnd(t *testing.T) {
	rest, err := skipUntilVcdEnd([]byte("foo$hello $end "))
	require.NoError(t, err)
	assert.Equal(t, "", string(rest))

	rest, err = skipUntilVcdEnd([]byte("body \n\n hello $date $end \t x"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(rest))
}

func TestCycleParser(t *testing.T) {
	rest, v, err := cycleParser([]byte("#1244 $end"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1244), v)
	assert.Equal(t, "$end", string(rest))

	rest, v, err = cycleParser([]byte("#123456789 "))
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), v)
	assert.Equal(t, "", string(rest))

	_, _, err = cycleParser([]byte("#bla $end"))
	assert.Error(t, err)

	_, _, err = cycleParser([]byte("# 12 $end"))
	assert.Error(t, err)
}

func TestChanges(t *testing.T) {
	rest, bit, id, err := bitChange([]byte("x!! #2"))
	require.NoError(t, err)
	assert.Equal(t, byte('x'), bit)
	assert.Equal(t, "!!", string(id))
	assert.Equal(t, "#2", string(rest))

	rest, bit, id, err = bitChange([]byte("1 hhhxr' 0"))
	require.NoError(t, err)
	assert.Equal(t, byte('1'), bit)
	assert.Equal(t, "hhhxr'", string(id))
	assert.Equal(t, "0", string(rest))

	rest, bits, id, err := vectorChange([]byte("b1 x "))
	require.NoError(t, err)
	assert.Equal(t, "1", string(bits))
	assert.Equal(t, "x", string(id))
	assert.Equal(t, "", string(rest))

	rest, bits, id, err = vectorChange([]byte("b1001101 lala "))
	require.NoError(t, err)
	assert.Equal(t, "1001101", string(bits))
	assert.Equal(t, "lala", string(id))
	assert.Equal(t, "", string(rest))

	rest, bits, id, err = vectorChange([]byte("bZzXxUu01 vid ..."))
	require.NoError(t, err)
	assert.Equal(t, "ZzXxUu01", string(bits))
	assert.Equal(t, "vid", string(id))
	assert.Equal(t, "...", string(rest))

	rest, lit, id, err := realChange([]byte("r3.22 # oups"))
	require.NoError(t, err)
	assert.Equal(t, "3.22", string(lit))
	assert.Equal(t, "#", string(id))
	assert.Equal(t, "oups", string(rest))

	rest, cmd, err := ParseCommand([]byte("b01110 ! "))
	require.NoError(t, err)
	assert.Equal(t, "", string(rest))
	assert.Equal(t, CmdValueChange, cmd.Kind)
	assert.Equal(t, ValueVector, cmd.ValueKind)
	assert.Equal(t, "!", string(cmd.VarID))
	assert.Equal(t, "01110", string(cmd.Vector))
}

func TestParseCommandDirective(t *testing.T) {
	rest, cmd, err := ParseCommand([]byte("$dumpvars $end"))
	require.NoError(t, err)
	assert.Equal(t, CmdDirective, cmd.Kind)
	assert.Equal(t, "dumpvars", string(cmd.Directive))
	assert.Equal(t, "$end", string(rest))

	rest, cmd, err = ParseCommand([]byte("$end "))
	require.NoError(t, err)
	assert.Equal(t, CmdEnd, cmd.Kind)
	assert.Equal(t, "", string(rest))
}

func TestParseCommandIncomplete(t *testing.T) {
	_, _, err := ParseCommand([]byte("#123"))
	assert.True(t, isIncomplete(err))
}
