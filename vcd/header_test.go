package vcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedHeader(t *testing.T, p *HeaderParser, input string) []byte {
	t.Helper()
	rest := []byte(input)
	for {
		r, done, err := p.Next(rest)
		require.NoError(t, err)
		rest = r
		if done {
			return rest
		}
	}
}

func TestHeaderParserScopeNesting(t *testing.T) {
	p := NewHeaderParser()
	rest := feedHeader(t, p, `$scope module top $end
$var wire 1 ! clk $end
$scope module sub $end
$var reg 8 " counter [7:0] $end
$upscope $end
$upscope $end
$enddefinitions $end
#0`)

	assert.Equal(t, "#0", string(rest))
	assert.True(t, p.Sealed())

	h := p.Header()
	require.Len(t, h.Variables, 2)

	clk := h.Variables[0]
	assert.Equal(t, "!", clk.ID)
	assert.Equal(t, "clk", clk.Name)
	assert.Equal(t, VcdWire, clk.Kind)
	assert.Equal(t, uint32(1), clk.Width)
	assert.Nil(t, clk.Range)
	require.Len(t, clk.Scope, 1)
	assert.Equal(t, "top", clk.Scope[0].Name)
	assert.Equal(t, ScopeModule, clk.Scope[0].Kind)

	counter := h.Variables[1]
	assert.Equal(t, `"`, counter.ID)
	assert.Equal(t, "counter", counter.Name)
	assert.Equal(t, uint32(8), counter.Width)
	require.NotNil(t, counter.Range)
	assert.Equal(t, Range{IsPair: true, MSB: 7, LSB: 0}, *counter.Range)
	require.Len(t, counter.Scope, 2)
	assert.Equal(t, "top", counter.Scope[0].Name)
	assert.Equal(t, "sub", counter.Scope[1].Name)
}

func TestHeaderParserUnknownDirectiveSkipped(t *testing.T) {
	p := NewHeaderParser()
	rest := feedHeader(t, p, "$date today $end\n$version 1.0 $end\n$timescale 1ns $end\n$enddefinitions $end\nafter")
	assert.Equal(t, "after", string(rest))
	assert.Empty(t, p.Header().Variables)
}

func TestHeaderParserIncompleteAtBoundary(t *testing.T) {
	p := NewHeaderParser()
	_, _, err := p.Next([]byte("$var wire 1 ! clk"))
	assert.True(t, isIncomplete(err))
}

func TestHeaderParserSingleBitRange(t *testing.T) {
	p := NewHeaderParser()
	rest := feedHeader(t, p, "$var reg 1 # bit [3] $end\n$enddefinitions $end\n")
	assert.Equal(t, "", string(rest))
	require.Len(t, p.Header().Variables, 1)
	v := p.Header().Variables[0]
	require.NotNil(t, v.Range)
	assert.Equal(t, Range{IsPair: false, Bit: 3}, *v.Range)
}
