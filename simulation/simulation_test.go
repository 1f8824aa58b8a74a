package simulation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomashk0/wave/vcd"
)

const twoVarVCD = `$scope module top $end
$var wire 1 ! clk $end
$var reg 8 " data [7:0] $end
$upscope $end
$enddefinitions $end
#0
0!
b00000000 "
#5
1!
#10
0!
b00000001 "
#15
`

func TestStateSimulationCycleRotation(t *testing.T) {
	sim := New(strings.NewReader(twoVarVCD), 16)
	require.NoError(t, sim.LoadHeader())
	require.NoError(t, sim.AllocateState())
	require.Len(t, sim.State(), 9)

	prev, state, err := sim.NextCycle()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), prev)
	assert.Equal(t, int64(0), sim.currentCycle)
	assert.Equal(t, int8(0), state[0])

	prev, state, err = sim.NextCycle()
	require.NoError(t, err)
	assert.Equal(t, int64(0), prev)
	assert.Equal(t, int64(5), sim.currentCycle)
	assert.Equal(t, int8(0), state[0])

	prev, state, err = sim.NextCycle()
	require.NoError(t, err)
	assert.Equal(t, int64(5), prev)
	assert.Equal(t, int64(10), sim.currentCycle)
	assert.Equal(t, int8(1), state[0])
	assert.Equal(t, int8(0), state[1])
	assert.Equal(t, int8(0), state[8])

	prev, _, err = sim.NextCycle()
	require.NoError(t, err)
	assert.Equal(t, int64(10), prev)
	assert.Equal(t, int64(15), sim.currentCycle)
	assert.True(t, sim.Done())
}

func TestStateSimulationTrackVariablesFilter(t *testing.T) {
	sim := New(strings.NewReader(twoVarVCD), 16)
	require.NoError(t, sim.LoadHeader())
	sim.TrackVariables([]string{"!"})
	require.NoError(t, sim.AllocateState())
	require.Len(t, sim.State(), 1)

	info, err := sim.HeaderInfo()
	require.NoError(t, err)
	assert.True(t, info["!"].HasOffset)
	assert.False(t, info[`"`].HasOffset)
}

func TestApplyVectorLeftExtendsWithLeadingBit(t *testing.T) {
	dst := make([]int8, 128)
	literal := []byte(strings.Repeat("1", 37))
	applyVector(dst, literal)

	for i := 0; i < 91; i++ {
		assert.Equal(t, int8(1), dst[i], "byte %d", i)
	}
	for i := 91; i < 128; i++ {
		assert.Equal(t, int8(1), dst[i], "byte %d", i)
	}
}

func TestApplyVectorLeftExtendsWithZero(t *testing.T) {
	dst := make([]int8, 8)
	applyVector(dst, []byte("01"))
	assert.Equal(t, []int8{0, 0, 0, 0, 0, 0, 0, 1}, dst)
}

func TestApplyVectorExactWidth(t *testing.T) {
	dst := make([]int8, 4)
	applyVector(dst, []byte("1x0Z"))
	assert.Equal(t, []int8{1, -4, 0, -3}, dst)
}

func TestStateSimulationDuplicateIDSameWidthCollapses(t *testing.T) {
	const vcdSrc = `$scope module a $end
$var wire 1 ! clk $end
$upscope $end
$scope module b $end
$var wire 1 ! clk $end
$upscope $end
$enddefinitions $end
#0
1!
`
	sim := New(strings.NewReader(vcdSrc), 16)
	require.NoError(t, sim.LoadHeader())
	require.NoError(t, sim.AllocateState())
	assert.Len(t, sim.State(), 1)
}

func TestStateSimulationDuplicateIDWidthMismatchPanics(t *testing.T) {
	const vcdSrc = `$scope module a $end
$var wire 1 ! clk $end
$upscope $end
$scope module b $end
$var reg 8 ! clk [7:0] $end
$upscope $end
$enddefinitions $end
#0
`
	sim := New(strings.NewReader(vcdSrc), 16)
	require.NoError(t, sim.LoadHeader())
	assert.Panics(t, func() {
		_ = sim.AllocateState()
	})
}

func TestStateSimulationAllocateBeforeHeaderFails(t *testing.T) {
	sim := New(strings.NewReader(twoVarVCD), 16)
	err := sim.AllocateState()
	assert.Error(t, err)
}

func TestStateSimulationNextCycleAfterEnddefinitionsIsEndOfInput(t *testing.T) {
	const vcdSrc = `$scope module top $end
$var wire 1 ! clk $end
$upscope $end
$enddefinitions $end`
	sim := New(strings.NewReader(vcdSrc), 16)
	require.NoError(t, sim.LoadHeader())
	require.NoError(t, sim.AllocateState())
	require.True(t, sim.Done())

	_, _, err := sim.NextCycle()
	assert.ErrorIs(t, err, vcd.ErrEndOfInput)
}
