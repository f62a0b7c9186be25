package msm5205

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgmchips/hw/chip"
	"vgmchips/hw/snapshot"
)

const testClock = 384000

func newChip(t *testing.T) *Chip {
	t.Helper()
	c, err := New(chip.Config{Clock: testClock})
	require.NoError(t, err)
	return c
}

func generate(c *Chip, n int) []int32 {
	out := [][]int32{make([]int32, n), make([]int32, n)}
	c.Generate(out, n)
	return out[0]
}

func TestNewAllocationFailure(t *testing.T) {
	_, err := New(chip.Config{})
	require.ErrorIs(t, err, chip.ErrAllocation)

	_, err = New(chip.Config{Clock: testClock, Channels: 3})
	require.ErrorIs(t, err, chip.ErrAllocation)
}

func TestChannels(t *testing.T) {
	for _, tt := range []struct{ cfg, want int }{{0, 2}, {1, 1}, {2, 2}} {
		c, err := New(chip.Config{Clock: testClock, Channels: tt.cfg})
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Channels(), "channels = %d", tt.cfg)
	}

	mono, err := New(chip.Config{Clock: testClock, Channels: 1})
	require.NoError(t, err)
	stereo := newChip(t)
	for _, c := range []*Chip{mono, stereo} {
		c.Write(1, PinS2|Pin4Bit)
		c.Write(0, 7)
		c.Write(0, 7)
	}

	out := [][]int32{make([]int32, 4)}
	mono.Generate(out, 4)
	assert.Equal(t, generate(stereo, 4), out[0])
}

func TestDiffLookup(t *testing.T) {
	assert.Equal(t,
		[]int32{2, 6, 10, 14, 18, 22, 26, 30, -2, -6, -10, -14, -18, -22, -26, -30},
		diffLookup[0:16])
	assert.Equal(t,
		[]int32{194, 582, 970, 1358, 1746, 2134, 2522, 2910, -194, -582, -970, -1358, -1746, -2134, -2522, -2910},
		diffLookup[48*16:49*16])
}

func TestSampleRate(t *testing.T) {
	c := newChip(t)

	var rates []uint32
	c.SetRateChangeFunc(func(rate uint32) { rates = append(rates, rate) })

	assert.EqualValues(t, 4000, c.SampleRate())

	c.Write(1, PinS1|PinS2)
	c.Write(1, PinS1)
	c.Write(1, PinS1|Pin4Bit) // no rate change
	c.Write(1, 0)
	c.SetClock(2 * testClock)
	c.Reset()

	assert.Equal(t, []uint32{8000, 6000, 2000, 4000, 8000}, rates)
}

func TestFIFOCapacity(t *testing.T) {
	c := newChip(t)
	for i := range 9 {
		c.Write(0, uint8(i))
	}
	assert.Equal(t, 7, c.Pending())
	assert.EqualValues(t, 2, c.Overflows())

	generate(c, 3)
	assert.Equal(t, 4, c.Pending())

	c.Write(0, 1)
	assert.Equal(t, 5, c.Pending())
	assert.EqualValues(t, 2, c.Overflows())
}

func TestGolden(t *testing.T) {
	c := newChip(t)
	c.Write(1, PinS2|Pin4Bit)

	for _, code := range []uint8{7, 7, 7, 0, 8, 15, 15} {
		c.Write(0, code)
	}
	got := generate(c, 7)

	c.Write(0, 3)
	c.Write(0, 12)
	got = append(got, generate(c, 4)...)

	want := []int32{448, 1424, 3536, 3680, 3248, -784, -9088, -352, -10144, -594, -594}
	assert.Equal(t, want, got)
	assert.EqualValues(t, -634, c.signal)
	assert.EqualValues(t, 39, c.step)
}

func TestThreeBitCodes(t *testing.T) {
	c := newChip(t)

	// 3-bit mode after reset: 3 is decoded as 6.
	c.Write(0, 3)
	assert.Equal(t, []int32{24 << 4}, generate(c, 1))
	assert.EqualValues(t, 6, c.step)
}

func TestResetPin(t *testing.T) {
	c := newChip(t)
	c.Write(1, PinS2|Pin4Bit)
	for range 4 {
		c.Write(0, 7)
	}
	generate(c, 2)
	require.NotZero(t, c.signal)

	var notified int
	c.SetRateChangeFunc(func(uint32) { notified++ })
	c.Write(1, PinReset|PinS2|Pin4Bit)

	assert.Zero(t, c.signal)
	assert.Zero(t, c.step)
	assert.Equal(t, 1, notified)
	assert.Equal(t, []int32{0, 0, 0}, generate(c, 3))
	assert.Equal(t, 2, c.Pending(), "codes are kept while in reset")

	c.Write(1, PinS2|Pin4Bit)
	assert.Equal(t, 2, notified)
	assert.Equal(t, []int32{30 << 4}, generate(c, 1))
}

func TestMute(t *testing.T) {
	c := newChip(t)
	c.SetMuteMask(1)
	c.Write(0, 7)

	assert.Equal(t, []int32{0, 0}, generate(c, 2))
	assert.Equal(t, 1, c.Pending())

	c.Reset()
	assert.True(t, c.muted, "mute survives reset")
}

func TestGenerateMono(t *testing.T) {
	c := newChip(t)
	c.Write(1, PinS2|Pin4Bit)
	c.Write(0, 7)

	out := [][]int32{make([]int32, 2)}
	c.Generate(out, 2)
	assert.Equal(t, []int32{448, 26}, out[0])
}

func TestChunkInvariance(t *testing.T) {
	feed := func(c *Chip) {
		c.Write(1, PinS2|Pin4Bit)
		for _, code := range []uint8{1, 9, 4, 12, 7, 2, 15} {
			c.Write(0, code)
		}
	}

	whole := newChip(t)
	feed(whole)
	want := generate(whole, 20)

	chunked := newChip(t)
	feed(chunked)
	var got []int32
	for _, n := range []int{1, 3, 5, 11} {
		got = append(got, generate(chunked, n)...)
	}

	assert.Equal(t, want, got)
	assert.Equal(t, whole.State(), chunked.State())
}

func TestStateRoundTrip(t *testing.T) {
	c := newChip(t)
	c.Write(1, PinS1|Pin4Bit)
	for _, code := range []uint8{5, 6, 7, 8, 9} {
		c.Write(0, code)
	}
	generate(c, 2)

	state, err := snapshot.UnmarshalMSM5205(snapshot.MarshalMSM5205(c.State()))
	require.NoError(t, err)

	restored := newChip(t)
	restored.SetState(state)
	assert.Equal(t, c.State(), restored.State())
	assert.Equal(t, generate(c, 6), generate(restored, 6))
}
