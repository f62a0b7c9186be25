package psg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgmchips/hw/chip"
)

func newChip(t *testing.T) *Chip {
	t.Helper()
	c, err := New(chip.Config{Clock: 3579545})
	require.NoError(t, err)
	return c
}

// tone plays channel 0 at full volume and silences the others.
func tone(c *Chip) {
	c.Write(0, 0x80|0x0E)
	c.Write(0, 0x0F)
	c.Write(0, 0x90)
	c.Write(0, 0xBF)
	c.Write(0, 0xDF)
	c.Write(0, 0xFF)
}

func generate(c *Chip, n int) []int32 {
	out := [][]int32{make([]int32, n)}
	c.Generate(out, n)
	return out[0]
}

func TestNew(t *testing.T) {
	c := newChip(t)
	assert.EqualValues(t, 3579545/16, c.SampleRate())
	assert.Equal(t, 1, c.Channels())

	_, err := New(chip.Config{Clock: 1})
	assert.ErrorIs(t, err, chip.ErrAllocation)
}

func TestTone(t *testing.T) {
	c := newChip(t)
	tone(c)

	out := generate(c, 3000)

	var pos, neg int
	for _, s := range out {
		assert.LessOrEqual(t, s, int32(channelGain))
		assert.GreaterOrEqual(t, s, int32(-channelGain))
		if s > 0 {
			pos++
		} else if s < 0 {
			neg++
		}
	}
	assert.NotZero(t, pos+neg, "tone produced silence")
}

func TestMute(t *testing.T) {
	c := newChip(t)
	tone(c)
	c.SetMuteMask(1)

	for _, s := range generate(c, 2000) {
		require.Zero(t, s)
	}

	c.SetMuteMask(0)
	out := generate(c, 2000)
	assert.NotEqual(t, make([]int32, len(out)), out)
}

func TestResetNotifiesRate(t *testing.T) {
	c := newChip(t)

	var got uint32
	c.SetRateChangeFunc(func(rate uint32) { got = rate })
	c.Reset()
	assert.EqualValues(t, 3579545/16, got)
}

func TestChunkInvariance(t *testing.T) {
	const total = 5000

	whole := newChip(t)
	tone(whole)
	want := generate(whole, total)

	for _, chunk := range []int{1, 7, 253, 1024} {
		c := newChip(t)
		tone(c)

		got := make([]int32, 0, total)
		for off := 0; off < total; off += chunk {
			got = append(got, generate(c, min(chunk, total-off))...)
		}
		require.Equal(t, want, got, "chunk %d", chunk)
	}
}

func TestSamplePeriod(t *testing.T) {
	c := newChip(t)
	tone(c)

	// Tone register 0xFE toggles every 0xFE samples.
	out := generate(c, 0xFE*4)
	for i := 1; i < len(out); i++ {
		if out[i] != out[i-1] {
			assert.Zero(t, i%0xFE, "level changed at sample %d", i)
		}
	}
}
