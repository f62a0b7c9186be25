// Package psg exposes the SN76489 programmable sound generator through the
// chip.Device interface.
package psg

import (
	"fmt"

	sn76489 "github.com/user-none/go-chip-sn76489"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
)

const (
	clockDivider = 16

	// The library sample buffer is unused, samples are read one at a time.
	bufferSize = 1

	// Full volume of one tone channel, 4 channels fit in 16 bits.
	channelGain = 8191.0
)

type Chip struct {
	chip.RateNotifier

	psg   *sn76489.SN76489
	clock uint32
	muted bool
}

func New(cfg chip.Config) (*Chip, error) {
	if cfg.Clock < clockDivider {
		return nil, fmt.Errorf("psg: clock %d too low: %w", cfg.Clock, chip.ErrAllocation)
	}
	if cfg.Channels > 1 {
		return nil, fmt.Errorf("psg: %d output channels: %w", cfg.Channels, chip.ErrAllocation)
	}

	c := &Chip{clock: cfg.Clock}
	c.psg = sn76489.New(int(cfg.Clock), int(c.SampleRate()), bufferSize, sn76489.Sega)
	c.psg.SetGain(channelGain)
	c.Reset()
	return c, nil
}

func (c *Chip) Name() string { return "SN76489" }

func (c *Chip) Reset() {
	c.psg.Reset()
	c.Notify(c.SampleRate())
}

func (c *Chip) Stop() {}

func (c *Chip) SampleRate() uint32 { return c.clock / clockDivider }
func (c *Chip) Channels() int      { return 1 }

func (c *Chip) SetMuteMask(mask uint32) { c.muted = mask&1 != 0 }

// LoadData does nothing, the SN76489 has no sample memory.
func (c *Chip) LoadData(int, uint32, []byte, bool) {}

// Read returns 0, the SN76489 is write only.
func (c *Chip) Read(uint32) uint8 { return 0 }

// Write sends a command byte to the chip, the address is ignored.
func (c *Chip) Write(_ uint32, val uint8) {
	log.ModPSG.DebugZ("write").Hex8("val", val).End()
	c.psg.Write(val)
}

// Generate clocks the chip 16 times per output sample, so that the output
// does not depend on how calls are split.
func (c *Chip) Generate(out [][]int32, n int) {
	buf := out[0][:n]
	for i := range buf {
		for range clockDivider {
			c.psg.Clock()
		}
		buf[i] = int32(c.psg.Sample())
	}
	if c.muted {
		clear(buf)
	}
}
