// Package es5506 emulates the Ensoniq ES5506 wavetable synthesizer: up to 32
// voices playing 16-bit or compressed samples through a 4-pole filter.
package es5506

import (
	"fmt"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
	"vgmchips/hw/hwio"
)

const (
	maxVoices   = 32
	maxRegions  = 4
	maxChannels = 8
)

// Variant selects the number of active voices, which sets the output rate and
// the accumulator width.
type Variant uint8

const (
	Voices24 Variant = iota // 25 active voices, 31-bit accumulators
	Voices32                // 32 active voices, 32-bit accumulators
)

// FlagVoices32 in chip.Config.Flags selects the Voices32 variant. The low 4
// bits of the flags give the output channel count when Config.Channels is 0.
const FlagVoices32 = 1 << 31

type Chip struct {
	chip.RateNotifier

	voices  [maxVoices]voice
	regions [maxRegions]chip.Region[uint16]

	page   uint8
	wlatch hwio.Latch32
	rlatch hwio.ReadLatch32

	clock    uint32
	rate     uint32
	channels int
	variant  Variant
	act      int // index of the last active voice

	lut *tables
}

// New creates an ES5506. The chip is reset before being returned.
func New(cfg chip.Config) (*Chip, error) {
	if cfg.Clock == 0 {
		return nil, fmt.Errorf("es5506: zero clock: %w", chip.ErrAllocation)
	}

	channels := cfg.Channels
	if channels == 0 {
		channels = int(cfg.Flags & 0x0F)
	}
	if channels == 0 {
		channels = 2
	}
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("es5506: %d output channels: %w", channels, chip.ErrAllocation)
	}

	c := &Chip{
		clock:    cfg.Clock,
		channels: channels,
		lut:      lut,
	}
	if cfg.Flags&FlagVoices32 != 0 {
		c.variant = Voices32
	}
	if len(cfg.ROM) != 0 {
		c.LoadData(0, 0, cfg.ROM, false)
	}
	c.Reset()
	return c, nil
}

func (c *Chip) Name() string { return "ES5506" }

func (c *Chip) Variant() Variant { return c.variant }

func (c *Chip) accumMask() uint32 {
	if c.variant == Voices32 {
		return 0xFFFFFFFF
	}
	return 0x7FFFFFFF
}

func (c *Chip) Reset() {
	mask := c.accumMask()
	for i := range c.voices {
		c.voices[i].reset(mask)
	}
	c.page = 0
	c.wlatch.Reset()
	c.rlatch.Reset()

	c.act = 24
	if c.variant == Voices32 {
		c.act = 31
	}
	c.rate = c.clock / uint32(16*(c.act+1))

	log.ModES5506.InfoZ("reset").
		Uint32("clock", c.clock).
		Uint32("rate", c.rate).
		Int("voices", c.act+1).
		End()

	c.Notify(c.rate)
}

func (c *Chip) Stop() {
	for i := range c.regions {
		c.regions[i].Release()
	}
}

func (c *Chip) SampleRate() uint32 { return c.rate }
func (c *Chip) Channels() int      { return c.channels }

func (c *Chip) SetMuteMask(mask uint32) {
	for i := range c.voices {
		c.voices[i].muted = hwio.GetBit32(mask, uint(i))
	}
}

// LoadData loads sample data in one of the 4 regions. Without expand8, data
// holds little-endian 16-bit samples and offset is in bytes. With expand8,
// data holds 8-bit samples stored in the high byte of each word, and offset
// counts samples.
func (c *Chip) LoadData(region int, offset uint32, data []byte, expand8 bool) {
	if region < 0 || region >= maxRegions {
		log.ModES5506.WarnZ("invalid region").Int("region", region).End()
		return
	}
	r := &c.regions[region]

	if expand8 {
		words := r.Grow(int(offset) + len(data))
		for i, b := range data {
			words[int(offset)+i] = uint16(b) << 8
		}
		return
	}

	end := int(offset) + len(data)
	words := r.Grow((end + 1) / 2)
	for i, b := range data {
		pos := int(offset) + i
		w := &words[pos/2]
		if pos&1 == 0 {
			*w = *w&0xFF00 | uint16(b)
		} else {
			*w = *w&0x00FF | uint16(b)<<8
		}
	}
}

// DecodeROMOffset splits the offset of a packed sample data block: bits 29-28
// select the region and bit 31 marks 8-bit data.
func DecodeROMOffset(off uint32) (region int, offset uint32, expand8 bool) {
	return int(off>>28) & 3, off & 0x0FFFFFFF, off&(1<<31) != 0
}
