// Package msm5205 emulates the OKI MSM5205 ADPCM speech synthesizer.
//
// Codes written to the data port are queued in a small FIFO and decoded one
// per output sample, so that a command stream can write codes ahead of time.
package msm5205

import (
	"fmt"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
	"vgmchips/hw/snapshot"
)

// Control pins, written at any address other than 0.
const (
	PinReset = 0x80
	Pin4Bit  = 0x40 // 4-bit codes when set, 3-bit codes otherwise
	PinS2    = 0x20
	PinS1    = 0x10
)

const rateMask = PinReset | PinS1 | PinS2

const fifoSize = 8

type Chip struct {
	chip.RateNotifier

	clock    uint32
	channels int
	signal   int32
	step     int32

	// One slot is never used, so that a full FIFO can be told from an empty
	// one: it holds at most fifoSize-1 codes.
	fifo   [fifoSize]uint8
	rpos   uint8
	wpos   uint8
	pins   uint8
	muted  bool
	ovflow uint64
}

// New creates an MSM5205. The chip is reset before being returned.
func New(cfg chip.Config) (*Chip, error) {
	if cfg.Clock == 0 {
		return nil, fmt.Errorf("msm5205: zero clock: %w", chip.ErrAllocation)
	}
	if cfg.Channels > 2 {
		return nil, fmt.Errorf("msm5205: %d output channels: %w", cfg.Channels, chip.ErrAllocation)
	}
	c := &Chip{clock: cfg.Clock, channels: cfg.Channels}
	if c.channels == 0 {
		c.channels = 2
	}
	c.Reset()
	return c, nil
}

func (c *Chip) Name() string { return "MSM5205" }

func (c *Chip) Reset() {
	c.signal = -2
	c.step = 0
	c.fifo = [fifoSize]uint8{}
	c.rpos, c.wpos = 0, 0
	c.pins = PinS2
	c.Notify(c.SampleRate())
}

func (c *Chip) Stop() {}

func (c *Chip) prescaler() uint32 {
	switch c.pins & (PinS1 | PinS2) {
	case PinS1 | PinS2:
		return 48
	case PinS1:
		return 64
	case PinS2:
		return 96
	}
	return 192
}

func (c *Chip) SampleRate() uint32 { return c.clock / c.prescaler() }

// Channels returns the configured number of output channels, 2 by default.
// In stereo, the mono output is written to both channels.
func (c *Chip) Channels() int { return c.channels }

func (c *Chip) SetClock(clock uint32) {
	c.clock = clock
	c.Notify(c.SampleRate())
}

func (c *Chip) SetMuteMask(mask uint32) { c.muted = mask&1 != 0 }

// LoadData does nothing, the MSM5205 has no sample memory.
func (c *Chip) LoadData(int, uint32, []byte, bool) {}

// Read returns the control pins.
func (c *Chip) Read(addr uint32) uint8 { return c.pins }

// Pending returns the number of queued codes.
func (c *Chip) Pending() int {
	return int((c.wpos - c.rpos) & (fifoSize - 1))
}

// Overflows returns the number of codes dropped because the FIFO was full.
func (c *Chip) Overflows() uint64 { return c.ovflow }

// Write queues a code at address 0 and sets the control pins at any other
// address.
func (c *Chip) Write(addr uint32, val uint8) {
	if addr == 0 {
		c.enqueue(val)
		return
	}

	old := c.pins
	c.pins = val
	if (old^val)&rateMask == 0 {
		return
	}
	if (old^val)&PinReset != 0 {
		c.signal = 0
		c.step = 0
	}
	log.ModMSM5205.DebugZ("pins changed").
		Hex8("pins", val).
		Uint32("rate", c.SampleRate()).
		End()
	c.Notify(c.SampleRate())
}

func (c *Chip) enqueue(val uint8) {
	next := (c.wpos + 1) & (fifoSize - 1)
	if next == c.rpos {
		c.ovflow++
		log.ModMSM5205.WarnZ("FIFO overflow, code dropped").
			Hex8("code", val).
			Uint("overflows", c.ovflow).
			End()
		return
	}

	code := val & 0x0F
	if c.pins&Pin4Bit == 0 {
		code = (val << 1) & 0x0F
	}
	c.fifo[c.wpos] = code
	c.wpos = next
}

// decode runs one ADPCM step and returns the new signal.
func (c *Chip) decode(code uint8) int32 {
	delta := diffLookup[c.step*16+int32(code&0x0F)]
	c.signal = (delta<<8 + c.signal*245) >> 8
	c.signal = max(-2048, min(2047, c.signal))

	c.step += indexShift[code&7]
	c.step = max(0, min(maxStep, c.step))
	return c.signal
}

func (c *Chip) sample() int32 {
	if c.muted || c.pins&PinReset != 0 {
		return 0
	}
	if c.rpos == c.wpos {
		// Nothing queued, hold a decayed signal.
		return c.signal * 15 / 16
	}

	code := c.fifo[c.rpos]
	c.rpos = (c.rpos + 1) & (fifoSize - 1)
	return c.decode(code) << 4
}

// Generate writes n samples to out[0], and to out[1] if present.
func (c *Chip) Generate(out [][]int32, n int) {
	left := out[0][:n]
	for i := range left {
		left[i] = c.sample()
	}
	if len(out) > 1 {
		copy(out[1][:n], left)
	}
}

func (c *Chip) State() *snapshot.MSM5205 {
	return &snapshot.MSM5205{
		Version:   snapshot.Version,
		Signal:    c.signal,
		Step:      c.step,
		Ring:      c.fifo,
		ReadPos:   c.rpos,
		WritePos:  c.wpos,
		Pins:      c.pins,
		Muted:     c.muted,
		Clock:     c.clock,
		Overflows: c.ovflow,
	}
}

func (c *Chip) SetState(state *snapshot.MSM5205) {
	c.signal = state.Signal
	c.step = state.Step
	c.fifo = state.Ring
	c.rpos = state.ReadPos & (fifoSize - 1)
	c.wpos = state.WritePos & (fifoSize - 1)
	c.pins = state.Pins
	c.muted = state.Muted
	c.clock = state.Clock
	c.ovflow = state.Overflows
}
