// Package k005289 emulates the Konami 005289, a two voice waveform generator
// playing 32-step 4-bit waveforms from an external 512 byte PROM.
package k005289

import (
	"fmt"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
	"vgmchips/hw/snapshot"
)

// Register ports, in bits 14-12 of the address. Latch ports also take the
// pitch from address bits 11-0.
const (
	PortControlA = 0
	PortControlB = 1
	PortLatch1   = 2
	PortLatch2   = 3
	PortTrigger1 = 4
	PortTrigger2 = 5
)

const PROMSize = 0x200

type voice struct {
	pitch    uint16 // latched
	freq     uint16
	volume   uint8
	waveform uint8
	counter  uint16
	addr     uint8
}

type Chip struct {
	chip.RateNotifier

	voices [2]voice
	prom   chip.Region[uint8]
	clock  uint32
	mute   uint32
}

// New creates a K005289. cfg.ROM, if set, is the waveform PROM.
func New(cfg chip.Config) (*Chip, error) {
	if cfg.Clock == 0 {
		return nil, fmt.Errorf("k005289: zero clock: %w", chip.ErrAllocation)
	}
	if cfg.Channels > 1 {
		return nil, fmt.Errorf("k005289: %d output channels: %w", cfg.Channels, chip.ErrAllocation)
	}

	c := &Chip{clock: cfg.Clock}
	if len(cfg.ROM) != 0 {
		c.LoadData(0, 0, cfg.ROM, false)
	}
	c.Reset()
	return c, nil
}

func (c *Chip) Name() string { return "K005289" }

func (c *Chip) Reset() {
	c.voices = [2]voice{}
	c.Notify(c.SampleRate())
}

func (c *Chip) Stop() { c.prom.Release() }

func (c *Chip) SampleRate() uint32 { return c.clock / 16 }
func (c *Chip) Channels() int      { return 1 }

func (c *Chip) SetMuteMask(mask uint32) { c.mute = mask & 3 }

// LoadData loads the waveform PROM. Only region 0 exists.
func (c *Chip) LoadData(region int, offset uint32, data []byte, _ bool) {
	if region != 0 {
		log.ModK005289.WarnZ("invalid region").Int("region", region).End()
		return
	}
	chip.LoadBytes(&c.prom, offset, data)
}

// Read returns 0, the chip has no readable register.
func (c *Chip) Read(uint32) uint8 { return 0 }

func (c *Chip) Write(addr uint32, val uint8) {
	switch port := addr >> 12; port {
	case PortControlA, PortControlB:
		v := &c.voices[port-PortControlA]
		v.volume = val & 0x0F
		v.waveform = (val >> 5) & 0x07
	case PortLatch1, PortLatch2:
		c.voices[port-PortLatch1].pitch = 0xFFF - uint16(addr&0xFFF)
	case PortTrigger1, PortTrigger2:
		v := &c.voices[port-PortTrigger1]
		v.freq = v.pitch
	default:
		log.ModK005289.DebugZ("ignored register write").Hex32("addr", addr).Hex8("val", val).End()
	}
}

func (c *Chip) Generate(out [][]int32, n int) {
	buf := out[0][:n]
	for i := range buf {
		var mix int32
		for ch := range c.voices {
			if c.mute&(1<<ch) != 0 {
				continue
			}
			v := &c.voices[ch]
			if v.counter == 0 {
				v.addr = (v.addr + 1) & 0x1F
				v.counter = v.freq
			} else {
				v.counter--
			}

			off := uint32(ch)*0x100 + uint32(v.waveform)<<5 + uint32(v.addr)
			if int(off) >= c.prom.Len() {
				continue
			}
			sample := int32(c.prom.At(off)&0x0F) - 8
			mix += sample * int32(v.volume)
		}
		buf[i] = mix * 256
	}
}

func (c *Chip) State() *snapshot.K005289 {
	state := snapshot.K005289{Version: snapshot.Version, MuteMask: c.mute}
	for i, v := range c.voices {
		state.Voices[i] = snapshot.K005289Voice{
			Pitch:    v.pitch,
			Freq:     v.freq,
			Volume:   v.volume,
			Waveform: v.waveform,
			Counter:  v.counter,
			Addr:     v.addr,
		}
	}
	return &state
}

func (c *Chip) SetState(state *snapshot.K005289) {
	c.mute = state.MuteMask & 3
	for i, s := range state.Voices {
		c.voices[i] = voice{
			pitch:    s.Pitch & 0xFFF,
			freq:     s.Freq & 0xFFF,
			volume:   s.Volume & 0x0F,
			waveform: s.Waveform & 0x07,
			counter:  s.Counter,
			addr:     s.Addr & 0x1F,
		}
	}
}
