package es5506

import (
	"vgmchips/emu/log"
	"vgmchips/hw/hwio"
)

// Register pages, selected by the page register bits 6-5.
const (
	pageVoice  = 0x00 // control, frequency, addresses, filter history
	pageVolume = 0x20 // volumes and ramps
	pageFilter = 0x40 // filter coefficients and ramps
)

const regPage = 15

// Write writes one byte of a 32-bit register. Registers are written most
// significant byte first; a register only changes once its least significant
// byte (addr&3 == 3) is written.
func (c *Chip) Write(addr uint32, val uint8) {
	addr &= 0x3F
	v, ok := c.wlatch.Write(addr, val)
	if !ok {
		return
	}

	reg := addr >> 2
	if reg == regPage {
		c.page = uint8(v & 0x7F)
		return
	}

	vc := &c.voices[c.page&0x1F]
	group := c.page & 0x60

	switch {
	case group == pageVoice && reg == 0:
		vc.control = v & 0xFFFF
	case group == pageVoice && reg == 1:
		vc.freqcount = v & 0x1FFFF
	case group == pageVoice && reg == 2:
		vc.start = v & 0xFFFFF800
	case group == pageVoice && reg == 3:
		vc.end = v & 0xFFFFFF80
	case group == pageVoice && reg == 4:
		vc.accum = v & vc.accumMask
	case group == pageVoice && reg == 5:
		vc.o4n1 = hwio.SignExtend32(v, 18)
	case group == pageVoice && reg == 6:
		vc.o3n1 = hwio.SignExtend32(v, 18)
	case group == pageVoice && reg == 7:
		vc.o3n2 = hwio.SignExtend32(v, 18)

	case group == pageVolume && reg == 0:
		vc.lvol = v & 0xFFFF
	case group == pageVolume && reg == 1:
		vc.rvol = v & 0xFFFF
	case group == pageVolume && reg == 2:
		vc.lvramp = int8(v >> 8)
	case group == pageVolume && reg == 3:
		vc.rvramp = int8(v >> 8)
	case group == pageVolume && reg == 4:
		vc.ecount = v & 0x1FF

	case group == pageFilter && reg == 0:
		vc.k2 = v & 0xFFFF
	case group == pageFilter && reg == 1:
		vc.k2ramp = int8(v >> 8)
	case group == pageFilter && reg == 2:
		vc.k1 = v & 0xFFFF
	case group == pageFilter && reg == 3:
		vc.k1ramp = int8(v >> 8)

	default:
		log.ModES5506.DebugZ("ignored register write").
			Hex8("page", c.page).
			Uint32("reg", reg).
			Hex32("val", v).
			End()
	}
}

// Read reads one byte of a 32-bit register. Reading the most significant byte
// latches the whole register so that the other bytes are coherent.
func (c *Chip) Read(addr uint32) uint8 {
	addr &= 0x3F
	reg := addr >> 2

	val := c.rlatch.Read(addr, func() uint32 { return c.readReg(reg) })

	// Reading the last byte of IRQV acknowledges the reported voice.
	if c.page&0x60 == pageFilter && reg == 4 && hwio.LatchComplete(addr) {
		if v := c.rlatch.Value(); v&0x80 == 0 {
			c.voices[v&0x1F].control &^= ctrlIRQ
		}
	}
	return val
}

func (c *Chip) readReg(reg uint32) uint32 {
	if reg == regPage {
		return uint32(c.page)
	}

	vc := &c.voices[c.page&0x1F]
	switch c.page & 0x60 {
	case pageVoice:
		switch reg {
		case 0:
			return vc.control
		case 1:
			return vc.freqcount
		case 2:
			return vc.start
		case 3:
			return vc.end
		case 4:
			return vc.accum
		case 5:
			return uint32(vc.o4n1) & 0x3FFFF
		case 6:
			return uint32(vc.o3n1) & 0x3FFFF
		case 7:
			return uint32(vc.o3n2) & 0x3FFFF
		}
	case pageVolume:
		switch reg {
		case 0:
			return vc.lvol
		case 1:
			return vc.rvol
		case 2:
			return uint32(uint8(vc.lvramp)) << 8
		case 3:
			return uint32(uint8(vc.rvramp)) << 8
		case 4:
			return vc.ecount
		}
	case pageFilter:
		switch reg {
		case 0:
			return vc.k2
		case 1:
			return uint32(uint8(vc.k2ramp)) << 8
		case 2:
			return vc.k1
		case 3:
			return uint32(uint8(vc.k1ramp)) << 8
		case 4:
			return uint32(c.irqv())
		}
	}
	return 0
}

// irqv returns the lowest voice with a pending interrupt, or 0x80 if there is
// none.
func (c *Chip) irqv() uint8 {
	for i := 0; i <= c.act; i++ {
		if c.voices[i].control&ctrlIRQ != 0 {
			return uint8(i)
		}
	}
	return 0x80
}
