package es5506

import "vgmchips/hw/chip"

func (c *Chip) Generate(out [][]int32, n int) {
	for ch := range c.channels {
		clear(out[ch][:n])
	}

	for i := 0; i <= c.act; i++ {
		v := &c.voices[i]
		if v.stopped() || v.muted {
			continue
		}
		// Voices on an unloaded region are silent and frozen.
		region := &c.regions[v.bank()]
		if region.Len() == 0 {
			continue
		}
		c.generateVoice(v, region, out, n)
	}
}

func (c *Chip) generateVoice(v *voice, region *chip.Region[uint16], out [][]int32, n int) {
	accum := v.accum & v.accumMask
	addrMask := v.accumMask >> 11

	ch := int(v.channel()) % c.channels
	rch := ch + 1
	if rch == c.channels {
		rch = ch
	}

	for s := range n {
		if v.crossed(accum) {
			accum = v.loopEnd(accum)
			if v.stopped() {
				break
			}
		}

		addr := (accum >> 11) & addrMask
		s1 := c.fetch(v, region, addr)
		s2 := c.fetch(v, region, (addr+1)&addrMask)

		frac := int32(accum & 0x7FF)
		sample := (s1*(0x800-frac) + s2*frac) >> 11
		sample = v.filter(sample)

		lgain := int64(c.lut.volume[v.lvol>>4])
		rgain := int64(c.lut.volume[v.rvol>>4])
		out[ch][s] += int32((int64(sample) * lgain) >> 11)
		out[rch][s] += int32((int64(sample) * rgain) >> 11)

		if v.reverse() {
			accum -= v.freqcount
		} else {
			accum += v.freqcount
		}
		accum &= v.accumMask

		v.envelope()
	}

	v.accum = accum
}

// fetch returns the sample at addr, expanding compressed samples.
func (c *Chip) fetch(v *voice, region *chip.Region[uint16], addr uint32) int32 {
	w := region.At(addr)
	if v.control&ctrlCMPD != 0 {
		return int32(c.lut.ulaw[w>>8])
	}
	return int32(int16(w))
}
