package es5506

import (
	"vgmchips/hw/hwio"
	"vgmchips/hw/snapshot"
)

func (c *Chip) State() *snapshot.ES5506 {
	state := snapshot.ES5506{
		Version:    snapshot.Version,
		Page:       c.page,
		WriteLatch: c.wlatch.Value(),
		ReadLatch:  c.rlatch.Value(),
	}
	for i := range c.voices {
		v := &c.voices[i]
		if v.muted {
			hwio.SetBit32(&state.MuteMask, uint(i))
		}
		state.Voices[i] = snapshot.ES5506Voice{
			Control:   v.control,
			FreqCount: v.freqcount,
			Start:     v.start,
			End:       v.end,
			Accum:     v.accum,
			AccumMask: v.accumMask,
			LVol:      v.lvol,
			RVol:      v.rvol,
			LVRamp:    v.lvramp,
			RVRamp:    v.rvramp,
			ECount:    v.ecount,
			K1:        v.k1,
			K2:        v.k2,
			K1Ramp:    v.k1ramp,
			K2Ramp:    v.k2ramp,
			O1N1:      v.o1n1,
			O2N1:      v.o2n1,
			O2N2:      v.o2n2,
			O3N1:      v.o3n1,
			O3N2:      v.o3n2,
			O4N1:      v.o4n1,
			FiltCount: v.filtcount,
		}
	}
	return &state
}

// SetState restores a state produced by State. Sample data is left untouched.
func (c *Chip) SetState(state *snapshot.ES5506) {
	c.page = state.Page
	c.wlatch.Restore(state.WriteLatch)
	c.rlatch.Restore(state.ReadLatch)

	for i := range c.voices {
		s := &state.Voices[i]
		c.voices[i] = voice{
			control:   s.Control,
			freqcount: s.FreqCount,
			start:     s.Start,
			end:       s.End,
			accum:     s.Accum,
			accumMask: s.AccumMask,
			lvol:      s.LVol,
			rvol:      s.RVol,
			lvramp:    s.LVRamp,
			rvramp:    s.RVRamp,
			ecount:    s.ECount,
			k1:        s.K1,
			k2:        s.K2,
			k1ramp:    s.K1Ramp,
			k2ramp:    s.K2Ramp,
			o1n1:      s.O1N1,
			o2n1:      s.O2N1,
			o2n2:      s.O2N2,
			o3n1:      s.O3N1,
			o3n2:      s.O3N2,
			o4n1:      s.O4N1,
			filtcount: s.FiltCount,
			muted:     hwio.GetBit32(state.MuteMask, uint(i)),
		}
	}
}
