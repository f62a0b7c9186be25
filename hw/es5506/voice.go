package es5506

import "vgmchips/hw/hwio"

// Voice control register bits.
const (
	ctrlStop0 = 0x0001
	ctrlStop1 = 0x0002
	ctrlLPE   = 0x0008
	ctrlBLE   = 0x0010
	ctrlIRQE  = 0x0020
	ctrlDIR   = 0x0040
	ctrlIRQ   = 0x0080
	ctrlLP3   = 0x0100
	ctrlLP4   = 0x0200
	ctrlCA    = 0x1C00
	ctrlCMPD  = 0x2000
	ctrlBS    = 0xC000

	ctrlStopMask = ctrlStop0 | ctrlStop1
	ctrlLoopMask = ctrlLPE | ctrlBLE
	ctrlLPMask   = ctrlLP3 | ctrlLP4
)

//go:generate go tool stringer -type=LoopMode -trimprefix=Loop

// LoopMode is the action taken when a voice crosses its loop boundary.
type LoopMode uint8

const (
	LoopStop       LoopMode = 0
	LoopForward    LoopMode = ctrlLPE >> 3
	LoopBounce     LoopMode = ctrlBLE >> 3
	LoopBounceWrap LoopMode = (ctrlLPE | ctrlBLE) >> 3
)

//go:generate go tool stringer -type=FilterMode -trimprefix=Filter

// FilterMode selects the second filter stage.
type FilterMode uint8

const (
	FilterLP2  FilterMode = 0
	FilterLP3  FilterMode = ctrlLP3 >> 8
	FilterLP4  FilterMode = ctrlLP4 >> 8
	FilterLP34 FilterMode = (ctrlLP3 | ctrlLP4) >> 8
)

type voice struct {
	control   uint32
	freqcount uint32
	start     uint32
	end       uint32
	accum     uint32
	accumMask uint32

	lvol   uint32
	rvol   uint32
	lvramp int8
	rvramp int8
	ecount uint32

	k1     uint32
	k2     uint32
	k1ramp int8
	k2ramp int8

	// filter history
	o1n1 int32
	o2n1 int32
	o2n2 int32
	o3n1 int32
	o3n2 int32
	o4n1 int32

	filtcount uint8
	muted     bool
}

func (v *voice) reset(accumMask uint32) {
	muted := v.muted
	*v = voice{
		control:   ctrlStopMask,
		lvol:      0xFFFF,
		rvol:      0xFFFF,
		accumMask: accumMask,
		muted:     muted,
	}
}

func (v *voice) stopped() bool { return v.control&ctrlStopMask != 0 }

func (v *voice) reverse() bool { return v.control&ctrlDIR != 0 }

func (v *voice) loopMode() LoopMode { return LoopMode(v.control&ctrlLoopMask) >> 3 }

func (v *voice) filterMode() FilterMode { return FilterMode(v.control & ctrlLPMask >> 8) }

func (v *voice) channel() uint32 { return (v.control & ctrlCA) >> 10 }

func (v *voice) bank() uint32 { return (v.control & ctrlBS) >> 14 }

// crossed reports whether accum is beyond the loop boundary in the running
// direction.
func (v *voice) crossed(accum uint32) bool {
	if v.reverse() {
		return accum < v.start
	}
	return accum > v.end
}

// loopEnd applies the loop policy to accum, which has crossed the loop
// boundary, and returns the new accumulator.
func (v *voice) loopEnd(accum uint32) uint32 {
	if v.control&ctrlIRQE != 0 {
		v.control |= ctrlIRQ
	}

	start, end := v.start, v.end
	switch v.loopMode() {
	case LoopStop:
		v.control |= ctrlStop0

	case LoopForward:
		if end == start {
			accum = start
			break
		}
		if v.reverse() {
			accum = end - (start-accum)%(end-start)
		} else {
			accum = start + (accum-end)%(end-start)
		}

	case LoopBounce:
		v.control ^= ctrlDIR
		if v.control&ctrlDIR != 0 {
			// was running forward
			accum = end - (accum - end)
		} else {
			accum = start + (start - accum)
		}

	case LoopBounceWrap:
		accum = start + (end - accum)
	}
	return accum & v.accumMask
}

// envelope advances the volume and filter ramps by one sample.
func (v *voice) envelope() {
	if v.ecount == 0 {
		return
	}
	v.ecount--

	if v.lvramp != 0 {
		v.lvol = uint32(hwio.Clamp16(int32(v.lvol) + int32(v.lvramp)))
	}
	if v.rvramp != 0 {
		v.rvol = uint32(hwio.Clamp16(int32(v.rvol) + int32(v.rvramp)))
	}

	// Negative filter ramps only apply every 8 samples.
	tick := v.filtcount&7 == 0
	if v.k1ramp > 0 || (v.k1ramp < 0 && tick) {
		v.k1 = uint32(hwio.Clamp16(int32(v.k1) + int32(v.k1ramp)))
	}
	if v.k2ramp > 0 || (v.k2ramp < 0 && tick) {
		v.k2 = uint32(hwio.Clamp16(int32(v.k2) + int32(v.k2ramp)))
	}
	v.filtcount++
}
