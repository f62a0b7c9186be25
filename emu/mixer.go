package emu

import (
	"math"

	"github.com/arl/blip"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
)

const (
	// Max number of output samples rendered per blip frame.
	frameSamples = 1024
	blipSize     = 4096

	// Max output rate / chip rate ratio, above which the blip factor
	// overflows.
	maxUpsampling = 4096
)

// A Mixer resamples the output of several chips to a common rate with
// band-limited synthesis, sums them and applies master volume and fade-out.
type Mixer struct {
	inputs []*mixerInput
	rate   uint32

	master    uint32 // 16.16
	fadeStart uint64 // in samples
	fadeLen   uint64 // in samples, 0: no fade
	pos       uint64 // number of samples rendered so far

	accl, accr []int32
	tmp        []int16
}

type mixerInput struct {
	name  string
	dev   chip.Device
	gain  int64 // 8.8
	left  *blip.Buffer
	right *blip.Buffer
	prevl int32
	prevr int32
	rate  uint32
	mute  bool // rate unusable

	scratch [][]int32
}

func NewMixer(sampleRate uint32) *Mixer {
	return &Mixer{
		rate:   sampleRate,
		master: 0x10000,
		accl:   make([]int32, frameSamples),
		accr:   make([]int32, frameSamples),
		tmp:    make([]int16, frameSamples),
	}
}

func (m *Mixer) SampleRate() uint32 { return m.rate }

// SetMasterVolume sets the master volume, 1.0 being unity gain.
func (m *Mixer) SetMasterVolume(vol float64) {
	m.master = uint32(math.Round(vol * 0x10000))
}

// SetFade programs a fade-out of length samples, starting at sample start.
// A zero length disables the fade.
func (m *Mixer) SetFade(start, length uint64) {
	m.fadeStart = start
	m.fadeLen = length
}

// Position returns the number of samples rendered so far.
func (m *Mixer) Position() uint64 { return m.pos }

// Faded reports whether the fade-out is over.
func (m *Mixer) Faded() bool {
	return m.fadeLen != 0 && m.pos >= m.fadeStart+m.fadeLen
}

// Add plugs a device into the mixer. gain scales the device output, 1.0
// being unity. The device rate change callback is taken over by the mixer.
func (m *Mixer) Add(name string, dev chip.Device, gain float64) {
	in := &mixerInput{
		name:    name,
		dev:     dev,
		gain:    int64(math.Round(gain * 0x100)),
		left:    blip.NewBuffer(blipSize),
		right:   blip.NewBuffer(blipSize),
		scratch: make([][]int32, dev.Channels()),
	}
	in.setRate(dev.SampleRate(), m.rate)
	dev.SetRateChangeFunc(func(rate uint32) {
		in.setRate(rate, m.rate)
	})
	m.inputs = append(m.inputs, in)
}

func (in *mixerInput) setRate(rate, outRate uint32) {
	in.rate = rate
	in.mute = rate == 0 ||
		uint64(rate)*maxUpsampling <= uint64(outRate) ||
		uint64(rate) >= uint64(outRate)*blip.MaxRatio
	if in.mute {
		log.ModMixer.WarnZ("Unusable chip sample rate, chip muted").
			String("chip", in.name).
			Uint32("rate", rate).
			Uint32("output", outRate).
			End()
		return
	}

	in.left.SetRates(float64(rate), float64(outRate))
	in.right.SetRates(float64(rate), float64(outRate))
	log.ModMixer.DebugZ("Chip rate changed").
		String("chip", in.name).
		Uint32("rate", rate).
		End()
}

// Render fills out with len(out)/2 stereo frames, interleaved left first.
func (m *Mixer) Render(out []int16) {
	n := len(out) / 2
	for off := 0; off < n; {
		count := min(frameSamples, n-off)
		m.renderFrame(out[off*2:(off+count)*2], count)
		off += count
	}
}

func (m *Mixer) renderFrame(out []int16, count int) {
	accl := m.accl[:count]
	accr := m.accr[:count]
	clear(accl)
	clear(accr)

	for _, in := range m.inputs {
		if in.mute {
			continue
		}
		in.run(count)
		in.read(in.left, accl, m.tmp)
		in.read(in.right, accr, m.tmp)
	}

	for i := range count {
		vol := int64(m.volumeAt(m.pos))
		out[i*2] = clamp16((int64(accl[i]) * vol) >> 16)
		out[i*2+1] = clamp16((int64(accr[i]) * vol) >> 16)
		m.pos++
	}
}

// volumeAt returns the 16.16 volume at sample pos: master volume scaled by
// the squared linear fade.
func (m *Mixer) volumeAt(pos uint64) uint32 {
	vol := m.master
	if m.fadeLen == 0 || pos < m.fadeStart {
		return vol
	}

	t := pos - m.fadeStart
	if t >= m.fadeLen {
		return 0
	}
	fade := 0x10000 - t*0x10000/m.fadeLen
	fade *= fade
	return uint32((fade * uint64(vol)) >> 32)
}

// run makes at least count samples available in both blip buffers.
func (in *mixerInput) run(count int) {
	need := count - in.left.SamplesAvailable()
	if need <= 0 {
		return
	}

	clocks := in.left.ClocksNeeded(need)
	if clocks > 0 {
		in.generate(clocks)
	}
	in.left.EndFrame(clocks)
	in.right.EndFrame(clocks)
}

func (in *mixerInput) generate(n int) {
	for ch := range in.scratch {
		if cap(in.scratch[ch]) < n {
			in.scratch[ch] = make([]int32, n)
		}
		in.scratch[ch] = in.scratch[ch][:n]
	}
	in.dev.Generate(in.scratch, n)

	mono := len(in.scratch) == 1
	for i := range n {
		var l, r int64
		if mono {
			l = int64(in.scratch[0][i])
			r = l
		} else {
			for ch := range in.scratch {
				if ch&1 == 0 {
					l += int64(in.scratch[ch][i])
				} else {
					r += int64(in.scratch[ch][i])
				}
			}
		}

		vl := int32(clamp16((l * in.gain) >> 8))
		vr := int32(clamp16((r * in.gain) >> 8))
		if d := vl - in.prevl; d != 0 {
			in.left.AddDelta(uint64(i), d)
			in.prevl = vl
		}
		if d := vr - in.prevr; d != 0 {
			in.right.AddDelta(uint64(i), d)
			in.prevr = vr
		}
	}
}

func (in *mixerInput) read(buf *blip.Buffer, acc []int32, tmp []int16) {
	n := buf.ReadSamples(tmp, len(acc), blip.Mono)
	for i := range n {
		acc[i] += int32(tmp[i])
	}
}

func clamp16(v int64) int16 {
	switch {
	case v < math.MinInt16:
		return math.MinInt16
	case v > math.MaxInt16:
		return math.MaxInt16
	}
	return int16(v)
}
