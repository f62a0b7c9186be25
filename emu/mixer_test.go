package emu

import (
	"testing"

	"vgmchips/hw/chip"
)

// testDevice outputs a square wave on its first channel.
type testDevice struct {
	chip.RateNotifier

	rate     uint32
	channels int
	amp      int32
	period   int
	t        int
	muted    bool
}

func (d *testDevice) Name() string { return "test" }

func (d *testDevice) Reset() {
	d.t = 0
	d.Notify(d.rate)
}

func (d *testDevice) Stop() {}

func (d *testDevice) Write(addr uint32, val uint8) {}

func (d *testDevice) Read(addr uint32) uint8 { return 0 }

func (d *testDevice) LoadData(int, uint32, []byte, bool) {}

func (d *testDevice) SetMuteMask(mask uint32) { d.muted = mask&1 != 0 }

func (d *testDevice) SampleRate() uint32 { return d.rate }

func (d *testDevice) Channels() int { return d.channels }

func (d *testDevice) Generate(out [][]int32, n int) {
	for ch := range out {
		clear(out[ch][:n])
	}
	for i := range n {
		v := d.amp
		if (d.t/d.period)&1 != 0 {
			v = -v
		}
		if !d.muted {
			out[0][i] = v
		}
		d.t++
	}
}

func newTestDevice(rate uint32, channels int) *testDevice {
	return &testDevice{rate: rate, channels: channels, amp: 8000, period: 50}
}

func TestMixerVolume(t *testing.T) {
	tests := []struct {
		name   string
		master float64
		start  uint64
		length uint64
		pos    uint64
		want   uint32
	}{
		{"no fade", 1, 0, 0, 1 << 40, 0x10000},
		{"before fade", 1, 100, 1000, 99, 0x10000},
		{"fade start", 1, 100, 1000, 100, 0x10000},
		{"fade middle", 1, 100, 1000, 600, 0x4000},
		{"fade middle half volume", 0.5, 100, 1000, 600, 0x2000},
		{"fade quarter", 1, 0, 1000, 250, 0x9000},
		{"fade end", 1, 100, 1000, 1100, 0},
		{"after fade", 1, 100, 1000, 5000, 0},
		{"master volume", 2, 0, 0, 0, 0x20000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMixer(44100)
			m.SetMasterVolume(tt.master)
			m.SetFade(tt.start, tt.length)
			if got := m.volumeAt(tt.pos); got != tt.want {
				t.Errorf("volumeAt(%d) = %#x, want %#x", tt.pos, got, tt.want)
			}
		})
	}
}

func TestMixerFadeMonotonic(t *testing.T) {
	m := NewMixer(44100)
	m.SetFade(0, 44100)

	prev := m.volumeAt(0)
	for pos := uint64(1); pos <= 44100; pos++ {
		vol := m.volumeAt(pos)
		if vol > prev {
			t.Fatalf("volumeAt(%d) = %#x, greater than previous %#x", pos, vol, prev)
		}
		prev = vol
	}
	if prev != 0 {
		t.Errorf("volume after fade = %#x, want 0", prev)
	}
}

func TestMixerSilence(t *testing.T) {
	m := NewMixer(44100)
	out := make([]int16, 2*3000)
	for i := range out {
		out[i] = 1
	}
	m.Render(out)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %d, want 0", i, v)
		}
	}
	if got := m.Position(); got != 3000 {
		t.Errorf("Position() = %d, want 3000", got)
	}
}

func nonZero(samples []int16) bool {
	for _, v := range samples {
		if v != 0 {
			return true
		}
	}
	return false
}

func split(frames []int16) (left, right []int16) {
	for i := 0; i < len(frames); i += 2 {
		left = append(left, frames[i])
		right = append(right, frames[i+1])
	}
	return left, right
}

func TestMixerStereoRouting(t *testing.T) {
	m := NewMixer(44100)
	m.Add("stereo", newTestDevice(44100, 2), 1)

	out := make([]int16, 2*2048)
	m.Render(out)

	left, right := split(out)
	if !nonZero(left) {
		t.Errorf("left channel is silent")
	}
	if nonZero(right) {
		t.Errorf("right channel should be silent")
	}
}

func TestMixerMono(t *testing.T) {
	m := NewMixer(48000)
	m.Add("mono", newTestDevice(223721, 1), 0.5)

	out := make([]int16, 2*2500)
	m.Render(out)

	left, right := split(out)
	if !nonZero(left) {
		t.Fatalf("mono output is silent")
	}
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("frame %d: left %d != right %d", i, left[i], right[i])
		}
	}
}

func TestMixerUpsampling(t *testing.T) {
	m := NewMixer(44100)
	m.Add("slow", newTestDevice(4000, 2), 1)

	out := make([]int16, 2*4410)
	m.Render(out)

	left, _ := split(out)
	if !nonZero(left) {
		t.Errorf("left channel is silent")
	}
}

func TestMixerRateChange(t *testing.T) {
	dev := newTestDevice(44100, 1)
	m := NewMixer(44100)
	m.Add("dev", dev, 1)
	in := m.inputs[0]

	dev.Notify(0)
	if !in.mute {
		t.Fatalf("input with a zero rate should be muted")
	}
	out := make([]int16, 2*1000)
	m.Render(out)
	if nonZero(out) {
		t.Errorf("muted input produced sound")
	}

	dev.Notify(22050)
	if in.mute || in.rate != 22050 {
		t.Fatalf("input: mute=%t rate=%d, want mute=false rate=22050", in.mute, in.rate)
	}
	m.Render(out)
	if !nonZero(out) {
		t.Errorf("input is silent after rate change")
	}
}

func TestMixerFadeOut(t *testing.T) {
	m := NewMixer(44100)
	m.Add("dev", newTestDevice(44100, 1), 1)
	m.SetFade(1000, 256)

	out := make([]int16, 2*1500)
	m.Render(out)

	if !m.Faded() {
		t.Errorf("Faded() = false after the fade end")
	}
	if !nonZero(out[:2*1000]) {
		t.Errorf("output silent before the fade")
	}
	if nonZero(out[2*1256:]) {
		t.Errorf("output not silent after the fade")
	}
}

func BenchmarkMixerRender(b *testing.B) {
	m := NewMixer(44100)
	m.Add("a", newTestDevice(223721, 1), 1)
	m.Add("b", newTestDevice(31250, 2), 1)
	out := make([]int16, 2*frameSamples)

	for b.Loop() {
		m.Render(out)
	}
}
