package emu

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var updateGolden = flag.Bool("update", false, "update golden files")

type memSink struct {
	frames []int16
	closed bool
}

func (s *memSink) WriteSamples(frames []int16) error {
	s.frames = append(s.frames, frames...)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

// writePROM writes a K005289 PROM holding a ramp in every waveform.
func writePROM(t *testing.T, dir string) {
	t.Helper()
	prom := make([]byte, 0x200)
	for i := range prom {
		prom[i] = byte(i & 0x0F)
	}
	if err := os.WriteFile(filepath.Join(dir, "prom.bin"), prom, 0644); err != nil {
		t.Fatal(err)
	}
}

const machineSession = `
[[chip]]
name = "wave"
type = "k005289"
clock = 3579545

[[chip.rom]]
file = "prom.bin"

[[chip]]
name = "adpcm"
type = "msm5205"
clock = 384000
`

func newTestMachine(t *testing.T, text string) (*Machine, *memSink) {
	t.Helper()
	dir := t.TempDir()
	writePROM(t, dir)

	sess, err := DecodeSession(text, dir)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMachine(sess)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)

	sink := &memSink{}
	m.SetSink(sink)
	return m, sink
}

func TestMachineChips(t *testing.T) {
	m, _ := newTestMachine(t, machineSession)

	want := []ChipInfo{
		{Name: "wave", Type: "k005289", Channels: 1, SampleRate: 3579545 / 16},
		{Name: "adpcm", Type: "msm5205", Channels: 2, SampleRate: 4000},
	}
	if diff := cmp.Diff(want, m.Chips()); diff != "" {
		t.Errorf("Chips() mismatch (-want +got):\n%s", diff)
	}
}

const waveScript = `
write("wave", 0x0000, 0x0F)
write("wave", 0x2100, 0)
write("wave", 0x4000, 0)
write("adpcm", 1, 0x60)
assert(read("adpcm", 0) == 0x60)
log("wave started")
wait(seconds(0.05))
`

func TestMachineScript(t *testing.T) {
	m, sink := newTestMachine(t, machineSession)

	if err := m.RunString(context.Background(), waveScript); err != nil {
		t.Fatal(err)
	}

	if got := m.Mixer().Position(); got != 2205 {
		t.Errorf("Position() = %d, want 2205", got)
	}
	if got := len(sink.frames); got != 2*2205 {
		t.Errorf("sink got %d samples, want %d", got, 2*2205)
	}
	if !nonZero(sink.frames) {
		t.Errorf("script rendered silence")
	}
}

func TestMachineScriptMute(t *testing.T) {
	m, sink := newTestMachine(t, machineSession)

	src := strings.Replace(waveScript, "log(", "mute(\"wave\", 3)\nmute(\"adpcm\", 1)\nlog(", 1)
	if err := m.RunString(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	if nonZero(sink.frames) {
		t.Errorf("muted chip produced sound")
	}
}

func TestMachineScriptClock(t *testing.T) {
	m, _ := newTestMachine(t, machineSession)

	if err := m.RunString(context.Background(), `clock("adpcm", 768000)`); err != nil {
		t.Fatal(err)
	}
	dev, err := m.Chip("adpcm")
	if err != nil {
		t.Fatal(err)
	}
	if got := dev.SampleRate(); got != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", got)
	}
	if got := m.Mixer().inputs[1].rate; got != 8000 {
		t.Errorf("mixer input rate = %d, want 8000", got)
	}
}

func TestMachineScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown chip", `write("nope", 0, 0)`, "unknown chip"},
		{"fixed clock", `clock("wave", 1000)`, "clock can't be changed"},
		{"negative wait", `wait(-1)`, "negative sample count"},
		{"missing file", `load("wave", 0, 0, "missing.bin")`, "missing.bin"},
		{"syntax", `write(`, "script"},
		{"runtime", `error("boom")`, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, machineSession)
			err := m.RunString(context.Background(), tt.src)
			if err == nil {
				t.Fatalf("RunString succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestMachineFadeEndsScript(t *testing.T) {
	dir := t.TempDir()
	writePROM(t, dir)
	script := "while true do wait(100) end\n"
	if err := os.WriteFile(filepath.Join(dir, "loop.lua"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	sess, err := DecodeSession("fade_length = 0.01\nscript = \"loop.lua\"\n"+machineSession, dir)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMachine(sess)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if !m.Mixer().Faded() {
		t.Errorf("Faded() = false")
	}
	if got := m.Mixer().Position(); got != 500 {
		t.Errorf("Position() = %d, want 500", got)
	}
}

func TestMachineFinishRendersFade(t *testing.T) {
	m, sink := newTestMachine(t, "fade_start = 0.01\nfade_length = 0.01\n"+machineSession)

	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := m.Mixer().Position(); got != 882 {
		t.Errorf("Position() = %d, want 882", got)
	}
	if got := len(sink.frames); got != 2*882 {
		t.Errorf("sink got %d samples, want %d", got, 2*882)
	}
}

func TestMachineLimit(t *testing.T) {
	m, sink := newTestMachine(t, machineSession)
	m.SetLimit(300)

	if err := m.RunString(context.Background(), "wait(1000)\nwait(1000)"); err != nil {
		t.Fatal(err)
	}
	if got := len(sink.frames); got != 600 {
		t.Errorf("sink got %d samples, want 600", got)
	}
}

func TestMachineCancel(t *testing.T) {
	m, _ := newTestMachine(t, machineSession)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.RunString(ctx, "while true do end")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunString() = %v, want %v", err, context.Canceled)
	}
}

func TestMachineROM(t *testing.T) {
	t.Run("packed offset on es5506", func(t *testing.T) {
		m, _ := newTestMachine(t, `
[[chip]]
type = "es5506"
clock = 16000000

[[chip.rom]]
file = "prom.bin"
offset = 0x90000010
packed = true
`)
		if _, err := m.Chip("es5506"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("packed offset on k005289", func(t *testing.T) {
		dir := t.TempDir()
		writePROM(t, dir)
		sess, err := DecodeSession("[[chip]]\ntype = \"k005289\"\nclock = 1000000\n[[chip.rom]]\nfile = \"prom.bin\"\npacked = true\n", dir)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewMachine(sess); err == nil || !strings.Contains(err.Error(), "packed") {
			t.Errorf("NewMachine() error = %v, want packed offset error", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		sess, err := DecodeSession("[[chip]]\ntype = \"k005289\"\nclock = 1000000\n[[chip.rom]]\nfile = \"nope.bin\"\n", t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewMachine(sess); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("NewMachine() error = %v, want %v", err, os.ErrNotExist)
		}
	})
}

func renderHash(t *testing.T) string {
	t.Helper()
	m, sink := newTestMachine(t, "master_volume = 0.8\nfade_start = 0.05\nfade_length = 0.05\n"+machineSession)

	src := `
write("wave", 0x0000, 0x2F)
write("wave", 0x1000, 0x48)
write("wave", 0x2080, 0)
write("wave", 0x3200, 0)
write("wave", 0x4000, 0)
write("wave", 0x5000, 0)
write("adpcm", 1, 0x40)
for i = 0, 6 do
	write("adpcm", 0, (i * 5) % 16)
	wait(20)
end
`
	if err := m.RunString(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	if err := m.Finish(); err != nil {
		t.Fatal(err)
	}

	h := sha256.New()
	binary.Write(h, binary.LittleEndian, sink.frames)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func TestRenderDeterministic(t *testing.T) {
	if a, b := renderHash(t), renderHash(t); a != b {
		t.Errorf("two renders differ: %s != %s", a, b)
	}
}

func TestRenderGolden(t *testing.T) {
	const path = "testdata/render.golden"

	got := renderHash(t)
	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(got+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		t.Skipf("%s not found, run with -update to create it", path)
	}
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(want)) != got {
		t.Errorf("render hash = %s, want %s", got, want)
	}
}
