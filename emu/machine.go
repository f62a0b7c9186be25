package emu

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
	"vgmchips/hw/chips"
	"vgmchips/hw/es5506"
)

// errEnd stops rendering once the fade-out or the length limit is reached.
var errEnd = errors.New("end of rendering")

// A Machine is a set of chips plugged into a mixer, whose output goes to a
// sink. A Machine must be confined to a single goroutine.
type Machine struct {
	sess  *Session
	chips map[string]chip.Device
	types map[string]string
	names []string
	mixer *Mixer
	sink  Sink
	limit uint64 // max number of samples to render, 0: no limit

	buf []int16
}

// ChipInfo describes a running chip.
type ChipInfo struct {
	Name       string
	Type       string
	Channels   int
	SampleRate uint32
}

// NewMachine starts the chips of sess and loads their data.
func NewMachine(sess *Session) (*Machine, error) {
	m := &Machine{
		sess:  sess,
		chips: make(map[string]chip.Device),
		types: make(map[string]string),
		mixer: NewMixer(sess.SampleRate),
		sink:  discard{},
		buf:   make([]int16, frameSamples*2),
	}
	m.mixer.SetMasterVolume(sess.MasterVolume)
	m.mixer.SetFade(sess.Samples(sess.FadeStart), sess.Samples(sess.FadeLength))

	for _, cc := range sess.Chips {
		dev, err := chips.New(cc.Type, chip.Config{
			Clock:    cc.Clock,
			Channels: cc.Channels,
			Flags:    cc.Flags,
		})
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("chip %s: %w", cc.Name, err)
		}
		m.chips[cc.Name] = dev
		m.types[cc.Name] = strings.ToLower(cc.Type)
		m.names = append(m.names, cc.Name)

		for _, rom := range cc.ROMs {
			if err := m.loadROM(cc.Name, rom); err != nil {
				m.Close()
				return nil, err
			}
		}
		m.mixer.Add(cc.Name, dev, cc.Volume)
	}
	return m, nil
}

func (m *Machine) loadROM(name string, rom ROMConfig) error {
	region, offset, expand8 := rom.Region, rom.Offset, rom.Expand8
	if rom.Packed {
		if m.types[name] != "es5506" {
			return fmt.Errorf("chip %s: packed rom offsets are only supported by es5506", name)
		}
		region, offset, expand8 = es5506.DecodeROMOffset(rom.Offset)
	}
	return m.Load(name, region, offset, rom.File, expand8)
}

// Load reads file, relative to the session directory, into a chip region.
func (m *Machine) Load(name string, region int, offset uint32, file string, expand8 bool) error {
	dev, err := m.Chip(name)
	if err != nil {
		return err
	}
	path := m.sess.Path(file)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("chip %s: %w", name, err)
	}
	dev.LoadData(region, offset, data, expand8)
	log.ModEmu.InfoZ("Loaded chip data").
		String("chip", name).
		String("file", path).
		Int("region", region).
		Hex32("offset", offset).
		Int("size", len(data)).
		End()
	return nil
}

// Chip returns the chip with the given name.
func (m *Machine) Chip(name string) (chip.Device, error) {
	dev, ok := m.chips[name]
	if !ok {
		return nil, fmt.Errorf("unknown chip %q", name)
	}
	return dev, nil
}

// Chips describes the machine chips, in session order.
func (m *Machine) Chips() []ChipInfo {
	infos := make([]ChipInfo, 0, len(m.names))
	for _, name := range m.names {
		dev := m.chips[name]
		infos = append(infos, ChipInfo{
			Name:       name,
			Type:       m.types[name],
			Channels:   dev.Channels(),
			SampleRate: dev.SampleRate(),
		})
	}
	return infos
}

func (m *Machine) Mixer() *Mixer { return m.mixer }

func (m *Machine) Session() *Session { return m.sess }

// SetSink sets where rendered samples go. By default they are discarded.
func (m *Machine) SetSink(s Sink) { m.sink = s }

// SetLimit limits the total number of rendered samples, 0 means no limit.
func (m *Machine) SetLimit(samples uint64) { m.limit = samples }

func (m *Machine) Write(name string, addr uint32, val uint8) error {
	dev, err := m.Chip(name)
	if err != nil {
		return err
	}
	dev.Write(addr, val)
	return nil
}

func (m *Machine) Read(name string, addr uint32) (uint8, error) {
	dev, err := m.Chip(name)
	if err != nil {
		return 0, err
	}
	return dev.Read(addr), nil
}

func (m *Machine) Mute(name string, mask uint32) error {
	dev, err := m.Chip(name)
	if err != nil {
		return err
	}
	dev.SetMuteMask(mask)
	return nil
}

func (m *Machine) Reset(name string) error {
	dev, err := m.Chip(name)
	if err != nil {
		return err
	}
	dev.Reset()
	return nil
}

// SetClock changes the master clock of a chip supporting it.
func (m *Machine) SetClock(name string, clock uint32) error {
	dev, err := m.Chip(name)
	if err != nil {
		return err
	}
	cs, ok := dev.(chip.ClockSetter)
	if !ok {
		return fmt.Errorf("chip %s: clock can't be changed", name)
	}
	cs.SetClock(clock)
	return nil
}

// Render renders n samples into the sink. It returns errEnd if the fade-out
// or the length limit ended rendering.
func (m *Machine) Render(n uint64) error {
	for n > 0 {
		if m.done() {
			return errEnd
		}
		count := min(n, frameSamples)
		if m.limit != 0 {
			count = min(count, m.limit-m.mixer.Position())
		}

		buf := m.buf[:count*2]
		m.mixer.Render(buf)
		if err := m.sink.WriteSamples(buf); err != nil {
			return fmt.Errorf("sink: %w", err)
		}
		n -= count
	}
	return nil
}

// Finish renders the remaining part of the fade-out, if any.
func (m *Machine) Finish() error {
	if m.mixer.fadeLen == 0 {
		return nil
	}
	end := m.mixer.fadeStart + m.mixer.fadeLen
	if pos := m.mixer.Position(); pos < end {
		if err := m.Render(end - pos); err != nil && !errors.Is(err, errEnd) {
			return err
		}
	}
	return nil
}

func (m *Machine) done() bool {
	return m.mixer.Faded() || (m.limit != 0 && m.mixer.Position() >= m.limit)
}

// Close stops all chips.
func (m *Machine) Close() {
	for _, name := range m.names {
		m.chips[name].Stop()
	}
	clear(m.chips)
	m.names = nil
}
