package emu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"vgmchips/emu/log"
	"vgmchips/hw/chips"
)

const (
	DefaultSampleRate = 44100
	MaxSampleRate     = 192000
)

// A Session describes a set of chips, the data they are loaded with and the
// script driving them.
type Session struct {
	SampleRate   uint32       `toml:"sample_rate"`
	MasterVolume float64      `toml:"master_volume"`
	FadeStart    float64      `toml:"fade_start,omitempty"`  // seconds
	FadeLength   float64      `toml:"fade_length,omitempty"` // seconds, 0 disables the fade
	Script       string       `toml:"script,omitempty"`
	Chips        []ChipConfig `toml:"chip"`

	// Directory relative paths are resolved against.
	dir string
}

type ChipConfig struct {
	Name     string      `toml:"name"`
	Type     string      `toml:"type"`
	Clock    uint32      `toml:"clock"`
	Channels int         `toml:"channels,omitempty"`
	Flags    uint32      `toml:"flags,omitempty"`
	Volume   float64     `toml:"volume,omitempty"`
	ROMs     []ROMConfig `toml:"rom,omitempty"`
}

// ROMConfig is a file loaded into a chip data region. When Packed is set,
// Offset is a packed ES5506 ROM offset carrying the region and the 8-bit
// expansion flag.
type ROMConfig struct {
	File    string `toml:"file"`
	Region  int    `toml:"region,omitempty"`
	Offset  uint32 `toml:"offset,omitempty"`
	Expand8 bool   `toml:"expand8,omitempty"`
	Packed  bool   `toml:"packed,omitempty"`
}

// DefaultSession returns a session with a single PSG and no script.
func DefaultSession() *Session {
	return &Session{
		SampleRate:   DefaultSampleRate,
		MasterVolume: 1.0,
		Chips: []ChipConfig{
			{Name: "psg", Type: "sn76489", Clock: 3579545, Volume: 1.0},
		},
	}
}

// LoadSession decodes the TOML session file at path, fills defaults and
// checks it.
func LoadSession(path string) (*Session, error) {
	var sess Session
	md, err := toml.DecodeFile(path, &sess)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("Unknown session key").String("key", key.String()).String("file", path).End()
	}

	sess.dir = filepath.Dir(path)
	if err := sess.check(); err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	return &sess, nil
}

// DecodeSession decodes a session from TOML text. Relative paths are resolved
// against dir.
func DecodeSession(text, dir string) (*Session, error) {
	var sess Session
	if _, err := toml.Decode(text, &sess); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	sess.dir = dir
	if err := sess.check(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &sess, nil
}

// SaveSession writes sess as TOML to path.
func SaveSession(path string, sess *Session) error {
	buf, err := toml.Marshal(sess)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}

func (s *Session) check() error {
	if s.SampleRate == 0 {
		s.SampleRate = DefaultSampleRate
	}
	if s.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample rate %d exceeds %d", s.SampleRate, MaxSampleRate)
	}
	if s.MasterVolume == 0 {
		s.MasterVolume = 1.0
	}
	if s.MasterVolume < 0 || s.MasterVolume > 16 {
		return fmt.Errorf("master volume %g out of range [0, 16]", s.MasterVolume)
	}
	if s.FadeStart < 0 || s.FadeLength < 0 {
		return errors.New("negative fade time")
	}
	if len(s.Chips) == 0 {
		return errors.New("no chip")
	}

	names := make(map[string]bool)
	for i := range s.Chips {
		c := &s.Chips[i]
		if _, ok := chips.All[strings.ToLower(c.Type)]; !ok {
			return fmt.Errorf("chip #%d: unsupported type %q", i, c.Type)
		}
		if c.Name == "" {
			c.Name = strings.ToLower(c.Type)
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate chip name %q", c.Name)
		}
		names[c.Name] = true
		if c.Volume == 0 {
			c.Volume = 1.0
		}
		if c.Volume < 0 {
			return fmt.Errorf("chip %s: negative volume", c.Name)
		}
	}

	if s.Script != "" {
		s.Script = s.Path(s.Script)
	}
	return nil
}

// Path resolves p relative to the session directory.
func (s *Session) Path(p string) string {
	if filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

// Samples converts a duration in seconds into a number of output samples.
func (s *Session) Samples(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds * float64(s.SampleRate))
}
