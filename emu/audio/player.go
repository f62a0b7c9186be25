//go:build !headless

// Package audio plays rendered samples on the audio device.
package audio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"vgmchips/emu"
	"vgmchips/emu/log"
)

// Player is an emu.Sink sending samples to the audio device. WriteSamples blocks
// until the device has consumed the previous samples.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter
	buf    []byte

	paused atomic.Bool
	mu     sync.Mutex // protects player
}

// NewPlayer opens the audio device. Only one Player can be opened per process.
func NewPlayer(sampleRate uint32) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio device: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	p := &Player{ctx: ctx, pr: pr, pw: pw}
	p.player = ctx.NewPlayer(pr)
	p.player.Play()
	log.ModEmu.InfoZ("Audio enabled").Uint32("rate", sampleRate).End()
	return p, nil
}

func (p *Player) WriteSamples(frames []int16) error {
	p.buf = emu.AppendPCM(p.buf[:0], frames)
	_, err := p.pw.Write(p.buf)
	return err
}

// SetPause pauses or resumes playback. A paused player blocks the renderer.
func (p *Player) SetPause(pause bool) {
	if !p.paused.CompareAndSwap(!pause, pause) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if pause {
		p.player.Pause()
	} else {
		p.player.Play()
	}
}

func (p *Player) Paused() bool { return p.paused.Load() }

// Close waits for the queued samples to be played and closes the player.
func (p *Player) Close() error {
	p.pw.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.paused.Load() && p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return p.player.Close()
}
