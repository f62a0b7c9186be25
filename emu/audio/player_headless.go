//go:build headless

package audio

import "errors"

// Player is not available in headless builds.
type Player struct{}

func NewPlayer(sampleRate uint32) (*Player, error) {
	return nil, errors.New("audio playback is not available in headless builds")
}

func (p *Player) SetPause(pause bool) {}

func (p *Player) Paused() bool { return false }

func (p *Player) WriteSamples([]int16) error { return nil }

func (p *Player) Close() error { return nil }
